package controllers

import (
	"net/http"

	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/services"
	"github.com/bizlink/alliance/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MemberController handles the caller's own profile and membership
type MemberController struct {
	profileService    services.ProfileService
	membershipService services.MembershipService
	logger            zerolog.Logger
}

// NewMemberController creates a new MemberController
func NewMemberController(profileService services.ProfileService, membershipService services.MembershipService, logger zerolog.Logger) *MemberController {
	return &MemberController{
		profileService:    profileService,
		membershipService: membershipService,
		logger:            logger,
	}
}

// GetProfile returns the caller's profile
// @Summary Get my profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Profile}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /profile/me [get]
func (c *MemberController) GetProfile(ctx *gin.Context) {
	profile, err := c.profileService.GetMine(ctx.Request.Context(), middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, ""))
}

// UpdateProfile saves the caller's profile
// @Summary Update my profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=models.Profile}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /profile/me [put]
func (c *MemberController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	profile, err := c.profileService.UpdateMine(ctx.Request.Context(), middleware.GetViewer(ctx), &req)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to update profile")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile, "Profile updated"))
}

// ChangeMembership switches between free and premium
// @Summary Change membership
// @Tags membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpgradeRequest true "Target tier"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid tier"
// @Router /membership/upgrade [post]
func (c *MemberController) ChangeMembership(ctx *gin.Context) {
	var req dto.UpgradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.membershipService.ChangeTier(ctx.Request.Context(), middleware.GetViewer(ctx), req.MembershipType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Membership updated"))
}

// Elevate grants board access to the caller when enabled
// @Summary Self-service board elevation
// @Description Disabled unless membership.allow_self_elevation is set
// @Tags membership
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MembershipResponse}
// @Failure 403 {object} dto.ErrorResponse "Disabled"
// @Router /membership/elevate [post]
func (c *MemberController) Elevate(ctx *gin.Context) {
	resp, err := c.membershipService.Elevate(ctx.Request.Context(), middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Board access granted"))
}
