package controllers

import (
	"net/http"

	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/services"
	"github.com/bizlink/alliance/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// OutreachController handles the public pre-membership surfaces: waitlist,
// free registration and integration status
type OutreachController struct {
	waitlistService     services.WaitlistService
	registrationService services.RegistrationService
	integrationService  services.IntegrationService
	logger              zerolog.Logger
}

// NewOutreachController creates a new OutreachController
func NewOutreachController(
	waitlistService services.WaitlistService,
	registrationService services.RegistrationService,
	integrationService services.IntegrationService,
	logger zerolog.Logger,
) *OutreachController {
	return &OutreachController{
		waitlistService:     waitlistService,
		registrationService: registrationService,
		integrationService:  integrationService,
		logger:              logger,
	}
}

// JoinWaitlist adds an email to the waitlist
// @Summary Join the waitlist
// @Tags outreach
// @Accept json
// @Produce json
// @Param request body dto.WaitlistRequest true "Email"
// @Success 201 {object} dto.APIResponse{data=dto.WaitlistResponse} "You're on the list!"
// @Success 200 {object} dto.APIResponse{data=dto.WaitlistResponse} "Already on the list!"
// @Failure 400 {object} dto.ErrorResponse "Invalid email"
// @Router /waitlist [post]
func (c *OutreachController) JoinWaitlist(ctx *gin.Context) {
	var req dto.WaitlistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.waitlistService.Join(ctx.Request.Context(), req.Email)
	if err != nil {
		c.logger.Error().Err(err).Msg("Waitlist signup failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	if resp.AlreadyListed {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, services.WaitlistAlreadyMessage))
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, services.WaitlistJoinedMessage))
}

// RegisterFree forwards the free registration form to the lead webhook
// @Summary Free registration
// @Description Flat form fields; utm_* query parameters fill fields the form leaves empty
// @Tags outreach
// @Accept json
// @Produce json
// @Param request body map[string]string true "Form fields"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid fields"
// @Failure 502 {object} dto.ErrorResponse "Webhook rejected the submission"
// @Failure 503 {object} dto.ErrorResponse "Webhook not configured"
// @Router /registrations/free [post]
func (c *OutreachController) RegisterFree(ctx *gin.Context) {
	var form map[string]string
	if err := ctx.ShouldBindJSON(&form); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.registrationService.Submit(ctx.Request.Context(), form, ctx.Request.URL.Query())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Registration received"))
}

// Integrations reports how each embedded integration renders
// @Summary Integration status
// @Tags outreach
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.IntegrationStatus}
// @Router /integrations [get]
func (c *OutreachController) Integrations(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.integrationService.Status(), ""))
}
