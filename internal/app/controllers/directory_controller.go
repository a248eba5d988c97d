package controllers

import (
	"net/http"

	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/services"
	"github.com/bizlink/alliance/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DirectoryController handles the member directory
type DirectoryController struct {
	directoryService services.DirectoryService
	logger           zerolog.Logger
}

// NewDirectoryController creates a new DirectoryController
func NewDirectoryController(directoryService services.DirectoryService, logger zerolog.Logger) *DirectoryController {
	return &DirectoryController{
		directoryService: directoryService,
		logger:           logger,
	}
}

// Search lists member businesses
// @Summary Search the directory
// @Description Contact details are omitted for members the caller may not contact
// @Tags directory
// @Produce json
// @Param search query string false "Text search over business name, industry and owner"
// @Param industry query string false "Exact industry, or all"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size (every match when omitted)"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedData{items=[]dto.DirectoryEntry}}
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Router /directory [get]
func (c *DirectoryController) Search(ctx *gin.Context) {
	var q dto.DirectoryQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	page, err := c.directoryService.Search(ctx.Request.Context(), middleware.GetViewer(ctx), &q)
	if err != nil {
		c.logger.Error().Err(err).Msg("Directory search failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(page, ""))
}

// Industries lists the industry filter options
// @Summary Directory industries
// @Tags directory
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /directory/industries [get]
func (c *DirectoryController) Industries(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.directoryService.Industries(), ""))
}

// Connect opens a conversation with a member
// @Summary Connect with a member
// @Tags directory
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConversationResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Upgrade required"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /directory/{id}/connect [post]
func (c *DirectoryController) Connect(ctx *gin.Context) {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	conv, err := c.directoryService.Connect(ctx.Request.Context(), middleware.GetViewer(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conv, ""))
}
