package controllers

import (
	"net/http"

	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/services"
	"github.com/bizlink/alliance/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminController handles the board-only console
type AdminController struct {
	adminService services.AdminService
	eventService services.EventService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, eventService services.EventService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		eventService: eventService,
		logger:       logger,
	}
}

// Overview returns the console counters
// @Summary Admin overview
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminOverview}
// @Failure 403 {object} dto.ErrorResponse "Board only"
// @Router /admin/overview [get]
func (c *AdminController) Overview(ctx *gin.Context) {
	overview, err := c.adminService.Overview(ctx.Request.Context(), middleware.GetViewer(ctx))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load admin overview")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(overview, ""))
}

// ListMembers returns the roster
// @Summary List roster
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Member}
// @Router /admin/members [get]
func (c *AdminController) ListMembers(ctx *gin.Context) {
	members, err := c.adminService.ListMembers(ctx.Request.Context(), middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(members, ""))
}

// AddMember adds a roster entry
// @Summary Add member
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddMemberRequest true "Member"
// @Success 201 {object} dto.APIResponse{data=models.Member}
// @Failure 409 {object} dto.ErrorResponse "Email already on the roster"
// @Router /admin/members [post]
func (c *AdminController) AddMember(ctx *gin.Context) {
	var req dto.AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	member, err := c.adminService.AddMember(ctx.Request.Context(), middleware.GetViewer(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(member, "Member added"))
}

// MemberAction approves, suspends or removes a member
// @Summary Roster action
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param request body dto.MemberActionRequest true "Action"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /admin/members/{id}/action [post]
func (c *AdminController) MemberAction(ctx *gin.Context) {
	var req dto.MemberActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	if err := c.adminService.MemberAction(ctx.Request.Context(), middleware.GetViewer(ctx), ctx.Param("id"), req.Action); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Member updated"))
}

// ListEvents lists every internal event
// @Summary List internal events
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse}
// @Router /admin/events [get]
func (c *AdminController) ListEvents(ctx *gin.Context) {
	events, err := c.eventService.ListStored(ctx.Request.Context(), middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events, ""))
}

// DeleteEvent removes any internal event
// @Summary Delete event
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /admin/events/{id} [delete]
func (c *AdminController) DeleteEvent(ctx *gin.Context) {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.eventService.DeleteEvent(ctx.Request.Context(), middleware.GetViewer(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Event deleted"))
}

// ListChat returns the board chat
// @Summary Board chat
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.AdminMessage}
// @Router /admin/chat [get]
func (c *AdminController) ListChat(ctx *gin.Context) {
	messages, err := c.adminService.ListChat(ctx.Request.Context(), middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages, ""))
}

// PostChat posts to the board chat
// @Summary Post to board chat
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdminMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=models.AdminMessage}
// @Router /admin/chat [post]
func (c *AdminController) PostChat(ctx *gin.Context) {
	var req dto.AdminMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	msg, err := c.adminService.PostChat(ctx.Request.Context(), middleware.GetViewer(ctx), req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(msg, ""))
}

// ListMeetings returns the scheduled meetings
// @Summary Board meetings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Meeting}
// @Router /admin/meetings [get]
func (c *AdminController) ListMeetings(ctx *gin.Context) {
	meetings, err := c.adminService.ListMeetings(ctx.Request.Context(), middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(meetings, ""))
}

// ScheduleMeeting adds a board meeting
// @Summary Schedule meeting
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MeetingRequest true "Meeting"
// @Success 201 {object} dto.APIResponse{data=models.Meeting}
// @Router /admin/meetings [post]
func (c *AdminController) ScheduleMeeting(ctx *gin.Context) {
	var req dto.MeetingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	meeting, err := c.adminService.ScheduleMeeting(ctx.Request.Context(), middleware.GetViewer(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(meeting, "Meeting scheduled"))
}

// ListSuggestions returns member feedback
// @Summary List suggestions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Suggestion}
// @Router /admin/suggestions [get]
func (c *AdminController) ListSuggestions(ctx *gin.Context) {
	suggestions, err := c.adminService.ListSuggestions(ctx.Request.Context(), middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(suggestions, ""))
}

// DeleteSuggestion removes a suggestion
// @Summary Delete suggestion
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Suggestion ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Suggestion not found"
// @Router /admin/suggestions/{id} [delete]
func (c *AdminController) DeleteSuggestion(ctx *gin.Context) {
	if err := c.adminService.DeleteSuggestion(ctx.Request.Context(), middleware.GetViewer(ctx), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Suggestion deleted"))
}

// SubmitSuggestion records member feedback
// @Summary Submit suggestion
// @Description Open to every signed-in member
// @Tags suggestions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SuggestionRequest true "Suggestion"
// @Success 201 {object} dto.APIResponse{data=models.Suggestion}
// @Router /suggestions [post]
func (c *AdminController) SubmitSuggestion(ctx *gin.Context) {
	var req dto.SuggestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	suggestion, err := c.adminService.SubmitSuggestion(ctx.Request.Context(), middleware.GetViewer(ctx), req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(suggestion, "Thanks for your suggestion!"))
}
