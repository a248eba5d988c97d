package controllers

import (
	"net/http"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/services"
	"github.com/bizlink/alliance/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// EventController handles the events calendar and event management
type EventController struct {
	eventService services.EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

// ListEvents returns the calendar
// @Summary List events
// @Description Events from the external feed, or from internal storage when no feed is configured or the feed fails. The error field is advisory.
// @Tags events
// @Produce json
// @Param day query string false "Calendar day (yyyy-MM-dd)"
// @Success 200 {object} dto.APIResponse{data=dto.EventListingResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid day"
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	var q dto.EventQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	listing := c.eventService.Calendar(ctx.Request.Context(), middleware.GetViewer(ctx), q.Day)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(listing, ""))
}

// UpcomingEvents returns the next events from today on
// @Summary Upcoming events
// @Tags events
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.EventListingResponse}
// @Router /events/upcoming [get]
func (c *EventController) UpcomingEvents(ctx *gin.Context) {
	listing := c.eventService.Upcoming(ctx.Request.Context(), middleware.GetViewer(ctx))
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(listing, ""))
}

// CreateEvent stores a new event
// @Summary Create event
// @Description Premium and board members only. Free members get UPGRADE_REQUIRED.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EventRequest true "Event"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Upgrade required"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	viewer := middleware.GetViewer(ctx)
	// Free members get the upgrade prompt before any form handling
	if err := appAuth.RequireManageEvents(viewer); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), viewer, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(event, "Event created"))
}

// UpdateEvent rewrites an event
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body dto.EventRequest true "Event"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 403 {object} dto.ErrorResponse "Upgrade required or not the author"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(ctx *gin.Context) {
	viewer := middleware.GetViewer(ctx)
	if err := appAuth.RequireManageEvents(viewer); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	id, err := uuidParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	event, err := c.eventService.UpdateEvent(ctx.Request.Context(), viewer, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(event, "Event updated"))
}

// DeleteEvent removes an event
// @Summary Delete event
// @Description Authors may remove their own events; board members may remove any event
// @Tags events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(ctx *gin.Context) {
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

// MyEvents lists the caller's events
// @Summary My events
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse}
// @Router /profile/me/events [get]
func (c *EventController) MyEvents(ctx *gin.Context) {
	events, err := c.eventService.MyEvents(ctx.Request.Context(), middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(events, ""))
}
