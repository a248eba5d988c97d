package controllers

import (
	"net/http"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/services"
	"github.com/bizlink/alliance/internal/middleware"
	"github.com/bizlink/alliance/internal/pkg/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MessageController handles direct conversations
type MessageController struct {
	messageService services.MessageService
	hub            *websocket.Hub
	logger         zerolog.Logger
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService, hub *websocket.Hub, logger zerolog.Logger) *MessageController {
	return &MessageController{
		messageService: messageService,
		hub:            hub,
		logger:         logger,
	}
}

// ListConversations returns the caller's conversations
// @Summary List conversations
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ConversationResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /conversations [get]
func (c *MessageController) ListConversations(ctx *gin.Context) {
	list, err := c.messageService.List(ctx.Request.Context(), middleware.GetViewer(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list, ""))
}

// OpenConversation starts or resumes a conversation
// @Summary Open conversation
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.OpenConversationRequest true "Recipient"
// @Success 200 {object} dto.APIResponse{data=dto.ConversationResponse}
// @Failure 403 {object} dto.ErrorResponse "Upgrade required"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Router /conversations [post]
func (c *MessageController) OpenConversation(ctx *gin.Context) {
	var req dto.OpenConversationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	conv, err := c.messageService.OpenWith(ctx.Request.Context(), middleware.GetViewer(ctx), uuid.MustParse(req.RecipientID))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conv, ""))
}

// SendMessage posts a message
// @Summary Send message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=models.Message}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Conversation not found"
// @Router /conversations/{id}/messages [post]
func (c *MessageController) SendMessage(ctx *gin.Context) {
	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	msg, err := c.messageService.Send(ctx.Request.Context(), middleware.GetViewer(ctx), ctx.Param("id"), req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(msg, ""))
}

// Live streams new messages of the caller's conversations
// @Summary Live messages
// @Description Upgrades to a WebSocket. Every message sent in one of the caller's conversations is pushed as a dto.MessageEvent. Browsers may pass the token as access_token.
// @Tags messages
// @Security BearerAuth
// @Param access_token query string false "Access token for browser handshakes"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /conversations/live [get]
func (c *MessageController) Live(ctx *gin.Context) {
	viewer := middleware.GetViewer(ctx)
	if err := appAuth.RequireViewer(viewer); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// The upgrader answers failed handshakes itself
	if err := c.hub.Serve(ctx.Writer, ctx.Request, viewer.ID()); err != nil {
		c.logger.Debug().Err(err).Str("accountID", viewer.ID()).Msg("Live connection refused")
	}
}
