package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/repositories"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/bizlink/alliance/internal/pkg/liststore"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MessageService defines direct messaging between members
type MessageService interface {
	List(ctx context.Context, viewer *appAuth.Viewer) ([]dto.ConversationResponse, error)
	OpenWith(ctx context.Context, viewer *appAuth.Viewer, recipientID uuid.UUID) (*dto.ConversationResponse, error)
	Open(ctx context.Context, viewer *appAuth.Viewer, recipient *models.Profile) (*dto.ConversationResponse, error)
	Send(ctx context.Context, viewer *appAuth.Viewer, conversationID, text string) (*models.Message, error)
}

// MessageNotifier pushes payloads to the live connections of accounts
type MessageNotifier interface {
	Deliver(accountIDs []string, payload interface{})
}

// MessageEventType tags live message payloads
const MessageEventType = "message"

type messageServiceImpl struct {
	store    liststore.Store
	profiles repositories.IProfileRepository
	notifier MessageNotifier
	logger   zerolog.Logger
	now      func() time.Time
}

// NewMessageService creates a new MessageService. notifier may be nil.
func NewMessageService(store liststore.Store, profiles repositories.IProfileRepository, notifier MessageNotifier, logger zerolog.Logger) MessageService {
	return &messageServiceImpl{
		store:    store,
		profiles: profiles,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns the viewer's conversations
func (s *messageServiceImpl) List(ctx context.Context, viewer *appAuth.Viewer) ([]dto.ConversationResponse, error) {
	if err := appAuth.RequireViewer(viewer); err != nil {
		return nil, err
	}

	all, err := readList[models.Conversation](ctx, s.store, liststore.KeyConversations)
	if err != nil {
		return nil, err
	}

	out := []dto.ConversationResponse{}
	for _, c := range all {
		if c.Involves(viewer.ID()) {
			out = append(out, conversationFor(viewer, c))
		}
	}
	return out, nil
}

// OpenWith resolves the recipient profile and opens the conversation with them
func (s *messageServiceImpl) OpenWith(ctx context.Context, viewer *appAuth.Viewer, recipientID uuid.UUID) (*dto.ConversationResponse, error) {
	if err := appAuth.RequireViewer(viewer); err != nil {
		return nil, err
	}

	recipient, err := s.profiles.GetByID(ctx, recipientID)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.NewResourceNotFoundError("Member not found")
		}
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}
	return s.Open(ctx, viewer, recipient)
}

// Open returns the conversation between viewer and recipient, creating it on
// first contact. The participant pair is unordered.
func (s *messageServiceImpl) Open(ctx context.Context, viewer *appAuth.Viewer, recipient *models.Profile) (*dto.ConversationResponse, error) {
	if err := appAuth.RequireConnect(viewer, recipient.MembershipType); err != nil {
		return nil, err
	}

	me, them := viewer.ID(), recipient.ID.String()
	if me == them {
		return nil, apperrors.NewBadRequestError("You cannot message yourself.")
	}

	var found models.Conversation
	_, err := updateList(ctx, s.store, liststore.KeyConversations, func(list []models.Conversation) ([]models.Conversation, error) {
		for _, c := range list {
			if c.Between(me, them) {
				found = c
				return list, nil
			}
		}
		found = models.Conversation{
			ID:                   newID(),
			Participant1ID:       me,
			Participant1Name:     viewer.DisplayName(),
			Participant2ID:       them,
			Participant2Name:     recipient.Name,
			Participant2Business: recipient.BusinessName,
			Messages:             []models.Message{},
		}
		return append(list, found), nil
	})
	if err != nil {
		return nil, err
	}

	resp := conversationFor(viewer, found)
	return &resp, nil
}

// Send appends a message to a conversation the viewer takes part in
func (s *messageServiceImpl) Send(ctx context.Context, viewer *appAuth.Viewer, conversationID, text string) (*models.Message, error) {
	if err := appAuth.RequireViewer(viewer); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewBadRequestError("Message cannot be empty.")
	}

	msg := models.Message{
		ID:         newID(),
		SenderID:   viewer.ID(),
		SenderName: viewer.DisplayName(),
		Text:       text,
		Timestamp:  s.now(),
	}

	var participants []string
	_, err := updateList(ctx, s.store, liststore.KeyConversations, func(list []models.Conversation) ([]models.Conversation, error) {
		for i := range list {
			if list[i].ID != conversationID {
				continue
			}
			if !list[i].Involves(viewer.ID()) {
				return nil, apperrors.NewForbiddenError("You are not part of this conversation.")
			}
			list[i].Messages = append(list[i].Messages, msg)
			participants = []string{list[i].Participant1ID, list[i].Participant2ID}
			return list, nil
		}
		return nil, apperrors.NewResourceNotFoundError("Conversation not found")
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Deliver(participants, dto.MessageEvent{
			Type:           MessageEventType,
			ConversationID: conversationID,
			Message:        msg,
		})
	}

	s.logger.Debug().Str("conversationID", conversationID).Str("senderID", msg.SenderID).Msg("Message sent")
	return &msg, nil
}

// conversationFor names the other participant from viewer's point of view
func conversationFor(viewer *appAuth.Viewer, c models.Conversation) dto.ConversationResponse {
	resp := dto.ConversationResponse{Conversation: c}
	if c.Messages == nil {
		resp.Messages = []models.Message{}
	}
	if c.Participant1ID == viewer.ID() {
		resp.RecipientID = c.Participant2ID
		resp.RecipientName = c.Participant2Name
		resp.RecipientBusiness = c.Participant2Business
	} else {
		resp.RecipientID = c.Participant1ID
		resp.RecipientName = c.Participant1Name
	}
	return resp
}
