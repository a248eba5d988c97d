package dto

import "github.com/bizlink/alliance/internal/app/models"

// --- Community ---

// CreatePostRequest represents a new community board post
type CreatePostRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// CommentRequest represents a reply under a post
type CommentRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// --- Messaging ---

// OpenConversationRequest starts or resumes a thread with another member
type OpenConversationRequest struct {
	RecipientID string `json:"recipientId" binding:"required,uuid"`
}

// SendMessageRequest represents a message in a conversation
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// ConversationResponse is a conversation seen from one participant
type ConversationResponse struct {
	models.Conversation
	RecipientID       string `json:"recipientId"`
	RecipientName     string `json:"recipientName"`
	RecipientBusiness string `json:"recipientBusiness,omitempty"`
}

// MessageEvent is pushed to the live connections of both participants when
// a message is sent
type MessageEvent struct {
	Type           string         `json:"type" example:"message"`
	ConversationID string         `json:"conversationId"`
	Message        models.Message `json:"message"`
}

// --- Admin console ---

// AdminOverview holds the dashboard counters of the admin console
type AdminOverview struct {
	TotalMembers     int                       `json:"totalMembers"`
	PremiumMembers   int                       `json:"premiumMembers"`
	ActiveBusinesses int                       `json:"activeBusinesses"`
	PendingMembers   int                       `json:"pendingMembers"`
	TotalEvents      int64                     `json:"totalEvents"`
	RecentActivity   []models.ActivityLogEntry `json:"recentActivity"`
}

// AddMemberRequest adds someone to the roster by hand
type AddMemberRequest struct {
	Name           string      `json:"name" binding:"required,max=100"`
	Email          string      `json:"email" binding:"required,email"`
	BusinessName   string      `json:"businessName" binding:"required,max=150"`
	MembershipType models.Tier `json:"membershipType" binding:"omitempty,oneof=free premium board"`
}

// MemberActionRequest changes the roster status of a member
type MemberActionRequest struct {
	Action string `json:"action" binding:"required,oneof=approve suspend delete"`
}

// AdminMessageRequest represents a line of the board chat
type AdminMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// MeetingRequest schedules a board meeting
type MeetingRequest struct {
	Title  string `json:"title" binding:"required,max=200"`
	Date   string `json:"date" binding:"required,eventdate"`
	Time   string `json:"time" binding:"required,eventtime"`
	Agenda string `json:"agenda" binding:"max=5000"`
}

// SuggestionRequest is member feedback for the board
type SuggestionRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}
