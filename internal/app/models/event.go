package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType marks who published an event
type EventType string

const (
	EventTypeMember EventType = "member"
	EventTypeAdmin  EventType = "admin"
)

// ParseEventType maps any unknown value to EventTypeMember
func ParseEventType(s string) EventType {
	if EventType(s) == EventTypeAdmin {
		return EventTypeAdmin
	}
	return EventTypeMember
}

// EventSource tells where a listing was loaded from
type EventSource string

const (
	EventSourceFeed  EventSource = "feed"
	EventSourceStore EventSource = "supabase"
)

// DateLayout is the calendar-day format shared by stored and displayed events
const DateLayout = "2006-01-02"

// StoredEvent is a row of the 'events' table, owned by an account
type StoredEvent struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Date        string    `json:"date" db:"date"`
	Time        string    `json:"time" db:"time"`
	Location    string    `json:"location" db:"location"`
	URL         string    `json:"url" db:"url"`
	Type        EventType `json:"type" db:"type"`
	AuthorID    uuid.UUID `json:"authorId" db:"author_id"`
	AuthorName  string    `json:"authorName" db:"author_name"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// FeedEvent is one normalized item of the external events feed. Feed events
// are read-only and have no author.
type FeedEvent struct {
	ID          string
	Title       string
	Description string
	Date        string
	Time        string
	Location    string
	AuthorName  string
	Type        EventType
	URL         string
}

// Event is the display projection shared by both provenances
type Event struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Location    string      `json:"location"`
	AuthorID    *uuid.UUID  `json:"authorId"`
	AuthorName  string      `json:"authorName"`
	Type        EventType   `json:"type"`
	URL         string      `json:"url"`
	Source      EventSource `json:"source"`
}

// ToEvent projects a stored row for display
func (e *StoredEvent) ToEvent() Event {
	authorID := e.AuthorID
	name := e.AuthorName
	if name == "" {
		name = "Member"
	}
	return Event{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		AuthorID:    &authorID,
		AuthorName:  name,
		Type:        ParseEventType(string(e.Type)),
		URL:         e.URL,
		Source:      EventSourceStore,
	}
}

// ToEvent projects a feed item for display
func (e FeedEvent) ToEvent() Event {
	return Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		AuthorName:  e.AuthorName,
		Type:        e.Type,
		URL:         e.URL,
		Source:      EventSourceFeed,
	}
}
