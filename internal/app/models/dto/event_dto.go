package dto

import "github.com/bizlink/alliance/internal/app/models"

// EventRequest is the payload of event creation and update
type EventRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=5000"`
	Date        string `json:"date" binding:"required,eventdate"`
	Time        string `json:"time" binding:"omitempty,eventtime"`
	Location    string `json:"location" binding:"max=300"`
	URL         string `json:"url" binding:"omitempty,url"`
}

// EventQuery filters the calendar listing
type EventQuery struct {
	Day string `form:"day" binding:"omitempty,eventdate"`
}

// EventResponse is an event as shown to a particular viewer
type EventResponse struct {
	models.Event
	FacebookLink bool `json:"facebookLink"`
	CanEdit      bool `json:"canEdit"`
	CanDelete    bool `json:"canDelete"`
}

// EventListingResponse is the outcome of loading events. Error is advisory:
// the listing may be empty or served from the fallback store.
type EventListingResponse struct {
	Events []EventResponse    `json:"events"`
	Source models.EventSource `json:"source"`
	Error  string             `json:"error,omitempty"`
	Day    string             `json:"day,omitempty"`
}
