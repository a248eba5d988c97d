package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/repositories"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/bizlink/alliance/internal/pkg/feed"
	"github.com/bizlink/alliance/internal/pkg/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UpcomingLimit caps the upcoming events list
const UpcomingLimit = 5

// FeedSource is the external events feed
type FeedSource interface {
	Configured() bool
	Fetch(ctx context.Context) ([]models.FeedEvent, error)
}

// EventListing is the outcome of loading events. Events come from exactly
// one source; Error carries an advisory message and never fails the load.
type EventListing struct {
	Events []models.Event
	Source models.EventSource
	Error  string
}

// EventService defines the events aggregator and event management operations
type EventService interface {
	LoadEvents(ctx context.Context) EventListing
	Calendar(ctx context.Context, viewer *appAuth.Viewer, day string) *dto.EventListingResponse
	Upcoming(ctx context.Context, viewer *appAuth.Viewer) *dto.EventListingResponse
	MyEvents(ctx context.Context, viewer *appAuth.Viewer) ([]dto.EventResponse, error)
	ListStored(ctx context.Context, viewer *appAuth.Viewer) ([]dto.EventResponse, error)
	CreateEvent(ctx context.Context, viewer *appAuth.Viewer, req *dto.EventRequest) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, viewer *appAuth.Viewer, id uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, viewer *appAuth.Viewer, id uuid.UUID) error
}

type eventServiceImpl struct {
	feed   FeedSource
	events repositories.IEventRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(feedSource FeedSource, events repositories.IEventRepository, logger zerolog.Logger) EventService {
	return &eventServiceImpl{
		feed:   feedSource,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// LoadEvents reads the feed when one is configured and falls back to the
// internal store when the feed fails
func (s *eventServiceImpl) LoadEvents(ctx context.Context) EventListing {
	if s.feed != nil && s.feed.Configured() {
		items, err := s.feed.Fetch(ctx)
		if err == nil {
			events := make([]models.Event, 0, len(items))
			for _, item := range items {
				events = append(events, item.ToEvent())
			}
			metrics.EventListings.WithLabelValues(string(models.EventSourceFeed)).Inc()
			return EventListing{Events: events, Source: models.EventSourceFeed}
		}

		metrics.FeedFailures.Inc()
		s.logger.Warn().Err(err).Msg("Events feed failed, falling back to internal events")
		listing := s.loadStored(ctx)
		if listing.Error == "" {
			listing.Error = feedErrorMessage(err)
		}
		return listing
	}

	return s.loadStored(ctx)
}

func (s *eventServiceImpl) loadStored(ctx context.Context) EventListing {
	metrics.EventListings.WithLabelValues(string(models.EventSourceStore)).Inc()

	stored, err := s.events.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load internal events")
		return EventListing{Events: []models.Event{}, Source: models.EventSourceStore, Error: err.Error()}
	}

	events := make([]models.Event, 0, len(stored))
	for i := range stored {
		events = append(events, stored[i].ToEvent())
	}
	return EventListing{Events: events, Source: models.EventSourceStore}
}

func feedErrorMessage(err error) string {
	var se *feed.StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}

// Calendar returns the events of one day, or every event when day is empty
func (s *eventServiceImpl) Calendar(ctx context.Context, viewer *appAuth.Viewer, day string) *dto.EventListingResponse {
	listing := s.LoadEvents(ctx)
	events := listing.Events
	if day != "" {
		events = EventsOn(events, day)
	}
	return &dto.EventListingResponse{
		Events: toEventResponses(viewer, events),
		Source: listing.Source,
		Error:  listing.Error,
		Day:    day,
	}
}

// Upcoming returns the next UpcomingLimit events from today on
func (s *eventServiceImpl) Upcoming(ctx context.Context, viewer *appAuth.Viewer) *dto.EventListingResponse {
	listing := s.LoadEvents(ctx)
	return &dto.EventListingResponse{
		Events: toEventResponses(viewer, Upcoming(listing.Events, s.now())),
		Source: listing.Source,
		Error:  listing.Error,
	}
}

// MyEvents lists the stored events written by the viewer
func (s *eventServiceImpl) MyEvents(ctx context.Context, viewer *appAuth.Viewer) ([]dto.EventResponse, error) {
	if err := appAuth.RequireViewer(viewer); err != nil {
		return nil, err
	}

	stored, err := s.events.ListByAuthor(ctx, viewer.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return storedResponses(viewer, stored), nil
}

// ListStored lists every internal event for the admin console
func (s *eventServiceImpl) ListStored(ctx context.Context, viewer *appAuth.Viewer) ([]dto.EventResponse, error) {
	if err := appAuth.RequireAdmin(viewer); err != nil {
		return nil, err
	}

	stored, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return storedResponses(viewer, stored), nil
}

// CreateEvent stores a new event authored by the viewer. Board authors
// publish admin events.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, viewer *appAuth.Viewer, req *dto.EventRequest) (*dto.EventResponse, error) {
	if err := appAuth.RequireManageEvents(viewer); err != nil {
		return nil, err
	}

	e := &models.StoredEvent{
		AuthorID:   viewer.AccountID,
		AuthorName: viewer.Name,
		Type:       models.EventTypeMember,
	}
	if viewer.IsBoard() {
		e.Type = models.EventTypeAdmin
	}
	applyEventRequest(e, req)

	if err := s.events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info().Str("eventID", e.ID.String()).Str("authorID", viewer.ID()).Msg("Event created")
	resp := toEventResponse(viewer, e.ToEvent())
	return &resp, nil
}

// UpdateEvent rewrites an event owned by the viewer, or any event for board members
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, viewer *appAuth.Viewer, id uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error) {
	e, err := s.getStored(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appAuth.RequireEditEvent(viewer, e.AuthorID); err != nil {
		return nil, err
	}

	applyEventRequest(e, req)
	if err := s.events.Update(ctx, e); err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.NewResourceNotFoundError("Event not found")
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.logger.Info().Str("eventID", id.String()).Str("viewer", viewer.ID()).Msg("Event updated")
	resp := toEventResponse(viewer, e.ToEvent())
	return &resp, nil
}

// DeleteEvent removes an event owned by the viewer, or any event for board members
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, viewer *appAuth.Viewer, id uuid.UUID) error {
	e, err := s.getStored(ctx, id)
	if err != nil {
		return err
	}
	if err := appAuth.RequireDeleteEvent(viewer, e.AuthorID); err != nil {
		return err
	}

	if err := s.events.Delete(ctx, id); err != nil {
		if dberrors.IsNotFound(err) {
			return apperrors.NewResourceNotFoundError("Event not found")
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.logger.Info().Str("eventID", id.String()).Str("viewer", viewer.ID()).Bool("board", viewer.IsBoard()).Msg("Event deleted")
	return nil
}

func (s *eventServiceImpl) getStored(ctx context.Context, id uuid.UUID) (*models.StoredEvent, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.NewResourceNotFoundError("Event not found")
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return e, nil
}

func applyEventRequest(e *models.StoredEvent, req *dto.EventRequest) {
	e.Title = strings.TrimSpace(req.Title)
	e.Description = strings.TrimSpace(req.Description)
	e.Date = req.Date
	e.Time = req.Time
	e.Location = strings.TrimSpace(req.Location)
	e.URL = strings.TrimSpace(req.URL)
}

// EventDay parses the calendar day of an event date. Plain days and RFC 3339
// timestamps are accepted; timestamps are read in local time.
func EventDay(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if t, err := time.ParseInLocation(models.DateLayout, date, time.Local); err == nil {
		return t, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, date, time.Local); err == nil {
			t = t.In(time.Local)
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), true
		}
	}
	return time.Time{}, false
}

// EventsOn returns the events falling on day (yyyy-MM-dd), ordered by time.
// Events with unreadable dates are left out.
func EventsOn(events []models.Event, day string) []models.Event {
	out := []models.Event{}
	for _, e := range events {
		d, ok := EventDay(e.Date)
		if ok && d.Format(models.DateLayout) == day {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

// Upcoming returns the first UpcomingLimit events dated today or later,
// ordered by date then time
func Upcoming(events []models.Event, now time.Time) []models.Event {
	now = now.In(time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	type dated struct {
		day time.Time
		models.Event
	}
	candidates := []dated{}
	for _, e := range events {
		d, ok := EventDay(e.Date)
		if ok && !d.Before(today) {
			candidates = append(candidates, dated{day: d, Event: e})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].day.Equal(candidates[j].day) {
			return candidates[i].day.Before(candidates[j].day)
		}
		return candidates[i].Time < candidates[j].Time
	})

	if len(candidates) > UpcomingLimit {
		candidates = candidates[:UpcomingLimit]
	}
	out := make([]models.Event, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Event)
	}
	return out
}

func toEventResponse(viewer *appAuth.Viewer, e models.Event) dto.EventResponse {
	resp := dto.EventResponse{
		Event:        e,
		FacebookLink: feed.IsFacebookURL(e.URL),
	}
	if e.Source == models.EventSourceStore && e.AuthorID != nil {
		resp.CanEdit = appAuth.CanEditEvent(viewer, *e.AuthorID)
		resp.CanDelete = appAuth.CanDeleteEvent(viewer, *e.AuthorID)
	}
	return resp
}

func toEventResponses(viewer *appAuth.Viewer, events []models.Event) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(viewer, e))
	}
	return out
}

func storedResponses(viewer *appAuth.Viewer, stored []models.StoredEvent) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(stored))
	for i := range stored {
		out = append(out, toEventResponse(viewer, stored[i].ToEvent()))
	}
	return out
}
