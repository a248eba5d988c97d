package services

import (
	"context"
	"errors"
	"testing"

	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/feed"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEventService(f FeedSource, events *fakeEvents) *eventServiceImpl {
	svc := NewEventService(f, events, nopLogger).(*eventServiceImpl)
	svc.now = fixedClock("2025-09-08 09:00")
	return svc
}

func storedEvent(title, date, clock string, author uuid.UUID) models.StoredEvent {
	return models.StoredEvent{
		ID:         uuid.New(),
		Title:      title,
		Date:       date,
		Time:       clock,
		Type:       models.EventTypeMember,
		AuthorID:   author,
		AuthorName: "Author",
	}
}

func TestLoadEvents_NoFeedReadsStore(t *testing.T) {
	events := &fakeEvents{rows: []models.StoredEvent{storedEvent("Mixer", "2025-09-10", "18:00", uuid.New())}}
	svc := newEventService(nil, events)

	listing := svc.LoadEvents(context.Background())
	assert.Equal(t, models.EventSourceStore, listing.Source)
	assert.Empty(t, listing.Error)
	require.Len(t, listing.Events, 1)
	assert.Equal(t, "Mixer", listing.Events[0].Title)
	assert.NotNil(t, listing.Events[0].AuthorID)
}

func TestLoadEvents_FeedSuccess(t *testing.T) {
	f := &mockFeed{}
	f.On("Configured").Return(true)
	f.On("Fetch", mock.Anything).Return([]models.FeedEvent{
		{ID: "f1", Title: "Feed Breakfast", Date: "2025-09-10", Time: "07:30", Type: models.EventTypeAdmin},
	}, nil)

	events := &fakeEvents{rows: []models.StoredEvent{storedEvent("Stored", "2025-09-10", "18:00", uuid.New())}}
	listing := newEventService(f, events).LoadEvents(context.Background())

	assert.Equal(t, models.EventSourceFeed, listing.Source)
	require.Len(t, listing.Events, 1)
	assert.Equal(t, "f1", listing.Events[0].ID)
	assert.Nil(t, listing.Events[0].AuthorID)
	f.AssertExpectations(t)
}

func TestLoadEvents_EmptyFeedIsNotAFailure(t *testing.T) {
	f := &mockFeed{}
	f.On("Configured").Return(true)
	f.On("Fetch", mock.Anything).Return([]models.FeedEvent{}, nil)

	events := &fakeEvents{rows: []models.StoredEvent{storedEvent("Stored", "2025-09-10", "18:00", uuid.New())}}
	listing := newEventService(f, events).LoadEvents(context.Background())

	assert.Equal(t, models.EventSourceFeed, listing.Source)
	assert.Empty(t, listing.Events)
	assert.Empty(t, listing.Error)
}

func TestLoadEvents_FeedFailureFallsBack(t *testing.T) {
	f := &mockFeed{}
	f.On("Configured").Return(true)
	f.On("Fetch", mock.Anything).Return(nil, &feed.StatusError{StatusCode: 500})

	events := &fakeEvents{rows: []models.StoredEvent{storedEvent("Stored", "2025-09-10", "18:00", uuid.New())}}
	listing := newEventService(f, events).LoadEvents(context.Background())

	assert.Equal(t, models.EventSourceStore, listing.Source)
	assert.Equal(t, "Feed error 500", listing.Error)
	require.Len(t, listing.Events, 1)
	assert.Equal(t, "Stored", listing.Events[0].Title)
}

func TestLoadEvents_BothSourcesFail(t *testing.T) {
	f := &mockFeed{}
	f.On("Configured").Return(true)
	f.On("Fetch", mock.Anything).Return(nil, errors.New("dial tcp: refused"))

	events := &fakeEvents{listErr: errors.New("database unavailable")}
	listing := newEventService(f, events).LoadEvents(context.Background())

	assert.Equal(t, models.EventSourceStore, listing.Source)
	assert.Empty(t, listing.Events)
	assert.NotNil(t, listing.Events)
	assert.Equal(t, "database unavailable", listing.Error)
}

func TestCalendar_DayFilter(t *testing.T) {
	author := uuid.New()
	events := &fakeEvents{rows: []models.StoredEvent{
		storedEvent("Evening", "2025-09-10", "18:00", author),
		storedEvent("Other day", "2025-09-11", "08:00", author),
		storedEvent("Morning", "2025-09-10T07:30:00", "07:30", author),
		storedEvent("Broken", "not a date", "", author),
	}}
	svc := newEventService(nil, events)

	resp := svc.Calendar(context.Background(), nil, "2025-09-10")
	require.Len(t, resp.Events, 2)
	assert.Equal(t, "Morning", resp.Events[0].Title)
	assert.Equal(t, "Evening", resp.Events[1].Title)
	assert.Equal(t, "2025-09-10", resp.Day)

	all := svc.Calendar(context.Background(), nil, "")
	assert.Len(t, all.Events, 4)
}

func TestUpcoming(t *testing.T) {
	author := uuid.New()
	rows := []models.StoredEvent{
		storedEvent("Past", "2025-09-07", "10:00", author),
		storedEvent("Today late", "2025-09-08", "19:00", author),
		storedEvent("Today early", "2025-09-08", "08:00", author),
	}
	for i, d := range []string{"2025-09-12", "2025-09-11", "2025-09-10", "2025-09-20"} {
		rows = append(rows, storedEvent("Future "+string(rune('A'+i)), d, "12:00", author))
	}
	svc := newEventService(nil, &fakeEvents{rows: rows})

	resp := svc.Upcoming(context.Background(), nil)
	require.Len(t, resp.Events, UpcomingLimit)

	titles := make([]string, 0, len(resp.Events))
	for _, e := range resp.Events {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"Today early", "Today late", "Future C", "Future B", "Future A"}, titles)
}

func TestEventsOnAndUpcomingEmpty(t *testing.T) {
	assert.Empty(t, EventsOn(nil, "2025-09-10"))
	assert.Empty(t, Upcoming(nil, fixedClock("2025-09-08 09:00")()))
}

func TestCreateEvent_FreeMemberNeedsUpgrade(t *testing.T) {
	events := &fakeEvents{}
	svc := newEventService(nil, events)

	_, err := svc.CreateEvent(context.Background(), viewerFor(models.TierFree), &dto.EventRequest{Title: "Mixer", Date: "2025-09-10"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpgradeRequired))
	assert.Empty(t, events.rows)

	_, err = svc.CreateEvent(context.Background(), nil, &dto.EventRequest{Title: "Mixer", Date: "2025-09-10"})
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
}

func TestCreateEvent_Types(t *testing.T) {
	events := &fakeEvents{}
	svc := newEventService(nil, events)
	ctx := context.Background()

	premium := viewerFor(models.TierPremium)
	resp, err := svc.CreateEvent(ctx, premium, &dto.EventRequest{Title: "  Mixer  ", Date: "2025-09-10", Time: "18:00"})
	require.NoError(t, err)
	assert.Equal(t, "Mixer", resp.Title)
	assert.Equal(t, models.EventTypeMember, resp.Type)
	assert.Equal(t, models.EventSourceStore, resp.Source)
	assert.True(t, resp.CanEdit)
	assert.True(t, resp.CanDelete)

	board := viewerFor(models.TierBoard)
	resp, err = svc.CreateEvent(ctx, board, &dto.EventRequest{Title: "Board Gala", Date: "2025-10-01", URL: "https://facebook.com/events/1"})
	require.NoError(t, err)
	assert.Equal(t, models.EventTypeAdmin, resp.Type)
	assert.True(t, resp.FacebookLink)

	mine, err := svc.MyEvents(ctx, premium)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mixer", mine[0].Title)
}

func TestUpdateAndDeleteEvent_Ownership(t *testing.T) {
	owner := viewerFor(models.TierPremium)
	other := viewerFor(models.TierPremium)
	board := viewerFor(models.TierBoard)

	row := storedEvent("Mixer", "2025-09-10", "18:00", owner.AccountID)
	events := &fakeEvents{rows: []models.StoredEvent{row}}
	svc := newEventService(nil, events)
	ctx := context.Background()

	_, err := svc.UpdateEvent(ctx, other, row.ID, &dto.EventRequest{Title: "Hijacked", Date: "2025-09-10"})
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	updated, err := svc.UpdateEvent(ctx, owner, row.ID, &dto.EventRequest{Title: "Mixer v2", Date: "2025-09-11"})
	require.NoError(t, err)
	assert.Equal(t, "Mixer v2", updated.Title)
	assert.Equal(t, "2025-09-11", updated.Date)

	err = svc.DeleteEvent(ctx, other, row.ID)
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	require.NoError(t, svc.DeleteEvent(ctx, board, row.ID))
	assert.Empty(t, events.rows)

	err = svc.DeleteEvent(ctx, board, row.ID)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func TestListStored_AdminOnly(t *testing.T) {
	events := &fakeEvents{rows: []models.StoredEvent{storedEvent("Mixer", "2025-09-10", "18:00", uuid.New())}}
	svc := newEventService(nil, events)

	_, err := svc.ListStored(context.Background(), viewerFor(models.TierPremium))
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	list, err := svc.ListStored(context.Background(), viewerFor(models.TierBoard))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].CanDelete)
}
