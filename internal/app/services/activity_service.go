package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/pkg/liststore"
)

// ActivityLog keeps the bounded feed of recent alliance activity
type ActivityLog interface {
	Record(ctx context.Context, t models.ActivityType, text string) error
	Recent(ctx context.Context, n int) ([]models.ActivityLogEntry, error)
}

type activityLogImpl struct {
	store liststore.Store
	now   func() time.Time
}

// NewActivityLog creates an ActivityLog over the list store
func NewActivityLog(store liststore.Store) ActivityLog {
	return &activityLogImpl{store: store, now: time.Now}
}

// Record prepends an entry and drops everything past the most recent ActivityLogLimit
func (a *activityLogImpl) Record(ctx context.Context, t models.ActivityType, text string) error {
	entry := models.ActivityLogEntry{
		ID:        newID(),
		Type:      t,
		Text:      text,
		Timestamp: a.now(),
	}

	_, err := updateList(ctx, a.store, liststore.KeyActivities, func(list []models.ActivityLogEntry) ([]models.ActivityLogEntry, error) {
		next := append([]models.ActivityLogEntry{entry}, list...)
		if len(next) > models.ActivityLogLimit {
			next = next[:models.ActivityLogLimit]
		}
		return next, nil
	})
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first. n <= 0 returns all of them.
func (a *activityLogImpl) Recent(ctx context.Context, n int) ([]models.ActivityLogEntry, error) {
	list, err := readList[models.ActivityLogEntry](ctx, a.store, liststore.KeyActivities)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list, nil
}
