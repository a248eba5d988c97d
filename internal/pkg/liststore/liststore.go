// Package liststore keeps small JSON-encoded lists under string keys with
// version-checked writes. Each key carries the time of its last write
// (unix nanoseconds) as its version.
package liststore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bizlink/alliance/internal/pkg/logger"
)

// Key names a stored list
type Key string

// Known keys
const (
	KeyConversations  Key = "bizlink:conversations"
	KeyCommunityPosts Key = "bizlink:community_posts"
	KeyAdminMessages  Key = "bizlink:admin_messages"
	KeyMeetings       Key = "bizlink:meetings"
	KeySuggestions    Key = "bizlink:suggestions"
	KeyActivities     Key = "bizlink:activities"
	KeyMembers        Key = "bizlink:members"
)

const (
	// AnyVersion overwrites the key unconditionally
	AnyVersion int64 = -1
	// Absent requires the key not to exist yet
	Absent int64 = 0

	maxUpdateAttempts = 5
)

var (
	// ErrConflict is returned when the stored version differs from the expected one
	ErrConflict = errors.New("liststore: version conflict")
)

// Store is a raw blob backend
type Store interface {
	// Get returns the raw value and its version. A missing key yields nil data
	// and version Absent.
	Get(ctx context.Context, key Key) ([]byte, int64, error)
	// Put writes data when the stored version matches expected and returns the
	// new version.
	Put(ctx context.Context, key Key, data []byte, expected int64) (int64, error)
	Close() error
}

// nextVersion returns a version strictly greater than prev
func nextVersion(prev int64) int64 {
	v := time.Now().UnixNano()
	if v <= prev {
		v = prev + 1
	}
	return v
}

// Read loads the list stored under key. Absent or malformed data reads as an
// empty list; the version is still returned so a following write can detect
// concurrent changes.
func Read[T any](ctx context.Context, s Store, key Key) ([]T, int64, error) {
	data, version, err := s.Get(ctx, key)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", key, err)
	}

	list := []T{}
	if len(data) == 0 {
		return list, version, nil
	}

	if err := json.Unmarshal(data, &list); err != nil {
		logger.Warn().Err(err).Str("key", string(key)).Msg("Malformed list data, treating as empty")
		return []T{}, version, nil
	}
	if list == nil {
		list = []T{}
	}
	return list, version, nil
}

// Write replaces the list stored under key
func Write[T any](ctx context.Context, s Store, key Key, list []T, expected int64) (int64, error) {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", key, err)
	}

	version, err := s.Put(ctx, key, data, expected)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", key, err)
	}
	return version, nil
}

// Update runs a read-modify-write cycle on key, retrying when another writer
// got in between. fn must not keep references to its argument after returning.
func Update[T any](ctx context.Context, s Store, key Key, fn func([]T) ([]T, error)) ([]T, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		list, version, err := Read[T](ctx, s, key)
		if err != nil {
			return nil, err
		}

		next, err := fn(list)
		if err != nil {
			return nil, err
		}

		_, err = Write(ctx, s, key, next, version)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}

		logger.Debug().Str("key", string(key)).Int("attempt", attempt+1).Msg("List write conflict, retrying")
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("update %s: %w", key, ErrConflict)
}
