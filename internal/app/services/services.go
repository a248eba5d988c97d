// Package services holds the business logic behind the HTTP controllers.
//
// Services defined in this package:
//   - AuthService: accounts, sessions and session-change listeners
//   - EventService: the events aggregator and event management
//   - DirectoryService: the gated member directory
//   - MessageService: direct conversations between members
//   - CommunityService: the community board
//   - AdminService: the board-only console, roster and activity log
//   - MembershipService: tier changes
//   - ProfileService: the dashboard profile
//   - WaitlistService, RegistrationService, IntegrationService: outer surfaces
package services

import (
	"context"
	"errors"

	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/liststore"
	"github.com/google/uuid"
)

// updateList runs a liststore update and reports an exhausted retry budget as
// an application conflict
func updateList[T any](ctx context.Context, store liststore.Store, key liststore.Key, fn func([]T) ([]T, error)) ([]T, error) {
	list, err := liststore.Update(ctx, store, key, fn)
	if errors.Is(err, liststore.ErrConflict) {
		return nil, apperrors.NewCustomError(apperrors.ErrConflict, "The data changed while saving, please try again")
	}
	return list, err
}

// readList loads a stored list without its version
func readList[T any](ctx context.Context, store liststore.Store, key liststore.Key) ([]T, error) {
	list, _, err := liststore.Read[T](ctx, store, key)
	return list, err
}

func newID() string {
	return uuid.NewString()
}
