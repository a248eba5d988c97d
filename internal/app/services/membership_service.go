package services

import (
	"context"
	"fmt"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/repositories"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/bizlink/alliance/internal/pkg/liststore"
	"github.com/rs/zerolog"
)

// MembershipService defines tier changes requested by members themselves
type MembershipService interface {
	ChangeTier(ctx context.Context, viewer *appAuth.Viewer, tier models.Tier) (*dto.MembershipResponse, error)
	Elevate(ctx context.Context, viewer *appAuth.Viewer) (*dto.MembershipResponse, error)
}

type membershipServiceImpl struct {
	accounts           repositories.IAccountRepository
	profiles           repositories.IProfileRepository
	store              liststore.Store
	activity           ActivityLog
	allowSelfElevation bool
	logger             zerolog.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	accounts repositories.IAccountRepository,
	profiles repositories.IProfileRepository,
	store liststore.Store,
	activity ActivityLog,
	allowSelfElevation bool,
	logger zerolog.Logger,
) MembershipService {
	return &membershipServiceImpl{
		accounts:           accounts,
		profiles:           profiles,
		store:              store,
		activity:           activity,
		allowSelfElevation: allowSelfElevation,
		logger:             logger,
	}
}

// ChangeTier switches the viewer between free and premium. The profile update
// and the activity entry are separate writes.
func (s *membershipServiceImpl) ChangeTier(ctx context.Context, viewer *appAuth.Viewer, tier models.Tier) (*dto.MembershipResponse, error) {
	if err := appAuth.RequireViewer(viewer); err != nil {
		return nil, err
	}

	tier, err := models.ParseTier(string(tier))
	if err != nil {
		return nil, err
	}
	if tier == models.TierBoard {
		return nil, apperrors.NewForbiddenError("Board membership cannot be selected here.")
	}

	if err := s.setTier(ctx, viewer, tier); err != nil {
		return nil, err
	}

	if err := s.activity.Record(ctx, models.ActivityUpgrade,
		fmt.Sprintf("%s upgraded to %s membership.", viewer.DisplayName(), tier)); err != nil {
		s.logger.Warn().Err(err).Str("accountID", viewer.ID()).Msg("Failed to record membership activity")
	}

	s.logger.Info().Str("accountID", viewer.ID()).Str("from", string(viewer.Tier)).Str("to", string(tier)).Msg("Membership changed")
	return &dto.MembershipResponse{MembershipType: tier, Label: tier.Label()}, nil
}

// Elevate grants the viewer board membership when self elevation is enabled
func (s *membershipServiceImpl) Elevate(ctx context.Context, viewer *appAuth.Viewer) (*dto.MembershipResponse, error) {
	if err := appAuth.RequireViewer(viewer); err != nil {
		return nil, err
	}
	if !s.allowSelfElevation {
		return nil, apperrors.NewForbiddenError("Self-service admin elevation is disabled.")
	}

	if err := s.setTier(ctx, viewer, models.TierBoard); err != nil {
		return nil, err
	}

	s.logger.Warn().Str("accountID", viewer.ID()).Msg("Account elevated itself to board")
	if err := s.activity.Record(ctx, models.ActivityAdmin,
		fmt.Sprintf("%s was granted board access.", viewer.DisplayName())); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record elevation activity")
	}
	return &dto.MembershipResponse{MembershipType: models.TierBoard, Label: models.TierBoard.Label()}, nil
}

// setTier writes the tier to the profile, creating the profile from the
// account when it does not exist yet, then mirrors it onto the roster
func (s *membershipServiceImpl) setTier(ctx context.Context, viewer *appAuth.Viewer, tier models.Tier) error {
	err := s.profiles.UpdateMembership(ctx, viewer.AccountID, tier)
	if dberrors.IsNotFound(err) {
		acc, accErr := s.accounts.GetByID(ctx, viewer.AccountID)
		if accErr != nil {
			return fmt.Errorf("failed to load account: %w", accErr)
		}
		profile := models.DefaultProfile(acc)
		profile.MembershipType = tier
		err = s.profiles.Upsert(ctx, profile)
	}
	if err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}

	_, err = updateList(ctx, s.store, liststore.KeyMembers, func(list []models.Member) ([]models.Member, error) {
		for i := range list {
			if list[i].ID == viewer.ID() {
				list[i].MembershipType = tier
			}
		}
		return list, nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("accountID", viewer.ID()).Msg("Failed to mirror tier onto roster")
	}
	return nil
}
