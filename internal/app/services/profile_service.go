package services

import (
	"context"
	"fmt"
	"strings"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/repositories"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/rs/zerolog"
)

// ProfileService defines the dashboard profile operations
type ProfileService interface {
	GetMine(ctx context.Context, viewer *appAuth.Viewer) (*models.Profile, error)
	UpdateMine(ctx context.Context, viewer *appAuth.Viewer, req *dto.UpdateProfileRequest) (*models.Profile, error)
}

type profileServiceImpl struct {
	accounts repositories.IAccountRepository
	profiles repositories.IProfileRepository
	logger   zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(accounts repositories.IAccountRepository, profiles repositories.IProfileRepository, logger zerolog.Logger) ProfileService {
	return &profileServiceImpl{
		accounts: accounts,
		profiles: profiles,
		logger:   logger,
	}
}

// GetMine returns the viewer's profile, or a default free profile built from
// the account when none is stored
func (s *profileServiceImpl) GetMine(ctx context.Context, viewer *appAuth.Viewer) (*models.Profile, error) {
	if err := appAuth.RequireViewer(viewer); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByID(ctx, viewer.AccountID)
	if err == nil {
		return profile, nil
	}
	if !dberrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	acc, err := s.accounts.GetByID(ctx, viewer.AccountID)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return models.DefaultProfile(acc), nil
}

// UpdateMine upserts the viewer's profile. The membership tier is not
// writable here.
func (s *profileServiceImpl) UpdateMine(ctx context.Context, viewer *appAuth.Viewer, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	current, err := s.GetMine(ctx, viewer)
	if err != nil {
		return nil, err
	}

	current.Name = strings.TrimSpace(req.Name)
	current.BusinessName = strings.TrimSpace(req.BusinessName)
	current.Industry = strings.TrimSpace(req.Industry)
	current.Phone = strings.TrimSpace(req.Phone)
	current.Description = strings.TrimSpace(req.Description)
	current.Chapter = strings.TrimSpace(req.Chapter)
	current.Socials = models.Socials{
		LinkedIn: strings.TrimSpace(req.Socials.LinkedIn),
		Twitter:  strings.TrimSpace(req.Socials.Twitter),
		Website:  strings.TrimSpace(req.Socials.Website),
		Facebook: strings.TrimSpace(req.Socials.Facebook),
	}

	if err := s.profiles.Upsert(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info().Str("accountID", viewer.ID()).Msg("Profile updated")
	return s.profiles.GetByID(ctx, viewer.AccountID)
}
