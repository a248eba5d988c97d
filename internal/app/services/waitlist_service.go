package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/repositories"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/rs/zerolog"
)

// Waitlist messages
const (
	WaitlistJoinedMessage  = "You're on the list!"
	WaitlistAlreadyMessage = "Already on the list!"
)

// WaitlistService defines the waitlist signup
type WaitlistService interface {
	Join(ctx context.Context, email string) (*dto.WaitlistResponse, error)
}

type waitlistServiceImpl struct {
	waitlist repositories.IWaitlistRepository
	logger   zerolog.Logger
}

// NewWaitlistService creates a new WaitlistService
func NewWaitlistService(waitlist repositories.IWaitlistRepository, logger zerolog.Logger) WaitlistService {
	return &waitlistServiceImpl{waitlist: waitlist, logger: logger}
}

// Join adds email to the waitlist. A repeated signup is not an error.
func (s *waitlistServiceImpl) Join(ctx context.Context, email string) (*dto.WaitlistResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.waitlist.Insert(ctx, email)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			s.logger.Debug().Str("email", email).Msg("Waitlist signup repeated")
			return &dto.WaitlistResponse{Email: email, AlreadyListed: true}, nil
		}
		return nil, fmt.Errorf("failed to join waitlist: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("Waitlist signup")
	return &dto.WaitlistResponse{Email: email}, nil
}
