package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/repositories"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	pkgAuth "github.com/bizlink/alliance/internal/pkg/auth"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionEventType names a change of session state
type SessionEventType string

const (
	SessionSignedUp    SessionEventType = "SIGNED_UP"
	SessionSignedIn    SessionEventType = "SIGNED_IN"
	SessionSignedOut   SessionEventType = "SIGNED_OUT"
	SessionRefreshed   SessionEventType = "TOKEN_REFRESHED"
	SessionUserUpdated SessionEventType = "USER_UPDATED"
)

// SessionEvent is delivered to session listeners
type SessionEvent struct {
	Type         SessionEventType
	AccountID    uuid.UUID
	Email        string
	Name         string
	BusinessName string
}

// SessionListener is called synchronously after a session change
type SessionListener func(ctx context.Context, ev SessionEvent)

// AuthService defines account and session operations
type AuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error)
	SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error)
	SignOut(ctx context.Context, accountID uuid.UUID, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	GetSession(ctx context.Context, accountID uuid.UUID) (*dto.SessionResponse, error)
	UpdateUserMetadata(ctx context.Context, accountID uuid.UUID, req *dto.UpdateMetadataRequest) (*dto.SessionResponse, error)
	OnSessionChange(fn SessionListener) (unsubscribe func())
}

type authServiceImpl struct {
	accounts   repositories.IAccountRepository
	profiles   repositories.IProfileRepository
	tokens     repositories.ITokenRepository
	jwtService *pkgAuth.JWTService
	logger     zerolog.Logger

	mu        sync.RWMutex
	listeners map[int]SessionListener
	nextID    int
}

// NewAuthService creates a new AuthService
func NewAuthService(
	accounts repositories.IAccountRepository,
	profiles repositories.IProfileRepository,
	tokens repositories.ITokenRepository,
	jwtService *pkgAuth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		accounts:   accounts,
		profiles:   profiles,
		tokens:     tokens,
		jwtService: jwtService,
		logger:     logger,
		listeners:  make(map[int]SessionListener),
	}
}

// SignUp creates the account, its free profile and a session
func (s *authServiceImpl) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := pkgAuth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	meta := models.AccountMetadata{
		Name:         strings.TrimSpace(req.Name),
		BusinessName: strings.TrimSpace(req.BusinessName),
		Industry:     strings.TrimSpace(req.Industry),
	}
	acc, err := s.accounts.Create(ctx, email, hash, meta)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	profile := models.DefaultProfile(acc)
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		// The viewer falls back to a default free profile until one is saved.
		s.logger.Warn().Err(err).Str("accountID", acc.ID.String()).Msg("Failed to create profile at sign up")
	}

	token, err := s.issueTokens(ctx, acc)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("accountID", acc.ID.String()).Str("email", acc.Email).Msg("Account created")
	s.emit(ctx, SessionSignedUp, acc)

	return &dto.AuthResponse{
		Token:   *token,
		Session: dto.SessionResponse{Account: acc, Profile: profile},
	}, nil
}

// SignIn checks credentials and opens a session
func (s *authServiceImpl) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error) {
	acc, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !pkgAuth.CheckPassword(acc.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.accounts.TouchLastLogin(ctx, acc.ID); err != nil {
		s.logger.Warn().Err(err).Str("accountID", acc.ID.String()).Msg("Failed to record last login")
	}

	token, err := s.issueTokens(ctx, acc)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileOf(ctx, acc)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, SessionSignedIn, acc)
	return &dto.AuthResponse{
		Token:   *token,
		Session: dto.SessionResponse{Account: acc, Profile: profile},
	}, nil
}

// SignOut revokes the given refresh token, or every token of the account
// when none is given.
func (s *authServiceImpl) SignOut(ctx context.Context, accountID uuid.UUID, refreshToken string) error {
	if refreshToken != "" {
		stored, err := s.tokens.GetTokenByValue(ctx, refreshToken)
		switch {
		case apperrors.Is(err, apperrors.ErrTokenNotFound, apperrors.ErrTokenRevoked, apperrors.ErrTokenExpired):
			// Nothing left to revoke
		case err != nil:
			return fmt.Errorf("failed to load token: %w", err)
		case stored.AccountID != accountID:
			s.logger.Warn().Str("accountID", accountID.String()).Msg("Sign-out attempted with another account's refresh token")
			return apperrors.NewForbiddenError("This session does not belong to you.")
		default:
			if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
				return fmt.Errorf("failed to revoke token: %w", err)
			}
		}
	} else if err := s.tokens.RevokeAllAccountTokens(ctx, accountID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	s.emit(ctx, SessionSignedOut, &models.Account{ID: accountID})
	return nil
}

// Refresh rotates a refresh token into a new token pair
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokens.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	acc, err := s.accounts.GetByID(ctx, stored.AccountID)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	// Prevent reuse of the old token
	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	token, err := s.issueTokens(ctx, acc)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, SessionRefreshed, acc)
	return token, nil
}

// GetSession returns the account and profile behind a session
func (s *authServiceImpl) GetSession(ctx context.Context, accountID uuid.UUID) (*dto.SessionResponse, error) {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	profile, err := s.profileOf(ctx, acc)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{Account: acc, Profile: profile}, nil
}

// UpdateUserMetadata patches the account metadata
func (s *authServiceImpl) UpdateUserMetadata(ctx context.Context, accountID uuid.UUID, req *dto.UpdateMetadataRequest) (*dto.SessionResponse, error) {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if req.Name != nil {
		acc.Metadata.Name = strings.TrimSpace(*req.Name)
	}
	if req.BusinessName != nil {
		acc.Metadata.BusinessName = strings.TrimSpace(*req.BusinessName)
	}
	if req.Industry != nil {
		acc.Metadata.Industry = strings.TrimSpace(*req.Industry)
	}

	if err := s.accounts.UpdateMetadata(ctx, accountID, acc.Metadata); err != nil {
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	profile, err := s.profileOf(ctx, acc)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, SessionUserUpdated, acc)
	return &dto.SessionResponse{Account: acc, Profile: profile}, nil
}

// OnSessionChange registers a listener and returns a function removing it
func (s *authServiceImpl) OnSessionChange(fn SessionListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *authServiceImpl) emit(ctx context.Context, t SessionEventType, acc *models.Account) {
	s.mu.RLock()
	listeners := make([]SessionListener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()

	ev := SessionEvent{
		Type:         t,
		AccountID:    acc.ID,
		Email:        acc.Email,
		Name:         acc.Metadata.Name,
		BusinessName: acc.Metadata.BusinessName,
	}
	for _, fn := range listeners {
		fn(ctx, ev)
	}
}

// profileOf loads the profile of acc, falling back to a default free profile
func (s *authServiceImpl) profileOf(ctx context.Context, acc *models.Account) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, acc.ID)
	if err == nil {
		return profile, nil
	}
	if dberrors.IsNotFound(err) {
		return models.DefaultProfile(acc), nil
	}
	return nil, fmt.Errorf("failed to load profile: %w", err)
}

func (s *authServiceImpl) issueTokens(ctx context.Context, acc *models.Account) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(acc.ID, acc.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokens.CreateToken(ctx, pair.RefreshToken, acc.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(pair.ExpiresIn),
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: int64(pair.RefreshExpiresIn),
	}, nil
}
