package middleware

import (
	"errors"
	"net/http"
	"strings"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/repositories"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	pkgAuth "github.com/bizlink/alliance/internal/pkg/auth"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const viewerKey = "viewer"

// AuthMiddleware resolves the viewer of a request from its bearer token
type AuthMiddleware struct {
	jwtService *pkgAuth.JWTService
	profiles   repositories.IProfileRepository
	accounts   repositories.IAccountRepository
	logger     zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(
	jwtService *pkgAuth.JWTService,
	profiles repositories.IProfileRepository,
	accounts repositories.IAccountRepository,
	logger zerolog.Logger,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		profiles:   profiles,
		accounts:   accounts,
		logger:     logger,
	}
}

// GetViewer returns the viewer set by the auth middleware, or nil for anonymous requests
func GetViewer(c *gin.Context) *appAuth.Viewer {
	v, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	viewer, _ := v.(*appAuth.Viewer)
	return viewer
}

// SetViewer stores the viewer on the request context
func SetViewer(c *gin.Context, viewer *appAuth.Viewer) {
	c.Set(viewerKey, viewer)
}

// bearerHeader returns the Authorization header. Websocket handshakes from a
// browser cannot set headers and may pass the token as access_token instead.
func bearerHeader(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return h
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		if token := c.Query("access_token"); token != "" {
			return "Bearer " + token
		}
	}
	return ""
}

// OptionalAuth resolves the viewer when a token is present. Requests without
// an Authorization header continue anonymously; a bad token is rejected.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerHeader(c) == "" {
			c.Next()
			return
		}
		if !m.authenticate(c) {
			return
		}
		c.Next()
	}
}

// JWTAuth requires a valid token
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerHeader(c) == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}
		if !m.authenticate(c) {
			return
		}
		c.Next()
	}
}

// BoardRequired rejects every viewer but board members. Must run after JWTAuth.
func (m *AuthMiddleware) BoardRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := appAuth.RequireAdmin(GetViewer(c)); err != nil {
			m.logger.Warn().
				Str("path", c.FullPath()).
				Str("viewer", GetViewer(c).ID()).
				Msg("Admin area denied")
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// authenticate validates the token and stores the viewer. It aborts the
// request and returns false on failure.
func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	tokenString, err := pkgAuth.ExtractBearerToken(strings.Trim(bearerHeader(c), "\"'"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		errorDetail = errorDetail.WithDetails("Invalid token format")
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return false
	}

	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		errorCode := dto.ErrorCodeInvalidToken
		errorDetails := "Invalid token"
		if errors.Is(err, pkgAuth.ErrExpiredToken) {
			errorCode = dto.ErrorCodeExpiredToken
			errorDetails = "Token has expired"
		}
		errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(errorDetails)
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return false
	}

	accountID, _ := uuid.Parse(claims.AccountID)
	viewer, err := m.resolveViewer(c, accountID, claims.Email)
	if err != nil {
		m.logger.Error().Err(err).Str("accountID", claims.AccountID).Msg("Failed to resolve viewer")
		HandleAPIError(c, err)
		return false
	}

	SetViewer(c, viewer)
	return true
}

// resolveViewer reads the viewer's tier from the profile on every request.
// Accounts without a profile row are free members; a profile with an unknown
// tier gets no tier at all, which every gate treats as anonymous.
func (m *AuthMiddleware) resolveViewer(c *gin.Context, accountID uuid.UUID, email string) (*appAuth.Viewer, error) {
	ctx := c.Request.Context()

	profile, err := m.profiles.GetByID(ctx, accountID)
	switch {
	case err == nil:
		return &appAuth.Viewer{
			AccountID:    accountID,
			Email:        profile.Email,
			Name:         profile.Name,
			BusinessName: profile.BusinessName,
			Tier:         profile.MembershipType,
		}, nil
	case errors.Is(err, apperrors.ErrInvalidTier):
		m.logger.Warn().Err(err).Str("accountID", accountID.String()).Msg("Profile carries an invalid membership tier")
		return &appAuth.Viewer{AccountID: accountID, Email: email}, nil
	case !dberrors.IsNotFound(err):
		return nil, err
	}

	acc, err := m.accounts.GetByID(ctx, accountID)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Account no longer exists")
		}
		return nil, err
	}
	p := models.DefaultProfile(acc)
	return &appAuth.Viewer{
		AccountID:    acc.ID,
		Email:        acc.Email,
		Name:         p.Name,
		BusinessName: p.BusinessName,
		Tier:         p.MembershipType,
	}, nil
}
