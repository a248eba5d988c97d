package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	pkgAuth "github.com/bizlink/alliance/internal/pkg/auth"
	"github.com/bizlink/alliance/internal/pkg/dberrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notFound = &dberrors.GatewayError{Code: dberrors.CodeNotFound, Message: "no rows returned"}

type stubProfiles struct {
	byID map[uuid.UUID]models.Profile
}

func (s *stubProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if p, ok := s.byID[id]; ok {
		return &p, nil
	}
	return nil, notFound
}

func (s *stubProfiles) List(context.Context) ([]models.Profile, error) { return nil, nil }

func (s *stubProfiles) Upsert(context.Context, *models.Profile) error { return nil }

func (s *stubProfiles) UpdateMembership(context.Context, uuid.UUID, models.Tier) error { return nil }

type stubAccounts struct {
	byID map[uuid.UUID]models.Account
}

func (s *stubAccounts) Create(context.Context, string, string, models.AccountMetadata) (*models.Account, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAccounts) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	if a, ok := s.byID[id]; ok {
		return &a, nil
	}
	return nil, notFound
}

func (s *stubAccounts) GetByEmail(context.Context, string) (*models.Account, error) {
	return nil, notFound
}

func (s *stubAccounts) UpdateMetadata(context.Context, uuid.UUID, models.AccountMetadata) error {
	return nil
}

func (s *stubAccounts) TouchLastLogin(context.Context, uuid.UUID) error { return nil }

type fixture struct {
	router   *gin.Engine
	jwt      *pkgAuth.JWTService
	profiles *stubProfiles
	accounts *stubAccounts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		jwt: pkgAuth.NewJWTService(pkgAuth.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenExp:  time.Hour,
			RefreshTokenExp: 24 * time.Hour,
			TokenIssuer:     "test",
		}),
		profiles: &stubProfiles{byID: map[uuid.UUID]models.Profile{}},
		accounts: &stubAccounts{byID: map[uuid.UUID]models.Account{}},
	}
	m := NewAuthMiddleware(f.jwt, f.profiles, f.accounts, zerolog.Nop())

	viewerJSON := func(c *gin.Context) {
		v := GetViewer(c)
		if v == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": v.ID(), "tier": v.Tier})
	}

	r := gin.New()
	r.GET("/optional", m.OptionalAuth(), viewerJSON)
	r.GET("/private", m.JWTAuth(), viewerJSON)
	r.GET("/admin", m.JWTAuth(), m.BoardRequired(), viewerJSON)
	f.router = r
	return f
}

func (f *fixture) member(t *testing.T, tier models.Tier) string {
	t.Helper()
	id := uuid.New()
	f.profiles.byID[id] = models.Profile{ID: id, Email: string(tier) + "@example.com", MembershipType: tier}
	return f.token(t, id)
}

func (f *fixture) token(t *testing.T, id uuid.UUID) string {
	t.Helper()
	pair, err := f.jwt.GenerateTokenPair(id, "member@example.com")
	require.NoError(t, err)
	return pair.AccessToken
}

func (f *fixture) do(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestOptionalAuthAnonymous(t *testing.T) {
	f := newFixture(t)

	w := f.do("/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())
}

func TestOptionalAuthRejectsBadToken(t *testing.T) {
	f := newFixture(t)

	w := f.do("/optional", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, w).Error.Code)
}

func TestJWTAuthRequiresHeader(t *testing.T) {
	f := newFixture(t)

	w := f.do("/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, decodeError(t, w).Error.Code)
}

func TestJWTAuthResolvesTierFromProfile(t *testing.T) {
	f := newFixture(t)

	w := f.do("/private", f.member(t, models.TierPremium))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Tier models.Tier `json:"tier"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.TierPremium, body.Tier)
}

func TestJWTAuthWithoutProfileIsFree(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.accounts.byID[id] = models.Account{ID: id, Email: "new@example.com", CreatedAt: time.Now()}

	w := f.do("/private", f.token(t, id))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tier":"free"`)
}

func TestJWTAuthDeletedAccount(t *testing.T) {
	f := newFixture(t)

	w := f.do("/private", f.token(t, uuid.New()))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBoardRequired(t *testing.T) {
	tests := []struct {
		tier   models.Tier
		status int
	}{
		{models.TierFree, http.StatusForbidden},
		{models.TierPremium, http.StatusForbidden},
		{models.TierBoard, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			f := newFixture(t)
			w := f.do("/admin", f.member(t, tt.tier))
			require.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, w).Error.Code)
			}
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"anonymous", apperrors.NewCustomError(apperrors.ErrUnauthenticated, "Sign in first"), http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"upgrade", apperrors.NewUpgradeRequiredError("Upgrade to create events"), http.StatusForbidden, dto.ErrorCodeUpgradeRequired},
		{"forbidden", appAuth.RequireAdmin(&appAuth.Viewer{AccountID: uuid.New(), Tier: models.TierFree}), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"not configured", apperrors.NewNotConfiguredError("Webhook not configured"), http.StatusServiceUnavailable, dto.ErrorCodeConfigMissing},
		{"webhook rejected", apperrors.NewCustomError(apperrors.ErrUpstreamFailure, "try again").WithCode(string(dto.ErrorCodeWebhookFailed)), http.StatusBadGateway, dto.ErrorCodeWebhookFailed},
		{"upstream unreachable", apperrors.NewCustomError(apperrors.ErrUpstreamFailure, "try again"), http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
		{"conflict", apperrors.NewCustomError(apperrors.ErrConflict, "try again"), http.StatusConflict, dto.ErrorCodeConflict},
		{"gateway not found", notFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"gateway failure", &dberrors.GatewayError{Code: dberrors.CodeUnknown, Message: "boom"}, http.StatusInternalServerError, dto.ErrorCodeDatabaseError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Error.Code)
		})
	}
}

func TestHandleAPIErrorKeepsUserMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleAPIError(c, apperrors.NewUpgradeRequiredError("Upgrade to create events"))

	resp := decodeError(t, w)
	assert.Equal(t, "Upgrade to create events", resp.Error.Message)
}

func TestHandleBindError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))

	var req dto.WaitlistRequest
	err := c.ShouldBindJSON(&req)
	require.Error(t, err)
	HandleBindError(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Error.Code)
}
