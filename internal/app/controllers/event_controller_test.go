package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appAuth "github.com/bizlink/alliance/internal/app/auth"
	"github.com/bizlink/alliance/internal/app/models"
	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/app/services"
	"github.com/bizlink/alliance/internal/middleware"
	"github.com/bizlink/alliance/internal/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) LoadEvents(context.Context) services.EventListing {
	return services.EventListing{}
}

func (m *mockEventService) Calendar(context.Context, *appAuth.Viewer, string) *dto.EventListingResponse {
	return &dto.EventListingResponse{}
}

func (m *mockEventService) Upcoming(context.Context, *appAuth.Viewer) *dto.EventListingResponse {
	return &dto.EventListingResponse{}
}

func (m *mockEventService) MyEvents(context.Context, *appAuth.Viewer) ([]dto.EventResponse, error) {
	return nil, nil
}

func (m *mockEventService) ListStored(context.Context, *appAuth.Viewer) ([]dto.EventResponse, error) {
	return nil, nil
}

func (m *mockEventService) CreateEvent(ctx context.Context, viewer *appAuth.Viewer, req *dto.EventRequest) (*dto.EventResponse, error) {
	args := m.Called(ctx, viewer, req)
	resp, _ := args.Get(0).(*dto.EventResponse)
	return resp, args.Error(1)
}

func (m *mockEventService) UpdateEvent(ctx context.Context, viewer *appAuth.Viewer, id uuid.UUID, req *dto.EventRequest) (*dto.EventResponse, error) {
	args := m.Called(ctx, viewer, id, req)
	resp, _ := args.Get(0).(*dto.EventResponse)
	return resp, args.Error(1)
}

func (m *mockEventService) DeleteEvent(ctx context.Context, viewer *appAuth.Viewer, id uuid.UUID) error {
	return m.Called(ctx, viewer, id).Error(0)
}

func eventRouter(t *testing.T, svc services.EventService, tier models.Tier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterWithGin())

	viewer := &appAuth.Viewer{AccountID: uuid.New(), Email: "member@example.com", Name: "Member", Tier: tier}
	c := NewEventController(svc, zerolog.Nop())

	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		middleware.SetViewer(ctx, viewer)
		ctx.Next()
	})
	r.POST("/events", c.CreateEvent)
	r.PUT("/events/:id", c.UpdateEvent)
	return r
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorCode {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestCreateEvent_FreeMemberGetsUpgradePromptBeforeValidation(t *testing.T) {
	svc := &mockEventService{}
	r := eventRouter(t, svc, models.TierFree)

	for _, body := range []string{`{}`, `{"title":"Mixer","date":"2025-09-10"}`} {
		w := send(r, http.MethodPost, "/events", body)
		assert.Equal(t, http.StatusForbidden, w.Code, body)
		assert.Equal(t, dto.ErrorCodeUpgradeRequired, errorCode(t, w), body)
	}
	svc.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateEvent_PremiumMemberIsValidated(t *testing.T) {
	svc := &mockEventService{}
	svc.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).
		Return(&dto.EventResponse{Event: models.Event{Title: "Mixer"}}, nil).Once()
	r := eventRouter(t, svc, models.TierPremium)

	w := send(r, http.MethodPost, "/events", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errorCode(t, w))

	w = send(r, http.MethodPost, "/events", `{"title":"Mixer","date":"2025-09-10","time":"18:30"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateEvent_FreeMemberGetsUpgradePrompt(t *testing.T) {
	svc := &mockEventService{}
	r := eventRouter(t, svc, models.TierFree)

	w := send(r, http.MethodPut, "/events/"+uuid.NewString(), `{}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeUpgradeRequired, errorCode(t, w))
	svc.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
