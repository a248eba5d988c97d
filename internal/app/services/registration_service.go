package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/pkg/apperrors"
	"github.com/bizlink/alliance/internal/pkg/metrics"
	"github.com/bizlink/alliance/internal/pkg/validation"
	"github.com/bizlink/alliance/internal/pkg/webhook"
	"github.com/rs/zerolog"
)

// Form defaults of the free registration hand-off
const (
	RegistrationFormSource  = "BizLink Free Registration"
	RegistrationDefaultTags = "BL|Lead,BL|FreeRegistration"
)

// UTMKeys are copied from the query string into missing form fields
var UTMKeys = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"}

var registrationRequired = []string{"first_name", "last_name", "email", "phone", "chapter", "consent_sms", "code_of_conduct"}

// WebhookSender delivers a payload to the inbound lead webhook
type WebhookSender interface {
	Configured() bool
	Send(ctx context.Context, payload interface{}) error
}

// RegistrationService defines the free registration hand-off
type RegistrationService interface {
	Submit(ctx context.Context, form map[string]string, query url.Values) (*dto.RegistrationResponse, error)
}

type registrationServiceImpl struct {
	sender WebhookSender
	logger zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(sender WebhookSender, logger zerolog.Logger) RegistrationService {
	return &registrationServiceImpl{sender: sender, logger: logger}
}

// Submit validates the form, posts it to the webhook and returns the thank-you redirect
func (s *registrationServiceImpl) Submit(ctx context.Context, form map[string]string, query url.Values) (*dto.RegistrationResponse, error) {
	data := BuildRegistrationPayload(form, query)

	if errs := ValidateRegistration(data); errs.HasErrors() {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, errs.Errors[0].Message).
			WithDetails(map[string]interface{}{"errors": errs.Errors})
	}

	if s.sender == nil || !s.sender.Configured() {
		metrics.WebhookDeliveries.WithLabelValues("not_configured").Inc()
		return nil, apperrors.NewNotConfiguredError("Submission endpoint is not configured.")
	}

	if err := s.sender.Send(ctx, data); err != nil {
		metrics.WebhookDeliveries.WithLabelValues("failed").Inc()
		appErr := apperrors.NewCustomError(apperrors.ErrUpstreamFailure, "Something went wrong. Please try again.")
		var se *webhook.StatusError
		if errors.As(err, &se) {
			s.logger.Warn().Int("status", se.StatusCode).Str("body", se.Body).Msg("Registration webhook rejected submission")
			return nil, appErr.WithCode(string(dto.ErrorCodeWebhookFailed)).WithStatusMsg("Registration Not Sent")
		}
		s.logger.Warn().Err(err).Msg("Registration webhook unreachable")
		return nil, appErr
	}

	metrics.WebhookDeliveries.WithLabelValues("delivered").Inc()
	s.logger.Info().Str("chapter", data["chapter"]).Msg("Free registration delivered")
	return &dto.RegistrationResponse{
		Redirect: "/thank-you?chapter=" + url.QueryEscape(data["chapter"]),
	}, nil
}

// BuildRegistrationPayload trims the form, fills system fields and UTM values,
// and appends the chapter tag
func BuildRegistrationPayload(form map[string]string, query url.Values) map[string]string {
	data := make(map[string]string, len(form)+len(UTMKeys)+2)
	for k, v := range form {
		data[k] = strings.TrimSpace(v)
	}

	if data["form_source"] == "" {
		data["form_source"] = RegistrationFormSource
	}
	if _, ok := form["tags"]; !ok {
		data["tags"] = RegistrationDefaultTags
	}
	for _, k := range UTMKeys {
		if data[k] == "" {
			data[k] = query.Get(k)
		}
	}
	if chapter := data["chapter"]; chapter != "" {
		data["tags"] = data["tags"] + ",BL|Chapter:" + chapter
	}
	return data
}

// ValidateRegistration checks the required fields, email and phone
func ValidateRegistration(data map[string]string) *dto.ValidationErrors {
	errs := dto.NewValidationErrors()
	for _, field := range registrationRequired {
		if !validation.NewStringValidation(data[field]).Validate() {
			errs.AddError(field, field+" is required")
		}
	}

	if email := data["email"]; email != "" && !strings.Contains(email, "@") {
		errs.AddError("email", "Please enter a valid email address")
	}
	if phone := data["phone"]; phone != "" &&
		!validation.NewStringValidation(phone).WithPattern(validation.CompiledPatterns.Phone).Validate() {
		errs.AddError("phone", "Please enter a valid phone number")
	}
	return errs
}
