package services

import (
	"strings"

	"github.com/bizlink/alliance/internal/app/models/dto"
	"github.com/bizlink/alliance/internal/config"
)

// Integration render modes
const (
	IntegrationEmbed       = "embed"
	IntegrationPlaceholder = "placeholder"
)

// IntegrationService reports which embedded integrations are configured
type IntegrationService interface {
	Status() []dto.IntegrationStatus
}

type integrationServiceImpl struct {
	cfg config.IntegrationsConfig
}

// NewIntegrationService creates a new IntegrationService
func NewIntegrationService(cfg config.IntegrationsConfig) IntegrationService {
	return &integrationServiceImpl{cfg: cfg}
}

// Status lists every integration with embed or placeholder mode. URLs of
// server-side endpoints are not exposed.
func (s *integrationServiceImpl) Status() []dto.IntegrationStatus {
	entries := []struct {
		name    string
		url     string
		private bool
	}{
		{"events_feed", s.cfg.EventsFeedURL, true},
		{"facebook_page", s.cfg.FacebookPageURL, false},
		{"chat_widget", joinWidget(s.cfg.WidgetScriptURL, s.cfg.WidgetResourcesURL), false},
		{"waitlist_form", s.cfg.WaitlistFormURL, false},
		{"contact_form", s.cfg.ContactFormURL, false},
		{"calendar", s.cfg.CalendarURL, false},
		{"inbound_webhook", s.cfg.InboundWebhookURL, true},
	}

	out := make([]dto.IntegrationStatus, 0, len(entries))
	for _, e := range entries {
		st := dto.IntegrationStatus{Name: e.name, Mode: IntegrationPlaceholder}
		if e.url != "" {
			st.Mode = IntegrationEmbed
			if !e.private {
				st.URL = e.url
			}
		}
		out = append(out, st)
	}
	return out
}

// joinWidget requires both widget URLs; the script URL is reported
func joinWidget(script, resources string) string {
	script, resources = strings.TrimSpace(script), strings.TrimSpace(resources)
	if script == "" || resources == "" {
		return ""
	}
	return script
}
