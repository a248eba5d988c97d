// Package webhook posts form submissions to the inbound lead webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no webhook URL is set
	ErrNotConfigured = errors.New("webhook URL not configured")
)

// StatusError reports a non-2xx webhook response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook responded with status %d", e.StatusCode)
}

// Client sends JSON payloads to a single webhook URL
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a webhook client
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:       strings.TrimSpace(url),
		userAgent: "BizLink-Alliance/1.0",
		httpClient: &http.Client{
			Timeout: timeout,
			// Redirects are not followed
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Configured reports whether a webhook URL is set
func (c *Client) Configured() bool {
	return c != nil && c.url != ""
}

// Send posts payload as JSON. Any non-2xx response is returned as a *StatusError.
func (c *Client) Send(ctx context.Context, payload interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &buf)
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return &StatusError{StatusCode: res.StatusCode, Body: string(body)}
	}
	return nil
}
