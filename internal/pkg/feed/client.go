// Package feed fetches and normalizes the external events feed.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bizlink/alliance/internal/app/models"
)

const maxFeedBytes = 4 << 20

// ErrNotConfigured is returned when the client has no feed URL
var ErrNotConfigured = errors.New("events feed URL not configured")

// StatusError reports a non-2xx feed response
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Feed error %d", e.StatusCode)
}

// Client fetches the events feed
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a feed client. An empty url yields a client that is not configured.
func NewClient(feedURL string, timeout time.Duration) *Client {
	return &Client{
		url:        strings.TrimSpace(feedURL),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a feed URL is set
func (c *Client) Configured() bool {
	return c != nil && c.url != ""
}

// Fetch performs one GET against the feed and returns its normalized items
func (c *Client) Fetch(ctx context.Context) ([]models.FeedEvent, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	return Decode(body)
}

// Decode parses a feed body. A bare array and an object with an "items" array
// are accepted; any other valid JSON shape yields no items.
func Decode(body []byte) ([]models.FeedEvent, error) {
	body = bytes.TrimSpace(body)

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	var items []json.RawMessage
	switch {
	case len(body) > 0 && body[0] == '[':
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode feed: %w", err)
		}
	case len(body) > 0 && body[0] == '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("decode feed: %w", err)
		}
		if rawItems, ok := wrapper["items"]; ok {
			// a non-array "items" is ignored
			_ = json.Unmarshal(rawItems, &items)
		}
	}

	events := make([]models.FeedEvent, 0, len(items))
	for i, item := range items {
		events = append(events, normalize(item, i))
	}
	return events, nil
}

func normalize(raw json.RawMessage, idx int) models.FeedEvent {
	var fields map[string]interface{}
	// non-object elements keep every default
	_ = json.Unmarshal(raw, &fields)

	return models.FeedEvent{
		ID:          orDefault(text(fields["id"]), "feed-"+strconv.Itoa(idx)),
		Title:       orDefault(text(fields["title"]), "Untitled"),
		Description: text(fields["description"]),
		Date:        text(fields["date"]),
		Time:        text(fields["time"]),
		Location:    text(fields["location"]),
		AuthorName:  orDefault(text(fields["authorName"]), "Community"),
		Type:        models.ParseEventType(text(fields["type"])),
		URL:         orDefault(text(fields["url"]), text(fields["link"])),
	}
}

// text renders scalar JSON values as strings; everything else is empty
func text(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
	}
	return ""
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// IsFacebookURL reports whether u points at a facebook.com host
func IsFacebookURL(u string) bool {
	if u == "" {
		return false
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(parsed.Hostname()), "facebook.com")
}
