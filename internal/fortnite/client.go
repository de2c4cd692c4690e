package fortnite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

// APIClient reads player statistics from the Fortnite stats API.
type APIClient struct {
	httpClient *http.Client
	apiKey     string
	BaseURL    string
}

// NewClient creates a new stats API client.
func NewClient(baseURL, apiKey string) StatsClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		BaseURL:    baseURL,
	}
}

// Ensure APIClient implements the StatsClient interface.
var _ StatsClient = (*APIClient)(nil)

// GetLastMatch fetches the stats for a handle and extracts the last match.
// ErrNoStats and ErrNoMatch mean there is nothing to report, not a failure.
func (c *APIClient) GetLastMatch(ctx context.Context, handle string) (LastMatch, error) {
	endpoint := fmt.Sprintf("%s/v1/stats/%s", c.BaseURL, url.PathEscape(handle))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return LastMatch{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "FortniteTrackerGoClient/1.0")

	log.Debug("Requesting player stats", "url", endpoint, "handle", handle)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LastMatch{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("Received non-OK HTTP status from stats API", "status", resp.StatusCode, "body", string(body), "handle", handle)
		return LastMatch{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var stats statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return LastMatch{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if stats.Data == nil {
		return LastMatch{}, ErrNoStats
	}
	raw := stats.Data.LastMatch
	if raw == nil || raw.ID == "" {
		return LastMatch{}, ErrNoMatch
	}

	m := LastMatch{
		ID:        raw.ID,
		Mode:      DefaultMode,
		Type:      raw.Type,
		Placement: DefaultPlacement,
	}
	if raw.Mode != nil && *raw.Mode != "" {
		m.Mode = *raw.Mode
	}
	if raw.Kills != nil {
		m.Kills = *raw.Kills
	}
	if raw.Placement != nil {
		m.Placement = *raw.Placement
	}
	if raw.Victory != nil {
		m.Victory = *raw.Victory
	}
	if raw.Skin != nil {
		m.SkinURL = raw.Skin.Image
	}
	log.Debug("Last match", "handle", handle, "match", m)
	return m, nil
}
