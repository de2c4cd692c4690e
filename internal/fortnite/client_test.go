package fortnite

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, status int, body string) *APIClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/stats/Ace%20Player", r.URL.EscapedPath())
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprintln(w, body)
	}))
	t.Cleanup(server.Close)

	return &APIClient{
		httpClient: server.Client(),
		apiKey:     "test-key",
		BaseURL:    server.URL,
	}
}

func TestGetLastMatch(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{
		"data": {
			"lastMatch": {
				"id": "m1",
				"mode": "Duo",
				"type": "Battle Royale",
				"kills": 3,
				"placement": 7,
				"victory": false,
				"skin": { "image": "https://img.test/skin.png" }
			}
		}
	}`)

	match, err := client.GetLastMatch(context.Background(), "Ace Player")

	require.NoError(t, err)
	assert.Equal(t, LastMatch{
		ID:        "m1",
		Mode:      "Duo",
		Type:      "Battle Royale",
		Kills:     3,
		Placement: 7,
		SkinURL:   "https://img.test/skin.png",
	}, match)
}

func TestGetLastMatch_AppliesDefaults(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{"data": {"lastMatch": {"id": "m2"}}}`)

	match, err := client.GetLastMatch(context.Background(), "Ace Player")

	require.NoError(t, err)
	assert.Equal(t, "m2", match.ID)
	assert.Equal(t, DefaultMode, match.Mode)
	assert.Equal(t, 0, match.Kills)
	assert.Equal(t, DefaultPlacement, match.Placement)
	assert.False(t, match.Victory)
	assert.Empty(t, match.SkinURL)
}

func TestGetLastMatch_SoftMisses(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"missing data", `{"result": true}`, ErrNoStats},
		{"null data", `{"data": null}`, ErrNoStats},
		{"missing last match", `{"data": {}}`, ErrNoMatch},
		{"missing match id", `{"data": {"lastMatch": {"mode": "Solo"}}}`, ErrNoMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.StatusOK, tt.body)
			_, err := client.GetLastMatch(context.Background(), "Ace Player")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetLastMatch_Errors(t *testing.T) {
	t.Run("non-OK status", func(t *testing.T) {
		client := newTestClient(t, http.StatusUnauthorized, `{"error": "bad key"}`)
		_, err := client.GetLastMatch(context.Background(), "Ace Player")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("malformed json", func(t *testing.T) {
		client := newTestClient(t, http.StatusOK, `{"data": `)
		_, err := client.GetLastMatch(context.Background(), "Ace Player")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoStats)
		assert.NotErrorIs(t, err, ErrUnexpectedStatus)
	})
}
