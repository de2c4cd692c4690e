package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/fortnite-tracker/internal/config"
	"github.com/mauv0809/fortnite-tracker/internal/fortnite"
	"github.com/mauv0809/fortnite-tracker/internal/match"
	"github.com/mauv0809/fortnite-tracker/internal/metrics"
	"github.com/mauv0809/fortnite-tracker/internal/notifier"
	"github.com/mauv0809/fortnite-tracker/internal/tracker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSlackSigningSecret = "test-signing-secret"

// setupTestServer wires a server around a tracker with mock collaborators.
func setupTestServer(t *testing.T, stats fortnite.StatsClient, notif notifier.Notifier, slackSigningSecret string) *Server {
	t.Helper()

	cfg := config.Config{
		Players: []config.Player{{ID: "42", Handle: "Ace"}},
		Slack:   config.SlackConfig{SigningSecret: slackSigningSecret},
	}
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	tr := tracker.New(cfg.Players, stats, notif, metricsSvc)
	return NewServer(tr, notif, metricsSvc, metricsHandler, cfg)
}

// createSlackCommandRequest creates a signed request for a Slack slash command.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := form.Encode()
	req, err := http.NewRequest(http.MethodPost, targetURL, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)

	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(fmt.Sprintf("v0:%s:%s", timestamp, body)))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server := setupTestServer(t, fortnite.NewMockClient(), notifier.NewMock(), "")

	for _, path := range []string{"/", "/health"} {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "Fortnite Tracker 🚀 is alive!", rr.Body.String(), path)
	}
}

func TestListPlayersHandler(t *testing.T) {
	stats := fortnite.NewMockClient()
	stats.GetLastMatchFunc = func(handle string) (fortnite.LastMatch, error) {
		return fortnite.LastMatch{ID: "m1", Mode: "Solo"}, nil
	}
	server := setupTestServer(t, stats, notifier.NewMock(), "")
	server.Tracker.PollOnce(t.Context(), false)

	req, err := http.NewRequest(http.MethodGet, "/players", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var players []tracker.PlayerStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Equal(t, []tracker.PlayerStatus{{ID: "42", Handle: "Ace", LastMatchID: "m1"}}, players)
}

func TestPollHandler(t *testing.T) {
	stats := fortnite.NewMockClient()
	stats.GetLastMatchFunc = func(handle string) (fortnite.LastMatch, error) {
		return fortnite.LastMatch{ID: "m1", Mode: "Duo", Kills: 3, Placement: 7}, nil
	}
	notif := notifier.NewMock()
	server := setupTestServer(t, stats, notif, "")

	t.Run("runs one cycle", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, "/poll", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var cycle tracker.Cycle
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cycle))
		assert.Equal(t, 1, cycle.Checked)
		assert.Equal(t, 1, cycle.New)
		assert.Len(t, notif.SendMatchResultCalls, 1)
	})

	t.Run("rejects GET", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, "/poll", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

func TestPostMatchHandler(t *testing.T) {
	body := `{"user":"42","won":false,"mode":"duo","type":"Zero Build","kills":3,"placement":7}`

	t.Run("posts every time without dedup", func(t *testing.T) {
		notif := notifier.NewMock()
		server := setupTestServer(t, fortnite.NewMockClient(), notif, "")

		for range 2 {
			req, err := http.NewRequest(http.MethodPost, "/matches", strings.NewReader(body))
			require.NoError(t, err)
			rr := httptest.NewRecorder()
			server.Router.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			var resp ManualMatchResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "sent", resp.Status)
		}

		require.Len(t, notif.SendMatchResultCalls, 2)
		assert.Equal(t, match.Result{
			PlayerID:  "42",
			Mode:      "Duo",
			Type:      "Zero Build",
			Kills:     3,
			Placement: 7,
			Manual:    true,
		}, notif.SendMatchResultCalls[0])
	})

	t.Run("dry run is forwarded", func(t *testing.T) {
		notif := notifier.NewMock()
		var sawDryRun bool
		server := setupTestServer(t, fortnite.NewMockClient(), &dryRunSpy{Mock: notif, saw: &sawDryRun}, "")

		req, err := http.NewRequest(http.MethodPost, "/matches?dry_run=true", strings.NewReader(body))
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, sawDryRun)
	})

	t.Run("invalid body", func(t *testing.T) {
		server := setupTestServer(t, fortnite.NewMockClient(), notifier.NewMock(), "")

		for _, bad := range []string{`not json`, `{"won":true,"mode":"Solo"}`, `{"user":"42","kills":1}`} {
			req, err := http.NewRequest(http.MethodPost, "/matches", strings.NewReader(bad))
			require.NoError(t, err)
			rr := httptest.NewRecorder()
			server.Router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code, bad)
		}
	})

	t.Run("delivery failure", func(t *testing.T) {
		notif := notifier.NewMock()
		notif.SendMatchResultFunc = func(r *match.Result) error { return errors.New("webhook down") }
		server := setupTestServer(t, fortnite.NewMockClient(), notif, "")

		req, err := http.NewRequest(http.MethodPost, "/matches", strings.NewReader(body))
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "Failed to send match result")
	})
}

// dryRunSpy records whether the dry run flag reached the notifier.
type dryRunSpy struct {
	*notifier.Mock
	saw *bool
}

func (d *dryRunSpy) SendMatchResult(ctx context.Context, result *match.Result, dryRun bool) error {
	*d.saw = dryRun
	return d.Mock.SendMatchResult(ctx, result, dryRun)
}

func TestMatchCommandHandler(t *testing.T) {
	notif := notifier.NewMock()
	server := setupTestServer(t, fortnite.NewMockClient(), notif, testSlackSigningSecret)

	t.Run("valid command is acknowledged before the webhook is called", func(t *testing.T) {
		notif.Reset()
		release := make(chan struct{})
		notif.SendMatchResultFunc = func(r *match.Result) error {
			<-release
			return nil
		}
		defer func() { notif.SendMatchResultFunc = nil }()
		followUps := newResponseURLServer(t)

		form := url.Values{
			"command":      {"/match"},
			"text":         {"won <@U42|ace> squad ZeroBuild 6"},
			"response_url": {followUps.URL},
		}
		req := createSlackCommandRequest(t, "/slack/command/match", form, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var msg slack.Msg
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
		assert.Equal(t, slack.ResponseTypeEphemeral, msg.ResponseType)
		assert.Equal(t, "⏳ Posting match result...", msg.Text)

		close(release)
		followUp := followUps.next(t)
		server.Wait()

		assert.Equal(t, "✅ Match result sent via webhook!", followUp.Text)
		assert.Equal(t, slack.ResponseTypeEphemeral, followUp.ResponseType)
		assert.True(t, followUp.ReplaceOriginal)

		sentResults := notif.MatchResults()
		require.Len(t, sentResults, 1)
		sent := sentResults[0]
		assert.Equal(t, "U42", sent.PlayerID)
		assert.Equal(t, "Squad", sent.Mode)
		assert.True(t, sent.Victory)
		assert.Equal(t, 6, sent.Kills)
		assert.Equal(t, 0, sent.Placement)
	})

	t.Run("delivery failure is reported through the response url", func(t *testing.T) {
		notif.Reset()
		notif.SendMatchResultFunc = func(r *match.Result) error { return errors.New("webhook down") }
		defer func() { notif.SendMatchResultFunc = nil }()
		followUps := newResponseURLServer(t)

		form := url.Values{
			"command":      {"/match"},
			"text":         {"lost <@U42> duo Build 1 40"},
			"response_url": {followUps.URL},
		}
		req := createSlackCommandRequest(t, "/slack/command/match", form, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		followUp := followUps.next(t)
		server.Wait()
		assert.Equal(t, "⚠️ Failed to send match result.", followUp.Text)
	})

	t.Run("usage error is reported ephemerally", func(t *testing.T) {
		notif.Reset()
		form := url.Values{"command": {"/match"}, "text": {"maybe <@U42> solo x 1"}}
		req := createSlackCommandRequest(t, "/slack/command/match", form, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Usage")
		assert.Empty(t, notif.SendMatchResultCalls)
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		notif.Reset()
		form := url.Values{"command": {"/match"}, "text": {"won <@U42> solo x 1"}}
		req := createSlackCommandRequest(t, "/slack/command/match", form, "wrong-secret")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, notif.SendMatchResultCalls)
	})
}

// responseURLServer stands in for a slash command's response_url.
type responseURLServer struct {
	*httptest.Server
	received chan slack.WebhookMessage
}

func newResponseURLServer(t *testing.T) *responseURLServer {
	t.Helper()
	received := make(chan slack.WebhookMessage, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg slack.WebhookMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		received <- msg
	}))
	t.Cleanup(srv.Close)
	return &responseURLServer{Server: srv, received: received}
}

func (s *responseURLServer) next(t *testing.T) slack.WebhookMessage {
	t.Helper()
	select {
	case msg := <-s.received:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no follow-up posted to response_url")
		return slack.WebhookMessage{}
	}
}

func TestParseMatchCommand(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    match.Result
		wantErr bool
	}{
		{
			name: "full",
			text: "lost <@U1> duo Build 3 7 <https://img.test/skin.png>",
			want: match.Result{PlayerID: "U1", Mode: "Duo", Type: "Build", Kills: 3, Placement: 7, SkinURL: "https://img.test/skin.png", Manual: true},
		},
		{
			name: "plain handle",
			text: "won @ace trio Build 2",
			want: match.Result{Handle: "ace", Mode: "Trio", Type: "Build", Kills: 2, Victory: true, Manual: true},
		},
		{name: "too short", text: "won <@U1> solo", wantErr: true},
		{name: "unknown mode", text: "won <@U1> quintet Build 2", wantErr: true},
		{name: "kills not a number", text: "won <@U1> solo Build many", wantErr: true},
		{name: "negative kills", text: "won <@U1> solo Build -2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMatchCommand(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t, fortnite.NewMockClient(), notifier.NewMock(), "")
	server.Tracker.PollOnce(t.Context(), false)

	req, err := http.NewRequest(http.MethodGet, "/metrics", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "fortnite_poll_cycles_total 1")
}
