package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/fortnite-tracker/internal/match"
	"github.com/slack-go/slack"
)

const matchCommandUsage = "Usage: `/match won|lost @user <mode> <type> <kills> [placement] [skin]`"

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, aliveMessage)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, s.Tracker.Snapshot())
	}
}

// PollHandler runs one poll cycle synchronously and returns its report.
func (s *Server) PollHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting on-demand poll cycle")
		cycle := s.Tracker.PollOnce(r.Context(), s.dryRun(r))
		respondWithJSON(w, http.StatusOK, cycle)
	}
}

// PostMatchHandler posts a hand supplied match result. It never consults the
// poller's last-seen table, so the same body can be posted repeatedly.
func (s *Server) PostMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ManualMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}

		result := match.Result{
			PlayerID:  strings.TrimSpace(req.User),
			Victory:   req.Won,
			Mode:      req.Mode,
			Type:      req.Type,
			Kills:     req.Kills,
			Placement: req.Placement,
			SkinURL:   req.Skin,
			Manual:    true,
		}
		if mode, ok := match.NormalizeMode(req.Mode); ok {
			result.Mode = mode
		}
		if err := result.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.sendManual(r.Context(), &result, s.dryRun(r)); err != nil {
			respondWithJSON(w, http.StatusBadGateway, ManualMatchResponse{Status: "failed", Message: ackFailed})
			return
		}
		respondWithJSON(w, http.StatusOK, ManualMatchResponse{Status: "sent", Message: ackSent})
	}
}

// MatchCommandHandler returns a handler for the /match Slack command.
// Slack gives up on a command after three seconds, so valid commands are
// acknowledged at once and the outcome is posted to the command's response_url.
func (s *Server) MatchCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		log.Info("Received match command", "user", cmd.UserName, "text", cmd.Text)

		result, err := parseMatchCommand(cmd.Text)
		if err != nil {
			log.Warn("Invalid match command", "text", cmd.Text, "error", err)
			respondWithSlackMsg(w, ephemeral(fmt.Sprintf("⚠️ %s\n%s", err, matchCommandUsage)))
			return
		}

		dryRun := s.dryRun(r)
		responseURL := cmd.ResponseURL
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			ack := ackSent
			if err := s.sendManual(ctx, &result, dryRun); err != nil {
				ack = ackFailed
			}
			s.followUp(ctx, responseURL, ack)
		}()

		respondWithSlackMsg(w, ephemeral(ackPending))
	}
}

// followUp replaces the pending acknowledgement of a slash command.
func (s *Server) followUp(ctx context.Context, responseURL, text string) {
	if responseURL == "" {
		log.Warn("Slash command has no response_url, dropping follow-up", "text", text)
		return
	}
	msg := &slack.WebhookMessage{
		ResponseType:    slack.ResponseTypeEphemeral,
		ReplaceOriginal: true,
		Text:            text,
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, responseURL, s.httpClient, msg); err != nil {
		log.Error("Failed to post slash command follow-up", "error", err)
	}
}

// Wait blocks until every background slash command follow-up has finished.
func (s *Server) Wait() {
	s.pending.Wait()
}

func (s *Server) sendManual(ctx context.Context, result *match.Result, dryRun bool) error {
	s.Metrics.IncManualPosts()
	if err := s.Notifier.SendMatchResult(ctx, result, dryRun); err != nil {
		log.Error("Failed to send manual match result", "player", result.PlayerID, "error", err)
		return err
	}
	log.Info("Manual match result sent", "player", result.PlayerID, "victory", result.Victory)
	return nil
}

func (s *Server) dryRun(r *http.Request) bool {
	return s.Cfg.DryRun || isDryRunFromContext(r)
}

var errUsage = errors.New("expected: won|lost @user <mode> <type> <kills> [placement] [skin]")

// parseMatchCommand parses "won|lost <@user> <mode> <type> <kills> [placement] [skin]".
func parseMatchCommand(text string) (match.Result, error) {
	parts := strings.Fields(text)
	if len(parts) < 5 || len(parts) > 7 {
		return match.Result{}, errUsage
	}

	result := match.Result{Manual: true}
	switch strings.ToLower(parts[0]) {
	case "won", "win":
		result.Victory = true
	case "lost", "loss":
	default:
		return match.Result{}, fmt.Errorf("first word must be won or lost, got %q", parts[0])
	}

	result.PlayerID, result.Handle = parseSlackUser(parts[1])

	mode, ok := match.NormalizeMode(parts[2])
	if !ok {
		return match.Result{}, fmt.Errorf("unknown mode %q (use %s)", parts[2], strings.Join(match.Modes, ", "))
	}
	result.Mode = mode
	result.Type = parts[3]

	kills, err := strconv.Atoi(parts[4])
	if err != nil {
		return match.Result{}, fmt.Errorf("kills must be a number, got %q", parts[4])
	}
	result.Kills = kills

	if len(parts) > 5 {
		placement, err := strconv.Atoi(parts[5])
		if err != nil {
			return match.Result{}, fmt.Errorf("placement must be a number, got %q", parts[5])
		}
		result.Placement = placement
	}
	if len(parts) > 6 {
		result.SkinURL, _, _ = strings.Cut(strings.Trim(parts[6], "<>"), "|")
	}

	if err := result.Validate(); err != nil {
		return match.Result{}, err
	}
	return result, nil
}

// parseSlackUser accepts an escaped mention like <@U123|ace> or a plain @name.
func parseSlackUser(raw string) (id, handle string) {
	if strings.HasPrefix(raw, "<@") && strings.HasSuffix(raw, ">") {
		inner := strings.TrimSuffix(strings.TrimPrefix(raw, "<@"), ">")
		id, handle, _ = strings.Cut(inner, "|")
		return id, handle
	}
	return "", strings.TrimPrefix(raw, "@")
}

func ephemeral(text string) slack.Msg {
	return slack.Msg{ResponseType: slack.ResponseTypeEphemeral, Text: text}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Msg) {
	respondWithJSON(w, http.StatusOK, msg)
}

func respondWithJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}
