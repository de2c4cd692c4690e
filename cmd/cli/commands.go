package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

type postOptions struct {
	user      string
	won       bool
	mode      string
	matchType string
	kills     int
	placement int
	skin      string
}

var post postOptions

func init() {
	postCmd.Flags().StringVar(&post.user, "user", "", "Account id of the player to mention")
	postCmd.Flags().BoolVar(&post.won, "won", false, "The match was a Victory Royale")
	postCmd.Flags().StringVar(&post.mode, "mode", "", "Game mode (Solo, Duo, Trio, Squad)")
	postCmd.Flags().StringVar(&post.matchType, "type", "", "Match type, e.g. \"Zero Build\"")
	postCmd.Flags().IntVar(&post.kills, "kills", 0, "Number of eliminations")
	postCmd.Flags().IntVar(&post.placement, "placement", 0, "Final placement")
	postCmd.Flags().StringVar(&post.skin, "skin", "", "Skin image URL")
	_ = postCmd.MarkFlagRequired("user")
	_ = postCmd.MarkFlagRequired("mode")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(pollCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodGet, "/health", nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List tracked players and their last reported match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodGet, "/players", nil)
	},
}

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Run one poll cycle now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodPost, "/poll", nil)
	},
}

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a match result by hand",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := json.Marshal(map[string]any{
			"user":      post.user,
			"won":       post.won,
			"mode":      post.mode,
			"type":      post.matchType,
			"kills":     post.kills,
			"placement": post.placement,
			"skin":      post.skin,
		})
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		return performRequest(cmd.OutOrStdout(), http.MethodPost, "/matches", body)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(cmd.OutOrStdout(), http.MethodGet, "/metrics", nil)
	},
}

func performRequest(out io.Writer, method, endpoint string, body []byte) error {
	target, err := url.Parse(host + endpoint)
	if err != nil {
		return fmt.Errorf("invalid host %q: %w", host, err)
	}
	if dryRun {
		q := target.Query()
		q.Set("dry_run", "true")
		target.RawQuery = q.Encode()
	}
	fmt.Fprintf(out, "Making request to %s\n", target)

	req, err := http.NewRequest(method, target.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Fprintf(out, "Status Code: %d\n", resp.StatusCode)
	fmt.Fprintln(out, "Response Body:")
	fmt.Fprintln(out, string(respBody))
	return nil
}
