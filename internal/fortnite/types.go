package fortnite

import "errors"

var (
	// ErrNoStats is returned when the response carries no data object.
	ErrNoStats = errors.New("no stats data in response")
	// ErrNoMatch is returned when the data has no last match or the match has no id.
	ErrNoMatch = errors.New("no last match in stats")

	// ErrUnexpectedStatus is returned when the API answers with a status other than 200.
	ErrUnexpectedStatus = errors.New("received non-OK HTTP status")
)

const (
	DefaultMode      = "Unknown"
	DefaultPlacement = 99
)

// LastMatch is the most recent match reported for a player, with defaults applied.
type LastMatch struct {
	ID        string
	Mode      string
	Type      string
	Kills     int
	Placement int
	Victory   bool
	SkinURL   string
}

// statsResponse is the wire shape of GET /v1/stats/{handle}.
type statsResponse struct {
	Data *struct {
		LastMatch *lastMatchResponse `json:"lastMatch"`
	} `json:"data"`
}

type lastMatchResponse struct {
	ID        string  `json:"id"`
	Mode      *string `json:"mode"`
	Type      string  `json:"type"`
	Kills     *int    `json:"kills"`
	Placement *int    `json:"placement"`
	Victory   *bool   `json:"victory"`
	Skin      *struct {
		Image string `json:"image"`
	} `json:"skin"`
}
