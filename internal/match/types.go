package match

import "time"

// Result is a single completed match for one player, either detected by the
// poller or supplied by hand through an interactive command.
type Result struct {
	PlayerID  string `json:"player_id"`
	Handle    string `json:"handle,omitempty"`
	MatchID   string `json:"match_id,omitempty"`
	Mode      string `json:"mode"`
	Type      string `json:"type,omitempty"`
	Kills     int    `json:"kills"`
	Placement int    `json:"placement"`
	Victory   bool   `json:"victory"`
	SkinURL   string `json:"skin_url,omitempty"`
	Manual    bool   `json:"manual,omitempty"`
}

// Message is the platform neutral rendering of a Result. Notifiers translate
// it into Discord embeds or Slack attachments.
type Message struct {
	Title        string
	Description  string
	Fields       []Field
	Color        int
	ThumbnailURL string
	Timestamp    time.Time
	Footer       string
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

const (
	ColorWin  = 0x2ECC71
	ColorLoss = 0xE74C3C

	Footer = "Fortnite Tracker 🚀"
)
