package match

import (
	"fmt"
	"strconv"
	"time"
)

const (
	winEmoji  = "🏆"
	lossEmoji = "💀"

	titleWin  = "🏆 Victory Royale!"
	titleLoss = "💀 Match Lost"

	// victoryPlacement replaces the numeric placement on wins.
	victoryPlacement = "🏆 Victory Royale"
)

// Render builds the message for a match result. It is the only place message
// content is decided; every notifier and command path goes through it.
func Render(r Result, now time.Time) Message {
	msg := Message{
		Title:        titleLoss,
		Description:  Summary(r),
		Color:        ColorLoss,
		ThumbnailURL: r.SkinURL,
		Timestamp:    now.UTC(),
		Footer:       Footer,
	}
	if r.Victory {
		msg.Title = titleWin
		msg.Color = ColorWin
	}

	msg.Fields = append(msg.Fields, Field{Name: "🎮 Game Mode", Value: r.Mode, Inline: true})
	if r.Type != "" {
		msg.Fields = append(msg.Fields, Field{Name: "🗺️ Type", Value: r.Type, Inline: true})
	}
	msg.Fields = append(msg.Fields,
		Field{Name: "📊 Result", Value: Outcome(r), Inline: true},
		Field{Name: "📍 Placement", Value: Placement(r), Inline: true},
		Field{Name: "🔫 Eliminations", Value: strconv.Itoa(r.Kills), Inline: true},
	)
	return msg
}

// Summary is the one-line description, e.g.
// "💀 <@42> LOST — Mode: Duo, Eliminations: 3, Placement: #7".
func Summary(r Result) string {
	emoji := lossEmoji
	if r.Victory {
		emoji = winEmoji
	}
	line := fmt.Sprintf("%s %s %s — Mode: %s, Eliminations: %d", emoji, Mention(r), Outcome(r), r.Mode, r.Kills)
	if !r.Victory {
		line += ", Placement: " + Placement(r)
	}
	return line
}

// Outcome returns WON or LOST.
func Outcome(r Result) string {
	if r.Victory {
		return "WON"
	}
	return "LOST"
}

// Placement renders the placement; a win is always first place and shows the
// trophy marker instead of a number.
func Placement(r Result) string {
	if r.Victory {
		return victoryPlacement
	}
	return "#" + strconv.Itoa(r.Placement)
}

// Mention returns a chat mention for the player, falling back to the handle.
func Mention(r Result) string {
	if r.PlayerID != "" {
		return "<@" + r.PlayerID + ">"
	}
	return "**" + r.Handle + "**"
}
