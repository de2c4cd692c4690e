package match

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidResult = errors.New("invalid match result")

// Validate checks a hand supplied result before it is posted.
func (r Result) Validate() error {
	switch {
	case r.PlayerID == "" && r.Handle == "":
		return fmt.Errorf("%w: a user is required", ErrInvalidResult)
	case r.Mode == "":
		return fmt.Errorf("%w: mode is required", ErrInvalidResult)
	case r.Kills < 0:
		return fmt.Errorf("%w: kills must not be negative", ErrInvalidResult)
	case r.Placement < 0:
		return fmt.Errorf("%w: placement must not be negative", ErrInvalidResult)
	}
	return nil
}

// Modes are the squad sizes accepted for manual posts.
var Modes = []string{"Solo", "Duo", "Trio", "Squad"}

// NormalizeMode returns the canonical spelling of a mode, matched case-insensitively.
func NormalizeMode(raw string) (string, bool) {
	for _, mode := range Modes {
		if strings.EqualFold(mode, raw) {
			return mode, true
		}
	}
	return "", false
}
