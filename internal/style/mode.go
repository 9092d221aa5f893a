package style

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Mode is a tri-state terminal switch. It backs both --color and --ui.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeOn   Mode = "on"
	ModeOff  Mode = "off"
)

// ParseMode reads an auto|on|off flag value.
func ParseMode(value string) (Mode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return ModeAuto, nil
	case "on":
		return ModeOn, nil
	case "off":
		return ModeOff, nil
	default:
		return "", fmt.Errorf("invalid value %q (expected auto|on|off)", value)
	}
}

// Enabled decides whether the feature is on for output written to f.
func (m Mode) Enabled(f *os.File) bool {
	switch m {
	case ModeOn:
		return true
	case ModeOff:
		return false
	default:
		return f != nil && term.IsTerminal(int(f.Fd()))
	}
}
