package podcast

import (
	"fmt"
	"strings"
)

// Mode selects narrator count and instruction style.
type Mode string

const (
	ModeNormalOne Mode = "normal-one"
	ModeNormalTwo Mode = "normal-two"
	ModeCustomOne Mode = "custom-one"
	ModeCustomTwo Mode = "custom-two"
)

// DefaultMode is used when a request leaves the mode blank.
const DefaultMode = ModeNormalTwo

// Modes lists every supported mode.
func Modes() []Mode {
	return []Mode{ModeNormalOne, ModeNormalTwo, ModeCustomOne, ModeCustomTwo}
}

// ParseMode normalizes a wire value. Blank input yields DefaultMode.
func ParseMode(value string) (Mode, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return DefaultMode, nil
	}
	mode := Mode(trimmed)
	if !mode.Valid() {
		return "", fmt.Errorf("unknown podcast mode %q", value)
	}
	return mode, nil
}

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeNormalOne, ModeNormalTwo, ModeCustomOne, ModeCustomTwo:
		return true
	}
	return false
}

// HostCount returns 1 or 2.
func (m Mode) HostCount() int {
	if m == ModeNormalTwo || m == ModeCustomTwo {
		return 2
	}
	return 1
}

// IsCustom reports whether the mode carries caller instructions.
func (m Mode) IsCustom() bool {
	return m == ModeCustomOne || m == ModeCustomTwo
}

// TwoHost reports whether the mode is a dialogue between two hosts.
func (m Mode) TwoHost() bool {
	return m.HostCount() == 2
}

func (m Mode) String() string { return string(m) }
