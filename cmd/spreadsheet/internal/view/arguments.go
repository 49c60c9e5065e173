package view

import (
	"fmt"
	"strings"
)

// ViewType represents which view layer to use.
type ViewType rune

const (
	ViewNone  ViewType = 0
	ViewHuman ViewType = 'H'
	ViewJSON  ViewType = 'J'
	ViewYAML  ViewType = 'Y'
)

// String returns the string representation of the ViewType.
func (vt ViewType) String() string {
	switch vt {
	case ViewNone:
		return "none"
	case ViewHuman:
		return "human"
	case ViewJSON:
		return "json"
	case ViewYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseOutputFormat maps the value of the --output flag to a ViewType. An
// empty value selects human output.
func ParseOutputFormat(format string) (ViewType, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "human":
		return ViewHuman, nil
	case "json":
		return ViewJSON, nil
	case "yaml", "yml":
		return ViewYAML, nil
	default:
		return ViewNone, fmt.Errorf("unknown output format %q", format)
	}
}
