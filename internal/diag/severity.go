package diag

import "strings"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label returns the lowercase form used in short output and JSON.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

// FromLabel maps a severity word from validator output to a Severity.
// Matching is case-insensitive; anything unrecognized becomes a warning.
func FromLabel(word string) Severity {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "error":
		return SevError
	case "warning":
		return SevWarning
	case "info":
		return SevInfo
	}
	return SevWarning
}
