package diag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type Severity int

const (
	// SeverityError indicates a failure-class issue (syntax error, backend crash).
	SeverityError Severity = iota
	// SeverityWarning indicates a likely bug or significant violation.
	SeverityWarning
	// SeverityInfo indicates a suggestion.
	SeverityInfo
	// SeverityStyle indicates a style preference.
	SeverityStyle
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityStyle:
		return "style"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses a severity string into a Severity value.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "style":
		return SeverityStyle, nil
	default:
		return SeverityError, fmt.Errorf("unknown severity: %q", s)
	}
}

// IsAtLeast returns true if s is at least as severe as threshold.
func (s Severity) IsAtLeast(threshold Severity) bool {
	return s <= threshold
}
