// Package diag defines the uniform diagnostic record produced by every
// analyzer backend and consumed by the aggregation and presentation layers.
package diag

import (
	"unicode"
	"unicode/utf8"
)

// Diagnostic is a single reported issue.
//
// Diagnostics are immutable value records: each analyzer run produces a fresh
// ordered slice and the previous run's slice is discarded wholesale.
type Diagnostic struct {
	// Code is a short rule identifier (e.g. "E501"). Empty for failure kinds
	// that carry no rule code (pattern flakes, syntax errors).
	Code string `json:"code,omitempty"`

	// Line is the 1-based line number. Line 0 means the diagnostic has no
	// precise location (whole-file failure).
	Line int `json:"line"`

	// Offset is the 0-based column offset on Line.
	Offset int `json:"offset"`

	// Text is the human-readable, sentence-cased message.
	Text string `json:"text"`

	// Severity indicates how critical the issue is.
	Severity Severity `json:"severity"`
}

// New creates a diagnostic at a precise location.
func New(code string, line, offset int, text string, severity Severity) Diagnostic {
	return Diagnostic{
		Code:     code,
		Line:     line,
		Offset:   offset,
		Text:     text,
		Severity: severity,
	}
}

// NewFileError creates a whole-file diagnostic with no precise location.
// Used for failures a backend cannot attribute to a line (crashes,
// unreadable input).
func NewFileError(text string) Diagnostic {
	return Diagnostic{
		Line:     0,
		Offset:   0,
		Text:     text,
		Severity: SeverityError,
	}
}

// HasCode reports whether the diagnostic carries a rule code.
// Diagnostics without a code are never suppressed by ignore prefixes.
func (d Diagnostic) HasCode() bool {
	return d.Code != ""
}

// IsFileLevel reports whether the diagnostic has no precise location.
func (d Diagnostic) IsFileLevel() bool {
	return d.Line == 0
}

// UpperFirst sentence-cases a backend message: the first rune is uppercased
// if it is a letter, the remainder is untouched. Backend messages are
// lower-case by convention.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
