// Package checker defines the analyzer backend contracts and the adapters
// that map each backend's native reporting shape into uniform diagnostics.
//
// Backends are opaque external collaborators (subprocesses by default, see
// package backend). Nothing backend-specific leaks past this package: every
// reported condition is converted into a diag.Diagnostic at the boundary.
package checker

import (
	"context"

	"github.com/pylotdev/pylot/internal/diag"
)

// StyleOptions configures a style backend invocation.
type StyleOptions struct {
	// Select lists the rule classes to check (e.g. "E", "W").
	Select []string

	// MaxLineLength is the maximum allowed line length.
	MaxLineLength int
}

// StyleReportFunc is the pluggable error-reporting hook a style backend
// invokes once per violation. line is 1-based, offset is the 0-based column,
// message is the raw report including the leading rule-code token
// (e.g. "E501 line too long (85 > 79 characters)"). The hook returns the
// rule code it recorded, or "" to suppress the report.
type StyleReportFunc func(line, offset int, message string, check any) string

// StyleBackend is a line/column-based style checker.
type StyleBackend interface {
	// Check analyzes source and invokes report once per violation, in
	// emission order. It returns an error only for conditions the backend
	// cannot recover from.
	Check(ctx context.Context, source []byte, filename string, opts StyleOptions, report StyleReportFunc) error
}

// PatternReporter is the tagged-variant boundary for the pattern backend's
// three report conditions. Each callback maps one backend condition into the
// single Diagnostic shape.
type PatternReporter interface {
	// UnexpectedError reports an internal backend failure. No location.
	UnexpectedError(filename, msg string)

	// SyntaxError reports a source syntax error with a best-effort location.
	// line is 1-based, offset is the 0-based column.
	SyntaxError(filename, msg string, line, offset int)

	// Flake reports a flagged pattern. The message is produced by applying
	// args to the backend-supplied template.
	Flake(line, offset int, template string, args ...any)
}

// PatternBackend is an AST-based bug-pattern checker. It analyzes in-memory
// source text (not the file on disk) so unsaved edits are caught.
type PatternBackend interface {
	Check(ctx context.Context, source []byte, filename string, reporter PatternReporter) error
}

// Fixer rewrites source through an auto-formatter backend.
// Fix is a pure transformation with no side effects on the caller's state.
type Fixer interface {
	Fix(ctx context.Context, source []byte) ([]byte, error)
}

// fileError wraps a backend failure into the single whole-file diagnostic
// the adapters report instead of propagating the error.
func fileError(err error) diag.Diagnostic {
	return diag.NewFileError(diag.UpperFirst(err.Error()))
}
