package checker

import (
	"context"
	"strings"

	"github.com/pylotdev/pylot/internal/diag"
)

// StyleChecker adapts a style backend into uniform diagnostics.
//
// The backend's raw reports carry the rule code as the leading message token
// ("E501 line too long ..."); the adapter strips it and sentence-cases the
// remaining description before building the diagnostic.
type StyleChecker struct {
	backend StyleBackend
	opts    StyleOptions
}

// NewStyleChecker creates a style adapter with the given rule-class selection
// and maximum line length.
func NewStyleChecker(backend StyleBackend, opts StyleOptions) *StyleChecker {
	return &StyleChecker{backend: backend, opts: opts}
}

// Check runs the style backend over source and returns its findings in
// emission order. Backend failures are reported as a single whole-file
// diagnostic, never returned as an error.
func (c *StyleChecker) Check(ctx context.Context, source []byte, filename string) []diag.Diagnostic {
	var out []diag.Diagnostic

	report := func(line, offset int, message string, _ any) string {
		code, rest := splitCode(message)
		if code == "" {
			return ""
		}
		out = append(out, diag.New(
			code,
			line,
			offset,
			diag.UpperFirst(strings.TrimSpace(rest)),
			styleSeverity(code),
		))
		return code
	}

	if err := c.backend.Check(ctx, source, filename, c.opts, report); err != nil {
		out = append(out, fileError(err))
	}
	return out
}

// splitCode strips the leading rule-code token from a raw style report.
func splitCode(message string) (code, rest string) {
	code, rest, found := strings.Cut(strings.TrimSpace(message), " ")
	if !found {
		return code, ""
	}
	return code, rest
}

// styleSeverity maps a style rule code to a severity: errors ("E" class)
// are warnings, everything else is a style preference.
func styleSeverity(code string) diag.Severity {
	if strings.HasPrefix(code, "E") {
		return diag.SeverityWarning
	}
	return diag.SeverityStyle
}
