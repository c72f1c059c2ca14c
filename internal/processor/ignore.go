package processor

import (
	"strings"

	"github.com/pylotdev/pylot/internal/diag"
)

// IgnoreFilter drops diagnostics whose code starts with a configured ignore
// prefix. A diagnostic without a code is never suppressed: failure-class
// reports (syntax errors, backend crashes) must always reach the user.
type IgnoreFilter struct{}

// NewIgnoreFilter creates a new ignore filter processor.
func NewIgnoreFilter() *IgnoreFilter {
	return &IgnoreFilter{}
}

// Name returns the processor's identifier.
func (p *IgnoreFilter) Name() string {
	return "ignore-filter"
}

// Process filters out diagnostics matching the configured ignore prefixes.
func (p *IgnoreFilter) Process(diagnostics []diag.Diagnostic, ctx *Context) []diag.Diagnostic {
	prefixes := ctx.Config.Ignore
	if len(prefixes) == 0 {
		return diagnostics
	}
	return filterDiagnostics(diagnostics, func(d diag.Diagnostic) bool {
		return !Ignored(d, prefixes)
	})
}

// Ignored reports whether a diagnostic is suppressed by the given prefixes.
// Suppression requires a non-empty code with a prefix match (exact codes are
// their own prefix).
func Ignored(d diag.Diagnostic, prefixes []string) bool {
	if !d.HasCode() {
		return false
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(d.Code, prefix) {
			return true
		}
	}
	return false
}
