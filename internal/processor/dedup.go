package processor

import "github.com/pylotdev/pylot/internal/diag"

// Deduplication removes exact repeats: two backends occasionally flag the
// same (code, location, text) when their rule sets overlap. The first
// occurrence wins, preserving merge order.
type Deduplication struct{}

// NewDeduplication creates a new deduplication processor.
func NewDeduplication() *Deduplication {
	return &Deduplication{}
}

// Name returns the processor's identifier.
func (p *Deduplication) Name() string {
	return "deduplication"
}

type dedupKey struct {
	code   string
	line   int
	offset int
	text   string
}

// Process drops duplicate diagnostics, keeping the first occurrence.
func (p *Deduplication) Process(diagnostics []diag.Diagnostic, _ *Context) []diag.Diagnostic {
	seen := make(map[dedupKey]struct{}, len(diagnostics))
	return filterDiagnostics(diagnostics, func(d diag.Diagnostic) bool {
		key := dedupKey{code: d.Code, line: d.Line, offset: d.Offset, text: d.Text}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}
