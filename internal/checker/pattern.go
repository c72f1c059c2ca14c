package checker

import (
	"context"
	"fmt"

	"github.com/pylotdev/pylot/internal/diag"
)

// PatternChecker adapts a pattern backend into uniform diagnostics.
//
// The backend reports through three distinct callbacks (unexpected failure,
// syntax error, flagged pattern); each is mapped into a Diagnostic here so
// backend-specific shapes never leak further up.
type PatternChecker struct {
	backend PatternBackend
}

// NewPatternChecker creates a pattern adapter.
func NewPatternChecker(backend PatternBackend) *PatternChecker {
	return &PatternChecker{backend: backend}
}

// Check runs the pattern backend over the in-memory source and returns its
// findings in emission order. Backend failures become a single whole-file
// diagnostic.
func (c *PatternChecker) Check(ctx context.Context, source []byte, filename string) []diag.Diagnostic {
	collector := &patternCollector{}
	if err := c.backend.Check(ctx, source, filename, collector); err != nil {
		collector.UnexpectedError(filename, err.Error())
	}
	return collector.list
}

// patternCollector implements PatternReporter by collecting diagnostics.
type patternCollector struct {
	list []diag.Diagnostic
}

func (r *patternCollector) UnexpectedError(_, msg string) {
	r.list = append(r.list, diag.NewFileError(diag.UpperFirst(msg)))
}

func (r *patternCollector) SyntaxError(_, msg string, line, offset int) {
	if line < 0 {
		line = 0
	}
	if offset < 0 {
		offset = 0
	}
	r.list = append(r.list, diag.New("", line, offset, diag.UpperFirst(msg), diag.SeverityError))
}

func (r *patternCollector) Flake(line, offset int, template string, args ...any) {
	msg := template
	if len(args) > 0 {
		msg = fmt.Sprintf(template, args...)
	}
	r.list = append(r.list, diag.New("", line, offset, diag.UpperFirst(msg), diag.SeverityWarning))
}
