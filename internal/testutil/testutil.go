// Package testutil provides test helpers for the Python linter.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/pylotdev/pylot/internal/checker"
	"github.com/pylotdev/pylot/internal/diag"
)

// StyleReport is one violation a FakeStyle backend emits.
type StyleReport struct {
	Line    int // 1-based
	Offset  int // 0-based
	Message string
}

// FakeStyle is an in-process checker.StyleBackend that replays canned
// reports. Use it to test the pipeline without a pycodestyle subprocess.
type FakeStyle struct {
	Reports []StyleReport
	Err     error
}

func (f *FakeStyle) Check(
	_ context.Context,
	_ []byte,
	_ string,
	_ checker.StyleOptions,
	report checker.StyleReportFunc,
) error {
	if f.Err != nil {
		return f.Err
	}
	for _, r := range f.Reports {
		report(r.Line, r.Offset, r.Message, nil)
	}
	return nil
}

// FlakeReport is one flagged pattern a FakePattern backend emits.
type FlakeReport struct {
	Line     int // 1-based
	Offset   int // 0-based
	Template string
	Args     []any
}

// SyntaxReport is one syntax error a FakePattern backend emits.
type SyntaxReport struct {
	Message string
	Line    int // 1-based
	Offset  int // 0-based
}

// FakePattern is an in-process checker.PatternBackend that replays canned
// reports in the order unexpected, syntax, flakes.
type FakePattern struct {
	Unexpected []string
	Syntax     []SyntaxReport
	Flakes     []FlakeReport
	Err        error
}

func (f *FakePattern) Check(
	_ context.Context,
	_ []byte,
	filename string,
	reporter checker.PatternReporter,
) error {
	if f.Err != nil {
		return f.Err
	}
	for _, msg := range f.Unexpected {
		reporter.UnexpectedError(filename, msg)
	}
	for _, s := range f.Syntax {
		reporter.SyntaxError(filename, s.Message, s.Line, s.Offset)
	}
	for _, fl := range f.Flakes {
		reporter.Flake(fl.Line, fl.Offset, fl.Template, fl.Args...)
	}
	return nil
}

// FakeFixer is an in-process checker.Fixer returning a fixed output.
// A nil Output echoes the input unchanged.
type FakeFixer struct {
	Output []byte
	Err    error
}

func (f *FakeFixer) Fix(_ context.Context, source []byte) ([]byte, error) {
	if f.Err != nil {
		return source, f.Err
	}
	if f.Output == nil {
		return source, nil
	}
	return f.Output, nil
}

// AssertNoDiagnostics fails the test if there are any diagnostics.
func AssertNoDiagnostics(tb testing.TB, diagnostics []diag.Diagnostic) {
	tb.Helper()
	if len(diagnostics) > 0 {
		tb.Errorf("expected no diagnostics, got %d:", len(diagnostics))
		for _, d := range diagnostics {
			tb.Logf("  - %s at line %d: %s", d.Code, d.Line, d.Text)
		}
	}
}

// AssertDiagnosticCount fails if the diagnostic count doesn't match.
func AssertDiagnosticCount(tb testing.TB, diagnostics []diag.Diagnostic, want int) {
	tb.Helper()
	if len(diagnostics) != want {
		tb.Errorf("got %d diagnostics, want %d", len(diagnostics), want)
		for _, d := range diagnostics {
			tb.Logf("  - %s at line %d: %s", d.Code, d.Line, d.Text)
		}
	}
}

// AssertCodes fails unless the diagnostics carry exactly the given codes
// in order.
func AssertCodes(tb testing.TB, diagnostics []diag.Diagnostic, want []string) {
	tb.Helper()
	if len(diagnostics) != len(want) {
		tb.Errorf("got %d diagnostics, want %d", len(diagnostics), len(want))
		return
	}
	for i, code := range want {
		if diagnostics[i].Code != code {
			tb.Errorf("diagnostic[%d].Code = %q, want %q", i, diagnostics[i].Code, code)
		}
	}
}

// AssertMessages fails unless each diagnostic's text contains the
// corresponding substring.
func AssertMessages(tb testing.TB, diagnostics []diag.Diagnostic, want []string) {
	tb.Helper()
	for i, msg := range want {
		if i >= len(diagnostics) {
			tb.Errorf(
				"expected diagnostic[%d] with text containing %q, but only got %d diagnostics",
				i,
				msg,
				len(diagnostics),
			)
			continue
		}
		if !strings.Contains(diagnostics[i].Text, msg) {
			tb.Errorf("diagnostic[%d].Text = %q, want substring %q", i, diagnostics[i].Text, msg)
		}
	}
}
