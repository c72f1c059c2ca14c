package linter

import (
	"context"
	"strings"
	"testing"

	"github.com/pylotdev/pylot/internal/config"
	"github.com/pylotdev/pylot/internal/diag"
	"github.com/pylotdev/pylot/internal/testutil"
)

func TestRun_UnusedImport(t *testing.T) {
	pattern := &testutil.FakePattern{Flakes: []testutil.FlakeReport{
		{Line: 1, Offset: 0, Template: "'os' imported but unused"},
	}}

	result, err := Run(context.Background(), Input{
		FilePath: "test.py",
		Content:  []byte("import os\n"),
		Config:   config.Default(),
		Pattern:  pattern,
		Style:    &testutil.FakeStyle{},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	testutil.AssertDiagnosticCount(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	if d.HasCode() {
		t.Errorf("pattern diagnostic should carry no code, got %q", d.Code)
	}
	if d.Line != 1 {
		t.Errorf("Line = %d, want 1", d.Line)
	}
	if !strings.Contains(d.Text, "os") || !strings.Contains(d.Text, "imported but unused") {
		t.Errorf("Text = %q", d.Text)
	}
}

func TestRun_LineTooLong(t *testing.T) {
	long := strings.Repeat("x", 83) + " = 1\n"
	style := &testutil.FakeStyle{Reports: []testutil.StyleReport{
		{Line: 1, Offset: 79, Message: "E501 line too long (87 > 79 characters)"},
	}}

	result, err := Run(context.Background(), Input{
		FilePath: "test.py",
		Content:  []byte(long),
		Config:   config.Default(),
		Pattern:  &testutil.FakePattern{},
		Style:    style,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	testutil.AssertCodes(t, result.Diagnostics, []string{"E501"})
	if result.Diagnostics[0].Severity != diag.SeverityWarning {
		t.Errorf("Severity = %v, want warning", result.Diagnostics[0].Severity)
	}
}

func TestRun_MergeOrder(t *testing.T) {
	pattern := &testutil.FakePattern{Flakes: []testutil.FlakeReport{
		{Line: 9, Offset: 0, Template: "undefined name 'z'"},
	}}
	style := &testutil.FakeStyle{Reports: []testutil.StyleReport{
		{Line: 1, Offset: 0, Message: "E302 expected 2 blank lines, got 1"},
	}}

	result, err := Run(context.Background(), Input{
		FilePath: "test.py",
		Content:  []byte("x = 1\n"),
		Config:   config.Default(),
		Pattern:  pattern,
		Style:    style,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	testutil.AssertDiagnosticCount(t, result.Diagnostics, 2)
	// Pattern findings come first even with a higher line number.
	if result.Diagnostics[0].Line != 9 {
		t.Errorf("first diagnostic line = %d, want the pattern finding at 9", result.Diagnostics[0].Line)
	}
	if result.Diagnostics[1].Code != "E302" {
		t.Errorf("second diagnostic = %q, want E302", result.Diagnostics[1].Code)
	}
}

func TestRun_IgnoreApplied(t *testing.T) {
	cfg := config.Default()
	cfg.Ignore = []string{"E5"}

	style := &testutil.FakeStyle{Reports: []testutil.StyleReport{
		{Line: 1, Offset: 79, Message: "E501 line too long (85 > 79 characters)"},
		{Line: 2, Offset: 0, Message: "W291 trailing whitespace"},
	}}

	result, err := Run(context.Background(), Input{
		FilePath: "test.py",
		Content:  []byte("x = 1\n"),
		Config:   cfg,
		Pattern:  &testutil.FakePattern{},
		Style:    style,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	testutil.AssertCodes(t, result.Diagnostics, []string{"W291"})
}

func TestRun_InactiveSkipsBackends(t *testing.T) {
	cfg := config.Default()
	cfg.Active = false

	// A failing backend proves it is never invoked.
	pattern := &testutil.FakePattern{Unexpected: []string{"should not run"}}

	result, err := Run(context.Background(), Input{
		FilePath: "test.py",
		Content:  []byte("import os\n"),
		Config:   cfg,
		Pattern:  pattern,
		Style:    &testutil.FakeStyle{},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	testutil.AssertNoDiagnostics(t, result.Diagnostics)
}

func TestRun_DisabledBackends(t *testing.T) {
	cfg := config.Default()
	cfg.Pyflakes = false

	pattern := &testutil.FakePattern{Flakes: []testutil.FlakeReport{
		{Line: 1, Offset: 0, Template: "'os' imported but unused"},
	}}
	style := &testutil.FakeStyle{Reports: []testutil.StyleReport{
		{Line: 1, Offset: 0, Message: "W291 trailing whitespace"},
	}}

	result, err := Run(context.Background(), Input{
		FilePath: "test.py",
		Content:  []byte("import os\n"),
		Config:   cfg,
		Pattern:  pattern,
		Style:    style,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	testutil.AssertCodes(t, result.Diagnostics, []string{"W291"})
}

func TestRun_SyntaxErrorSuppressesNothing(t *testing.T) {
	// A syntax error and a style finding coexist; the pipeline reports both,
	// pattern first.
	pattern := &testutil.FakePattern{Syntax: []testutil.SyntaxReport{
		{Message: "invalid syntax", Line: 2, Offset: 7},
	}}
	style := &testutil.FakeStyle{Reports: []testutil.StyleReport{
		{Line: 1, Offset: 0, Message: "E302 expected 2 blank lines, got 1"},
	}}

	result, err := Run(context.Background(), Input{
		FilePath: "test.py",
		Content:  []byte("x = 1\ndef f(:\n"),
		Config:   config.Default(),
		Pattern:  pattern,
		Style:    style,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	testutil.AssertDiagnosticCount(t, result.Diagnostics, 2)
	if result.Diagnostics[0].Severity != diag.SeverityError {
		t.Errorf("first diagnostic severity = %v, want error", result.Diagnostics[0].Severity)
	}
}

func TestRun_BackendCrashBecomesDiagnostic(t *testing.T) {
	pattern := &testutil.FakePattern{Unexpected: []string{"problem decoding source"}}

	result, err := Run(context.Background(), Input{
		FilePath: "test.py",
		Content:  []byte("x = 1\n"),
		Config:   config.Default(),
		Pattern:  pattern,
		Style:    &testutil.FakeStyle{},
	})
	if err != nil {
		t.Fatalf("Run error: %v, backend failures must not fail the run", err)
	}

	testutil.AssertDiagnosticCount(t, result.Diagnostics, 1)
	if !result.Diagnostics[0].IsFileLevel() {
		t.Error("backend crash should surface as a file-level diagnostic")
	}
}

func TestRun_EmptyBuffer(t *testing.T) {
	result, err := Run(context.Background(), Input{
		FilePath: "empty.py",
		Content:  []byte{},
		Config:   config.Default(),
		Pattern:  &testutil.FakePattern{},
		Style:    &testutil.FakeStyle{},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	testutil.AssertNoDiagnostics(t, result.Diagnostics)
}

func TestRun_MissingFile(t *testing.T) {
	_, err := Run(context.Background(), Input{FilePath: "does/not/exist.py"})
	if err == nil {
		t.Fatal("Run should fail for an unreadable file")
	}
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"vendor/lib.py", []string{"vendor/**"}, true},
		{"src/main.py", []string{"vendor/**"}, false},
		{"build/gen.py", []string{"*.tmp", "build/*"}, true},
		{"main.py", nil, false},
		{"main.py", []string{"["}, false}, // invalid pattern skipped
	}

	for _, tc := range tests {
		if got := Excluded(tc.path, tc.patterns); got != tc.want {
			t.Errorf("Excluded(%q, %v) = %v, want %v", tc.path, tc.patterns, got, tc.want)
		}
	}
}

func TestBackendsEnabled(t *testing.T) {
	cfg := config.Default()
	if got := BackendsEnabled(cfg); got != 2 {
		t.Errorf("BackendsEnabled = %d, want 2", got)
	}
	cfg.Pep8 = false
	if got := BackendsEnabled(cfg); got != 1 {
		t.Errorf("BackendsEnabled = %d, want 1", got)
	}
	cfg.Pyflakes = false
	if got := BackendsEnabled(cfg); got != 0 {
		t.Errorf("BackendsEnabled = %d, want 0", got)
	}
}
