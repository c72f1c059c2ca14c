package lspserver

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pylotdev/pylot/internal/diag"
	"github.com/pylotdev/pylot/internal/sourcemap"
)

func TestToLSPDiagnostic_Positions(t *testing.T) {
	sm := sourcemap.New([]byte("import os\nx = 1\n"))
	d := diag.New("E225", 2, 1, "Missing whitespace around operator", diag.SeverityWarning)

	got := toLSPDiagnostic(d, sm, false)

	if got.Range.Start.Line != 1 || got.Range.Start.Character != 1 {
		t.Errorf("Start = %+v, want line 1 char 1 (0-based)", got.Range.Start)
	}
	if got.Range.End.Line != 1 || got.Range.End.Character != 2 {
		t.Errorf("End = %+v, want single-character range", got.Range.End)
	}
	if got.Code == nil || got.Code.Value != "E225" {
		t.Errorf("Code = %v, want E225", got.Code)
	}
	if got.Severity == nil || *got.Severity != protocol.DiagnosticSeverityWarning {
		t.Errorf("Severity = %v, want warning", got.Severity)
	}
	if got.Message != "Missing whitespace around operator" {
		t.Errorf("Message = %q", got.Message)
	}
	if got.Source == nil || *got.Source != "pylot" {
		t.Errorf("Source = %v, want pylot", got.Source)
	}
}

func TestToLSPDiagnostic_Underline(t *testing.T) {
	sm := sourcemap.New([]byte("x = 1 + 2\n"))
	d := diag.New("E501", 1, 4, "Line too long", diag.SeverityWarning)

	got := toLSPDiagnostic(d, sm, true)

	if got.Range.Start.Character != 4 {
		t.Errorf("Start.Character = %d, want 4", got.Range.Start.Character)
	}
	// Underline extends to the end of the 9-character line.
	if got.Range.End.Character != 9 {
		t.Errorf("End.Character = %d, want 9", got.Range.End.Character)
	}
}

func TestToLSPDiagnostic_FileLevel(t *testing.T) {
	sm := sourcemap.New([]byte("x = 1\n"))
	d := diag.NewFileError("Pyflakes crashed")

	got := toLSPDiagnostic(d, sm, true)

	zero := protocol.Position{Line: 0, Character: 0}
	if got.Range.Start != zero || got.Range.End != zero {
		t.Errorf("Range = %+v, want zero range at document start", got.Range)
	}
	if got.Code != nil {
		t.Errorf("Code = %v, want nil for code-less diagnostic", got.Code)
	}
	if got.Severity == nil || *got.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("Severity = %v, want error", got.Severity)
	}
}

func TestToLSPDiagnostic_ClampsOffset(t *testing.T) {
	sm := sourcemap.New([]byte("x = 1\n"))
	d := diag.New("E501", 1, 500, "Line too long", diag.SeverityWarning)

	got := toLSPDiagnostic(d, sm, false)

	if got.Range.Start.Character != 5 {
		t.Errorf("Start.Character = %d, want clamped to line length 5", got.Range.Start.Character)
	}
}

func TestToLSPSeverity(t *testing.T) {
	tests := []struct {
		in   diag.Severity
		want protocol.DiagnosticSeverity
	}{
		{diag.SeverityError, protocol.DiagnosticSeverityError},
		{diag.SeverityWarning, protocol.DiagnosticSeverityWarning},
		{diag.SeverityInfo, protocol.DiagnosticSeverityInformation},
		{diag.SeverityStyle, protocol.DiagnosticSeverityHint},
	}

	for _, tc := range tests {
		if got := toLSPSeverity(tc.in); got != tc.want {
			t.Errorf("toLSPSeverity(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsPythonURI(t *testing.T) {
	tests := []struct {
		uri  string
		want bool
	}{
		{"file:///home/user/main.py", true},
		{"file:///home/user/MAIN.PY", true},
		{"file:///home/user/notes.txt", false},
		{"file:///home/user/pyproject.toml", false},
	}

	for _, tc := range tests {
		if got := isPythonURI(tc.uri); got != tc.want {
			t.Errorf("isPythonURI(%q) = %v, want %v", tc.uri, got, tc.want)
		}
	}
}

func TestUriToPath(t *testing.T) {
	if got := uriToPath("file:///home/user/main.py"); got != "/home/user/main.py" {
		t.Errorf("uriToPath = %q", got)
	}
}
