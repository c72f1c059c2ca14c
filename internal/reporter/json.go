package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/pylotdev/pylot/internal/diag"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains results grouped by file, in scan order.
	Files []FileResult `json:"files"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// FilesScanned is the total number of files scanned.
	FilesScanned int `json:"files_scanned"`
	// BackendsRun is the number of analyzer backends that were enabled.
	BackendsRun int `json:"backends_run"`
}

// FileResult contains the diagnostics for a single file.
type FileResult struct {
	File        string            `json:"file"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

// Summary contains aggregate statistics about diagnostics.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Style    int `json:"style"`
	Files    int `json:"files"`
}

// JSONReporter formats diagnostics as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter. Diagnostic order within each file is preserved
// (analyzer priority, then emission order); files appear in scan order.
func (r *JSONReporter) Report(reports []FileReport, metadata ReportMetadata) error {
	output := JSONOutput{
		Files:        make([]FileResult, 0, len(reports)),
		FilesScanned: metadata.FilesScanned,
		BackendsRun:  metadata.BackendsRun,
	}

	var all []diag.Diagnostic
	for _, report := range reports {
		diagnostics := report.Diagnostics
		if diagnostics == nil {
			diagnostics = []diag.Diagnostic{}
		}
		output.Files = append(output.Files, FileResult{
			// Normalize paths to forward slashes for cross-platform consistency
			File:        filepath.ToSlash(report.Path),
			Diagnostics: diagnostics,
		})
		all = append(all, diagnostics...)
	}
	output.Summary = calculateSummary(all, len(reports))

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func calculateSummary(diagnostics []diag.Diagnostic, files int) Summary {
	s := Summary{Total: len(diagnostics), Files: files}
	for _, d := range diagnostics {
		switch d.Severity {
		case diag.SeverityError:
			s.Errors++
		case diag.SeverityWarning:
			s.Warnings++
		case diag.SeverityInfo:
			s.Info++
		case diag.SeverityStyle:
			s.Style++
		}
	}
	return s
}
