// Package reporter provides output formatters for lint results.
//
// The package supports multiple output surfaces:
//   - text: human-readable terminal output with colors and syntax highlighting
//   - json: machine-readable JSON output
//   - panel: quick-panel blocks plus index-to-location mapping for host editors
package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/pylotdev/pylot/internal/diag"
)

// FileReport bundles one file's diagnostics with its source for rendering.
// Diagnostics are in pipeline order (analyzer priority, then emission order).
type FileReport struct {
	// Path is the reported file path ("<stdin>" for standard input).
	Path string

	// Diagnostics is the merged, filtered diagnostic list.
	Diagnostics []diag.Diagnostic

	// Source is the analyzed buffer, used for snippets and caret markers.
	Source []byte
}

// ReportMetadata contains contextual information about the lint run.
type ReportMetadata struct {
	// FilesScanned is the total number of files that were scanned.
	FilesScanned int

	// BackendsRun is the number of analyzer backends that were enabled.
	BackendsRun int
}

// Reporter formats and outputs lint diagnostics.
type Reporter interface {
	// Report writes the per-file diagnostics to the configured output.
	Report(reports []FileReport, metadata ReportMetadata) error
}

// Format represents an output format type.
type Format string

const (
	// FormatText is human-readable terminal output.
	FormatText Format = "text"
	// FormatJSON is machine-readable JSON output.
	FormatJSON Format = "json"
)

// ParseFormat parses a format string into a Format type.
// Returns an error if the format is unknown.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	// Format specifies the output format.
	Format Format

	// Writer is the output destination.
	Writer io.Writer

	// Color enables/disables colored output (text format only).
	// nil means auto-detect.
	Color *bool

	// Multiline renders each diagnostic as an extended block (text format).
	Multiline bool

	// ShowSource enables source snippets with caret markers (text format).
	ShowSource bool

	// ErrorFormat is the base error line template ({code}, {text}).
	ErrorFormat string

	// DescriptionFormat is the located description template
	// ({line}, {column}, {text}).
	DescriptionFormat string
}

// DefaultOptions returns sensible defaults for reporter options.
func DefaultOptions() Options {
	return Options{
		Format:            FormatText,
		Writer:            os.Stdout,
		Color:             nil, // auto-detect
		ShowSource:        true,
		ErrorFormat:       "{code} : {text}",
		DescriptionFormat: "L{line}:C{column} {text}",
	}
}

// New creates a reporter for the given options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	switch opts.Format {
	case FormatText, "":
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts.Writer), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// writerIsTerminal reports whether w is an interactive terminal,
// for color auto-detection.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
