// The text formatter follows the layout of classic per-line linter output
// with Lip Gloss for styling and Chroma for syntax highlighting.
package reporter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/pylotdev/pylot/internal/diag"
	"github.com/pylotdev/pylot/internal/sourcemap"
)

// Styles for different parts of the output
var (
	// Color detection using termenv (respects NO_COLOR, CLICOLOR_FORCE)
	useColors = termenv.EnvColorProfile() != termenv.Ascii

	// Rule code style
	codeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	// Message style
	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")) // White

	// File location style
	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // Light gray

	// Caret marker style
	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	// Summary style
	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dark gray

	// Severity styles
	severityStyles = map[diag.Severity]lipgloss.Style{
		diag.SeverityError: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		diag.SeverityWarning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")), // Orange
		diag.SeverityInfo: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")), // Blue
		diag.SeverityStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245")), // Gray
	}
)

// TextReporter formats diagnostics as styled text output.
type TextReporter struct {
	opts      Options
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(opts Options) *TextReporter {
	r := &TextReporter{opts: opts}

	if r.colorEnabled() {
		r.lexer = lexers.Get("python")
		if r.lexer == nil {
			r.lexer = lexers.Fallback
		}
		r.lexer = chroma.Coalesce(r.lexer)

		styleName := "monokai"
		if !lipgloss.HasDarkBackground() {
			styleName = "github"
		}
		r.style = styles.Get(styleName)
		if r.style == nil {
			r.style = styles.Fallback
		}

		r.formatter = formatters.Get("terminal256")
		if r.formatter == nil {
			r.formatter = formatters.Fallback
		}
	}

	return r
}

func (r *TextReporter) colorEnabled() bool {
	if r.opts.Color != nil {
		return *r.opts.Color
	}
	return useColors && writerIsTerminal(r.opts.Writer)
}

// Report implements Reporter.
func (r *TextReporter) Report(reports []FileReport, metadata ReportMetadata) error {
	w := r.opts.Writer
	total := 0

	for _, report := range reports {
		total += len(report.Diagnostics)
		if r.opts.Multiline {
			if err := r.printBlocks(w, report); err != nil {
				return err
			}
			continue
		}
		sm := sourcemap.New(report.Source)
		for _, d := range report.Diagnostics {
			if err := r.printDiagnostic(w, report.Path, d, sm); err != nil {
				return err
			}
		}
	}

	return r.printSummary(w, total, metadata)
}

// printDiagnostic renders one "file:line:col: CODE text" entry, with an
// optional source snippet and caret marker.
func (r *TextReporter) printDiagnostic(w io.Writer, path string, d diag.Diagnostic, sm *sourcemap.SourceMap) error {
	color := r.colorEnabled()

	var loc string
	if d.IsFileLevel() {
		loc = path + ":"
	} else {
		loc = fmt.Sprintf("%s:%d:%d:", path, d.Line, d.Offset+1)
	}

	var line string
	switch {
	case color && d.HasCode():
		line = fmt.Sprintf("%s %s %s",
			fileLocStyle.Render(loc),
			codeStyle.Render(d.Code),
			messageStyle.Render(d.Text))
	case color:
		sevStyle, ok := severityStyles[d.Severity]
		if !ok {
			sevStyle = severityStyles[diag.SeverityWarning]
		}
		line = fmt.Sprintf("%s %s %s",
			fileLocStyle.Render(loc),
			sevStyle.Render(d.Severity.String()+":"),
			messageStyle.Render(d.Text))
	case d.HasCode():
		line = fmt.Sprintf("%s %s %s", loc, d.Code, d.Text)
	default:
		line = fmt.Sprintf("%s %s: %s", loc, d.Severity.String(), d.Text)
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	if !r.opts.ShowSource || d.IsFileLevel() {
		return nil
	}
	src := sm.Line(d.Line - 1)
	if strings.TrimSpace(src) == "" {
		return nil
	}

	rendered := src
	if color {
		rendered = r.highlight(src)
	}
	if _, err := fmt.Fprintf(w, "    %s\n", rendered); err != nil {
		return err
	}

	marker := "^"
	if color {
		marker = markerStyle.Render(marker)
	}
	_, err := fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", clampOffset(d.Offset, src)), marker)
	return err
}

// printBlocks renders the extended multi-line block form for each diagnostic.
func (r *TextReporter) printBlocks(w io.Writer, report FileReport) error {
	panel := NewPanel(report.Diagnostics, report.Source, PanelOptions{
		ErrorFormat:       r.opts.ErrorFormat,
		DescriptionFormat: r.opts.DescriptionFormat,
		ShowDescription:   true,
		ShowOffsetCursor:  true,
	})
	for i := range report.Diagnostics {
		for _, line := range panel.Item(i) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextReporter) printSummary(w io.Writer, total int, metadata ReportMetadata) error {
	if total == 0 {
		return nil
	}
	noun := "issues"
	if total == 1 {
		noun = "issue"
	}
	summary := fmt.Sprintf("%d %s across %d file(s)", total, noun, metadata.FilesScanned)
	if r.colorEnabled() {
		summary = summaryStyle.Render(summary)
	}
	_, err := fmt.Fprintf(w, "\n%s\n", summary)
	return err
}

// highlight applies Python syntax highlighting to a source line.
// Falls back to the raw line on any tokenization failure.
func (r *TextReporter) highlight(src string) string {
	if r.lexer == nil || r.formatter == nil || r.style == nil {
		return src
	}
	iterator, err := r.lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return src
	}
	return strings.TrimRight(buf.String(), "\n")
}

// clampOffset keeps the caret inside the rendered line.
func clampOffset(offset int, line string) int {
	if offset < 0 {
		return 0
	}
	if offset > len(line) {
		return len(line)
	}
	return offset
}
