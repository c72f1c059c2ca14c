package reporter

import (
	"strconv"
	"strings"

	"github.com/pylotdev/pylot/internal/diag"
	"github.com/pylotdev/pylot/internal/sourcemap"
)

// PanelOptions configures the quick-panel presenter.
type PanelOptions struct {
	// ErrorFormat is the base error line template. Placeholders: {code}, {text}.
	ErrorFormat string

	// DescriptionFormat is the located description template.
	// Placeholders: {line}, {column}, {text}.
	DescriptionFormat string

	// ShowDescription enables the extended multi-line block form.
	ShowDescription bool

	// ShowOffsetCursor adds the caret alignment line to each block.
	// The caret line is present even when empty so block shapes stay uniform.
	ShowOffsetCursor bool
}

// DefaultPanelOptions returns the standard panel templates.
func DefaultPanelOptions() PanelOptions {
	return PanelOptions{
		ErrorFormat:       "{code} : {text}",
		DescriptionFormat: "L{line}:C{column} {text}",
		ShowDescription:   true,
		ShowOffsetCursor:  true,
	}
}

// Panel presents a diagnostic list as selectable display blocks and maps a
// selected index back to a source location. It is a pure view over one run's
// diagnostics; the next run builds a fresh panel.
type Panel struct {
	diagnostics []diag.Diagnostic
	sm          *sourcemap.SourceMap
	opts        PanelOptions
}

// NewPanel creates a panel over one run's diagnostics and the analyzed buffer.
func NewPanel(diagnostics []diag.Diagnostic, source []byte, opts PanelOptions) *Panel {
	if opts.ErrorFormat == "" {
		opts.ErrorFormat = "{code} : {text}"
	}
	if opts.DescriptionFormat == "" {
		opts.DescriptionFormat = "L{line}:C{column} {text}"
	}
	return &Panel{
		diagnostics: diagnostics,
		sm:          sourcemap.New(source),
		opts:        opts,
	}
}

// Len returns the number of panel entries.
func (p *Panel) Len() int {
	return len(p.diagnostics)
}

// Items returns the display blocks for every diagnostic, in pipeline order.
func (p *Panel) Items() [][]string {
	items := make([][]string, len(p.diagnostics))
	for i := range p.diagnostics {
		items[i] = p.Item(i)
	}
	return items
}

// Item returns the display block for one diagnostic.
// Out-of-range indices yield nil.
func (p *Panel) Item(index int) []string {
	if index < 0 || index >= len(p.diagnostics) {
		return nil
	}
	return p.Format(p.diagnostics[index])
}

// Format renders a diagnostic into its display block.
//
// Minimal form: a single base line from ErrorFormat, or the bare text when
// the diagnostic has no code. Extended form adds a location-annotated
// description line and, optionally, a caret alignment line. Whole-file
// diagnostics (line 0) degrade to an empty description text and caret.
func (p *Panel) Format(d diag.Diagnostic) []string {
	base := d.Text
	if d.HasCode() {
		base = strings.NewReplacer("{code}", d.Code, "{text}", d.Text).Replace(p.opts.ErrorFormat)
	}

	if !p.opts.ShowDescription {
		return []string{base}
	}

	src := p.sm.Line(d.Line - 1)
	textOffset, description := p.describe(d, src)

	block := []string{base, description}
	if p.opts.ShowOffsetCursor {
		block = append(block, caretLine(d.Offset, src, textOffset))
	}
	return block
}

// describe builds the located description line and returns the position of
// the diagnostic text within it (for caret alignment).
func (p *Panel) describe(d diag.Diagnostic, src string) (textOffset int, description string) {
	located := strings.NewReplacer(
		"{line}", strconv.Itoa(d.Line),
		"{column}", strconv.Itoa(d.Offset),
	).Replace(p.opts.DescriptionFormat)

	textOffset = strings.Index(located, "{text}")
	description = strings.Replace(located, "{text}", strings.TrimSpace(src), 1)
	return textOffset, description
}

// caretLine right-pads a ^ marker so it lines up under the offending column
// of the trimmed source text embedded in the description line. A blank source
// line or an unresolvable placeholder position degrades to an empty string.
func caretLine(offset int, src string, textOffset int) string {
	if strings.TrimSpace(src) == "" || textOffset < 0 {
		return ""
	}
	leading := len(src) - len(strings.TrimLeft(src, " \t"))
	width := offset - leading + textOffset + 1
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", width-1) + "^"
}

// Locate maps a panel index to a buffer position for cursor placement.
// The position is a byte offset into the analyzed buffer. Out-of-range
// indices are a no-op (ok is false). Whole-file diagnostics locate to the
// buffer start.
func (p *Panel) Locate(index int) (point int, ok bool) {
	if index < 0 || index >= len(p.diagnostics) {
		return 0, false
	}
	d := p.diagnostics[index]
	if d.IsFileLevel() {
		return 0, true
	}
	return p.sm.PointOffset(d.Line-1, d.Offset), true
}

// Regions returns [start, end) byte regions covering each diagnostic's line,
// for inline underlining in the host editor. Whole-file diagnostics produce
// an empty region at the buffer start.
func (p *Panel) Regions() [][2]int {
	regions := make([][2]int, len(p.diagnostics))
	for i, d := range p.diagnostics {
		if d.IsFileLevel() {
			continue
		}
		start, end := p.sm.LineRegion(d.Line - 1)
		regions[i] = [2]int{start, end}
	}
	return regions
}
