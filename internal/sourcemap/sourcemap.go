// Package sourcemap provides line-based access to a source buffer: snippet
// extraction for diagnostics and mapping of (line, column) pairs to buffer
// offsets for cursor placement and underline regions.
package sourcemap

import (
	"bytes"
	"strings"
)

// SourceMap provides efficient access to source code by line.
// It precomputes line boundaries for fast lookups.
//
// All line numbers are 0-based (matching LSP conventions); callers working
// with 1-based diagnostic lines subtract one first.
type SourceMap struct {
	// source is the raw source content.
	source []byte

	// lines are the individual lines (without line endings).
	lines []string

	// lineOffsets[i] is the byte offset where line i starts in source.
	lineOffsets []int
}

// New creates a SourceMap from source content.
// Lines are split on \n (handles both \n and \r\n).
func New(source []byte) *SourceMap {
	rawLines := bytes.Split(source, []byte{'\n'})
	lines := make([]string, len(rawLines))
	lineOffsets := make([]int, len(rawLines))

	offset := 0
	for i, line := range rawLines {
		lineOffsets[i] = offset
		lines[i] = strings.TrimSuffix(string(line), "\r")
		offset += len(line) + 1
	}

	return &SourceMap{
		source:      source,
		lines:       lines,
		lineOffsets: lineOffsets,
	}
}

// Lines returns all lines (without line endings).
// The returned slice should not be modified.
func (sm *SourceMap) Lines() []string {
	return sm.lines
}

// LineCount returns the total number of lines.
func (sm *SourceMap) LineCount() int {
	return len(sm.lines)
}

// Line returns the text of a specific line (0-based).
// Returns empty string if line is out of range.
func (sm *SourceMap) Line(line int) string {
	if line < 0 || line >= len(sm.lines) {
		return ""
	}
	return sm.lines[line]
}

// LineOffset returns the byte offset where a line starts (0-based).
// Returns -1 if line is out of range.
func (sm *SourceMap) LineOffset(line int) int {
	if line < 0 || line >= len(sm.lineOffsets) {
		return -1
	}
	return sm.lineOffsets[line]
}

// PointOffset maps a 0-based (line, column) pair to a byte offset into the
// buffer. Out-of-range lines clamp to the buffer bounds and out-of-range
// columns clamp to the line end, so callers can place a cursor for any
// diagnostic without range checks.
func (sm *SourceMap) PointOffset(line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(sm.lines) {
		return len(sm.source)
	}
	if col < 0 {
		col = 0
	}
	if max := len(sm.lines[line]); col > max {
		col = max
	}
	return sm.lineOffsets[line] + col
}

// LineRegion returns the [start, end) byte region covering a 0-based line,
// excluding the trailing newline. Used for inline underline regions.
// Out-of-range lines yield an empty region at the nearest buffer bound.
func (sm *SourceMap) LineRegion(line int) (start, end int) {
	if line < 0 {
		return 0, 0
	}
	if line >= len(sm.lines) {
		return len(sm.source), len(sm.source)
	}
	start = sm.lineOffsets[line]
	return start, start + len(sm.lines[line])
}

// Snippet extracts a range of lines as a single string.
// Both startLine and endLine are 0-based and inclusive.
// Returns empty string if range is invalid.
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sm.lines) {
		endLine = len(sm.lines) - 1
	}
	if startLine > endLine || startLine >= len(sm.lines) {
		return ""
	}

	return strings.Join(sm.lines[startLine:endLine+1], "\n")
}

// Source returns the raw source content.
// The returned slice should not be modified.
func (sm *SourceMap) Source() []byte {
	return sm.source
}
