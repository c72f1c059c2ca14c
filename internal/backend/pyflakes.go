package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/pylotdev/pylot/internal/checker"
)

// DefaultPyflakes is the executable name used when no path is configured.
const DefaultPyflakes = "pyflakes"

// Pyflakes runs the pyflakes tool as the pattern backend.
// Source is piped on stdin so unsaved buffers can be checked.
type Pyflakes struct {
	// Path is the pyflakes executable. Empty means DefaultPyflakes.
	Path string
}

var _ checker.PatternBackend = (*Pyflakes)(nil)

// Check implements checker.PatternBackend, classifying the tool's output into
// the reporter's three conditions:
//   - a located line followed by a source/caret trailer is a syntax error,
//   - a bare located line is a flagged pattern,
//   - exit codes above 1 are unexpected internal failures.
func (b *Pyflakes) Check(
	ctx context.Context,
	source []byte,
	filename string,
	reporter checker.PatternReporter,
) error {
	path := b.Path
	if path == "" {
		path = DefaultPyflakes
	}

	res, err := run(ctx, path, nil, source)
	if err != nil {
		return err
	}
	if res.exitCode > 1 {
		msg := firstLine(res.stderr)
		if msg == "" {
			msg = fmt.Sprintf("%s exited with code %d", path, res.exitCode)
		}
		reporter.UnexpectedError(filename, msg)
		return nil
	}

	// Syntax errors are printed on stderr with a source/caret trailer;
	// flakes are one located line each on stdout.
	b.parseStream(filename, string(res.stderr), true, reporter)
	b.parseStream(filename, string(res.stdout), false, reporter)
	return nil
}

// parseStream walks one output stream. Lines that do not parse as located
// reports are snippet trailers (the offending source line and the caret
// line under a syntax error) and are skipped.
func (b *Pyflakes) parseStream(filename, stream string, syntax bool, reporter checker.PatternReporter) {
	for _, line := range strings.Split(stream, "\n") {
		loc, ok := parseLocated(line)
		if !ok {
			continue
		}
		offset := loc.col - 1
		if offset < 0 {
			offset = 0
		}
		if syntax {
			reporter.SyntaxError(filename, loc.msg, loc.row, offset)
		} else {
			reporter.Flake(loc.row, offset, loc.msg)
		}
	}
}
