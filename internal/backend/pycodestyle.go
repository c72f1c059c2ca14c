package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/pylotdev/pylot/internal/checker"
)

// DefaultPycodestyle is the executable name used when no path is configured.
const DefaultPycodestyle = "pycodestyle"

// Pycodestyle runs the pycodestyle tool as the style backend.
// Source is piped on stdin so unsaved buffers can be checked.
type Pycodestyle struct {
	// Path is the pycodestyle executable. Empty means DefaultPycodestyle.
	Path string
}

var _ checker.StyleBackend = (*Pycodestyle)(nil)

// Check implements checker.StyleBackend. Each report line of the form
// "stdin:row:col: CODE message" is forwarded to the hook with the column
// converted from the tool's 1-based to our 0-based offset.
func (b *Pycodestyle) Check(
	ctx context.Context,
	source []byte,
	filename string,
	opts checker.StyleOptions,
	report checker.StyleReportFunc,
) error {
	path := b.Path
	if path == "" {
		path = DefaultPycodestyle
	}

	args := []string{"--format=default"}
	if len(opts.Select) > 0 {
		args = append(args, "--select="+strings.Join(opts.Select, ","))
	}
	if opts.MaxLineLength > 0 {
		args = append(args, fmt.Sprintf("--max-line-length=%d", opts.MaxLineLength))
	}
	args = append(args, "-")

	res, err := run(ctx, path, args, source)
	if err != nil {
		return err
	}
	// Exit 0: clean. Exit 1: violations reported on stdout. Anything else
	// is a tool failure.
	if res.exitCode > 1 {
		return fmt.Errorf("%s exited with code %d: %s", path, res.exitCode, firstLine(res.stderr))
	}

	for _, line := range strings.Split(string(res.stdout), "\n") {
		loc, ok := parseLocated(line)
		if !ok {
			continue
		}
		report(loc.row, loc.col-1, loc.msg, nil)
	}
	return nil
}
