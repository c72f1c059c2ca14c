// Package backend implements the external analyzer backends as subprocesses.
//
// Each backend shells out to the corresponding Python tool (pycodestyle,
// pyflakes, autopep8), feeds it the in-memory source on stdin, and parses the
// tool's report stream into the callback shape defined by package checker.
// The analysis engines themselves stay external and swappable.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// runResult carries the outcome of one tool invocation.
type runResult struct {
	stdout   []byte
	stderr   []byte
	exitCode int
}

// run executes a tool with source piped to stdin.
// A non-zero exit code is not an error by itself: analyzers exit 1 when they
// find issues. Callers decide which exit codes are failures.
func run(ctx context.Context, path string, args []string, stdin []byte) (*runResult, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logrus.WithFields(logrus.Fields{
		"tool": path,
		"args": strings.Join(args, " "),
	}).Debug("running analyzer backend")

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Tool could not be started at all (missing executable,
			// cancelled context).
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%s: %w", path, ctxErr)
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &runResult{
			stdout:   stdout.Bytes(),
			stderr:   stderr.Bytes(),
			exitCode: exitErr.ExitCode(),
		}, nil
	}

	return &runResult{stdout: stdout.Bytes(), stderr: stderr.Bytes(), exitCode: 0}, nil
}

// located is one parsed "path:row:col: message" report line.
type located struct {
	path string
	row  int
	col  int
	msg  string
}

// parseLocated parses a "path:row:col: message" line as emitted by both
// pycodestyle and pyflakes. col is the tool's 1-based column.
// Returns false for lines that do not match the shape (snippet trailers,
// caret lines, empty lines).
func parseLocated(line string) (located, bool) {
	rest := line
	pathEnd := strings.Index(rest, ":")
	if pathEnd <= 0 {
		return located{}, false
	}
	path := rest[:pathEnd]
	rest = rest[pathEnd+1:]

	rowEnd := strings.Index(rest, ":")
	if rowEnd <= 0 {
		return located{}, false
	}
	row, err := strconv.Atoi(rest[:rowEnd])
	if err != nil {
		return located{}, false
	}
	rest = rest[rowEnd+1:]

	colEnd := strings.Index(rest, ":")
	if colEnd <= 0 {
		return located{}, false
	}
	col, err := strconv.Atoi(rest[:colEnd])
	if err != nil {
		return located{}, false
	}
	msg := strings.TrimSpace(rest[colEnd+1:])
	if msg == "" {
		return located{}, false
	}

	return located{path: path, row: row, col: col, msg: msg}, true
}

// firstLine returns the first non-empty line of a tool's stderr, for
// compact failure messages.
func firstLine(b []byte) string {
	for _, line := range strings.Split(string(b), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
