package backend

import (
	"context"
	"fmt"

	"github.com/pylotdev/pylot/internal/checker"
)

// DefaultAutopep8 is the executable name used when no path is configured.
const DefaultAutopep8 = "autopep8"

// Autopep8 runs the autopep8 tool as the auto-formatter backend.
type Autopep8 struct {
	// Path is the autopep8 executable. Empty means DefaultAutopep8.
	Path string

	// MaxLineLength is passed through to the formatter when positive.
	MaxLineLength int
}

var _ checker.Fixer = (*Autopep8)(nil)

// Fix implements checker.Fixer: it pipes source through the formatter and
// returns the corrected text. On failure the input is returned unchanged
// along with the error, so callers never lose the buffer.
func (b *Autopep8) Fix(ctx context.Context, source []byte) ([]byte, error) {
	path := b.Path
	if path == "" {
		path = DefaultAutopep8
	}

	args := []string{}
	if b.MaxLineLength > 0 {
		args = append(args, fmt.Sprintf("--max-line-length=%d", b.MaxLineLength))
	}
	args = append(args, "-")

	res, err := run(ctx, path, args, source)
	if err != nil {
		return source, err
	}
	if res.exitCode != 0 {
		return source, fmt.Errorf("%s exited with code %d: %s", path, res.exitCode, firstLine(res.stderr))
	}
	return res.stdout, nil
}
