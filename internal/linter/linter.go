// Package linter provides the shared lint pipeline used by both the CLI and
// the LSP server.
//
// The pipeline: config discovery → analyzer adapters → merge → filter.
// Each invocation is independent and synchronous: it re-reads the buffer,
// runs the enabled backends, and returns a fresh diagnostic list that fully
// replaces the previous run's. Overlapping invocations, if the host permits
// them, are simply independent; correlation is last-write-wins at display
// time.
package linter

import (
	"context"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"

	"github.com/pylotdev/pylot/internal/backend"
	"github.com/pylotdev/pylot/internal/checker"
	"github.com/pylotdev/pylot/internal/config"
	"github.com/pylotdev/pylot/internal/diag"
	"github.com/pylotdev/pylot/internal/processor"
)

// Input configures a single invocation of [Run].
type Input struct {
	// FilePath is used for config discovery and backend reporting.
	FilePath string

	// Content is the buffer to lint. If nil, Run reads from FilePath.
	// Analysis always runs against this in-memory text, so unsaved edits
	// are caught.
	Content []byte

	// Config is the resolved configuration. If nil, Run loads from FilePath.
	Config *config.Config

	// Style overrides the style backend. Nil means the configured
	// pycodestyle subprocess.
	Style checker.StyleBackend

	// Pattern overrides the pattern backend. Nil means the configured
	// pyflakes subprocess.
	Pattern checker.PatternBackend
}

// Result contains the output of [Run].
type Result struct {
	// Diagnostics is the merged, filtered list in analyzer-priority order:
	// pattern-checker findings first, then style-checker findings, each in
	// emission order.
	Diagnostics []diag.Diagnostic

	// Config is the resolved config (loaded or passed in via Input).
	Config *config.Config

	// Source is the analyzed buffer.
	Source []byte
}

// Run executes the full pipeline for one buffer.
// Backend failures surface as diagnostics, never as a returned error; the
// only returned errors are reading the target file and context cancellation
// before any backend ran.
func Run(ctx context.Context, input Input) (*Result, error) {
	content := input.Content
	if content == nil {
		var err error
		content, err = os.ReadFile(input.FilePath)
		if err != nil {
			return nil, err
		}
	}

	cfg := input.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load(input.FilePath)
		if err != nil {
			logrus.WithError(err).WithField("file", input.FilePath).
				Warn("config load failed, using defaults")
			cfg = config.Default()
		}
	}

	result := &Result{Config: cfg, Source: content}
	if !cfg.Active {
		return result, nil
	}

	var patternDiags, styleDiags []diag.Diagnostic

	if cfg.Pyflakes {
		pattern := input.Pattern
		if pattern == nil {
			pattern = &backend.Pyflakes{Path: cfg.Backends.Pyflakes}
		}
		patternDiags = runPattern(ctx, cfg, pattern, content, input.FilePath)
	}

	if cfg.Pep8 {
		style := input.Style
		if style == nil {
			style = &backend.Pycodestyle{Path: cfg.Backends.Pycodestyle}
		}
		styleDiags = runStyle(ctx, cfg, style, content, input.FilePath)
	}

	merged := processor.Merge(patternDiags, styleDiags)
	result.Diagnostics = processor.Default().Process(merged, processor.NewContext(cfg))

	logrus.WithFields(logrus.Fields{
		"file":    input.FilePath,
		"pattern": len(patternDiags),
		"style":   len(styleDiags),
		"kept":    len(result.Diagnostics),
	}).Debug("lint run complete")

	return result, nil
}

func runPattern(ctx context.Context, cfg *config.Config, b checker.PatternBackend, content []byte, path string) []diag.Diagnostic {
	ctx, cancel := context.WithTimeout(ctx, cfg.BackendTimeout())
	defer cancel()
	return checker.NewPatternChecker(b).Check(ctx, content, path)
}

func runStyle(ctx context.Context, cfg *config.Config, b checker.StyleBackend, content []byte, path string) []diag.Diagnostic {
	ctx, cancel := context.WithTimeout(ctx, cfg.BackendTimeout())
	defer cancel()
	return checker.NewStyleChecker(b, checker.StyleOptions{
		Select:        cfg.Select,
		MaxLineLength: cfg.MaxLineLength,
	}).Check(ctx, content, path)
}

// Excluded reports whether a file matches any configured exclusion glob.
// Invalid patterns are skipped rather than failing the run.
func Excluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// BackendsEnabled returns how many analyzer backends the config enables.
func BackendsEnabled(cfg *config.Config) int {
	n := 0
	if cfg.Pyflakes {
		n++
	}
	if cfg.Pep8 {
		n++
	}
	return n
}
