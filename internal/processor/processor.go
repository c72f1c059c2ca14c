// Package processor provides a composable diagnostic processing pipeline.
//
// Diagnostics flow through a sequence of processors, each transforming the
// slice (filtering, modifying, or augmenting). The standard pipeline:
//
//  1. Merge - pattern-checker diagnostics before style-checker diagnostics
//  2. IgnoreFilter - drop diagnostics whose code matches an ignore prefix
//  3. Deduplication - drop exact repeats from overlapping backend reports
//
// The merge is stable by construction: analyzer priority first, then each
// analyzer's emission order. There is deliberately no sort by line number.
package processor

import (
	"github.com/pylotdev/pylot/internal/config"
	"github.com/pylotdev/pylot/internal/diag"
)

// Processor transforms a slice of diagnostics.
// Implementations should be stateless, using Context for shared state.
type Processor interface {
	// Name returns the processor's identifier (for debugging/logging).
	Name() string

	// Process applies the processor's logic to diagnostics.
	// Must not modify the input slice; return a new slice if filtering.
	Process(diagnostics []diag.Diagnostic, ctx *Context) []diag.Diagnostic
}

// Context provides shared state for processors.
// Populated once before running the chain, then passed to each processor.
type Context struct {
	// Config is the loaded configuration.
	Config *config.Config
}

// NewContext creates a new processor context.
func NewContext(cfg *config.Config) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Context{Config: cfg}
}

// Chain runs processors in sequence.
type Chain struct {
	processors []Processor
}

// NewChain creates a new processor chain.
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// Process runs all processors in sequence.
func (c *Chain) Process(diagnostics []diag.Diagnostic, ctx *Context) []diag.Diagnostic {
	for _, p := range c.processors {
		diagnostics = p.Process(diagnostics, ctx)
	}
	return diagnostics
}

// Default returns the standard chain applied after merging.
func Default() *Chain {
	return NewChain(
		NewIgnoreFilter(),
		NewDeduplication(),
	)
}

// Merge concatenates analyzer outputs in fixed priority order: pattern-checker
// diagnostics first, then style-checker diagnostics, preserving each input's
// internal order. Empty inputs are valid; the result may be empty.
func Merge(pattern, style []diag.Diagnostic) []diag.Diagnostic {
	merged := make([]diag.Diagnostic, 0, len(pattern)+len(style))
	merged = append(merged, pattern...)
	merged = append(merged, style...)
	return merged
}

// filterDiagnostics is a helper for processors that filter diagnostics.
// It returns a new slice containing only diagnostics where keep() returns true.
func filterDiagnostics(diagnostics []diag.Diagnostic, keep func(d diag.Diagnostic) bool) []diag.Diagnostic {
	result := make([]diag.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		if keep(d) {
			result = append(result, d)
		}
	}
	return result
}
