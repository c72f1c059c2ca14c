package lspserver

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pylotdev/pylot/internal/backend"
	"github.com/pylotdev/pylot/internal/config"
	"github.com/pylotdev/pylot/internal/sourcemap"
)

// formatting handles textDocument/formatting by piping the buffer through
// the auto-formatter backend. An identity result or a formatter failure
// yields no edits; the buffer is never replaced with partial output.
func (s *Server) formatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	uri := string(params.TextDocument.URI)
	if !isPythonURI(uri) {
		return []protocol.TextEdit{}, nil
	}

	text, ok := s.documents.Get(uri)
	if !ok {
		return []protocol.TextEdit{}, nil
	}

	cfg := s.configOverride
	if cfg == nil {
		var err error
		cfg, err = config.Load(uriToPath(uri))
		if err != nil {
			cfg = config.Default()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
	defer cancel()

	fixer := &backend.Autopep8{
		Path:          cfg.Backends.Autopep8,
		MaxLineLength: cfg.MaxLineLength,
	}
	fixed, err := fixer.Fix(ctx, []byte(text))
	if err != nil {
		logrus.WithError(err).WithField("uri", uri).Warn("formatting failed")
		return []protocol.TextEdit{}, nil
	}
	if string(fixed) == text {
		return []protocol.TextEdit{}, nil
	}

	return []protocol.TextEdit{{
		Range:   fullDocumentRange(text),
		NewText: string(fixed),
	}}, nil
}

// fullDocumentRange covers the whole buffer for a full-document replacement.
func fullDocumentRange(text string) protocol.Range {
	sm := sourcemap.New([]byte(text))
	lastLine := sm.LineCount() - 1
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End: protocol.Position{
			Line:      uint32(lastLine),
			Character: uint32(len(sm.Line(lastLine))),
		},
	}
}
