package lspserver

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/pylotdev/pylot/internal/diag"
	"github.com/pylotdev/pylot/internal/linter"
	"github.com/pylotdev/pylot/internal/sourcemap"
)

// publishDiagnostics runs the lint pipeline over the stored document and
// pushes the resulting diagnostics to the client. Non-Python documents get
// an empty push so stale results never linger.
func (s *Server) publishDiagnostics(ctx *glsp.Context, uri string) error {
	if !isPythonURI(uri) {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentUri(uri),
			Diagnostics: []protocol.Diagnostic{},
		})
		return nil
	}

	text, ok := s.documents.Get(uri)
	if !ok {
		return nil
	}

	result, err := linter.Run(context.Background(), linter.Input{
		FilePath: uriToPath(uri),
		Content:  []byte(text),
		Config:   s.configOverride,
	})
	if err != nil {
		logrus.WithError(err).WithField("uri", uri).Error("lint run failed")
		return nil
	}

	underline := result.Config.UnderlineErrors
	sm := sourcemap.New(result.Source)
	lspDiags := make([]protocol.Diagnostic, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		lspDiags = append(lspDiags, toLSPDiagnostic(d, sm, underline))
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: lspDiags,
	})
	return nil
}

// toLSPDiagnostic converts a pipeline diagnostic (1-based line, 0-based
// offset) into LSP's 0-based positions. With underline enabled the range
// spans from the offset to the end of the line; otherwise it covers a single
// character. Whole-file diagnostics (line 0) map to the document start.
func toLSPDiagnostic(d diag.Diagnostic, sm *sourcemap.SourceMap, underline bool) protocol.Diagnostic {
	var rng protocol.Range
	if d.IsFileLevel() {
		rng = protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 0},
		}
	} else {
		line := uint32(d.Line - 1)
		start := protocol.Position{Line: line, Character: uint32(clampCol(d.Offset, sm.Line(d.Line-1)))}
		end := protocol.Position{Line: line, Character: start.Character + 1}
		if underline {
			if n := len(sm.Line(d.Line - 1)); n > int(start.Character) {
				end.Character = uint32(n)
			}
		}
		rng = protocol.Range{Start: start, End: end}
	}

	severity := toLSPSeverity(d.Severity)
	source := serverName
	out := protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Source:   &source,
		Message:  d.Text,
	}
	if d.HasCode() {
		code := protocol.IntegerOrString{Value: d.Code}
		out.Code = &code
	}
	return out
}

func toLSPSeverity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.SeverityError:
		return protocol.DiagnosticSeverityError
	case diag.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case diag.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityHint
	}
}

func clampCol(offset int, line string) int {
	if offset < 0 {
		return 0
	}
	if offset > len(line) {
		return len(line)
	}
	return offset
}
