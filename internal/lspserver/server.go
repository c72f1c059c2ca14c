// Package lspserver implements a Language Server Protocol server for pylot.
//
// The server provides Python linting diagnostics and document formatting
// through the LSP protocol, reusing the same pipeline as the CLI
// (linter.Run → processor chain → diagnostics). Only .py documents are
// linted; all other documents receive an empty diagnostics push.
//
// Transport: stdio only.
package lspserver

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/pylotdev/pylot/internal/config"
)

const serverName = "pylot"

// Server is the pylot LSP server.
type Server struct {
	documents *DocumentStore
	handler   protocol.Handler
	version   string

	// configOverride, when set, replaces per-file config discovery.
	// Used by tests and by --config on the lsp command.
	configOverride *config.Config
}

// New creates a new LSP server.
func New(version string) *Server {
	s := &Server{
		documents: NewDocumentStore(),
		version:   version,
	}
	s.handler = protocol.Handler{
		Initialize:                s.initialize,
		Initialized:               s.initialized,
		Shutdown:                  s.shutdown,
		TextDocumentDidOpen:       s.didOpen,
		TextDocumentDidChange:     s.didChange,
		TextDocumentDidSave:       s.didSave,
		TextDocumentDidClose:      s.didClose,
		TextDocumentFormatting:    s.formatting,
		WorkspaceDidChangeConfiguration: func(*glsp.Context, *protocol.DidChangeConfigurationParams) error {
			// Config is re-discovered per run; nothing cached to drop.
			return nil
		},
	}
	return s
}

// WithConfig pins the server to a fixed configuration instead of per-file
// discovery.
func (s *Server) WithConfig(cfg *config.Config) *Server {
	s.configOverride = cfg
	return s
}

// RunStdio starts the LSP server on stdin/stdout.
// It blocks until the connection is closed.
func (s *Server) RunStdio() error {
	logrus.WithField("server", serverName).Info("starting LSP server on stdio")
	return glspserver.NewServer(&s.handler, serverName, false).RunStdio()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	// Clients may push settings at startup instead of relying on file
	// discovery. --config on the lsp command still wins.
	if s.configOverride == nil {
		if settings, ok := params.InitializationOptions.(map[string]any); ok {
			cfg, err := config.LoadFromMap(settings)
			if err != nil {
				logrus.WithError(err).Warn("ignoring invalid initializationOptions")
			} else {
				s.configOverride = cfg
			}
		}
	}

	full := protocol.TextDocumentSyncKindFull
	caps := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: &protocol.True,
			Change:    &full,
			Save:      protocol.SaveOptions{IncludeText: &protocol.False},
		},
		DocumentFormattingProvider: true,
	}

	return protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(*glsp.Context, *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(*glsp.Context) error {
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.documents.Set(uri, params.TextDocument.Text)
	return s.publishDiagnostics(ctx, uri)
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	for _, change := range params.ContentChanges {
		if text, ok := extractFullText(change); ok {
			s.documents.Set(uri, text)
		}
	}
	return s.publishDiagnostics(ctx, uri)
}

func (s *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	if params.Text != nil {
		s.documents.Set(uri, *params.Text)
	}
	return s.publishDiagnostics(ctx, uri)
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.documents.Delete(uri)
	// Clear stale diagnostics for the closed document.
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// extractFullText pulls the full document text out of a change event.
// The server only advertises full sync, so incremental events are ignored.
func extractFullText(change any) (string, bool) {
	switch typed := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return typed.Text, true
	case protocol.TextDocumentContentChangeEvent:
		return typed.Text, true
	default:
		return "", false
	}
}

// isPythonURI reports whether a document URI refers to a Python source file.
// This is the selector predicate the host supplies in editor-plugin form.
func isPythonURI(uri string) bool {
	return strings.HasSuffix(strings.ToLower(uri), ".py")
}

// uriToPath converts a file:// URI to a filesystem path, best-effort.
func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
