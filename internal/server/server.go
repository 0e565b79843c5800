// Package server exposes extraction over the Model Context Protocol.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/droid-cli/internal/extract"
	"github.com/mj1618/droid-cli/internal/store"
)

// Transports supported by Serve.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Server wraps the MCP server with the extractor and snapshot store.
type Server struct {
	extractor *extract.Extractor
	store     store.Store
	log       *slog.Logger
	mcp       *mcpserver.MCPServer

	// roots limits the files the extract tool may read. Empty means any
	// file over stdio and none over streamable-http.
	roots  []string
	remote bool
}

// Option customizes a Server.
type Option func(*Server)

// WithPathRoots restricts the extract tool's path argument to files under
// the given directories, on every transport.
func WithPathRoots(roots ...string) Option {
	return func(s *Server) {
		for _, r := range roots {
			if strings.TrimSpace(r) == "" {
				continue
			}
			s.roots = append(s.roots, canonicalPath(r))
		}
	}
}

// New creates a server with every droid-cli tool registered.
func New(x *extract.Extractor, st store.Store, log *slog.Logger, version string, opts ...Option) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		extractor: x,
		store:     st,
		log:       log,
		mcp:       mcpserver.NewMCPServer("droid-cli", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Serve blocks serving the given transport.
func (s *Server) Serve(transport string, port int) error {
	switch transport {
	case TransportStdio:
		return mcpserver.ServeStdio(s.mcp)
	case TransportStreamableHTTP:
		s.remote = true
		addr := fmt.Sprintf(":%d", port)
		s.log.Info("serving MCP", slog.String("transport", transport), slog.String("addr", addr),
			slog.Any("path_roots", s.roots))
		if len(s.roots) == 0 {
			s.log.Warn("extract path argument disabled: no path roots configured")
		}
		return mcpserver.NewStreamableHTTPServer(s.mcp).Start(addr)
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("extract",
			mcp.WithDescription("Extract the buttons and editable fields of an Android screen from a UIAutomator dump. Returns the snapshot and an id for later snapshot/diff calls."),
			mcp.WithString("xml", mcp.Description("The dump document (XML or JSON). Either xml or path is required.")),
			mcp.WithString("path", mcp.Description("Path of a dump file on the server, inside its allowed roots")),
			mcp.WithString("name", mcp.Description("Source name recorded in the snapshot (default: the file name, or 'inline')")),
			mcp.WithString("kind", mcp.Description("Comma-separated kinds to keep: button, edit_text")),
			mcp.WithString("text", mcp.Description("Keep elements whose label, text, hint or description contains this text")),
			mcp.WithString("bbox", mcp.Description("Keep elements intersecting x,y,w,h")),
			mcp.WithString("format", mcp.Description("Result format: yaml (default) or agent")),
		),
		s.handleExtract,
	)

	s.mcp.AddTool(
		mcp.NewTool("snapshot",
			mcp.WithDescription("Fetch a stored snapshot by id"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Snapshot id returned by extract")),
			mcp.WithString("format", mcp.Description("Result format: yaml (default) or agent")),
		),
		s.handleSnapshot,
	)

	s.mcp.AddTool(
		mcp.NewTool("diff",
			mcp.WithDescription("Compare two stored snapshots by element identity (kind + label)"),
			mcp.WithString("from", mcp.Required(), mcp.Description("Id of the earlier snapshot")),
			mcp.WithString("to", mcp.Required(), mcp.Description("Id of the later snapshot")),
			mcp.WithString("format", mcp.Description("Result format: yaml (default) or agent")),
		),
		s.handleDiff,
	)
}

// checkPath returns the file the extract tool may read for path, or an
// error when path is outside the allowed roots or paths are disabled.
func (s *Server) checkPath(path string) (string, error) {
	if len(s.roots) == 0 {
		if s.remote {
			return "", errors.New("path is disabled over streamable-http without path roots; pass the dump as xml")
		}
		return path, nil
	}
	real := canonicalPath(path)
	for _, root := range s.roots {
		if within(root, real) {
			return real, nil
		}
	}
	return "", fmt.Errorf("path %s is outside the allowed roots", path)
}

// canonicalPath makes p absolute and resolves symlinks when it exists.
func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = filepath.Clean(p)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
