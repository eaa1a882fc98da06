// Package server provides the MCP server implementation for the map tools.
package server

import (
	"context"
	"log/slog"

	"github.com/glmaps/mapmcp/pkg/engine"
	"github.com/glmaps/mapmcp/pkg/tools"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName is the name of the MCP server
	ServerName = "map-mcp-server"

	// ServerVersion is the version of the MCP server
	ServerVersion = "0.1.0"
)

// Server encapsulates the MCP server with the map tools registered against
// a caller-supplied engine.
type Server struct {
	srv      *server.MCPServer
	registry *tools.Registry
}

// NewServer creates a new map MCP server with all tools registered. The
// engine handle is required; opts may be nil for defaults.
func NewServer(m engine.Map, opts *tools.Options) (*Server, error) {
	logger := slog.Default()
	logger.Info("initializing map MCP server",
		"name", ServerName,
		"version", ServerVersion)

	srv := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	registry, err := tools.NewRegistry(logger, m, opts)
	if err != nil {
		return nil, err
	}
	registry.RegisterTools(srv)

	return &Server{srv: srv, registry: registry}, nil
}

// Registry returns the tool registry backing this server.
func (s *Server) Registry() *tools.Registry {
	return s.registry
}

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	return server.ServeStdio(s.srv)
}

// Close removes everything the tools created from the engine.
func (s *Server) Close(ctx context.Context) {
	s.registry.Destroy(ctx)
}
