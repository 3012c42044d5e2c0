package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/S2thend/cursor-history-mcp/internal/config"
	"github.com/S2thend/cursor-history-mcp/pkg/history"
	"github.com/S2thend/cursor-history-mcp/pkg/wrapped"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Deps aggregates everything the tool handlers need. This provides a single
// injection point for wiring.
type Deps struct {
	// Store holds recorded sessions and messages.
	Store history.Store

	// Engine produces annual summaries.
	Engine *wrapped.Engine

	// Config carries server-level summary bounds and the record cap.
	Config config.ServerConfig
}

// Validate ensures all required dependencies are set.
// Returns an error if any required dependency is nil.
func (d *Deps) Validate() error {
	if d.Store == nil {
		return ErrMissingStore
	}
	if d.Engine == nil {
		return ErrMissingEngine
	}
	return nil
}

// Server is the MCP server for chat history analytics.
type Server struct {
	deps   *Deps
	server *mcp.Server
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(deps *Deps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("validating dependencies: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "cursor-history",
		Version: Version,
	}

	s := &Server{
		deps:   deps,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
