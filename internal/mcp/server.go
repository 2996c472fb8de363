// ABOUTME: MCP server setup for the dietplan engine.
// ABOUTME: Wraps the MCP server with storage, the plan service, and the target calculator.
package mcp

import (
	"context"

	"github.com/harperreed/dietplan/internal/planner"
	"github.com/harperreed/dietplan/internal/storage"
	"github.com/harperreed/dietplan/internal/targets"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	svc       *planner.Service
	calc      *targets.Calculator
	log       *zap.Logger
}

// NewServer creates a new MCP server over repo. A nil svc gets a default
// planner service; a nil log disables logging.
func NewServer(repo storage.Repository, svc *planner.Service, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if svc == nil {
		svc = planner.NewService(repo, planner.WithLogger(log))
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "dietplan",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		svc:       svc,
		calc:      targets.NewCalculator(log),
		log:       log.Named("mcp"),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
