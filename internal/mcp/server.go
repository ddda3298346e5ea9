package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/typekeep/internal/config"
	"github.com/mvp-joe/typekeep/internal/preserve"
	"github.com/spf13/afero"
)

// ServerName is the name reported to MCP clients.
const ServerName = "typekeep-mcp"

// Project is what the tools operate on: a root directory, its
// configuration and the filesystem holding it.
type Project struct {
	Root      string
	Config    *config.Config
	FS        afero.Fs
	Preserver *preserve.Preserver
}

// NewProject creates a Project over fsys.
func NewProject(fsys afero.Fs, root string, cfg *config.Config, logger *slog.Logger) *Project {
	return &Project{
		Root:      root,
		Config:    cfg,
		FS:        fsys,
		Preserver: preserve.New(fsys, cfg, logger),
	}
}

// MCPServer manages the MCP server lifecycle.
type MCPServer struct {
	project *Project
	mcp     *server.MCPServer
	logger  *slog.Logger
}

// NewMCPServer creates an MCP server with every typekeep tool registered.
func NewMCPServer(project *Project, version string, logger *slog.Logger) *MCPServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	AddExtractTool(mcpServer, project)
	AddAnnotationTool(mcpServer, project)
	AddAmbientTool(mcpServer, project)
	AddStatusTool(mcpServer, project)

	return &MCPServer{
		project: project,
		mcp:     mcpServer,
		logger:  logger,
	}
}

// Serve starts the MCP server on stdio and blocks until ctx is done or the
// client disconnects.
func (s *MCPServer) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio", "root", s.project.Root)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("received shutdown signal, stopping")
		return nil
	}
}
