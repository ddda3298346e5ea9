package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mvp-joe/typekeep/internal/mcp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for artifact inspection",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can
inspect generated artifacts of this project.

The MCP server provides:
- typekeep_extract: classify targets of an artifact file or text
- typekeep_annotation: return the bare type of a declaration
- typekeep_is_ambient: check whether an artifact is an ambient declaration file
- typekeep_status: classify the artifacts of every artifact directory

It communicates via stdio (standard MCP transport). Logs go to stderr.

Example:
  typekeep mcp --root ./my-app`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve root directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := mcp.NewProject(afero.NewOsFs(), root, cfg, logger)
	return mcp.NewMCPServer(project, Version, logger).Serve(ctx)
}
