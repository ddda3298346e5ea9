package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mvp-joe/typekeep/internal/config"
	"github.com/mvp-joe/typekeep/internal/preserve"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status [dir...]",
	Short: "Show the kind of every target in each artifact directory",
	Long: `Status classifies the current artifacts of each artifact directory.
Without arguments, directories are discovered under --root using the
discovery.include and discovery.ignore patterns of the configuration.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve root directory: %w", err)
	}
	return executeStatus(cmd.OutOrStdout(), afero.NewOsFs(), cfg, root, args)
}

// executeStatus renders a status table for dirs, or for the discovered
// artifact directories under root when dirs is empty.
func executeStatus(out io.Writer, fsys afero.Fs, cfg *config.Config, root string, dirs []string) error {
	if len(dirs) == 0 {
		discovery, err := preserve.NewDiscovery(fsys, root, cfg.Discovery.Include, cfg.Discovery.Ignore)
		if err != nil {
			return fmt.Errorf("failed to compile discovery patterns: %w", err)
		}
		if dirs, err = discovery.Discover(); err != nil {
			return fmt.Errorf("failed to discover artifact directories: %w", err)
		}
	}

	if len(dirs) == 0 {
		fmt.Fprintln(out, "No artifact directories found")
		return nil
	}

	p := preserve.New(fsys, cfg, logger)
	statuses := p.Status(dirs)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.AppendHeader(table.Row{"Directory", "Artifact", "Target", "Kind"})

	targets := p.Policy().Targets()
	for _, status := range statuses {
		artifact := "-"
		if status.Source != "" {
			artifact = filepath.Base(status.Source)
		}
		for _, target := range targets {
			tbl.AppendRow(table.Row{displayPath(root, status.Dir), artifact, target, status.Results[target].Kind.String()})
		}
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d directories", len(statuses))})

	fmt.Fprintln(out, tbl.Render())
	return nil
}

// displayPath shows dir relative to root when it lies beneath it.
func displayPath(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return dir
	}
	return filepath.ToSlash(rel)
}
