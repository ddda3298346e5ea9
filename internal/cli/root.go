package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/mvp-joe/typekeep/internal/config"
	"github.com/spf13/cobra"
)

var (
	rootDir string
	verbose bool

	logger = slog.New(slog.DiscardHandler)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "typekeep",
	Short: "Typekeep - keep structural types in generated TypeScript artifacts",
	Long: `Typekeep classifies the declared type of exported bindings in generated
TypeScript artifacts as real, stub or not found, and restores previously
captured real types when a generator falls back to a placeholder type.

Configuration is read from .typekeep/config.yml under --root, with
TYPEKEEP_* environment variable overrides.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "C", ".", "project root holding .typekeep/config.yml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger returns a console logger writing to w.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}

// loadConfig loads the project configuration under --root.
func loadConfig() (*config.Config, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	cfg, err := config.LoadConfigFromDir(abs)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded configuration", "root", abs, "targets", cfg.TargetNames())
	return cfg, nil
}

// readInput reads path, or standard input when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
