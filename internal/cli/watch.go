package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mvp-joe/typekeep/internal/preserve"
	"github.com/mvp-joe/typekeep/internal/watcher"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var watchDebounceFlag time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [dir...]",
	Short: "Restore real types whenever a generator overwrites them with stubs",
	Long: `Watch captures the current artifacts of each artifact directory and keeps
watching them. When a generator rewrites an artifact and a target falls back
to a stub, the captured type is spliced back in. Real types written by the
generator replace the captured ones.

Without arguments, directories are discovered under --root.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounceFlag, "debounce", watcher.DefaultDebounce, "quiet period before changed artifacts are checked")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dirs := args
	if len(dirs) == 0 {
		root, err := filepath.Abs(rootDir)
		if err != nil {
			return fmt.Errorf("failed to resolve root directory: %w", err)
		}
		discovery, err := preserve.NewDiscovery(afero.NewOsFs(), root, cfg.Discovery.Include, cfg.Discovery.Ignore)
		if err != nil {
			return fmt.Errorf("failed to compile discovery patterns: %w", err)
		}
		if dirs, err = discovery.Discover(); err != nil {
			return fmt.Errorf("failed to discover artifact directories: %w", err)
		}
	}
	if len(dirs) == 0 {
		return errors.New("no artifact directories to watch")
	}

	files, err := watcher.NewFileWatcher(dirs, []string{cfg.Artifacts.Ambient, cfg.Artifacts.Runtime}, watchDebounceFlag, logger)
	if err != nil {
		return fmt.Errorf("failed to watch artifact directories: %w", err)
	}

	p := preserve.New(afero.NewOsFs(), cfg, logger)
	guard := watcher.NewGuard(files, p, dirs, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching artifact directories", "count", len(dirs))
	if err := guard.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
