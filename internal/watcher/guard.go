// Package watcher keeps artifact directories from regressing while a
// generator runs in watch mode without consulting previous artifacts.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mvp-joe/typekeep/internal/preserve"
)

// Guard routes artifact changes to the Preserver, restoring captured types
// whenever a rewritten artifact falls back to a stub.
type Guard struct {
	files     FileWatcher
	preserver *preserve.Preserver
	logger    *slog.Logger

	mu        sync.Mutex
	snapshots map[string]preserve.Snapshot // keyed by artifact directory
}

// NewGuard captures the current state of dirs and returns a Guard that
// keeps it from regressing.
func NewGuard(files FileWatcher, p *preserve.Preserver, dirs []string, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	g := &Guard{
		files:     files,
		preserver: p,
		logger:    logger,
		snapshots: make(map[string]preserve.Snapshot, len(dirs)),
	}
	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		g.snapshots[dir] = p.Capture(dir)
	}
	return g
}

// Snapshot returns the captured state of dir.
func (g *Guard) Snapshot(dir string) (preserve.Snapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	snap, ok := g.snapshots[filepath.Clean(dir)]
	return snap, ok
}

// Start begins routing file changes. Blocks until ctx is cancelled.
func (g *Guard) Start(ctx context.Context) error {
	if err := g.files.Start(ctx, g.handleFileChange); err != nil {
		return err
	}

	<-ctx.Done()

	if err := g.files.Stop(); err != nil {
		g.logger.Warn("file watcher stop failed", "error", err)
	}
	return ctx.Err()
}

// handleFileChange restores every changed artifact that regressed.
func (g *Guard) handleFileChange(files []string) {
	if len(files) == 0 {
		return
	}
	sort.Strings(files)

	// Hold callbacks while artifacts are rewritten.
	g.files.Pause()
	defer g.files.Resume()

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, file := range files {
		dir := filepath.Dir(file)
		snap, ok := g.snapshots[dir]
		if !ok {
			continue
		}

		updated, restored, err := g.preserver.Restore(snap, file)
		if err != nil {
			g.logger.Error("restore failed", "path", file, "error", err)
			continue
		}
		g.snapshots[dir] = updated

		if len(restored) > 0 {
			g.logger.Info("✓ restored types", "path", file, "targets", restored)
		} else {
			g.logger.Debug("artifact changed, nothing to restore", "path", file)
		}
	}
}
