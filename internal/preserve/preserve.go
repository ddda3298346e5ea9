// Package preserve applies the read-before-write discipline that keeps
// structural types in generated artifacts across regenerations.
//
// Before a fresh artifact is written, the previous artifact of the same
// directory is read and classified per target. Any target that was Real
// before and is a Stub in the fresh output has its previous type spliced
// back in. Real types therefore never regress to a sentinel, and running the
// generator again with no new input reproduces identical output.
package preserve

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/mvp-joe/typekeep/internal/config"
	"github.com/mvp-joe/typekeep/internal/declaration"
	"github.com/mvp-joe/typekeep/internal/syntax"
	"github.com/spf13/afero"
)

const artifactFilePerm = 0o644

// Previous is the artifact read back from an artifact directory.
type Previous struct {
	Path  string // file the text came from, empty when nothing was found
	Text  string
	Found bool
}

// Snapshot is the classification of a previous artifact, one result per target.
type Snapshot struct {
	Source  string
	Results map[string]declaration.Result
}

// Outcome describes one WriteArtifact call.
type Outcome struct {
	Path    string
	Source  string   // previous artifact consulted, empty when none
	Spliced []string // targets whose previous type was restored
	Changed bool     // whether the bytes on disk changed
}

// Preserver reads previous artifacts and splices their types into fresh ones.
type Preserver struct {
	fs      afero.Fs
	policy  declaration.Policy
	ambient string
	runtime string
	logger  *slog.Logger
}

// New creates a Preserver over fsys using the targets and artifact names of cfg.
// A nil logger discards output.
func New(fsys afero.Fs, cfg *config.Config, logger *slog.Logger) *Preserver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Preserver{
		fs:      fsys,
		policy:  cfg.Policy(),
		ambient: cfg.Artifacts.Ambient,
		runtime: cfg.Artifacts.Runtime,
		logger:  logger,
	}
}

// Policy returns the per-target sentinel policy in use.
func (p *Preserver) Policy() declaration.Policy {
	return p.policy
}

// ReadPrevious reads the previous artifact of dir. The ambient sibling is
// preferred; the runtime sibling is used when the ambient one is missing or
// holds no ambient declarations. Read failures other than a missing file
// forfeit preservation with a warning.
func (p *Preserver) ReadPrevious(dir string) Previous {
	ambientPath := filepath.Join(dir, p.ambient)
	ambientText, ambientOK := p.read(ambientPath)
	if ambientOK && declaration.IsAmbientArtifact(ambientText) {
		return Previous{Path: ambientPath, Text: ambientText, Found: true}
	}
	if ambientOK {
		p.logger.Debug("ambient artifact has no ambient declarations", "path", ambientPath)
	}

	runtimePath := filepath.Join(dir, p.runtime)
	if text, ok := p.read(runtimePath); ok {
		return Previous{Path: runtimePath, Text: text, Found: true}
	}

	if ambientOK {
		return Previous{Path: ambientPath, Text: ambientText, Found: true}
	}
	return Previous{}
}

func (p *Preserver) read(path string) (string, bool) {
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("previous artifact unreadable, types will not be preserved", "path", path, "error", err)
		}
		return "", false
	}
	return string(data), true
}

// Capture classifies every target of the previous artifact of dir.
// Targets of a directory with no previous artifact are all NotFound.
func (p *Preserver) Capture(dir string) Snapshot {
	prev := p.ReadPrevious(dir)

	var doc *syntax.Document
	if prev.Found {
		doc = syntax.ParseDialect(prev.Text, syntax.DialectFor(prev.Path))
	}

	snap := Snapshot{
		Source:  prev.Path,
		Results: declaration.ClassifyAll(doc, p.policy),
	}
	for _, target := range p.policy.Targets() {
		p.logger.Debug("captured previous type", "target", target, "kind", snap.Results[target].Kind, "source", prev.Path)
	}
	return snap
}

// Apply splices every Real type of snap into fresh where fresh holds a stub.
// It returns the merged text and the targets that were restored.
func (p *Preserver) Apply(snap Snapshot, fresh string) (string, []string) {
	merged := fresh
	var spliced []string

	for _, target := range p.policy.Targets() {
		var ok bool
		merged, ok = declaration.Splice(merged, target, snap.Results[target], p.policy[target])
		if ok {
			spliced = append(spliced, target)
			p.logger.Debug("restored previous type", "target", target, "source", snap.Source)
		}
	}

	return merged, spliced
}

// Merge captures dir and applies the snapshot to fresh in one step.
func (p *Preserver) Merge(dir, fresh string) (string, Snapshot, []string) {
	snap := p.Capture(dir)
	merged, spliced := p.Apply(snap, fresh)
	return merged, snap, spliced
}

// WriteArtifact writes fresh as dir/name after restoring preserved types.
// The previous artifact is captured before anything is written.
func (p *Preserver) WriteArtifact(dir, name, fresh string) (Outcome, error) {
	merged, snap, spliced := p.Merge(dir, fresh)
	path := filepath.Join(dir, name)

	outcome := Outcome{
		Path:    path,
		Source:  snap.Source,
		Spliced: spliced,
	}

	if existing, err := afero.ReadFile(p.fs, path); err == nil && string(existing) == merged {
		p.logger.Debug("artifact unchanged", "path", path)
		return outcome, nil
	}

	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return outcome, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := afero.WriteFile(p.fs, path, []byte(merged), artifactFilePerm); err != nil {
		return outcome, fmt.Errorf("failed to write artifact %s: %w", path, err)
	}

	outcome.Changed = true
	p.logger.Info("wrote artifact", "path", path, "restored", len(spliced))
	return outcome, nil
}
