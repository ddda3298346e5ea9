package preserve

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"

	"github.com/mvp-joe/typekeep/internal/declaration"
	"github.com/mvp-joe/typekeep/internal/syntax"
	"github.com/spf13/afero"
)

// Refresh folds the classification of text into snap and returns the result.
// Real types in text replace captured ones; stub and missing targets keep
// whatever snap already held. snap is not modified.
func (p *Preserver) Refresh(snap Snapshot, path, text string) Snapshot {
	results := make(map[string]declaration.Result, len(p.policy))
	maps.Copy(results, snap.Results)

	current := declaration.ClassifyAll(syntax.ParseDialect(text, syntax.DialectFor(path)), p.policy)
	updated := false
	for target, result := range current {
		if result.Kind == declaration.Real {
			results[target] = result
			updated = true
			continue
		}
		if _, ok := results[target]; !ok {
			results[target] = result
		}
	}

	source := snap.Source
	if updated {
		source = path
	}
	return Snapshot{Source: source, Results: results}
}

// Restore re-applies snap to the artifact at path after it was rewritten by
// someone else. Targets that regressed to a stub get their captured type back
// and the file is rewritten. It returns the refreshed snapshot and the
// restored targets. A missing file restores nothing.
func (p *Preserver) Restore(snap Snapshot, path string) (Snapshot, []string, error) {
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return snap, nil, nil
		}
		return snap, nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	text := string(data)
	merged, restored := p.Apply(snap, text)
	if len(restored) > 0 {
		if err := afero.WriteFile(p.fs, path, []byte(merged), artifactFilePerm); err != nil {
			return snap, nil, fmt.Errorf("failed to write artifact %s: %w", path, err)
		}
		p.logger.Info("restored regressed types", "path", path, "targets", restored)
	}

	return p.Refresh(snap, path, merged), restored, nil
}
