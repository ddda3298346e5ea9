package preserve

import (
	"path/filepath"
	"testing"

	"github.com/mvp-joe/typekeep/internal/declaration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Refresh and Restore:
// - Refresh replaces captured results with fresh Real types
// - Refresh keeps captured Real types when the text only has stubs
// - Refresh does not modify the snapshot it was given
// - Restore rewrites an artifact that regressed to a stub
// - Restore leaves an artifact with a fresh Real type alone and adopts the new type
// - Restore of a missing file is a no-op

func TestRefresh(t *testing.T) {
	t.Parallel()

	p, _ := newTestPreserver(t, nil)
	path := filepath.Join(artifactDir, "api.d.ts")
	realResult := declaration.Extract("export declare const components: { a: string };", "components", p.Policy()["components"])

	snap := Snapshot{Source: "old", Results: map[string]declaration.Result{"components": realResult}}

	kept := p.Refresh(snap, path, freshStub)
	assert.Equal(t, realResult, kept.Results["components"])
	assert.Equal(t, "old", kept.Source)

	replaced := p.Refresh(snap, path, "export declare const components: { b: number };\n")
	assert.Equal(t, declaration.Real, replaced.Results["components"].Kind)
	assert.Contains(t, replaced.Results["components"].Declaration, "b: number")
	assert.Equal(t, path, replaced.Source)

	assert.Equal(t, realResult, snap.Results["components"])
	assert.Equal(t, "old", snap.Source)

	empty := p.Refresh(Snapshot{}, path, freshStub)
	assert.Equal(t, declaration.Stub, empty.Results["components"].Kind)
}

func TestRestore_RegressedArtifact(t *testing.T) {
	t.Parallel()

	p, fsys := newTestPreserver(t, map[string]string{"api.d.ts": readFixture(t, "real", "api.d.ts")})
	snap := p.Capture(artifactDir)
	require.Equal(t, declaration.Real, snap.Results["components"].Kind)

	// A generator overwrites the artifact without consulting the previous one.
	path := filepath.Join(artifactDir, "api.d.ts")
	require.NoError(t, writeString(fsys, path, freshStub))

	updated, restored, err := p.Restore(snap, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"components"}, restored)
	assert.Equal(t, snap.Results["components"], updated.Results["components"])

	written := readFile(t, fsys, "api.d.ts")
	assert.Equal(t, snap.Results["components"], declaration.Extract(written, "components", p.Policy()["components"]))

	// Restoring again finds nothing to do.
	_, restored, err = p.Restore(updated, path)
	require.NoError(t, err)
	assert.Empty(t, restored)
	assert.Equal(t, written, readFile(t, fsys, "api.d.ts"))
}

func TestRestore_FreshRealAdopted(t *testing.T) {
	t.Parallel()

	p, fsys := newTestPreserver(t, map[string]string{"api.d.ts": readFixture(t, "real", "api.d.ts")})
	snap := p.Capture(artifactDir)

	path := filepath.Join(artifactDir, "api.d.ts")
	fresh := "export declare const components: { fresh: number };\n"
	require.NoError(t, writeString(fsys, path, fresh))

	updated, restored, err := p.Restore(snap, path)
	require.NoError(t, err)
	assert.Empty(t, restored)
	assert.Equal(t, fresh, readFile(t, fsys, "api.d.ts"))
	assert.Contains(t, updated.Results["components"].Declaration, "fresh: number")
}

func TestRestore_MissingFile(t *testing.T) {
	t.Parallel()

	p, _ := newTestPreserver(t, nil)
	snap := Snapshot{Results: map[string]declaration.Result{}}

	updated, restored, err := p.Restore(snap, filepath.Join(artifactDir, "api.d.ts"))
	require.NoError(t, err)
	assert.Empty(t, restored)
	assert.Equal(t, snap, updated)
}
