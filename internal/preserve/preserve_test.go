package preserve

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvp-joe/typekeep/internal/config"
	"github.com/mvp-joe/typekeep/internal/declaration"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Preserver:
// - ReadPrevious prefers the ambient sibling
// - ReadPrevious falls back to the runtime sibling when the ambient one is missing
// - ReadPrevious falls back to the runtime sibling when the ambient one has no ambient declarations
// - ReadPrevious reports nothing found for an empty directory
// - ReadPrevious forfeits preservation with a warning when a read fails
// - Capture classifies every configured target
// - WriteArtifact restores a previous Real type over a fresh stub (no-downgrade)
// - WriteArtifact is idempotent across repeated runs with the same input
// - WriteArtifact keeps a stub when the previous artifact was a stub too
// - WriteArtifact lets a fresh Real type replace the previous one
// - WriteArtifact writes the runtime artifact from the ambient sibling's type
// - WriteArtifact writes the fresh text as-is when nothing was there before
// - Apply handles several targets with separate sentinel sets

const (
	artifactDir = "/project/convex/_generated"
	freshStub   = "/* eslint-disable */\nexport declare const api: Api;\nexport declare const components: AnyComponents;\n"
	runtimeStub = "export const components = componentsGeneric() as unknown as AnyComponents;\n"
)

func readFixture(t *testing.T, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(append([]string{"..", "..", "testdata", "artifacts"}, parts...)...))
	require.NoError(t, err)
	return string(data)
}

func newTestPreserver(t *testing.T, files map[string]string) (*Preserver, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, filepath.Join(artifactDir, name), []byte(content), 0o644))
	}
	return New(fsys, config.Default(), nil), fsys
}

func readFile(t *testing.T, fsys afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, filepath.Join(artifactDir, name))
	require.NoError(t, err)
	return string(data)
}

// failingFs fails every Open of one path.
type failingFs struct {
	afero.Fs
	path string
}

func (f failingFs) Open(name string) (afero.File, error) {
	if name == f.path {
		return nil, errors.New("permission denied")
	}
	return f.Fs.Open(name)
}

func TestReadPrevious_PrefersAmbient(t *testing.T) {
	t.Parallel()

	p, _ := newTestPreserver(t, map[string]string{
		"api.d.ts": readFixture(t, "real", "api.d.ts"),
		"api.ts":   readFixture(t, "runtime", "api.ts"),
	})

	prev := p.ReadPrevious(artifactDir)
	require.True(t, prev.Found)
	assert.Equal(t, filepath.Join(artifactDir, "api.d.ts"), prev.Path)
}

func TestReadPrevious_FallsBackToRuntime(t *testing.T) {
	t.Parallel()

	t.Run("ambient missing", func(t *testing.T) {
		t.Parallel()
		p, _ := newTestPreserver(t, map[string]string{"api.ts": runtimeStub})

		prev := p.ReadPrevious(artifactDir)
		require.True(t, prev.Found)
		assert.Equal(t, filepath.Join(artifactDir, "api.ts"), prev.Path)
		assert.Equal(t, runtimeStub, prev.Text)
	})

	t.Run("ambient without ambient declarations", func(t *testing.T) {
		t.Parallel()
		p, _ := newTestPreserver(t, map[string]string{
			"api.d.ts": "// export declare const components: AnyComponents;\n",
			"api.ts":   runtimeStub,
		})

		prev := p.ReadPrevious(artifactDir)
		require.True(t, prev.Found)
		assert.Equal(t, filepath.Join(artifactDir, "api.ts"), prev.Path)
	})

	t.Run("ambient without ambient declarations and no runtime", func(t *testing.T) {
		t.Parallel()
		p, _ := newTestPreserver(t, map[string]string{"api.d.ts": "export {};\n"})

		prev := p.ReadPrevious(artifactDir)
		require.True(t, prev.Found)
		assert.Equal(t, filepath.Join(artifactDir, "api.d.ts"), prev.Path)
	})
}

func TestReadPrevious_NothingFound(t *testing.T) {
	t.Parallel()

	p, _ := newTestPreserver(t, nil)

	prev := p.ReadPrevious(artifactDir)
	assert.False(t, prev.Found)
	assert.Empty(t, prev.Path)
}

func TestReadPrevious_ReadFailureForfeitsWithWarning(t *testing.T) {
	t.Parallel()

	ambientPath := filepath.Join(artifactDir, "api.d.ts")
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, ambientPath, []byte(readFixture(t, "real", "api.d.ts")), 0o644))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := New(failingFs{Fs: mem, path: ambientPath}, config.Default(), logger)

	prev := p.ReadPrevious(artifactDir)
	assert.False(t, prev.Found)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "permission denied")

	snap := p.Capture(artifactDir)
	assert.Equal(t, declaration.NotFound, snap.Results["components"].Kind)
}

func TestCapture_ClassifiesTargets(t *testing.T) {
	t.Parallel()

	p, _ := newTestPreserver(t, map[string]string{"api.d.ts": readFixture(t, "real", "api.d.ts")})

	snap := p.Capture(artifactDir)
	assert.Equal(t, filepath.Join(artifactDir, "api.d.ts"), snap.Source)
	require.Contains(t, snap.Results, "components")
	assert.Equal(t, declaration.Real, snap.Results["components"].Kind)
}

func TestWriteArtifact_NoDowngrade(t *testing.T) {
	t.Parallel()

	previous := readFixture(t, "real", "api.d.ts")
	p, fsys := newTestPreserver(t, map[string]string{"api.d.ts": previous})
	want := declaration.Extract(previous, "components", p.Policy()["components"])
	require.Equal(t, declaration.Real, want.Kind)

	outcome, err := p.WriteArtifact(artifactDir, "api.d.ts", freshStub)
	require.NoError(t, err)
	assert.Equal(t, []string{"components"}, outcome.Spliced)
	assert.Equal(t, filepath.Join(artifactDir, "api.d.ts"), outcome.Source)

	written := readFile(t, fsys, "api.d.ts")
	assert.True(t, strings.HasPrefix(written, "/* eslint-disable */\nexport declare const api: Api;\n"))
	assert.Contains(t, written, want.Declaration)

	got := declaration.Extract(written, "components", p.Policy()["components"])
	assert.Equal(t, want, got)
}

func TestWriteArtifact_Idempotent(t *testing.T) {
	t.Parallel()

	p, fsys := newTestPreserver(t, map[string]string{"api.d.ts": readFixture(t, "real", "api.d.ts")})

	first, err := p.WriteArtifact(artifactDir, "api.d.ts", freshStub)
	require.NoError(t, err)
	assert.True(t, first.Changed)
	afterFirst := readFile(t, fsys, "api.d.ts")

	for i := 0; i < 3; i++ {
		again, err := p.WriteArtifact(artifactDir, "api.d.ts", freshStub)
		require.NoError(t, err)
		assert.False(t, again.Changed)
		assert.Equal(t, []string{"components"}, again.Spliced)
		assert.Equal(t, afterFirst, readFile(t, fsys, "api.d.ts"))
	}
}

func TestWriteArtifact_StubInStubOut(t *testing.T) {
	t.Parallel()

	p, fsys := newTestPreserver(t, map[string]string{"api.d.ts": freshStub})

	outcome, err := p.WriteArtifact(artifactDir, "api.d.ts", freshStub)
	require.NoError(t, err)
	assert.Empty(t, outcome.Spliced)
	assert.False(t, outcome.Changed)
	assert.Equal(t, freshStub, readFile(t, fsys, "api.d.ts"))
}

func TestWriteArtifact_FreshRealWins(t *testing.T) {
	t.Parallel()

	p, fsys := newTestPreserver(t, map[string]string{
		"api.d.ts": "export declare const components: { old: string };\n",
	})
	fresh := "export declare const components: { fresh: number };\n"

	outcome, err := p.WriteArtifact(artifactDir, "api.d.ts", fresh)
	require.NoError(t, err)
	assert.Empty(t, outcome.Spliced)
	assert.True(t, outcome.Changed)
	assert.Equal(t, fresh, readFile(t, fsys, "api.d.ts"))
}

func TestWriteArtifact_RuntimeFromAmbientSibling(t *testing.T) {
	t.Parallel()

	p, fsys := newTestPreserver(t, map[string]string{
		"api.d.ts": "export declare const components: { rateLimiter: { lib: { check: Fn } } };\n",
	})

	outcome, err := p.WriteArtifact(artifactDir, "api.ts", runtimeStub)
	require.NoError(t, err)
	assert.Equal(t, []string{"components"}, outcome.Spliced)

	written := readFile(t, fsys, "api.ts")
	assert.True(t, strings.HasPrefix(written, "export const components = componentsGeneric() as unknown as {\n"))
	assert.NotContains(t, written, "AnyComponents")
	assert.Equal(t, declaration.Real, declaration.Extract(written, "components", p.Policy()["components"]).Kind)
}

func TestWriteArtifact_NoPrevious(t *testing.T) {
	t.Parallel()

	p, fsys := newTestPreserver(t, nil)

	outcome, err := p.WriteArtifact(artifactDir, "api.d.ts", freshStub)
	require.NoError(t, err)
	assert.Empty(t, outcome.Source)
	assert.Empty(t, outcome.Spliced)
	assert.True(t, outcome.Changed)
	assert.Equal(t, freshStub, readFile(t, fsys, "api.d.ts"))
}

func TestWriteArtifact_WriteFailure(t *testing.T) {
	t.Parallel()

	p := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), config.Default(), nil)

	_, err := p.WriteArtifact(artifactDir, "api.d.ts", freshStub)
	assert.Error(t, err)
}

func TestApply_MultipleTargets(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Targets = []config.TargetConfig{
		{Name: "components", Sentinels: []string{"AnyComponents"}},
		{Name: "internal", Sentinels: []string{"AnyApi"}},
	}
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(artifactDir, "api.d.ts"), []byte(
		"export declare const components: { a: string };\n"+
			"export declare const internal: { b: number };\n"), 0o644))
	p := New(fsys, cfg, nil)

	fresh := "export declare const components: AnyComponents;\n" +
		"export declare const internal: AnyApi;\n"

	merged, snap, spliced := p.Merge(artifactDir, fresh)
	assert.Equal(t, []string{"components", "internal"}, spliced)
	assert.Equal(t, declaration.Real, snap.Results["internal"].Kind)
	assert.Equal(t,
		"export declare const components: {\n  a: string;\n};\n"+
			"export declare const internal: {\n  b: number;\n};\n",
		merged)
}

func writeString(fsys afero.Fs, path, content string) error {
	return afero.WriteFile(fsys, path, []byte(content), 0o644)
}
