package preserve

import (
	"path/filepath"
	"testing"

	"github.com/mvp-joe/typekeep/internal/config"
	"github.com/mvp-joe/typekeep/internal/declaration"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Discovery and Status:
// - Discover finds artifact directories at any depth, including the root level
// - Discover skips ignored directories and the .typekeep directory
// - Discover returns results sorted
// - NewDiscovery rejects patterns that do not compile
// - Status reports per-target kinds and the source of each directory

func TestDiscover(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	for _, dir := range []string{
		"/repo/convex/_generated",
		"/repo/apps/web/convex/_generated",
		"/repo/_generated",
		"/repo/node_modules/pkg/_generated",
		"/repo/.typekeep/_generated",
		"/repo/src/generated",
	} {
		require.NoError(t, fsys.MkdirAll(dir, 0o755))
	}
	require.NoError(t, afero.WriteFile(fsys, "/repo/convex/_generated/api.d.ts", []byte(""), 0o644))

	cfg := config.Default()
	d, err := NewDiscovery(fsys, "/repo", cfg.Discovery.Include, cfg.Discovery.Ignore)
	require.NoError(t, err)

	dirs, err := d.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/repo/_generated",
		"/repo/apps/web/convex/_generated",
		"/repo/convex/_generated",
	}, dirs)
}

func TestNewDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewDiscovery(afero.NewMemMapFs(), "/repo", []string{"[abc"}, nil)
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/repo/a/_generated/api.d.ts", []byte(readFixture(t, "real", "api.d.ts")), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/repo/b/_generated/api.ts", []byte(runtimeStub), 0o644))
	require.NoError(t, fsys.MkdirAll("/repo/c/_generated", 0o755))

	p := New(fsys, config.Default(), nil)
	statuses := p.Status([]string{"/repo/a/_generated", "/repo/b/_generated", "/repo/c/_generated"})
	require.Len(t, statuses, 3)

	assert.Equal(t, filepath.Join("/repo/a/_generated", "api.d.ts"), statuses[0].Source)
	assert.Equal(t, declaration.Real, statuses[0].Results["components"].Kind)

	assert.Equal(t, filepath.Join("/repo/b/_generated", "api.ts"), statuses[1].Source)
	assert.Equal(t, declaration.Stub, statuses[1].Results["components"].Kind)

	assert.Empty(t, statuses[2].Source)
	assert.Equal(t, declaration.NotFound, statuses[2].Results["components"].Kind)
}
