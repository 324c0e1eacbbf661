package pathguard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTree builds base/{root/{readme.txt,sub/a.txt},sibling/secret.txt}.
func newTree(t *testing.T) (base, root string) {
	t.Helper()

	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	root = filepath.Join(base, "root")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "sibling"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "sibling", "secret.txt"), []byte("s"), 0o644))
	return base, root
}

func TestNewCanonicalizesRoot(t *testing.T) {
	base, root := newTree(t)

	link := filepath.Join(base, "link")
	require.NoError(t, os.Symlink(root, link))

	g, err := New(link+"/sub/..", Strict)
	require.NoError(t, err)
	assert.Equal(t, root, g.Root())
	assert.Equal(t, Strict, g.Mode())
}

func TestNewRejectsBadRoot(t *testing.T) {
	base, root := newTree(t)

	_, err := New(filepath.Join(base, "nope"), Strict)
	assert.ErrorIs(t, err, ErrRootInvalid)

	_, err = New(filepath.Join(root, "readme.txt"), Strict)
	assert.ErrorIs(t, err, ErrRootInvalid)
}

func TestResolveInsideRoot(t *testing.T) {
	_, root := newTree(t)

	for _, mode := range []Mode{Strict, Depth} {
		g, err := New(root, mode)
		require.NoError(t, err)

		p, err := g.Resolve("readme.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "readme.txt"), p)

		p, err = g.Resolve("sub/../sub/a.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "sub", "a.txt"), p)

		p, err = g.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, root, p)
	}
}

func TestResolveTraversalFallsBackToRoot(t *testing.T) {
	_, root := newTree(t)

	for _, mode := range []Mode{Strict, Depth} {
		g, err := New(root, mode)
		require.NoError(t, err)

		for _, resource := range []string{"..", "../..", "sub/../../..", "../../../../../../"} {
			p, err := g.Resolve(resource)
			require.NoError(t, err, "mode %s resource %q", mode, resource)
			assert.Equal(t, root, p, "mode %s resource %q", mode, resource)
		}
	}
}

func TestResolveSiblingAtEqualDepth(t *testing.T) {
	base, root := newTree(t)

	strict, err := New(root, Strict)
	require.NoError(t, err)
	p, err := strict.Resolve("../sibling")
	require.NoError(t, err)
	assert.Equal(t, root, p)

	// The component count check lets an equally deep sibling through.
	depthGuard, err := New(root, Depth)
	require.NoError(t, err)
	p, err = depthGuard.Resolve("../sibling")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "sibling"), p)
}

func TestResolveSymlinkOutOfRoot(t *testing.T) {
	base, root := newTree(t)
	require.NoError(t, os.Symlink(filepath.Join(base, "sibling"), filepath.Join(root, "escape")))

	g, err := New(root, Strict)
	require.NoError(t, err)

	p, err := g.Resolve("escape/secret.txt")
	require.NoError(t, err)
	assert.Equal(t, root, p)
}

func TestResolveMissing(t *testing.T) {
	_, root := newTree(t)

	g, err := New(root, Strict)
	require.NoError(t, err)

	p, err := g.Resolve("missing.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "missing.txt"), p)

	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))

	p, err = g.Resolve("../../missing.txt")
	require.NoError(t, err)
	assert.Equal(t, root, p)
}

func TestResolveCanonicalizeError(t *testing.T) {
	_, root := newTree(t)

	g, err := New(root, Strict)
	require.NoError(t, err)

	// A path through a regular file fails with ENOTDIR, not ENOENT.
	_, err = g.Resolve("readme.txt/inner")
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Strict, m)

	m, err = ParseMode("DEPTH")
	require.NoError(t, err)
	assert.Equal(t, Depth, m)

	_, err = ParseMode("prefix")
	assert.Error(t, err)
}
