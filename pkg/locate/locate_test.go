package locate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgrinrt/tomlfuse/pkg/fuseerr"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("module example.com/x\n"), 0o644))
}

func TestManifestDirNearest(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "go.mod"))
	touch(t, filepath.Join(root, "sub", "go.mod"))
	nested := filepath.Join(root, "sub", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	dir, err := ManifestDir(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sub"), dir)
}

func TestManifestDirNotFound(t *testing.T) {
	_, err := ManifestDir(t.TempDir())
	require.Error(t, err)
	assert.True(t, fuseerr.IsCode(err, fuseerr.ErrManifestNotFound))
}

func TestWorkspaceRootPrefersGoWork(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "go.work"))
	touch(t, filepath.Join(root, "mod", "go.mod"))
	start := filepath.Join(root, "mod", "pkg")
	require.NoError(t, os.MkdirAll(start, 0o755))

	dir, err := WorkspaceRoot(start)
	require.NoError(t, err)
	assert.Equal(t, root, dir)
}

func TestWorkspaceRootTopmostGoMod(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "go.mod"))
	touch(t, filepath.Join(root, "inner", "go.mod"))

	dir, err := WorkspaceRoot(filepath.Join(root, "inner"))
	require.NoError(t, err)
	assert.Equal(t, root, dir)
}

func TestFindDocumentRelativeToStart(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "app.toml"))

	path, err := FindDocument("app.toml", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app.toml"), path)
}

func TestFindDocumentFallsBackToWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "go.mod"))
	touch(t, filepath.Join(root, "app.toml"))
	start := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(start, 0o755))

	path, err := FindDocument("app.toml", start)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "app.toml"), path)
}

func TestFindDocumentAbsolute(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "app.toml")
	touch(t, doc)

	path, err := FindDocument(doc, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, doc, path)
}

func TestFindDocumentMissing(t *testing.T) {
	_, err := FindDocument("nope.toml", t.TempDir())
	require.Error(t, err)
	assert.True(t, fuseerr.IsCode(err, fuseerr.ErrFileNotFound))
	assert.Equal(t, "nope.toml", fuseerr.DetailsOf(err)["path"])
}

func TestFindDocumentEmpty(t *testing.T) {
	_, err := FindDocument("", t.TempDir())
	require.Error(t, err)
	assert.True(t, fuseerr.IsCode(err, fuseerr.ErrFileNotFound))
}
