package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gatehook/gatehook/pkg/fileutil"
	"github.com/stretchr/testify/require"
)

func TestIsDir(t *testing.T) {
	tmpdir := t.TempDir()
	isDir, err := fileutil.IsDir(tmpdir)
	require.NoError(t, err)
	require.True(t, isDir)

	f := filepath.Join(tmpdir, "file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	isDir, err = fileutil.IsDir(f)
	require.NoError(t, err)
	require.False(t, isDir)

	_, err = fileutil.IsDir(filepath.Join(tmpdir, "missing"))
	require.Error(t, err)
}

func TestFindInParents(t *testing.T) {
	tmpdir := t.TempDir()
	nested := filepath.Join(tmpdir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, fileutil.DefaultDirectoryMask))

	target := filepath.Join(tmpdir, "a", ".gatehook.yaml")
	require.NoError(t, os.WriteFile(target, []byte("hooks: []\n"), 0o644))

	found, err := fileutil.FindInParents(nested, ".gatehook.yaml")
	require.NoError(t, err)
	require.Equal(t, target, found)

	found, err = fileutil.FindInParents(nested, "no-such-file-anywhere")
	require.NoError(t, err)
	require.Equal(t, "", found)
}

func TestWalkFiles(t *testing.T) {
	tmpdir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpdir, ".git", "objects"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpdir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tmpdir, ".git", "HEAD"), []byte("ref"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpdir, "README.md"), []byte("#"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpdir, "src", "main.py"), []byte("pass"), 0o644))

	files, err := fileutil.WalkFiles(tmpdir)
	require.NoError(t, err)
	require.Equal(t, []string{"README.md", "src/main.py"}, files)
}
