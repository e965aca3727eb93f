package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageFileArgs(t *testing.T) {
	t.Run("commit-msg invocation", func(t *testing.T) {
		files, rest := messageFileArgs([]string{".git/COMMIT_EDITMSG"})
		require.Equal(t, []string{".git/COMMIT_EDITMSG"}, files)
		require.Empty(t, rest)
	})

	t.Run("prepare-commit-msg keeps the source args", func(t *testing.T) {
		files, rest := messageFileArgs([]string{".git/COMMIT_EDITMSG", "message"})
		require.Equal(t, []string{".git/COMMIT_EDITMSG"}, files)
		require.Equal(t, []string{"message"}, rest)
	})

	t.Run("no args", func(t *testing.T) {
		files, rest := messageFileArgs(nil)
		require.Empty(t, files)
		require.Empty(t, rest)
	})
}

func TestNormalizeFiles(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prevDir)) })

	t.Run("relative, nested and absolute", func(t *testing.T) {
		got, err := normalizeFiles(root, []string{
			"a.txt",
			filepath.Join("sub", "b.txt"),
			filepath.Join(root, "c.txt"),
		})
		require.NoError(t, err)
		require.Equal(t, []string{"a.txt", "sub/b.txt", "c.txt"}, got)
	})

	t.Run("path outside the repository", func(t *testing.T) {
		_, err := normalizeFiles(root, []string{filepath.Join("..", "outside.txt")})
		require.Error(t, err)
	})
}
