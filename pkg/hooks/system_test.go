package hooks

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestArgBatches(t *testing.T) {
	base := []string{"--flag"}

	t.Run("no pass filenames", func(t *testing.T) {
		batches := argBatches(base, []string{"a", "b"}, false, 100)
		require.Len(t, batches, 1)
		require.Equal(t, base, batches[0])
	})

	t.Run("no files", func(t *testing.T) {
		batches := argBatches(base, nil, true, 100)
		require.Len(t, batches, 1)
		require.Equal(t, base, batches[0])
	})

	t.Run("single batch", func(t *testing.T) {
		batches := argBatches(base, []string{"a", "b", "c"}, true, 100)
		require.Len(t, batches, 1)
		require.Equal(t, []string{"--flag", "a", "b", "c"}, batches[0])
	})

	t.Run("split batches", func(t *testing.T) {
		files := []string{"aaaa", "bbbb", "cccc", "dddd"}
		batches := argBatches(base, files, true, 18)
		require.Greater(t, len(batches), 1)
		// every batch carries the base args and at least one file
		var gotFiles []string
		for _, batch := range batches {
			require.Equal(t, "--flag", batch[0])
			require.Greater(t, len(batch), 1)
			gotFiles = append(gotFiles, batch[1:]...)
		}
		require.Equal(t, files, gotFiles)
	})
}

func TestSystemHook_Run(t *testing.T) {
	requireShell(t)
	cfg := &Config{}

	t.Run("passing command", func(t *testing.T) {
		h, err := NewSystemHook(HookConfig{ID: "echo", Entry: "echo", Args: []string{"hello"}}, cfg)
		require.NoError(t, err)

		var buf bytes.Buffer
		record := HookRecord{RunID: NewRunID(), Stage: StagePreCommit, RepoRoot: t.TempDir(), Files: []string{"a.txt"}}
		require.NoError(t, h.Run(context.Background(), record, &buf))
		require.Contains(t, buf.String(), "hello a.txt")
		require.Contains(t, buf.String(), "Duration:")
	})

	t.Run("failing command", func(t *testing.T) {
		h, err := NewSystemHook(HookConfig{ID: "fail", Entry: "sh", Args: []string{"-c", "echo boom; exit 3"}}, cfg)
		require.NoError(t, err)

		var buf bytes.Buffer
		record := HookRecord{RunID: NewRunID(), Stage: StagePreCommit, RepoRoot: t.TempDir()}
		err = h.Run(context.Background(), record, &buf)
		require.Error(t, err)
		require.Contains(t, buf.String(), "boom")
	})

	t.Run("missing executable", func(t *testing.T) {
		h, err := NewSystemHook(HookConfig{ID: "gone", Entry: "no-such-binary-gatehook"}, cfg)
		require.NoError(t, err)

		var buf bytes.Buffer
		record := HookRecord{RunID: NewRunID(), Stage: StagePreCommit, RepoRoot: t.TempDir()}
		require.Error(t, h.Run(context.Background(), record, &buf))
	})

	t.Run("message file passed once", func(t *testing.T) {
		h, err := NewSystemHook(HookConfig{ID: "msg", Entry: "echo"}, cfg)
		require.NoError(t, err)

		// a commit-msg dispatch: the message file is the candidate file and
		// only the remaining git arguments are forwarded
		var buf bytes.Buffer
		record := HookRecord{
			RunID:    NewRunID(),
			Stage:    StageCommitMsg,
			RepoRoot: t.TempDir(),
			Files:    []string{".git/COMMIT_EDITMSG"},
			Args:     []string{"message"},
		}
		require.NoError(t, h.Run(context.Background(), record, &buf))
		require.Contains(t, buf.String(), "message .git/COMMIT_EDITMSG")
		// once in the argv header, once in the echoed output
		require.Equal(t, 2, strings.Count(buf.String(), "COMMIT_EDITMSG"))
	})

	t.Run("environment", func(t *testing.T) {
		h, err := NewSystemHook(HookConfig{
			ID:            "env",
			Entry:         "sh",
			Args:          []string{"-c", "echo $GATEHOOK_STAGE $EXTRA"},
			Env:           map[string]string{"EXTRA": "extra-value"},
			PassFilenames: boolPtr(false),
		}, cfg)
		require.NoError(t, err)

		var buf bytes.Buffer
		record := HookRecord{RunID: NewRunID(), Stage: StagePrePush, RepoRoot: t.TempDir()}
		require.NoError(t, h.Run(context.Background(), record, &buf))
		require.Contains(t, buf.String(), "pre-push extra-value")
	})

	t.Run("invalid timeout", func(t *testing.T) {
		_, err := NewSystemHook(HookConfig{ID: "t", Entry: "true", Timeout: "soon"}, cfg)
		require.Error(t, err)
	})
}

func TestSystemHook_Timeout(t *testing.T) {
	requireShell(t)
	h, err := NewSystemHook(HookConfig{
		ID:            "slow",
		Entry:         "sh",
		Args:          []string{"-c", "sleep 5"},
		Timeout:       "50ms",
		PassFilenames: boolPtr(false),
	}, &Config{})
	require.NoError(t, err)

	var buf bytes.Buffer
	record := HookRecord{RunID: NewRunID(), Stage: StagePreCommit, RepoRoot: t.TempDir()}
	err = h.Run(context.Background(), record, &buf)
	require.Error(t, err)
}

func TestScriptHook_Run(t *testing.T) {
	requireShell(t)

	t.Run("missing script", func(t *testing.T) {
		h, err := NewScriptHook(HookConfig{ID: "s", Language: HookTypeScript, Entry: "tools/run.sh"}, &Config{})
		require.NoError(t, err)
		var buf bytes.Buffer
		record := HookRecord{RunID: NewRunID(), Stage: StagePreCommit, RepoRoot: t.TempDir()}
		require.Error(t, h.Run(context.Background(), record, &buf))
	})
}

func TestFailHook_Run(t *testing.T) {
	h, err := NewFailHook(HookConfig{ID: "block", Description: "credential files must not be committed"}, &Config{})
	require.NoError(t, err)

	var buf bytes.Buffer
	record := HookRecord{RunID: NewRunID(), Stage: StagePreCommit, Files: []string{"key.pem"}}
	err = h.Run(context.Background(), record, &buf)
	require.Error(t, err)
	require.True(t, strings.Contains(buf.String(), "credential files"))
	require.Contains(t, buf.String(), "key.pem")
}

func boolPtr(b bool) *bool {
	return &b
}
