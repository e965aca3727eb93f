package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/gatehook/gatehook/pkg/logging"
)

const (
	systemHookDefaultTimeout = 5 * time.Minute

	// maxCommandLine bounds the argv bytes of a single invocation when
	// filenames are appended; overflow spills into additional invocations.
	maxCommandLine = 32 << 10

	// environment passed to spawned hook commands
	envStage = "GATEHOOK_STAGE"
	envRunID = "GATEHOOK_RUN_ID"
)

// SystemHook spawns the configured entry command from the local environment.
type SystemHook struct {
	HookBase
	Entry         string
	Args          []string
	Env           map[string]string
	Timeout       time.Duration
	PassFilenames bool
}

func NewSystemHook(h HookConfig, _ *Config) (Hook, error) {
	timeout := systemHookDefaultTimeout
	if h.Timeout != "" {
		d, err := time.ParseDuration(h.Timeout)
		if err != nil {
			return nil, fmt.Errorf("hook '%s' timeout: %w", h.ID, err)
		}
		timeout = d
	}
	return &SystemHook{
		HookBase: HookBase{
			ID:   h.ID,
			Name: h.DisplayName(),
		},
		Entry:         h.Entry,
		Args:          h.Args,
		Env:           h.Env,
		Timeout:       timeout,
		PassFilenames: h.PassesFilenames(),
	}, nil
}

func (s *SystemHook) Run(ctx context.Context, record HookRecord, buf *bytes.Buffer) error {
	return s.runEntry(ctx, s.Entry, record, buf)
}

// runEntry spawns entry once per filename batch, appending the transcript of
// every invocation to buf.
func (s *SystemHook) runEntry(ctx context.Context, entry string, record HookRecord, buf *bytes.Buffer) error {
	logging.FromContext(ctx).
		WithField(logging.HookFieldKey, s.ID).
		WithField(logging.StageFieldKey, record.Stage).
		WithField(logging.FilesFieldKey, len(record.Files)).
		Debug("hook executing")

	base := make([]string, 0, len(s.Args)+len(record.Args))
	base = append(base, s.Args...)
	base = append(base, record.Args...)

	for _, args := range argBatches(base, record.Files, s.PassFilenames, maxCommandLine) {
		if err := s.runCommand(ctx, entry, args, record, buf); err != nil {
			return err
		}
	}
	return nil
}

func (s *SystemHook) runCommand(ctx context.Context, entry string, args []string, record HookRecord, buf *bytes.Buffer) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, entry, args...)
	cmd.Dir = record.RepoRoot
	cmd.Env = append(os.Environ(),
		envStage+"="+string(record.Stage),
		envRunID+"="+record.RunID,
	)
	for k, v := range s.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdout = buf
	cmd.Stderr = buf

	buf.WriteString(fmt.Sprintf("$ %s\n", strings.Join(append([]string{entry}, args...), " ")))
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	buf.WriteString(fmt.Sprintf("\nDuration: %s\n", elapsed))
	if err != nil {
		return fmt.Errorf("run '%s': %w", entry, err)
	}
	return nil
}

// argBatches splits the appended filenames into invocations whose argv stays
// under maxLen bytes. Without pass_filenames there is a single invocation.
func argBatches(base []string, files []string, passFilenames bool, maxLen int) [][]string {
	if !passFilenames || len(files) == 0 {
		return [][]string{base}
	}
	baseLen := 0
	for _, a := range base {
		baseLen += len(a) + 1
	}

	var batches [][]string
	current := append([]string(nil), base...)
	currentLen := baseLen
	for _, f := range files {
		if len(current) > len(base) && currentLen+len(f)+1 > maxLen {
			batches = append(batches, current)
			current = append([]string(nil), base...)
			currentLen = baseLen
		}
		current = append(current, f)
		currentLen += len(f) + 1
	}
	return append(batches, current)
}
