package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrScriptNotExecutable = errors.New("script is not executable")

// ScriptHook runs an executable from inside the repository. The entry is a
// path relative to the repository root.
type ScriptHook struct {
	SystemHook
}

func NewScriptHook(h HookConfig, cfg *Config) (Hook, error) {
	base, err := NewSystemHook(h, cfg)
	if err != nil {
		return nil, err
	}
	return &ScriptHook{SystemHook: *base.(*SystemHook)}, nil
}

func (s *ScriptHook) Run(ctx context.Context, record HookRecord, buf *bytes.Buffer) error {
	entry := s.Entry
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(record.RepoRoot, entry)
	}
	info, err := os.Stat(entry)
	if err != nil {
		return fmt.Errorf("script '%s': %w", s.Entry, err)
	}
	if info.Mode()&0o111 == 0 {
		return fmt.Errorf("script '%s': %w", s.Entry, ErrScriptNotExecutable)
	}
	return s.runEntry(ctx, entry, record, buf)
}
