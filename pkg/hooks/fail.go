package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
)

var ErrFilesBlocked = errors.New("files blocked")

// FailHook fails whenever any file matches the hook filters, printing its
// message and the offending files. Used to keep files out of commits.
type FailHook struct {
	HookBase
	Message string
}

func NewFailHook(h HookConfig, _ *Config) (Hook, error) {
	message := h.Entry
	if message == "" {
		message = h.Description
	}
	if message == "" {
		message = h.DisplayName()
	}
	return &FailHook{
		HookBase: HookBase{
			ID:   h.ID,
			Name: h.DisplayName(),
		},
		Message: message,
	}, nil
}

func (f *FailHook) Run(_ context.Context, record HookRecord, buf *bytes.Buffer) error {
	buf.WriteString(f.Message + "\n\n")
	for _, file := range record.Files {
		buf.WriteString(file + "\n")
	}
	return fmt.Errorf("%d file(s): %w", len(record.Files), ErrFilesBlocked)
}
