package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

const (
	hookOutputExtension = ".log"
	outputLocation      = "gatehook/runs"
	runManifestFilename = "manifest.json"
)

// OutputWriter persists run artifacts (hook transcripts, run manifest) under
// a run-relative name.
type OutputWriter interface {
	OutputWrite(ctx context.Context, name string, reader io.Reader, size int64) error
}

// HookOutputWriter writes the output of a single hook run through an
// OutputWriter.
type HookOutputWriter struct {
	RunID     string
	HookRunID string
	HookID    string
	Writer    OutputWriter
}

func (h *HookOutputWriter) OutputWrite(ctx context.Context, reader io.Reader, size int64) error {
	name := FormatHookOutputPath(h.RunID, h.HookRunID)
	return h.Writer.OutputWrite(ctx, name, reader, size)
}

func FormatHookOutputPath(runID, hookRunID string) string {
	return path.Join(outputLocation, runID, hookRunID+hookOutputExtension)
}

func FormatRunManifestPath(runID string) string {
	return path.Join(outputLocation, runID, runManifestFilename)
}

// FSOutputWriter persists run artifacts on the local filesystem, rooted at
// the repository's git directory.
type FSOutputWriter struct {
	Root string
}

func NewFSOutputWriter(root string) *FSOutputWriter {
	return &FSOutputWriter{Root: root}
}

func (w *FSOutputWriter) OutputWrite(_ context.Context, name string, reader io.Reader, _ int64) error {
	p := filepath.Join(w.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("write output %s: %w", name, err)
	}
	return nil
}
