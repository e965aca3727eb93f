package hooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

var ErrRunNotFound = errors.New("run not found")

// ListRunManifests reads the persisted run manifests under root (the git
// directory), newest run first. Run IDs are time-prefixed so the lexical
// order is the chronological order.
func ListRunManifests(root string) ([]RunManifest, error) {
	runsDir := filepath.Join(root, filepath.FromSlash(outputLocation))
	entries, err := os.ReadDir(runsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read runs directory: %w", err)
	}

	var manifests []RunManifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := GetRunManifest(root, entry.Name())
		if err != nil {
			// a run interrupted before its manifest was written
			continue
		}
		manifests = append(manifests, *manifest)
	}
	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].Run.RunID > manifests[j].Run.RunID
	})
	return manifests, nil
}

// GetRunManifest reads a single run manifest by run ID.
func GetRunManifest(root, runID string) (*RunManifest, error) {
	p := filepath.Join(root, filepath.FromSlash(FormatRunManifestPath(runID)))
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("run id '%s': %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("unmarshal run manifest '%s': %w", runID, err)
	}
	return &manifest, nil
}

// ReadHookOutput reads the persisted transcript of a single hook run.
func ReadHookOutput(root, runID, hookRunID string) ([]byte, error) {
	p := filepath.Join(root, filepath.FromSlash(FormatHookOutputPath(runID, hookRunID)))
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("hook run id '%s/%s': %w", runID, hookRunID, ErrRunNotFound)
	}
	return data, err
}
