package hooks

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"

	"github.com/gatehook/gatehook/pkg/identify"
)

// MatchSpec is a trigger to match hook declarations against.
type MatchSpec struct {
	Stage         Stage
	DefaultStages []Stage
}

// MatchStage reports whether the hook is bound to the trigger's stage. Hooks
// without explicit stages fall back to the configuration default stages, and
// finally to pre-commit.
func (h *HookConfig) MatchStage(spec MatchSpec) bool {
	hookStages := h.Stages
	if len(hookStages) == 0 {
		hookStages = spec.DefaultStages
	}
	if len(hookStages) == 0 {
		hookStages = []Stage{StagePreCommit}
	}
	for _, s := range hookStages {
		if s == spec.Stage {
			return true
		}
	}
	return false
}

// MatchFiles returns the subset of files the hook applies to. Patterns are
// globs matched against the repository-relative path; every tag in 'types'
// must be carried by the file.
func (c *Config) MatchFiles(h *HookConfig, root string, files []string) ([]string, error) {
	filesGlob, err := compileOptional(h.Files)
	if err != nil {
		return nil, fmt.Errorf("hook '%s' 'files' pattern: %w", h.ID, err)
	}
	excludeGlob, err := compileOptional(h.Exclude)
	if err != nil {
		return nil, fmt.Errorf("hook '%s' 'exclude' pattern: %w", h.ID, err)
	}
	globalExcludeGlob, err := compileOptional(c.Exclude)
	if err != nil {
		return nil, fmt.Errorf("'exclude' pattern: %w", err)
	}

	var matched []string
	for _, file := range files {
		if filesGlob != nil && !filesGlob.Match(file) {
			continue
		}
		if excludeGlob != nil && excludeGlob.Match(file) {
			continue
		}
		if globalExcludeGlob != nil && globalExcludeGlob.Match(file) {
			continue
		}
		if !matchTypes(h.Types, filepath.Join(root, file)) {
			continue
		}
		matched = append(matched, file)
	}
	return matched, nil
}

func compileOptional(pattern string) (glob.Glob, error) {
	if pattern == "" {
		return nil, nil
	}
	return glob.Compile(pattern)
}

// matchTypes requires the file to carry all the wanted tags.
func matchTypes(wanted []string, path string) bool {
	if len(wanted) == 0 {
		return true
	}
	tags := identify.Tags(path)
	tagSet := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[tag] = struct{}{}
	}
	for _, want := range wanted {
		if _, found := tagSet[want]; !found {
			return false
		}
	}
	return true
}
