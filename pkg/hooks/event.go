package hooks

import (
	"fmt"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Stage is a git hook trigger point.
type Stage string

const (
	StagePreCommit        Stage = "pre-commit"
	StagePreMergeCommit   Stage = "pre-merge-commit"
	StagePrepareCommitMsg Stage = "prepare-commit-msg"
	StageCommitMsg        Stage = "commit-msg"
	StagePostCommit       Stage = "post-commit"
	StagePrePush          Stage = "pre-push"
	StagePostCheckout     Stage = "post-checkout"
	StagePostMerge        Stage = "post-merge"
)

var stages = []Stage{
	StagePreCommit,
	StagePreMergeCommit,
	StagePrepareCommitMsg,
	StageCommitMsg,
	StagePostCommit,
	StagePrePush,
	StagePostCheckout,
	StagePostMerge,
}

// Stages returns all the supported git stages in hook execution order.
func Stages() []Stage {
	result := make([]Stage, len(stages))
	copy(result, stages)
	return result
}

func ValidStage(s Stage) bool {
	for _, stage := range stages {
		if stage == s {
			return true
		}
	}
	return false
}

// HookRecord is the information a single trigger carries through matching and
// hook execution.
type HookRecord struct {
	RunID    string
	Stage    Stage
	RepoRoot string
	Branch   string
	// Files are the candidate paths for this trigger, relative to RepoRoot.
	Files []string
	// Args are the extra arguments git passed to the stage (e.g. the commit
	// message file for commit-msg).
	Args []string
}

func NewRunID() string {
	const nanoLen = 8
	id := nanoid.Must(nanoLen)
	tm := time.Now().UTC().Format("20060102150405")
	return tm + id
}

func NewHookRunID(hookIdx int) string {
	return fmt.Sprintf("%04d", hookIdx)
}
