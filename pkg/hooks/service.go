package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/gatehook/gatehook/pkg/logging"
)

// Service loads the hooks matching a trigger, runs them and persists the run
// results through the output writer.
type Service struct {
	Config *Config
	Writer OutputWriter
}

// Task is a single scheduled hook run.
type Task struct {
	RunID     string
	HookRunID string
	HookID    string
	Name      string
	Hook      Hook
	Config    *HookConfig
	Files     []string
	StartTime time.Time
	EndTime   time.Time
	Err       error
	Output    bytes.Buffer
}

// Passed reports whether the task ran and succeeded.
func (t *Task) Passed() bool {
	return !t.StartTime.IsZero() && t.Err == nil
}

// Skipped reports whether the task was never started (fail_fast).
func (t *Task) Skipped() bool {
	return t.StartTime.IsZero()
}

type RunResult struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Branch    string    `json:"branch,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Passed    bool      `json:"passed"`
}

type TaskResult struct {
	RunID     string    `json:"run_id"`
	HookRunID string    `json:"hook_run_id"`
	HookID    string    `json:"hook_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Passed    bool      `json:"passed"`
}

func (r *TaskResult) LogPath() string {
	return FormatHookOutputPath(r.RunID, r.HookRunID)
}

type RunManifest struct {
	Run      RunResult    `json:"run"`
	HooksRun []TaskResult `json:"hooks,omitempty"`
}

func NewService(cfg *Config, writer OutputWriter) *Service {
	return &Service{
		Config: cfg,
		Writer: writer,
	}
}

// Run executes the hooks matching the record's stage against the record's
// files. All scheduled tasks are returned, run or skipped; the returned error
// aggregates the failed hooks.
func (s *Service) Run(ctx context.Context, record HookRecord) ([]*Task, error) {
	spec := MatchSpec{
		Stage:         record.Stage,
		DefaultStages: s.Config.DefaultStages,
	}
	logging.FromContext(ctx).
		WithFields(logging.Fields{
			logging.StageFieldKey: record.Stage,
			logging.RunIDFieldKey: record.RunID,
			logging.FilesFieldKey: len(record.Files),
		}).Debug("Filtering hooks")

	tasks, err := s.allocateTasks(record, spec)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	runErr := s.runTasks(ctx, record, tasks)

	// keep results before returning an error (if any)
	if err := s.saveRunManifest(ctx, record, tasks); err != nil {
		return tasks, err
	}
	return tasks, runErr
}

func (s *Service) allocateTasks(record HookRecord, spec MatchSpec) ([]*Task, error) {
	var tasks []*Task
	for i := range s.Config.Hooks {
		hook := &s.Config.Hooks[i]
		if !hook.MatchStage(spec) {
			continue
		}
		matched, err := s.Config.MatchFiles(hook, record.RepoRoot, record.Files)
		if err != nil {
			return nil, err
		}
		if len(matched) == 0 && !hook.AlwaysRun {
			continue
		}
		h, err := NewHook(*hook, s.Config)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, &Task{
			RunID:     record.RunID,
			HookRunID: NewHookRunID(len(tasks)),
			HookID:    hook.ID,
			Name:      hook.DisplayName(),
			Hook:      h,
			Config:    hook,
			Files:     matched,
		})
	}
	return tasks, nil
}

func (s *Service) runTasks(ctx context.Context, record HookRecord, tasks []*Task) error {
	if s.Config.Parallel {
		var g multierror.Group
		for _, task := range tasks {
			task := task // pin
			g.Go(func() error {
				return s.runTask(ctx, record, task)
			})
		}
		return g.Wait().ErrorOrNil()
	}

	var runErr *multierror.Error
	for _, task := range tasks {
		if s.Config.FailFast && runErr.ErrorOrNil() != nil {
			// fail_fast - leave the remaining tasks unscheduled
			continue
		}
		runErr = multierror.Append(runErr, s.runTask(ctx, record, task))
	}
	return runErr.ErrorOrNil()
}

// runTask runs a single hook and persists its transcript. A write failure is
// returned as the task error so the run does not pass silently.
func (s *Service) runTask(ctx context.Context, record HookRecord, task *Task) error {
	hookOutputWriter := &HookOutputWriter{
		RunID:     task.RunID,
		HookRunID: task.HookRunID,
		HookID:    task.HookID,
		Writer:    s.Writer,
	}

	taskRecord := record
	taskRecord.Files = task.Files

	ctx = logging.AddFields(ctx, logging.Fields{
		logging.HookFieldKey:      task.HookID,
		logging.HookRunIDFieldKey: task.HookRunID,
		logging.RunIDFieldKey:     task.RunID,
	})

	task.StartTime = time.Now().UTC()
	task.Err = task.Hook.Run(ctx, taskRecord, &task.Output)
	task.EndTime = time.Now().UTC()

	if task.Err != nil {
		_, _ = fmt.Fprintf(&task.Output, "Error: %s\n", task.Err)
		// wrap error with more information
		task.Err = fmt.Errorf("hook run id '%s' failed on hook '%s': %w", task.HookRunID, task.HookID, task.Err)
	}

	err := hookOutputWriter.OutputWrite(ctx, bytes.NewReader(task.Output.Bytes()), int64(task.Output.Len()))
	if err != nil {
		return fmt.Errorf("failed to write hook log. Run id '%s' hook '%s': %w", task.HookRunID, task.HookID, err)
	}
	return task.Err
}

func (s *Service) saveRunManifest(ctx context.Context, record HookRecord, tasks []*Task) error {
	manifest := BuildRunManifest(record, tasks)
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshal run manifest: %w", err)
	}
	manifestReader := bytes.NewReader(manifestJSON)
	return s.Writer.OutputWrite(ctx, FormatRunManifestPath(record.RunID), manifestReader, int64(len(manifestJSON)))
}

func BuildRunManifest(record HookRecord, tasks []*Task) RunManifest {
	manifest := RunManifest{
		Run: RunResult{
			RunID:  record.RunID,
			Stage:  string(record.Stage),
			Branch: record.Branch,
			Passed: true,
		},
	}
	for _, task := range tasks {
		manifest.HooksRun = append(manifest.HooksRun, TaskResult{
			RunID:     task.RunID,
			HookRunID: task.HookRunID,
			HookID:    task.HookID,
			StartTime: task.StartTime,
			EndTime:   task.EndTime,
			Passed:    task.Passed(), // skipped tasks count as failed
		})
		if !task.Passed() {
			manifest.Run.Passed = false
		}
		// keep min run start time using scheduled tasks only
		if manifest.Run.StartTime.IsZero() || (!task.StartTime.IsZero() && task.StartTime.Before(manifest.Run.StartTime)) {
			manifest.Run.StartTime = task.StartTime
		}
		// keep max run end time
		if manifest.Run.EndTime.IsZero() || task.EndTime.After(manifest.Run.EndTime) {
			manifest.Run.EndTime = task.EndTime
		}
	}
	return manifest
}
