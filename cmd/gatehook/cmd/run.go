package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gatehook/gatehook/pkg/fileutil"
	"github.com/gatehook/gatehook/pkg/git"
	"github.com/gatehook/gatehook/pkg/hooks"
)

const hookStatusTemplate = `{{ .Name | ljust 48 }}{{ if .Skipped }}{{ "Skipped" | yellow }}{{ else if .Passed }}{{ "Passed" | green }}{{ else }}{{ "Failed" | red }}{{ end }}
`

var runCmd = &cobra.Command{
	Use:   "run [flags] -- [hook arguments]",
	Short: "Run the hooks bound to a git stage",
	Long: `Runs every configured hook that matches the given stage and the
candidate files. By default the candidate files are the files staged for
commit. Arguments after "--" are the positional arguments git passes to
the hook and are forwarded to every invoked command.`,
	Example: "gatehook run --hook-stage pre-commit",
	Args:    cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		hookStage, _ := flags.GetString("hook-stage")
		allFiles, _ := flags.GetBool("all-files")
		explicitFiles, _ := flags.GetStringSlice("files")
		fromRef, _ := flags.GetString("from-ref")
		directory, _ := flags.GetString("directory")
		verbose, _ := flags.GetBool("verbose")

		stage := hooks.Stage(hookStage)
		if !hooks.ValidStage(stage) {
			DieFmt("unknown hook stage '%s', expected one of %v", hookStage, hooks.Stages())
		}

		ctx := cmd.Context()
		if cfg != nil && cfg.Run.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Run.Timeout)
			defer cancel()
		}

		var (
			root       string
			outputRoot string
			branch     string
			files      []string
			err        error
		)
		if directory != "" {
			// run against a plain directory tree, no git required
			root, err = filepath.Abs(directory)
			if err != nil {
				DieErr(err)
			}
			if isDir, err := fileutil.IsDir(root); err != nil || !isDir {
				DieFmt("'%s' is not a directory", directory)
			}
			files, err = fileutil.WalkFiles(root)
			if err != nil {
				DieErr(err)
			}
			outputRoot = filepath.Join(root, ".gatehook")
		} else {
			root, err = git.GetRepositoryPath(".")
			if err != nil {
				DieErr(err)
			}
			outputRoot, err = git.GitDir(root)
			if err != nil {
				DieErr(err)
			}
			branch, _ = git.CurrentBranch(root)
			switch {
			case len(explicitFiles) > 0:
				files, err = normalizeFiles(root, explicitFiles)
			case allFiles:
				files, err = git.AllFiles(root)
			case fromRef != "":
				files, err = git.ChangedFiles(root, fromRef)
			case stage == hooks.StageCommitMsg || stage == hooks.StagePrepareCommitMsg:
				files, args = messageFileArgs(args)
			case stage == hooks.StagePrePush:
				// files about to be pushed; without an upstream fall back
				// to the full index
				files, err = git.ChangedFiles(root, "@{push}")
				if err != nil {
					files, err = git.AllFiles(root)
				}
			default:
				files, err = git.StagedFiles(root)
			}
			if err != nil {
				DieErr(err)
			}
		}

		hooksCfg, err := hooks.LoadConfig(filepath.Join(root, hooks.DefaultConfigFileName))
		if err != nil {
			DieErr(err)
		}

		svc := hooks.NewService(hooksCfg, hooks.NewFSOutputWriter(outputRoot))
		record := hooks.HookRecord{
			RunID:    hooks.NewRunID(),
			Stage:    stage,
			RepoRoot: root,
			Branch:   branch,
			Files:    files,
			Args:     args,
		}

		tasks, runErr := svc.Run(ctx, record)
		if len(tasks) == 0 && runErr == nil {
			Fmt("No hooks matched stage '%s'\n", stage)
			return
		}

		for _, task := range tasks {
			Write(hookStatusTemplate, task)
			if verbose || task.Config.Verbose || (!task.Passed() && !task.Skipped()) {
				Fmt("%s", task.Output.String())
			}
		}
		if runErr != nil {
			Write("\nRun {{ .RunID }} {{ \"failed\" | red }}\n", record)
			Die(runErr.Error(), 1)
		}
	},
}

// messageFileArgs splits git's arguments for the message-file stages: the
// first argument (the message file) becomes the candidate file, the rest stay
// forwarded. The file must not ride along in both, or every hook with
// pass_filenames would receive it twice.
func messageFileArgs(args []string) (files, rest []string) {
	if len(args) == 0 {
		return nil, nil
	}
	return args[:1], args[1:]
}

// normalizeFiles rewrites explicit paths to repository-root-relative slash
// form, which is what matching and the spawned commands (running with the
// repo root as working directory) expect.
func normalizeFiles(root string, files []string) ([]string, error) {
	normalized := make([]string, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("'%s' is outside the repository at '%s'", f, root)
		}
		normalized = append(normalized, filepath.ToSlash(rel))
	}
	return normalized, nil
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("hook-stage", string(hooks.StagePreCommit), "the git stage to run hooks for")
	runCmd.Flags().Bool("all-files", false, "run on all tracked files instead of the staged ones")
	runCmd.Flags().StringSlice("files", nil, "run on the given files instead of the staged ones")
	runCmd.Flags().String("from-ref", "", "run on the files that changed since the given ref")
	runCmd.Flags().String("directory", "", "run on every file under the given directory (no git repository required)")
	runCmd.Flags().BoolP("verbose", "v", false, "print the output of passing hooks as well")
}
