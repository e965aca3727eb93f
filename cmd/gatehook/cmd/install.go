package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/gatehook/gatehook/pkg/fileutil"
	"github.com/gatehook/gatehook/pkg/git"
	"github.com/gatehook/gatehook/pkg/hooks"
)

const (
	hookScriptMarker = "installed by gatehook"
	legacyHookSuffix = ".legacy"

	hookScriptTemplate = `#!/bin/sh
# ` + hookScriptMarker + ` (remove with 'gatehook uninstall')
exec gatehook run --hook-stage %s -- "$@"
`
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install gatehook into the repository git hooks",
	Long: `Writes a small shim into the repository hooks directory for each
requested stage. An existing foreign hook is backed up with a '` + legacyHookSuffix + `'
suffix and restored on uninstall.`,
	Example: "gatehook install --stage pre-commit --stage pre-push",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		stageNames, _ := cmd.Flags().GetStringSlice("stage")
		force, _ := cmd.Flags().GetBool("force")

		root, err := git.GetRepositoryPath(".")
		if err != nil {
			DieErr(err)
		}
		hooksPath, err := git.HooksPath(root)
		if err != nil {
			DieErr(err)
		}
		if err := os.MkdirAll(hooksPath, fileutil.DefaultDirectoryMask); err != nil {
			DieErr(err)
		}

		for _, name := range stageNames {
			stage := hooks.Stage(name)
			if !hooks.ValidStage(stage) {
				DieFmt("unknown hook stage '%s', expected one of %v", name, hooks.Stages())
			}
			if err := installHook(hooksPath, stage, force); err != nil {
				DieErr(err)
			}
			Fmt("Installed hook '%s'\n", stage)
		}
	},
}

func installHook(hooksPath string, stage hooks.Stage, force bool) error {
	hookFile := filepath.Join(hooksPath, string(stage))
	existing, err := os.ReadFile(hookFile)
	switch {
	case err == nil && !strings.Contains(string(existing), hookScriptMarker):
		// a hook we didn't write - back it up first
		if !force && !confirm(fmt.Sprintf("Hook '%s' already exists, back it up and replace", stage)) {
			return fmt.Errorf("hook '%s' already exists: %w", stage, errAborted)
		}
		if err := os.Rename(hookFile, hookFile+legacyHookSuffix); err != nil {
			return err
		}
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return err
	}
	script := fmt.Sprintf(hookScriptTemplate, stage)
	return os.WriteFile(hookFile, []byte(script), 0o755) //nolint:gosec
}

var errAborted = errors.New("aborted")

func confirm(question string) bool {
	prompt := promptui.Prompt{
		Label:     question,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().StringSlice("stage", []string{string(hooks.StagePreCommit)}, "git stage(s) to install a hook for")
	installCmd.Flags().BoolP("force", "f", false, "replace existing foreign hooks without prompting")
}
