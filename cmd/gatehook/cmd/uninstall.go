package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gatehook/gatehook/pkg/git"
	"github.com/gatehook/gatehook/pkg/hooks"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the hooks gatehook installed",
	Long: `Removes every hook shim gatehook wrote into the repository hooks
directory and restores backed up hooks. Hooks written by other tools are
left untouched.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		root, err := git.GetRepositoryPath(".")
		if err != nil {
			DieErr(err)
		}
		hooksPath, err := git.HooksPath(root)
		if err != nil {
			DieErr(err)
		}

		for _, stage := range hooks.Stages() {
			removed, err := uninstallHook(hooksPath, stage)
			if err != nil {
				DieErr(err)
			}
			if removed {
				Fmt("Removed hook '%s'\n", stage)
			}
		}
	},
}

func uninstallHook(hooksPath string, stage hooks.Stage) (bool, error) {
	hookFile := filepath.Join(hooksPath, string(stage))
	content, err := os.ReadFile(hookFile)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !strings.Contains(string(content), hookScriptMarker) {
		return false, nil
	}
	if err := os.Remove(hookFile); err != nil {
		return false, err
	}
	// restore a hook we backed up on install
	legacy := hookFile + legacyHookSuffix
	if _, err := os.Stat(legacy); err == nil {
		if err := os.Rename(legacy, hookFile); err != nil {
			return true, err
		}
	}
	return true, nil
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(uninstallCmd)
}
