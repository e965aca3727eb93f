package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gatehook/gatehook/pkg/git"
	"github.com/gatehook/gatehook/pkg/hooks"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the hooks declared in the repository configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		root, err := git.GetRepositoryPath(".")
		if err != nil {
			DieErr(err)
		}
		hooksCfg, err := hooks.LoadConfig(configPath(root))
		if err != nil {
			DieErr(err)
		}

		rows := make([][]interface{}, 0, len(hooksCfg.Hooks))
		for i := range hooksCfg.Hooks {
			hook := &hooksCfg.Hooks[i]
			stages := hook.Stages
			if len(stages) == 0 {
				stages = hooksCfg.DefaultStages
			}
			if len(stages) == 0 {
				stages = []hooks.Stage{hooks.StagePreCommit}
			}
			rows = append(rows, []interface{}{
				hook.ID,
				hook.DisplayName(),
				string(hook.Type()),
				joinStages(stages),
				strings.Join(hook.Types, ","),
				hook.Files,
				hook.Entry,
			})
		}
		PrintTable(rows, []interface{}{"ID", "Name", "Language", "Stages", "Types", "Files", "Entry"})
	},
}

func configPath(root string) string {
	return filepath.Join(root, hooks.DefaultConfigFileName)
}

func joinStages(stages []hooks.Stage) string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = string(s)
	}
	return strings.Join(names, ",")
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(listCmd)
}
