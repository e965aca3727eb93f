package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gatehook/gatehook/pkg/hooks"
)

const runsListAmount = 100

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the recorded hook runs, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		amount, _ := cmd.Flags().GetInt("amount")
		manifests, err := hooks.ListRunManifests(runsRoot())
		if err != nil {
			DieErr(err)
		}
		if len(manifests) > amount {
			manifests = manifests[:amount]
		}

		rows := make([][]interface{}, 0, len(manifests))
		for _, m := range manifests {
			rows = append(rows, []interface{}{
				m.Run.RunID,
				m.Run.Stage,
				m.Run.Branch,
				m.Run.StartTime.Local().Format(time.RFC3339),
				runStatus(m.Run.Passed),
				len(m.HooksRun),
			})
		}
		PrintTable(rows, []interface{}{"Run ID", "Stage", "Branch", "Start Time", "Status", "Hooks"})
	},
}

func runStatus(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

//nolint:gochecknoinits
func init() {
	runsCmd.AddCommand(runsListCmd)
	runsListCmd.Flags().Int("amount", runsListAmount, "number of runs to show")
}
