package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gatehook/gatehook/pkg/hooks"
)

const runDescribeTemplate = `{{ "Run ID:" | bold }} {{ .Run.RunID }}
{{ "Stage:" | bold }} {{ .Run.Stage }}{{ if .Run.Branch }}
{{ "Branch:" | bold }} {{ .Run.Branch }}{{ end }}
{{ "Start:" | bold }} {{ .Run.StartTime | date }}
{{ "End:" | bold }} {{ .Run.EndTime | date }}
{{ "Status:" | bold }} {{ if .Run.Passed }}{{ "passed" | green }}{{ else }}{{ "failed" | red }}{{ end }}
`

const hookResultTemplate = `
{{ .HookRunID | bold }} {{ .HookID }} {{ if .Passed }}{{ "passed" | green }}{{ else }}{{ "failed" | red }}{{ end }}
`

var runsDescribeCmd = &cobra.Command{
	Use:     "describe <run id>",
	Short:   "Show a recorded run with the output of each hook",
	Example: "gatehook runs describe 20260823153045x1B2c3D4",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runID := args[0]
		root := runsRoot()
		manifest, err := hooks.GetRunManifest(root, runID)
		if err != nil {
			DieErr(err)
		}

		Write(runDescribeTemplate, manifest)
		for _, result := range manifest.HooksRun {
			Write(hookResultTemplate, result)
			output, err := hooks.ReadHookOutput(root, result.RunID, result.HookRunID)
			if err != nil {
				// skipped hooks leave no transcript
				continue
			}
			Fmt("%s", output)
		}
	},
}

//nolint:gochecknoinits
func init() {
	runsCmd.AddCommand(runsDescribeCmd)
}
