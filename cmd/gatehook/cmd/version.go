package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gatehook/gatehook/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and exit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		Fmt("gatehook version %s\n", version.Version)
		if checkLatest, _ := cmd.Flags().GetBool("check-latest"); !checkLatest {
			return
		}
		latest, err := version.CheckLatestVersion(version.NewReleasesSource(), version.Version)
		if err != nil {
			DieErr(err)
		}
		if latest.Outdated {
			Fmt("A newer version (%s) is available at %s\n", latest.Current, version.DefaultReleasesURL)
		} else {
			Fmt("You are up to date\n")
		}
	},
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("check-latest", false, "check whether a newer release exists")
}
