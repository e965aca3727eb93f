package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gatehook/gatehook/pkg/git"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Explore past hook runs",
	Long:  "Past runs are kept under the repository git directory, one manifest and one transcript per hook per run.",
}

// runsRoot resolves the directory the run artifacts are stored under.
func runsRoot() string {
	root, err := git.GetRepositoryPath(".")
	if err != nil {
		DieErr(err)
	}
	gitDir, err := git.GitDir(root)
	if err != nil {
		DieErr(err)
	}
	return gitDir
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(runsCmd)
}
