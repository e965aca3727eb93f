package cmd

import (
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/gatehook/gatehook/pkg/fileutil"
	"github.com/gatehook/gatehook/pkg/git"
	"github.com/gatehook/gatehook/pkg/hooks"
)

var validateCmd = &cobra.Command{
	Use:     "validate [path]",
	Short:   "Validate a hook configuration file",
	Long:    "Tries to parse the given file as a gatehook configuration file and reports the first problem found.",
	Example: "gatehook validate .gatehook.yaml",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var file string
		if len(args) > 0 {
			file = args[0]
		} else {
			// look the config file up from the current directory upwards
			found, err := fileutil.FindInParents(".", hooks.DefaultConfigFileName)
			if err != nil {
				DieErr(err)
			}
			if found == "" {
				DieFmt("no '%s' found here or in any parent directory", hooks.DefaultConfigFileName)
			}
			file = found
		}
		hooksCfg, err := hooks.LoadConfig(file)
		if err != nil {
			DieErr(err)
		}

		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			validateStrict(file, hooksCfg)
		}
		Fmt("File validated successfully: '%s'\n", file)
	},
}

// validateStrict runs the checks that need the repository itself: script
// entries must exist and be executable, and every 'files' pattern must match
// at least one tracked file.
func validateStrict(file string, hooksCfg *hooks.Config) {
	if !git.IsRepository(filepath.Dir(file)) {
		DieFmt("--strict checks the repository, but '%s' is not inside one", file)
	}
	root, err := git.GetRepositoryPath(filepath.Dir(file))
	if err != nil {
		DieErr(err)
	}
	tracked, err := git.AllFiles(root)
	if err != nil {
		DieErr(err)
	}

	for _, hook := range hooksCfg.Hooks {
		if hook.Type() == hooks.HookTypeScript {
			info, err := os.Stat(filepath.Join(root, hook.Entry))
			if err != nil {
				DieFmt("hook '%s': script '%s' not found", hook.ID, hook.Entry)
			}
			if info.Mode()&0o111 == 0 {
				DieFmt("hook '%s': script '%s' is not executable", hook.ID, hook.Entry)
			}
		}
		if hook.Files == "" {
			continue
		}
		// patterns were already compiled by Validate
		matcher := glob.MustCompile(hook.Files)
		found := false
		for _, f := range tracked {
			if matcher.Match(f) {
				found = true
				break
			}
		}
		if !found {
			DieFmt("hook '%s': 'files' pattern '%s' matches no tracked file", hook.ID, hook.Files)
		}
	}
}

//nolint:gochecknoinits
func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "also verify script entries and file patterns against the repository")
}
