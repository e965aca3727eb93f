package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/gatehook/gatehook/cmd/gatehook/cmd"
	"github.com/gatehook/gatehook/pkg/hooks"
)

// isGitSubprocess reports whether our parent process is git. Installed hook
// shims exec us from git, and symlinked hooks are run by git directly.
func isGitSubprocess() bool {
	parent, err := ps.FindProcess(os.Getppid())
	if err != nil || parent == nil {
		return false
	}
	name := parent.Executable()
	return name == "git" || strings.HasPrefix(name, "git.")
}

func main() {
	// linked or copied into .git/hooks under a stage name, we dispatch on
	// argv[0] and run that stage with git's arguments
	baseName := filepath.Base(os.Args[0])
	baseName = strings.TrimSuffix(baseName, filepath.Ext(baseName))
	if hooks.ValidStage(hooks.Stage(baseName)) && isGitSubprocess() {
		cmd.HookExecute(baseName, os.Args[1:])
		return
	}
	cmd.Execute()
}
