package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// statusModifiers are the change kinds considered when collecting staged
// files. Deleted files are excluded since hooks cannot read them.
const statusModifiers = "ACMRTUXB"

func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// IsRepository Return true if dir is a path to a directory in a git repository, false otherwise
func IsRepository(dir string) bool {
	_, err := git(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// GetRepositoryPath Returns the git repository root path if dir is a directory inside a git repository, otherwise returns error
func GetRepositoryPath(dir string) (string, error) {
	out, err := git(dir, "rev-parse", "--show-toplevel")
	if err == nil {
		return strings.TrimSpace(out), nil
	}
	if strings.Contains(out, "not a git repository") {
		return "", ErrNotARepository
	}
	return "", fmt.Errorf("%s: %w", out, ErrGitError)
}

// HooksPath returns the absolute path of the repository hooks directory,
// honoring core.hooksPath when set.
func HooksPath(dir string) (string, error) {
	out, err := git(dir, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", fmt.Errorf("%s: %w", out, ErrGitError)
	}
	p := strings.TrimSpace(out)
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	return p, nil
}

// GitDir returns the absolute path of the repository .git directory.
func GitDir(dir string) (string, error) {
	out, err := git(dir, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("%s: %w", out, ErrGitError)
	}
	p := strings.TrimSpace(out)
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	return p, nil
}

// CurrentBranch returns the checked-out branch name. Empty on detached HEAD.
func CurrentBranch(dir string) (string, error) {
	out, err := git(dir, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("%s: %w", out, ErrGitError)
	}
	return strings.TrimSpace(out), nil
}

// StagedFiles returns the paths staged for commit, relative to the repository root.
func StagedFiles(dir string) ([]string, error) {
	out, err := git(dir, "diff", "--cached", "--name-only", "--diff-filter="+statusModifiers, "-z")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", out, ErrGitError)
	}
	return splitNullTerminated(out), nil
}

// AllFiles returns all the files tracked in the index, relative to the repository root.
func AllFiles(dir string) ([]string, error) {
	out, err := git(dir, "ls-files", "-z")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", out, ErrGitError)
	}
	return splitNullTerminated(out), nil
}

// ChangedFiles returns the files that differ from ref, relative to the repository root.
func ChangedFiles(dir, ref string) ([]string, error) {
	out, err := git(dir, "diff", "--name-only", "--diff-filter="+statusModifiers, "-z", ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", out, ErrGitError)
	}
	return splitNullTerminated(out), nil
}

func splitNullTerminated(out string) []string {
	var files []string
	for _, f := range strings.Split(out, "\x00") {
		if f == "" {
			continue
		}
		files = append(files, f)
	}
	return files
}
