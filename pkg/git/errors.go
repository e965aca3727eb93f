package git

import (
	"errors"
)

var (
	ErrNotARepository = errors.New("not a git repository")
	ErrGitError       = errors.New("git error")
)
