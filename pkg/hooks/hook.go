package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
)

// HookType is the hook execution mode.
type HookType string

const (
	// HookTypeSystem runs the entry command from the local environment.
	HookTypeSystem HookType = "system"
	// HookTypeScript runs a script relative to the repository root.
	HookTypeScript HookType = "script"
	// HookTypeFail fails whenever any file matches the hook filters.
	HookTypeFail HookType = "fail"
)

// Hook is the abstraction of the basic user-configured runnable building-stone
type Hook interface {
	Run(ctx context.Context, record HookRecord, buf *bytes.Buffer) error
}

type NewHookFunc func(HookConfig, *Config) (Hook, error)

type HookBase struct {
	ID   string
	Name string
}

var hookTypes = map[HookType]NewHookFunc{
	HookTypeSystem: NewSystemHook,
	HookTypeScript: NewScriptHook,
	HookTypeFail:   NewFailHook,
}

var ErrUnknownHookType = errors.New("unknown hook type")

func NewHook(h HookConfig, cfg *Config) (Hook, error) {
	f := hookTypes[h.Type()]
	if f == nil {
		return nil, fmt.Errorf("%w (%s)", ErrUnknownHookType, h.Language)
	}
	return f(h, cfg)
}
