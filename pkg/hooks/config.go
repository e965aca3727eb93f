package hooks

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/gatehook/gatehook/pkg/identify"
)

// DefaultConfigFileName is the hook configuration file looked up at the
// repository root.
const DefaultConfigFileName = ".gatehook.yaml"

// Config is the parsed hook configuration file.
type Config struct {
	FailFast      bool         `yaml:"fail_fast"`
	Parallel      bool         `yaml:"parallel"`
	Exclude       string       `yaml:"exclude"`
	DefaultStages []Stage      `yaml:"default_stages"`
	Hooks         []HookConfig `yaml:"hooks"`
}

// HookConfig is a single declared hook: a command bound to a trigger
// condition. Declarations are read-only once parsed.
type HookConfig struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	Language      HookType          `yaml:"language"`
	Entry         string            `yaml:"entry"`
	Args          []string          `yaml:"args"`
	Types         []string          `yaml:"types"`
	Files         string            `yaml:"files"`
	Exclude       string            `yaml:"exclude"`
	PassFilenames *bool             `yaml:"pass_filenames"`
	Stages        []Stage           `yaml:"stages"`
	Env           map[string]string `yaml:"env"`
	Timeout       string            `yaml:"timeout"`
	AlwaysRun     bool              `yaml:"always_run"`
	Verbose       bool              `yaml:"verbose"`
}

var (
	reHookID = regexp.MustCompile(`^[_a-zA-Z][\-_a-zA-Z0-9]{0,255}$`)

	ErrInvalidConfig = errors.New("invalid config")
)

// DisplayName is the label shown while the hook runs.
func (h *HookConfig) DisplayName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.ID
}

// PassesFilenames reports whether matched paths are appended to the
// invocation. Defaults to true, like the runner this mirrors.
func (h *HookConfig) PassesFilenames() bool {
	if h.PassFilenames == nil {
		return true
	}
	return *h.PassFilenames
}

// Type returns the hook execution mode, defaulting to a system command.
func (h *HookConfig) Type() HookType {
	if h.Language == "" {
		return HookTypeSystem
	}
	return h.Language
}

func (c *Config) Validate() error {
	for _, s := range c.DefaultStages {
		if !ValidStage(s) {
			return fmt.Errorf("default stage '%s' unknown: %w", s, ErrInvalidConfig)
		}
	}
	if c.Exclude != "" {
		if _, err := glob.Compile(c.Exclude); err != nil {
			return fmt.Errorf("'exclude' pattern: %s: %w", err, ErrInvalidConfig)
		}
	}
	ids := make(map[string]struct{})
	for i, hook := range c.Hooks {
		if hook.ID == "" {
			return fmt.Errorf("hook[%d] missing ID: %w", i, ErrInvalidConfig)
		}
		if !reHookID.MatchString(hook.ID) {
			return fmt.Errorf("hook[%d] ID '%s' is not valid: %w", i, hook.ID, ErrInvalidConfig)
		}
		if _, found := ids[hook.ID]; found {
			return fmt.Errorf("hook[%d] duplicate ID '%s': %w", i, hook.ID, ErrInvalidConfig)
		}
		ids[hook.ID] = struct{}{}
		if hook.Entry == "" && hook.Type() != HookTypeFail {
			return fmt.Errorf("hook[%d] '%s' missing entry: %w", i, hook.ID, ErrInvalidConfig)
		}
		if _, found := hookTypes[hook.Type()]; !found {
			return fmt.Errorf("hook[%d] '%s' language '%s' unknown: %w", i, hook.ID, hook.Language, ErrInvalidConfig)
		}
		for _, tag := range hook.Types {
			if !identify.KnownTag(tag) {
				return fmt.Errorf("hook[%d] '%s' type tag '%s' unknown: %w", i, hook.ID, tag, ErrInvalidConfig)
			}
		}
		if hook.Files != "" {
			if _, err := glob.Compile(hook.Files); err != nil {
				return fmt.Errorf("hook[%d] '%s' 'files' pattern: %s: %w", i, hook.ID, err, ErrInvalidConfig)
			}
		}
		if hook.Exclude != "" {
			if _, err := glob.Compile(hook.Exclude); err != nil {
				return fmt.Errorf("hook[%d] '%s' 'exclude' pattern: %s: %w", i, hook.ID, err, ErrInvalidConfig)
			}
		}
		for _, s := range hook.Stages {
			if !ValidStage(s) {
				return fmt.Errorf("hook[%d] '%s' stage '%s' unknown: %w", i, hook.ID, s, ErrInvalidConfig)
			}
		}
	}
	return nil
}

// ParseConfig helper function to read, parse and validate the hook configuration
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads and parses the hook configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading file %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}
	return cfg, nil
}
