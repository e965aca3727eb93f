package hooks_test

import (
	"os"
	"path"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/require"

	"github.com/gatehook/gatehook/pkg/hooks"
)

func TestConfig_ParseConfig(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		errStr   string
		validate func(*testing.T, *hooks.Config)
	}{
		{name: "full", filename: "config_full.yaml", validate: validateConfigFull},
		{name: "required", filename: "config_required.yaml", validate: validateConfigRequired},
		{name: "duplicate id", filename: "config_duplicate_id.yaml", errStr: "duplicate ID"},
		{name: "missing id", filename: "config_missing_id.yaml", errStr: "missing ID"},
		{name: "missing entry", filename: "config_missing_entry.yaml", errStr: "missing entry"},
		{name: "invalid language", filename: "config_invalid_language.yaml", errStr: "language 'docker' unknown"},
		{name: "invalid type tag", filename: "config_invalid_type_tag.yaml", errStr: "type tag 'cobol' unknown"},
		{name: "invalid stage", filename: "config_invalid_stage.yaml", errStr: "stage 'not-a-valid-stage' unknown"},
		{name: "invalid glob", filename: "config_invalid_glob.yaml", errStr: "'files' pattern"},
		{name: "invalid yaml", filename: "config_invalid_yaml.yaml", errStr: "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := os.ReadFile(path.Join("testdata", tt.filename))
			if err != nil {
				t.Fatalf("Failed to load testdata %s, err=%s", tt.filename, err)
			}
			cfg, err := hooks.ParseConfig(data)
			require.Equal(t, err != nil, tt.errStr != "")
			if err != nil {
				require.Contains(t, err.Error(), tt.errStr)
			}
			if err == nil && cfg == nil {
				t.Error("ParseConfig() no error, missing Config")
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func validateConfigFull(t *testing.T, cfg *hooks.Config) {
	t.Helper()
	require.True(t, cfg.FailFast)
	require.False(t, cfg.Parallel)
	require.Equal(t, "vendor/**", cfg.Exclude)
	require.Equal(t, []hooks.Stage{hooks.StagePreCommit, hooks.StagePrePush}, cfg.DefaultStages)
	require.Len(t, cfg.Hooks, 5)

	flake8 := cfg.Hooks[0]
	require.Equal(t, "flake8", flake8.ID)
	require.Equal(t, "Run flake8", flake8.DisplayName())
	require.Equal(t, hooks.HookTypeSystem, flake8.Type())
	require.True(t, flake8.PassesFilenames())
	if diff := deep.Equal(flake8.Args, []string{"--max-line-length=100"}); diff != nil {
		t.Error("args diff:", diff)
	}
	require.Equal(t, "2m", flake8.Timeout)
	require.Equal(t, "1", flake8.Env["PYTHONDONTWRITEBYTECODE"])

	contributors := cfg.Hooks[2]
	require.Equal(t, hooks.HookTypeScript, contributors.Type())
	require.False(t, contributors.PassesFilenames())
	require.True(t, contributors.AlwaysRun)

	noSecrets := cfg.Hooks[3]
	require.Equal(t, hooks.HookTypeFail, noSecrets.Type())
	require.Empty(t, noSecrets.Entry)

	pytest := cfg.Hooks[4]
	require.True(t, pytest.Verbose)
}

func validateConfigRequired(t *testing.T, cfg *hooks.Config) {
	t.Helper()
	require.Len(t, cfg.Hooks, 1)
	hook := cfg.Hooks[0]
	// defaults
	require.Equal(t, "lint", hook.DisplayName())
	require.Equal(t, hooks.HookTypeSystem, hook.Type())
	require.True(t, hook.PassesFilenames())
	require.Empty(t, hook.Stages)
}

func TestConfig_HookIDs(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{id: "a", valid: true}, // single character
		{id: "_", valid: true},
		{id: "my-hook_2", valid: true},
		{id: "2fast", valid: false}, // must not start with a digit
		{id: "-lead", valid: false},
		{id: "with space", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			cfg := &hooks.Config{Hooks: []hooks.HookConfig{{ID: tt.id, Entry: "true"}}}
			err := cfg.Validate()
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, hooks.ErrInvalidConfig)
			}
		})
	}
}

func TestConfig_LoadConfig(t *testing.T) {
	cfg, err := hooks.LoadConfig(path.Join("testdata", "config_required.yaml"))
	require.NoError(t, err)
	require.Len(t, cfg.Hooks, 1)

	_, err = hooks.LoadConfig(path.Join("testdata", "no_such_file.yaml"))
	require.Error(t, err)
}
