package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gatehook/gatehook/pkg/logging"
)

const (
	DefaultLogLevel  = "none"
	DefaultLogFormat = "text"

	configDirName  = "gatehook"
	configFileName = "config"
)

// Configuration is the user-facing tool configuration, loaded from
// ~/.config/gatehook/config.yaml and GATEHOOK_* environment variables.
// Repository hooks live in the repository config file, not here.
type Configuration struct {
	Color string `mapstructure:"color"`
	Run   struct {
		// Timeout bounds a whole run. Zero means no bound; per-hook
		// timeouts still apply.
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"run"`
	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`
}

var (
	cfgFile string
	cfgErr  error
	cfg     *Configuration

	logLevel   string
	logFormat  string
	logOutputs []string
)

var rootCmd = &cobra.Command{
	Use:   "gatehook",
	Short: "A git hook runner",
	Long: `gatehook runs the commands declared in a repository's hook
configuration file whenever git fires a hook it is installed for.`,
	SilenceErrors:    true,
	SilenceUsage:     true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("log-level") || cfg == nil || cfg.Logging.Level == "" {
			logging.SetLevel(logLevel)
		} else {
			logging.SetLevel(cfg.Logging.Level)
		}
		if cmd.Flags().Changed("log-format") || cfg == nil || cfg.Logging.Format == "" {
			logging.SetOutputFormat(logFormat)
		} else {
			logging.SetOutputFormat(cfg.Logging.Format)
		}
		if len(logOutputs) > 0 {
			logging.SetOutputs(logOutputs, 0, 0)
		}

		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			DisableColors()
		} else if cfg != nil && cfg.Color == "never" {
			DisableColors()
		}

		var errFileNotFound viper.ConfigFileNotFoundError
		if cfgErr != nil && !errors.As(cfgErr, &errFileNotFound) {
			DieFmt("error reading configuration file: %v", cfgErr)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			DieErr(err)
		}
	},
}

// Execute runs the root command with os.Args.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		DieErr(err)
	}
}

// HookExecute dispatches a git hook invocation (argv[0] is the stage name)
// to the run subcommand, forwarding git's positional arguments.
func HookExecute(stage string, args []string) {
	cmdArgs := []string{"run", "--hook-stage", stage}
	if len(args) > 0 {
		cmdArgs = append(cmdArgs, "--")
		cmdArgs = append(cmdArgs, args...)
	}
	rootCmd.SetArgs(cmdArgs)
	Execute()
}

//nolint:gochecknoinits
func init() {
	cobra.OnInitialize(initConfig)
	// accept snake_case flag spellings as well
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", fmt.Sprintf("config file (default is $HOME/.config/%s/%s.yaml)", configDirName, configFileName))
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", DefaultLogLevel, `set logging level ("none", "trace", "debug", "info", "warn", "error")`)
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", DefaultLogFormat, `set logging output format ("text", "json")`)
	rootCmd.PersistentFlags().StringSliceVar(&logOutputs, "log-output", nil, `set logging output(s) ("-" for stdout, "=" for stderr or a file path)`)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			DieErr(err)
		}
		viper.SetConfigName(configFileName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(filepath.Join(home, ".config", configDirName))
	}
	viper.SetEnvPrefix("GATEHOOK")
	viper.AutomaticEnv()

	viper.SetDefault("color", "auto")
	viper.SetDefault("logging.level", "")
	viper.SetDefault("logging.format", "")
	viper.SetDefault("run.timeout", time.Duration(0))

	cfgErr = viper.ReadInConfig()
	if cfgErr == nil {
		logging.Default().WithField("file", viper.ConfigFileUsed()).Debug("loaded configuration from file")
	}

	c := &Configuration{}
	err := viper.Unmarshal(c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error unmarshal configuration: ", err)
		os.Exit(1)
	}
	cfg = c
}
