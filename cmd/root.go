package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/droid-cli/internal/config"
	"github.com/mj1618/droid-cli/internal/logger"
	"github.com/mj1618/droid-cli/internal/output"
	"github.com/mj1618/droid-cli/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "droid-cli",
	Short: "Extract buttons and input fields from Android UI dumps",
	Long: `Turn UIAutomator accessibility dumps into compact, deduplicated lists of
the buttons and editable fields on screen, labeled the way a user would
name them. Snapshots are meant to be read by test tooling and LLM agents.`,
	SilenceUsage: true,
}

// appConfig is loaded by the root command before any subcommand runs.
var appConfig = config.Default()

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.String()
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json, agent (default from config, else yaml)")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (env: DROID_CONFIG)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return logger.Sync()
	}
}

// setup loads configuration, initialises logging and selects the output
// format. Flags override the config file and environment.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	path, _ := rootCmd.PersistentFlags().GetString("config")
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if level, _ := rootCmd.PersistentFlags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	// Use the root persistent flag directly to avoid conflicts with
	// subcommand local flags.
	format, _ := rootCmd.PersistentFlags().GetString("format")
	if format == "" {
		format = cfg.Output.Format
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	output.OutputFormat = f
	output.PrettyOutput = cfg.Output.Pretty
	if pretty, _ := rootCmd.PersistentFlags().GetBool("pretty"); pretty {
		output.PrettyOutput = true
	}

	appConfig = cfg
	return nil
}
