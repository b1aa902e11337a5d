package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/config"
)

var (
	devMode    bool
	logLevel   string
	catalog    string
	listenPort string
	listenHost string
)

// rootCmd serves the API when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Voice assistant backend for desktop apps, reminders and notifications",
	Long: `assistant executes structured device commands produced by a voice front-end:
it opens and closes desktop applications by spoken name, schedules reminders
from natural-language time expressions and shows toast notifications.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Development mode (colored logs, debug level)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&catalog, "catalog", "", "Application catalog file (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().StringVar(&listenPort, "port", "", "Server port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&listenHost, "host", "", "Listen address (overrides HOST)")
}

// loadConfig reads the environment, then applies flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("dev") {
		cfg.Logging.Development = devMode
		if devMode && !flags.Changed("log-level") {
			cfg.Logging.Level = "debug"
		}
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("catalog") {
		cfg.Catalog.Path = catalog
	}
	return cfg, nil
}
