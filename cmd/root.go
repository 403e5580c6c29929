package cmd

import (
	"fmt"
	"os"

	"energy-insights/config"
	"energy-insights/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	flagDataset string
	flagLevel   string

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "energy-insights",
	Short:         "Energy insights dashboard and aggregation tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flagDataset, "dataset", "", "dataset location: JSON file, URL, .xlsx or SQLite file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLevel, "log-level", "", "debug|info|warn|error (overrides config)")
}

func loadConfig(cmd *cobra.Command) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("dataset") && flagDataset != "" {
		c.DatasetPath = flagDataset
	}
	if f.Changed("log-level") && flagLevel != "" {
		c.LogLevel = flagLevel
	}
	cfg = c
	log = logger.New(logger.Options{Environment: c.Environment, Level: c.LogLevel, Output: os.Stderr})
	return nil
}
