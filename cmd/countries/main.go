// Command countries serves the country explorer.
package main

import (
	"fmt"
	"os"

	"github.com/jackielii/viewroutes/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "countries",
		Short: "Country explorer",
		Long: `countries serves a small country explorer: an index of every country and
a detail page per country, navigated with HTMX partial requests.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.BaseConfigFile, "Path to the TOML configuration file")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newRoutesCommand())
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
