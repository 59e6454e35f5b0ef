// Package cli wires the command surface: analyze, diagram, cache, and
// version subcommands over one shared configuration and logger.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/atlasview/codeatlas/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "codeatlas",
	Short: "Static code structure analyzer and diagram generator",
	Long: `codeatlas statically analyzes the source files of a project, extracts a
normalized structural model (types, callables, imports) across many
languages, and renders that model into Mermaid and draw.io diagrams.`,
	SilenceUsage: true,
}

// Execute runs the root command. Configuration errors are the only path to
// a non-zero exit.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .codeatlas.yaml in project or home dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newLogger builds the command logger, with debug records behind the
// verbose flag.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "codeatlas",
	})
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
