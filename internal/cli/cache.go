package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasview/codeatlas/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the analysis cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached analysis entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		store, err := cache.Open(cfg.CacheDir, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Purge(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared analysis cache at %s\n", cfg.CacheDir)
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.CacheDir)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}
