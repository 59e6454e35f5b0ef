package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasview/codeatlas/internal/cache"
	"github.com/atlasview/codeatlas/internal/recommend"
	"github.com/atlasview/codeatlas/internal/walker"
)

var (
	analyzeExcludes []string
	analyzeNoCache  bool
	analyzeProgress bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a project tree and print its structural summary",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		var store *cache.Store
		if !cfg.NoCache && !analyzeNoCache {
			store, err = cache.Open(cfg.CacheDir, logger)
			if err != nil {
				logger.Warn("cache disabled", "err", err)
			} else {
				defer store.Close()
			}
		}

		w, err := walker.New(walker.Options{
			Limits:   cfg.Limits,
			Excludes: append(cfg.Excludes, analyzeExcludes...),
			Progress: analyzeProgress,
		}, store, logger)
		if err != nil {
			return err
		}

		pa, err := w.Analyze(cmd.Context(), root)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Analyzed %d files under %s\n", pa.TotalFiles, pa.Root)
		fmt.Fprintf(out, "  types: %d  callables: %d\n", pa.TotalTypes, pa.TotalCallables)
		fmt.Fprintf(out, "  successful: %d  failed: %d  skipped: %d  cached: %d\n",
			pa.Successful, pa.Failed, pa.Skipped, pa.CacheHits)
		for _, lang := range pa.LanguagesDetected() {
			stats := pa.Languages[lang]
			fmt.Fprintf(out, "  %-12s %4d files  %4d types  %4d callables\n",
				lang, stats.Files, stats.Types, stats.Callables)
		}
		if len(pa.Errors) > 0 {
			fmt.Fprintf(out, "  %d issues recorded; run with --verbose for details\n", len(pa.Errors))
			logger.Debug("run issues", "errors", pa.Errors)
		}

		for _, rec := range recommend.Recommend(pa) {
			fmt.Fprintf(out, "recommended: %-9s priority %d  confidence %.2f  (%s)\n",
				rec.Type, rec.Priority, rec.Confidence, rec.Reason)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&analyzeExcludes, "exclude", nil, "glob patterns to exclude (relative to root)")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "bypass the analysis cache")
	analyzeCmd.Flags().BoolVar(&analyzeProgress, "progress", false, "show a progress bar")
	rootCmd.AddCommand(analyzeCmd)
}
