package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlasview/codeatlas/internal/cache"
	"github.com/atlasview/codeatlas/internal/diagram"
	"github.com/atlasview/codeatlas/internal/recommend"
	"github.com/atlasview/codeatlas/internal/walker"
)

var (
	diagramOutput string
	diagramFormat string
	diagramTypes  []string
)

var diagramCmd = &cobra.Command{
	Use:   "diagram [path]",
	Short: "Analyze a project and generate its diagrams",
	Long: `diagram analyzes the project, picks the diagram types worth generating
(or uses the explicitly requested ones), and writes Mermaid markup and/or
draw.io XML plus a JSON run summary to the output directory.`,
	Args: cobra.MaximumNArgs(1),
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

		format, err := parseFormat(diagramFormat, cfg.Format)
		if err != nil {
			return err
		}

		var store *cache.Store
		if !cfg.NoCache {
			store, err = cache.Open(cfg.CacheDir, logger)
			if err != nil {
				logger.Warn("cache disabled", "err", err)
			} else {
				defer store.Close()
			}
		}

		w, err := walker.New(walker.Options{
			Limits:   cfg.Limits,
			Excludes: cfg.Excludes,
		}, store, logger)
		if err != nil {
			return err
		}

		pa, err := w.Analyze(cmd.Context(), root)
		if err != nil {
			return err
		}

		outDir := diagramOutput
		if outDir == "" {
			outDir = cfg.OutputDir
		}
		writer, err := diagram.NewWriter(outDir, time.Now(), logger)
		if err != nil {
			return err
		}

		recs := recommend.Recommend(pa)
		types := selectedTypes(recs)
		if len(types) == 0 {
			logger.Info("no diagram types recommended for this project")
		}

		var outputs []string
		for _, t := range types {
			d, err := diagram.Build(t, pa)
			if err != nil {
				return err
			}
			paths, err := writer.WriteDiagram(d, format)
			if err != nil {
				return err
			}
			outputs = append(outputs, paths...)
		}

		summaryPath, err := writer.WriteSummary(pa, recs, outputs)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d diagram files and summary %s\n", len(outputs), summaryPath)
		return nil
	},
}

// selectedTypes honors an explicit --type list, otherwise takes the
// recommendations. Component diagrams have no builder yet; they surface in
// recommendations only.
func selectedTypes(recs []recommend.Recommendation) []recommend.DiagramType {
	if len(diagramTypes) > 0 {
		var out []recommend.DiagramType
		for _, t := range diagramTypes {
			out = append(out, recommend.DiagramType(t))
		}
		return out
	}
	var out []recommend.DiagramType
	for _, rec := range recs {
		if rec.Type == recommend.ComponentDiagram {
			continue
		}
		out = append(out, rec.Type)
	}
	return out
}

func parseFormat(flag, fallback string) (diagram.Format, error) {
	val := flag
	if val == "" {
		val = fallback
	}
	switch diagram.Format(val) {
	case diagram.FormatMermaid, diagram.FormatDrawIO, diagram.FormatBoth:
		return diagram.Format(val), nil
	default:
		return "", fmt.Errorf("unknown format %q (want mermaid, drawio, or both)", val)
	}
}

func init() {
	diagramCmd.Flags().StringVarP(&diagramOutput, "output", "o", "", "output directory (default from config)")
	diagramCmd.Flags().StringVarP(&diagramFormat, "format", "f", "", "output format: mermaid, drawio, or both")
	diagramCmd.Flags().StringSliceVarP(&diagramTypes, "type", "t", nil, "diagram types to generate (class, sequence, er, flow); overrides recommendations")
	rootCmd.AddCommand(diagramCmd)
}
