package diagram

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/atlasview/codeatlas/internal/model"
	"github.com/atlasview/codeatlas/internal/recommend"
)

// Format selects which artifacts a write pass produces.
type Format string

const (
	FormatMermaid Format = "mermaid"
	FormatDrawIO  Format = "drawio"
	FormatBoth    Format = "both"
)

// Writer persists rendered diagrams and the run summary under one output
// directory, naming every file with a shared wall-clock timestamp.
type Writer struct {
	dir    string
	stamp  string
	logger *log.Logger
}

// NewWriter creates the output directory if needed. An unwritable
// directory is a configuration error and fails the run.
func NewWriter(dir string, now time.Time, logger *log.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	return &Writer{dir: dir, stamp: now.Format("20060102_150405"), logger: logger}, nil
}

// WriteDiagram writes one diagram in the selected formats and returns the
// paths written.
func (w *Writer) WriteDiagram(d Diagram, format Format) ([]string, error) {
	var paths []string

	if format == FormatMermaid || format == FormatBoth {
		path := filepath.Join(w.dir, fmt.Sprintf("%s_diagram_%s.mmd", d.Type, w.stamp))
		if err := os.WriteFile(path, []byte(d.Text()+"\n"), 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		w.logger.Info("wrote diagram", "type", d.Type, "path", path)
		paths = append(paths, path)
	}

	if format == FormatDrawIO || format == FormatBoth {
		xmlDoc, err := DrawIO(d)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(w.dir, fmt.Sprintf("%s_diagram_%s.drawio", d.Type, w.stamp))
		if err := os.WriteFile(path, xmlDoc, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		w.logger.Info("wrote diagram", "type", d.Type, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// summary is the run report written alongside the diagrams.
type summary struct {
	GeneratedAt     string                     `json:"generated_at"`
	Analysis        *model.ProjectAnalysis     `json:"analysis"`
	Languages       []string                   `json:"languages_detected"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Outputs         []string                   `json:"outputs"`
}

// WriteSummary writes the JSON run summary and returns its path.
func (w *Writer) WriteSummary(pa *model.ProjectAnalysis, recs []recommend.Recommendation, outputs []string) (string, error) {
	if outputs == nil {
		outputs = []string{}
	}
	raw, err := json.MarshalIndent(summary{
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Analysis:        pa,
		Languages:       pa.LanguagesDetected(),
		Recommendations: recs,
		Outputs:         outputs,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling summary: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("analysis_summary_%s.json", w.stamp))
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	w.logger.Info("wrote summary", "path", path)
	return path, nil
}
