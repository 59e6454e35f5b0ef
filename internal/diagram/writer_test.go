package diagram

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/recommend"
)

// Test Plan for the diagram writer:
// - File names carry the diagram type and the shared timestamp
// - The mermaid, drawio, and both formats write the right artifacts
// - The summary is valid JSON naming the outputs
// - An uncreatable output directory fails construction

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	stamp := time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)
	w, err := NewWriter(t.TempDir(), stamp, log.New(io.Discard))
	require.NoError(t, err)
	return w
}

func TestWriter_Formats(t *testing.T) {
	t.Parallel()

	d, err := Build(recommend.ClassDiagram, fixtureProject())
	require.NoError(t, err)

	w := newTestWriter(t)
	paths, err := w.WriteDiagram(d, FormatMermaid)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "class_diagram_20240309_143005.mmd", filepath.Base(paths[0]))

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "classDiagram")

	paths, err = w.WriteDiagram(d, FormatDrawIO)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "class_diagram_20240309_143005.drawio", filepath.Base(paths[0]))

	paths, err = w.WriteDiagram(d, FormatBoth)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestWriter_Summary(t *testing.T) {
	t.Parallel()

	w := newTestWriter(t)
	pa := fixtureProject()
	recs := recommend.Recommend(pa)

	path, err := w.WriteSummary(pa, recs, []string{"class_diagram.mmd"})
	require.NoError(t, err)
	assert.Equal(t, "analysis_summary_20240309_143005.json", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got struct {
		GeneratedAt string   `json:"generated_at"`
		Languages   []string `json:"languages_detected"`
		Outputs     []string `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.NotEmpty(t, got.GeneratedAt)
	assert.Equal(t, []string{"class_diagram.mmd"}, got.Outputs)
}

func TestWriter_BadDir(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewWriter(filepath.Join(file, "nested"), time.Now(), log.New(io.Discard))
	require.Error(t, err)
}
