// Package extract defines the extractor contract, the extension dispatcher,
// and the recovery wrapper that turns any extraction failure into a typed,
// non-fatal outcome.
package extract

import (
	"context"

	"github.com/atlasview/codeatlas/internal/model"
)

// Extractor maps one language's declarations onto the common schema. An
// implementation never swallows failures; any parse error is returned and
// converted at the recovery seam.
type Extractor interface {
	// Language returns the language tag recorded in FileAnalysis.
	Language() string

	// Method reports whether this extractor is grammar-backed or
	// regex-backed.
	Method() model.ExtractionMethod

	// Extract analyzes one file's content. path is used only for
	// labeling declarations; content is never re-read from disk.
	Extract(ctx context.Context, path string, content string) (model.FileSymbols, error)
}
