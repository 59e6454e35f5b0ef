package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/atlasview/codeatlas/internal/extract/parsers"
	"github.com/atlasview/codeatlas/internal/extract/textscan"
	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// Recovery wraps every extractor call. A structural parse failure downgrades
// to the language's regex extractor when one exists, then to a minimal
// structural probe; any unexpected failure becomes a metadata-only result.
// Nothing escapes this boundary: every invocation yields a FileAnalysis.
type Recovery struct {
	dispatcher *Dispatcher
	logger     *log.Logger
}

// NewRecovery creates a recovery wrapper around a dispatcher.
func NewRecovery(dispatcher *Dispatcher, logger *log.Logger) *Recovery {
	return &Recovery{dispatcher: dispatcher, logger: logger}
}

// Run extracts one file, degrading instead of failing.
func (r *Recovery) Run(ctx context.Context, ex Extractor, path string, content string) (fa *model.FileAnalysis) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("extractor panic", "path", path, "panic", p)
			fa = r.metadataOnly(ex, path, content, fmt.Sprintf("extractor panic: %v", p))
		}
	}()

	syms, err := ex.Extract(ctx, path, content)
	if err == nil {
		return &model.FileAnalysis{
			Path:     path,
			Language: ex.Language(),
			Method:   ex.Method(),
			Symbols:  syms,
		}
	}

	var parseErr *parsers.ParseError
	var depthErr *guard.DepthLimitError
	var limitErr *guard.ResourceLimitError
	switch {
	case errors.As(err, &parseErr), errors.As(err, &depthErr), errors.As(err, &limitErr):
		return r.degrade(ctx, ex, path, content, err)
	default:
		r.logger.Warn("extraction failed", "path", path, "err", err)
		return r.metadataOnly(ex, path, content, err.Error())
	}
}

// degrade reruns the file through the language's regex tier, keeping the
// original failure in the result. Heuristic extractors have no further
// fallback below the probe.
func (r *Recovery) degrade(ctx context.Context, ex Extractor, path string, content string, cause error) *model.FileAnalysis {
	r.logger.Debug("degrading to heuristic extraction", "path", path, "language", ex.Language(), "cause", cause)

	if ex.Method() == model.MethodPrecise {
		if fb := r.dispatcher.FallbackFor(ex.Language()); fb != nil {
			syms, err := fb.Extract(ctx, path, content)
			if err == nil {
				return &model.FileAnalysis{
					Path:     path,
					Language: ex.Language(),
					Method:   model.MethodHeuristic,
					Symbols:  syms,
					Error:    cause.Error(),
				}
			}
		}
	}
	return r.metadataOnly(ex, path, content, cause.Error())
}

// metadataOnly builds the last-resort result: no symbols, just the coarse
// structural probe and the failure cause.
func (r *Recovery) metadataOnly(ex Extractor, path string, content string, cause string) *model.FileAnalysis {
	return &model.FileAnalysis{
		Path:     path,
		Language: ex.Language(),
		Method:   model.MethodHeuristic,
		Probe:    textscan.Probe(path, content),
		Error:    cause,
	}
}
