// Package heuristic implements the regex extraction tier: pattern-based
// extractors for languages without a grammar binding, plus a generic
// keyword extractor for anything unrecognized. Results are best-effort and
// tagged with the heuristic extraction method.
package heuristic

import (
	"context"
	"regexp"

	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// engine is the shared base of the regex extractors: it caps the scanned
// content and bounds each pattern family with a deadline. Go regexps run in
// linear time, so the cap is the primary defense and the deadline a
// backstop.
type engine struct {
	lang   string
	limits guard.Limits
}

func newEngine(lang string, limits guard.Limits) engine {
	return engine{lang: lang, limits: limits}
}

func (e engine) Language() string { return e.lang }

func (e engine) Method() model.ExtractionMethod { return model.MethodHeuristic }

// cap truncates content to the configured scan limit.
func (e engine) cap(content string) string {
	if len(content) > e.limits.MaxContentLen {
		return content[:e.limits.MaxContentLen]
	}
	return content
}

// matchAll runs one pattern family under the scan deadline. A canceled or
// expired context yields no matches rather than an error; the file simply
// contributes fewer symbols.
func (e engine) matchAll(ctx context.Context, re *regexp.Regexp, content string) [][]int {
	if ctx.Err() != nil {
		return nil
	}
	done := make(chan [][]int, 1)
	go func() {
		done <- re.FindAllStringSubmatchIndex(content, -1)
	}()
	select {
	case m := <-done:
		return m
	case <-ctx.Done():
		return nil
	}
}

// group returns the text of capture group n from a submatch index slice,
// or "" when the group did not participate.
func group(content string, m []int, n int) string {
	lo, hi := m[2*n], m[2*n+1]
	if lo < 0 || hi < 0 {
		return ""
	}
	return content[lo:hi]
}
