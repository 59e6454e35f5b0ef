// Package textscan holds text-offset helpers shared by the precise and
// heuristic extraction tiers: line-number computation, annotation window
// scanning, and the coarse structural probe used as the last fallback.
package textscan

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/atlasview/codeatlas/internal/model"
)

// annotationWindow is how many characters preceding a declaration are
// scanned for annotation/decorator syntax. Some grammars do not expose
// decorators as a distinct node, so both tiers use this text scan.
const annotationWindow = 200

var (
	annotationRe = regexp.MustCompile(`@([a-zA-Z_][a-zA-Z0-9_.]*)(\([^)\n]*\))?`)

	probeClassRe    = regexp.MustCompile(`\b(class|struct|interface|trait)\b`)
	probeFunctionRe = regexp.MustCompile(`\b(function|def|func|fn|sub)\b`)
	probeImportRe   = regexp.MustCompile(`\b(import|require|include|use)\b`)
)

// LineAt returns the 1-based line number of byte offset off within content,
// computed by counting newline characters in the preceding text.
func LineAt(content string, off int) int {
	if off > len(content) {
		off = len(content)
	}
	return strings.Count(content[:off], "\n") + 1
}

// Annotations scans a bounded window of text immediately preceding offset
// for @name(...) annotation syntax and returns the raw matches in source
// order.
func Annotations(content string, off int) []string {
	start := off - annotationWindow
	if start < 0 {
		start = 0
	}
	if off > len(content) {
		off = len(content)
	}
	var out []string
	for _, m := range annotationRe.FindAllString(content[start:off], -1) {
		out = append(out, m)
	}
	return out
}

// Probe builds the minimal structural fallback for content that could not
// be extracted: line count, size, and coarse presence booleans.
func Probe(path, content string) *model.Probe {
	return &model.Probe{
		LineCount:    strings.Count(content, "\n") + 1,
		Size:         len(content),
		Extension:    filepath.Ext(path),
		HasClasses:   probeClassRe.MatchString(content),
		HasFunctions: probeFunctionRe.MatchString(content),
		HasImports:   probeImportRe.MatchString(content),
	}
}

// SplitParams splits raw parameter-list text on commas and trims each
// element, preserving declaration order. Empty input yields nil.
func SplitParams(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	depth := 0
	start := 0
	// Commas inside nested brackets (generics, tuples, defaults) do not
	// split a parameter.
	for i, r := range raw {
		switch r {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if p := strings.TrimSpace(raw[start:i]); p != "" {
					out = append(out, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(raw[start:]); p != "" {
		out = append(out, p)
	}
	return out
}

// StripReceiver drops a leading self/this/cls receiver parameter.
func StripReceiver(params []string) []string {
	if len(params) == 0 {
		return params
	}
	first := strings.TrimSpace(params[0])
	name := first
	if i := strings.IndexAny(first, ": ="); i >= 0 {
		name = first[:i]
	}
	name = strings.TrimLeft(name, "&")
	name = strings.TrimPrefix(name, "mut ")
	switch name {
	case "self", "cls", "this", "$this":
		return params[1:]
	}
	if first == "&self" || first == "&mut self" {
		return params[1:]
	}
	return params
}
