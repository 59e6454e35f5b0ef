package heuristic

import (
	"context"
	"regexp"
	"strings"

	"github.com/atlasview/codeatlas/internal/extract/textscan"
	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

var (
	pyClassRe  = regexp.MustCompile(`(?m)^class\s+(\w+)\s*(?:\(([^)]*)\))?\s*:`)
	pyFuncRe   = regexp.MustCompile(`(?m)^(async\s+)?def\s+(\w+)\s*\(([^)]*)\)`)
	pyImportRe = regexp.MustCompile(`(?m)^(?:from\s+([\w.]+)\s+)?import\s+([\w,. ]+)`)
)

// pyExtractor recovers Python structure by pattern matching. Declarations
// are matched at the start of a line, so only module-level classes and
// functions surface; nested definitions stay invisible to this tier.
type pyExtractor struct {
	engine
}

// NewPython creates the Python regex extractor.
func NewPython(limits guard.Limits) *pyExtractor {
	return &pyExtractor{engine: newEngine("python", limits)}
}

func (e *pyExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
	ctx, cancel := context.WithTimeout(ctx, e.limits.RegexTimeout)
	defer cancel()
	content = e.cap(content)

	var syms model.FileSymbols

	for _, m := range e.matchAll(ctx, pyClassRe, content) {
		decl := model.TypeDecl{
			Name:        group(content, m, 1),
			Kind:        model.KindClass,
			SourceFile:  path,
			Line:        textscan.LineAt(content, m[0]),
			BaseTypes:   []string{},
			Annotations: textscan.Annotations(content, m[0]),
		}
		for _, base := range strings.Split(group(content, m, 2), ",") {
			if base = strings.TrimSpace(base); base != "" {
				decl.BaseTypes = append(decl.BaseTypes, base)
			}
		}
		syms.Types = append(syms.Types, decl)
	}

	for _, m := range e.matchAll(ctx, pyFuncRe, content) {
		syms.Callables = append(syms.Callables, model.CallableDecl{
			Name:        group(content, m, 2),
			Kind:        model.KindFunction,
			SourceFile:  path,
			Line:        textscan.LineAt(content, m[0]),
			Parameters:  textscan.StripReceiver(textscan.SplitParams(group(content, m, 3))),
			Async:       group(content, m, 1) != "",
			Annotations: textscan.Annotations(content, m[0]),
		})
	}

	for _, m := range e.matchAll(ctx, pyImportRe, content) {
		line := textscan.LineAt(content, m[0])
		if from := group(content, m, 1); from != "" {
			decl := model.ImportDecl{
				SourceFile: path,
				Line:       line,
				ModulePath: from,
				Symbols:    []string{},
				Qualified:  true,
			}
			for _, sym := range strings.Split(group(content, m, 2), ",") {
				if sym = strings.TrimSpace(sym); sym != "" {
					decl.Symbols = append(decl.Symbols, sym)
				}
			}
			syms.Imports = append(syms.Imports, decl)
			continue
		}
		// A plain import lists one module per comma-separated clause; an
		// alias becomes the sole imported symbol.
		for _, mod := range strings.Split(group(content, m, 2), ",") {
			mod = strings.TrimSpace(mod)
			if mod == "" {
				continue
			}
			decl := model.ImportDecl{
				SourceFile: path,
				Line:       line,
				ModulePath: mod,
				Symbols:    []string{},
			}
			if name, alias, ok := strings.Cut(mod, " as "); ok {
				decl.ModulePath = strings.TrimSpace(name)
				decl.Symbols = append(decl.Symbols, strings.TrimSpace(alias))
			}
			syms.Imports = append(syms.Imports, decl)
		}
	}
	return syms, nil
}
