package heuristic

import (
	"context"
	"regexp"

	"github.com/atlasview/codeatlas/internal/extract/textscan"
	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

var (
	genericTypeRes = []struct {
		re   *regexp.Regexp
		kind model.TypeKind
	}{
		{regexp.MustCompile(`\bclass\s+(\w+)`), model.KindClass},
		{regexp.MustCompile(`\bstruct\s+(\w+)`), model.KindStruct},
		{regexp.MustCompile(`\binterface\s+(\w+)`), model.KindInterface},
		{regexp.MustCompile(`\btrait\s+(\w+)`), model.KindTrait},
		{regexp.MustCompile(`\bdata\s+(\w+)`), model.KindRecord},
	}

	genericFuncRe = regexp.MustCompile(`\b(?:function|func|def|sub|fn)\s+(\w+)`)

	genericImportRes = []*regexp.Regexp{
		regexp.MustCompile(`\bimport\s+([^\s;]+)`),
		regexp.MustCompile(`\brequire\s*\(?['"]([^'"]+)['"]\)?`),
		regexp.MustCompile(`\binclude\s+[<"]([^>"]+)[>"]`),
		regexp.MustCompile(`\busing\s+([^\s;]+)`),
		regexp.MustCompile(`\buse\s+([^\s;]+)`),
	}

	genericStopNames = map[string]bool{
		"if": true, "for": true, "while": true, "switch": true,
		"class": true, "struct": true, "return": true,
	}
)

// genericExtractor guesses structure in unrecognized languages from
// cross-language keywords. It never fails; an unmatchable file just yields
// empty symbol lists.
type genericExtractor struct {
	engine
}

// NewGeneric creates the generic keyword extractor.
func NewGeneric(limits guard.Limits) *genericExtractor {
	return &genericExtractor{engine: newEngine("generic", limits)}
}

func (e *genericExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
	ctx, cancel := context.WithTimeout(ctx, e.limits.RegexTimeout)
	defer cancel()
	content = e.cap(content)

	var syms model.FileSymbols

	for _, p := range genericTypeRes {
		for _, m := range e.matchAll(ctx, p.re, content) {
			syms.Types = append(syms.Types, model.TypeDecl{
				Name:        group(content, m, 1),
				Kind:        p.kind,
				SourceFile:  path,
				Line:        textscan.LineAt(content, m[0]),
				BaseTypes:   []string{},
				Annotations: []string{},
			})
		}
	}

	for _, m := range e.matchAll(ctx, genericFuncRe, content) {
		name := group(content, m, 1)
		if genericStopNames[name] {
			continue
		}
		syms.Callables = append(syms.Callables, model.CallableDecl{
			Name:        name,
			Kind:        model.KindProcedure,
			SourceFile:  path,
			Line:        textscan.LineAt(content, m[0]),
			Annotations: []string{},
		})
	}

	for _, re := range genericImportRes {
		for _, m := range e.matchAll(ctx, re, content) {
			syms.Imports = append(syms.Imports, model.ImportDecl{
				SourceFile: path,
				Line:       textscan.LineAt(content, m[0]),
				ModulePath: group(content, m, 1),
				Symbols:    []string{},
			})
		}
	}
	return syms, nil
}
