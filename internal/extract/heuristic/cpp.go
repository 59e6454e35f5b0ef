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
	cppClassRe = regexp.MustCompile(`(class|struct)\s+(\w+)(?:\s*:\s*([^{;]+))?\s*\{`)
	cppFuncRe  = regexp.MustCompile(`(?m)^[ \t]*(?:[\w:<>,~&*\s]+?)\s+(\w+)\s*\(([^)]*)\)\s*(?:const\s*)?(?:noexcept\s*)?\{`)

	cppImportRes = []*regexp.Regexp{
		regexp.MustCompile(`#include\s*[<"]([^>"]+)[>"]`),
		regexp.MustCompile(`using\s+namespace\s+([\w:]+)`),
	}

	cppKeywordNames = map[string]bool{
		"if": true, "for": true, "while": true, "switch": true,
		"catch": true, "return": true, "sizeof": true,
	}
)

// cppExtractor extracts C++ structure by pattern matching.
type cppExtractor struct {
	engine
}

// NewCPP creates the C++ regex extractor.
func NewCPP(limits guard.Limits) *cppExtractor {
	return &cppExtractor{engine: newEngine("cpp", limits)}
}

func (e *cppExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
	ctx, cancel := context.WithTimeout(ctx, e.limits.RegexTimeout)
	defer cancel()
	content = e.cap(content)

	var syms model.FileSymbols

	for _, m := range e.matchAll(ctx, cppClassRe, content) {
		kind := model.KindClass
		if group(content, m, 1) == "struct" {
			kind = model.KindStruct
		}
		decl := model.TypeDecl{
			Name:        group(content, m, 2),
			Kind:        kind,
			SourceFile:  path,
			Line:        textscan.LineAt(content, m[0]),
			BaseTypes:   baseClause(group(content, m, 3)),
			Annotations: []string{},
		}
		syms.Types = append(syms.Types, decl)
	}

	for _, m := range e.matchAll(ctx, cppFuncRe, content) {
		name := group(content, m, 1)
		if cppKeywordNames[name] {
			continue
		}
		syms.Callables = append(syms.Callables, model.CallableDecl{
			Name:        name,
			Kind:        model.KindProcedure,
			SourceFile:  path,
			Line:        textscan.LineAt(content, m[0]),
			Parameters:  textscan.SplitParams(group(content, m, 2)),
			Annotations: []string{},
		})
	}

	for _, re := range cppImportRes {
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

// baseClause splits a C++ inheritance list and strips access specifiers.
func baseClause(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		for _, spec := range []string{"public ", "protected ", "private ", "virtual "} {
			part = strings.TrimSpace(strings.TrimPrefix(part, spec))
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
