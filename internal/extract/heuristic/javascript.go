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
	jsClassRe     = regexp.MustCompile(`class\s+(\w+)(?:\s+extends\s+(\w+))?`)
	jsFuncRe      = regexp.MustCompile(`function\s+(\w+)\s*\(([^)]*)\)`)
	jsAsyncFuncRe = regexp.MustCompile(`async\s+function\s+(\w+)\s*\(([^)]*)\)`)
	jsArrowRe     = regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(async\s+)?(?:\([^)]*\)|\w+)\s*=>`)
	jsMethodRe    = regexp.MustCompile(`(?:async\s+)?(\w+)\s*\([^)]*\)`)

	jsImportRes = []*regexp.Regexp{
		regexp.MustCompile(`import\s+(\w+)\s+from\s+['"]([^'"]+)['"]`),
		regexp.MustCompile(`import\s*\{([^}]+)\}\s*from\s+['"]([^'"]+)['"]`),
		regexp.MustCompile(`import\s*\*\s*as\s+(\w+)\s+from\s+['"]([^'"]+)['"]`),
		regexp.MustCompile(`const\s+(\w+)\s*=\s*require\(['"]([^'"]+)['"]\)`),
	}
)

// jsExtractor extracts JavaScript structure by pattern matching. Class
// bodies are approximated by a brace-free span, so methods in deeply nested
// bodies can be missed; that imprecision is inherent to this tier.
type jsExtractor struct {
	engine
}

// NewJavaScript creates the JavaScript regex extractor.
func NewJavaScript(limits guard.Limits) *jsExtractor {
	return &jsExtractor{engine: newEngine("javascript", limits)}
}

func (e *jsExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
	ctx, cancel := context.WithTimeout(ctx, e.limits.RegexTimeout)
	defer cancel()
	content = e.cap(content)

	var syms model.FileSymbols

	for _, m := range e.matchAll(ctx, jsClassRe, content) {
		name := group(content, m, 1)
		decl := model.TypeDecl{
			Name:        name,
			Kind:        model.KindClass,
			SourceFile:  path,
			Line:        textscan.LineAt(content, m[0]),
			Methods:     e.classMethods(ctx, content, name),
			BaseTypes:   []string{},
			Annotations: textscan.Annotations(content, m[0]),
		}
		if base := group(content, m, 2); base != "" {
			decl.BaseTypes = append(decl.BaseTypes, base)
		}
		syms.Types = append(syms.Types, decl)
	}

	asyncAt := make(map[int]bool)
	for _, m := range e.matchAll(ctx, jsAsyncFuncRe, content) {
		asyncAt[m[2]] = true
		syms.Callables = append(syms.Callables, model.CallableDecl{
			Name:        group(content, m, 1),
			Kind:        model.KindFunction,
			SourceFile:  path,
			Line:        textscan.LineAt(content, m[0]),
			Parameters:  textscan.SplitParams(group(content, m, 2)),
			Async:       true,
			Annotations: textscan.Annotations(content, m[0]),
		})
	}
	for _, m := range e.matchAll(ctx, jsFuncRe, content) {
		// Skip functions already captured with their async prefix.
		if asyncAt[m[2]] {
			continue
		}
		syms.Callables = append(syms.Callables, model.CallableDecl{
			Name:        group(content, m, 1),
			Kind:        model.KindFunction,
			SourceFile:  path,
			Line:        textscan.LineAt(content, m[0]),
			Parameters:  textscan.SplitParams(group(content, m, 2)),
			Annotations: textscan.Annotations(content, m[0]),
		})
	}
	for _, m := range e.matchAll(ctx, jsArrowRe, content) {
		syms.Callables = append(syms.Callables, model.CallableDecl{
			Name:        group(content, m, 1),
			Kind:        model.KindArrowFunction,
			SourceFile:  path,
			Line:        textscan.LineAt(content, m[0]),
			Async:       group(content, m, 2) != "",
			Annotations: textscan.Annotations(content, m[0]),
		})
	}

	for _, re := range jsImportRes {
		for _, m := range e.matchAll(ctx, re, content) {
			imported := group(content, m, 1)
			decl := model.ImportDecl{
				SourceFile: path,
				Line:       textscan.LineAt(content, m[0]),
				ModulePath: group(content, m, 2),
				Symbols:    []string{},
				Qualified:  true,
			}
			for _, sym := range strings.Split(imported, ",") {
				if sym = strings.TrimSpace(sym); sym != "" {
					decl.Symbols = append(decl.Symbols, sym)
				}
			}
			syms.Imports = append(syms.Imports, decl)
		}
	}
	return syms, nil
}

// classMethods pulls method-looking names out of the class body span.
func (e *jsExtractor) classMethods(ctx context.Context, content, className string) []string {
	bodyRe, err := regexp.Compile(`class\s+` + regexp.QuoteMeta(className) + `[^{]*\{([^}]+)\}`)
	if err != nil {
		return nil
	}
	m := bodyRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	var methods []string
	for _, mm := range e.matchAll(ctx, jsMethodRe, m[1]) {
		name := group(m[1], mm, 1)
		switch name {
		case "if", "for", "while", "switch", "catch", "return":
			continue
		}
		methods = append(methods, name)
	}
	return methods
}
