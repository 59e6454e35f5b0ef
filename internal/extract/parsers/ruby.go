package parsers

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"

	"github.com/atlasview/codeatlas/internal/extract/textscan"
	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// rubyExtractor extracts Ruby declarations.
type rubyExtractor struct {
	*treeSitterExtractor
}

// NewRubyExtractor creates a new Ruby extractor.
func NewRubyExtractor(limits guard.Limits) *rubyExtractor {
	lang := sitter.NewLanguage(ruby.Language())
	return &rubyExtractor{
		treeSitterExtractor: newTreeSitterExtractor(lang, "ruby", limits),
	}
}

// Extract walks the Ruby syntax tree: classes, modules, top-level methods,
// and require calls.
func (e *rubyExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
	var syms model.FileSymbols

	tree, err := e.parse(ctx, content)
	if err != nil {
		return syms, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return syms, &ParseError{Language: e.lang, Detail: "syntax error"}
	}

	g := guard.NewWalkGuard(e.limits)
	err = walk(root, g, 0, func(n *sitter.Node, depth int) bool {
		switch n.Kind() {
		case "class":
			syms.Types = append(syms.Types, e.extractClass(n, path, content))
			return false
		case "module":
			syms.Types = append(syms.Types, e.extractModule(n, path, content))
			return false
		case "method", "singleton_method":
			if !insideDeclaration(n, "class", "module", "method", "singleton_method") {
				syms.Callables = append(syms.Callables, e.extractMethod(n, path, content, model.KindFunction))
			}
			return false
		case "call":
			if imp, ok := e.requireCall(n, path, content); ok {
				syms.Imports = append(syms.Imports, imp)
			}
			return true
		}
		return true
	})
	if err != nil {
		return model.FileSymbols{}, err
	}
	return syms, nil
}

func (e *rubyExtractor) extractClass(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindClass,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	// The superclass node covers "< Base".
	if sup := node.ChildByFieldName("superclass"); sup != nil {
		base := strings.TrimSpace(strings.TrimPrefix(nodeText(sup, content), "<"))
		if base != "" {
			decl.BaseTypes = append(decl.BaseTypes, base)
		}
	}
	e.extractBody(node.ChildByFieldName("body"), content, &decl)
	return decl
}

func (e *rubyExtractor) extractModule(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindModule,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	e.extractBody(node.ChildByFieldName("body"), content, &decl)
	return decl
}

// extractBody collects methods, mixins, and attr declarations from a class
// or module body.
func (e *rubyExtractor) extractBody(body *sitter.Node, content string, decl *model.TypeDecl) {
	if body == nil {
		return
	}
	for i := uint(0); i < uint(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Kind() {
		case "method", "singleton_method":
			decl.Methods = append(decl.Methods, nodeText(child.ChildByFieldName("name"), content))
		case "call":
			method := nodeText(child.ChildByFieldName("method"), content)
			switch method {
			case "include", "extend", "prepend":
				if args := child.ChildByFieldName("arguments"); args != nil {
					decl.BaseTypes = append(decl.BaseTypes, strings.TrimSpace(nodeText(args, content)))
				}
			case "attr_accessor", "attr_reader", "attr_writer":
				if args := child.ChildByFieldName("arguments"); args != nil {
					for _, sym := range textscan.SplitParams(nodeText(args, content)) {
						decl.Fields = append(decl.Fields, strings.TrimPrefix(sym, ":"))
					}
				}
			}
		}
	}
}

func (e *rubyExtractor) extractMethod(node *sitter.Node, path, content string, kind model.CallableKind) model.CallableDecl {
	decl := model.CallableDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        kind,
		SourceFile:  path,
		Line:        nodeLine(node),
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		raw := strings.TrimSuffix(strings.TrimPrefix(nodeText(params, content), "("), ")")
		decl.Parameters = textscan.SplitParams(raw)
	}
	return decl
}

// requireCall recognizes top-level require and require_relative calls.
func (e *rubyExtractor) requireCall(node *sitter.Node, path, content string) (model.ImportDecl, bool) {
	method := nodeText(node.ChildByFieldName("method"), content)
	if method != "require" && method != "require_relative" {
		return model.ImportDecl{}, false
	}
	args := node.ChildByFieldName("arguments")
	if args == nil {
		return model.ImportDecl{}, false
	}
	raw := strings.TrimSpace(nodeText(args, content))
	raw = strings.Trim(raw, "()")
	raw = strings.Trim(strings.TrimSpace(raw), `"'`)
	if raw == "" {
		return model.ImportDecl{}, false
	}
	return model.ImportDecl{
		SourceFile: path,
		Line:       nodeLine(node),
		ModulePath: raw,
		Symbols:    []string{},
	}, true
}
