package parsers

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/atlasview/codeatlas/internal/extract/textscan"
	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// cExtractor extracts C declarations.
type cExtractor struct {
	*treeSitterExtractor
}

// NewCExtractor creates a new C extractor.
func NewCExtractor(limits guard.Limits) *cExtractor {
	lang := sitter.NewLanguage(c.Language())
	return &cExtractor{
		treeSitterExtractor: newTreeSitterExtractor(lang, "c", limits),
	}
}

// Extract walks the C syntax tree: named structs, unions, enums, function
// definitions, and preprocessor includes. Anonymous aggregates and forward
// declarations without bodies are skipped.
func (e *cExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
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
		case "struct_specifier", "union_specifier":
			if decl, ok := e.extractAggregate(n, path, content); ok {
				syms.Types = append(syms.Types, decl)
			}
			return false
		case "enum_specifier":
			if decl, ok := e.extractEnum(n, path, content); ok {
				syms.Types = append(syms.Types, decl)
			}
			return false
		case "function_definition":
			if fn, ok := e.extractFunction(n, path, content); ok {
				syms.Callables = append(syms.Callables, fn)
			}
			return false
		case "preproc_include":
			if imp, ok := e.extractInclude(n, path, content); ok {
				syms.Imports = append(syms.Imports, imp)
			}
			return false
		}
		return true
	})
	if err != nil {
		return model.FileSymbols{}, err
	}
	return syms, nil
}

func (e *cExtractor) extractAggregate(node *sitter.Node, path, content string) (model.TypeDecl, bool) {
	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if name == nil || body == nil {
		return model.TypeDecl{}, false
	}
	decl := model.TypeDecl{
		Name:        nodeText(name, content),
		Kind:        model.KindStruct,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: []string{},
	}
	for _, field := range childrenByKind(body, "field_declaration") {
		typ := nodeText(field.ChildByFieldName("type"), content)
		fieldName := declaratorName(field.ChildByFieldName("declarator"), content)
		if fieldName == "" {
			continue
		}
		decl.Fields = append(decl.Fields, fieldName+": "+typ)
	}
	return decl, true
}

func (e *cExtractor) extractEnum(node *sitter.Node, path, content string) (model.TypeDecl, bool) {
	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if name == nil || body == nil {
		return model.TypeDecl{}, false
	}
	decl := model.TypeDecl{
		Name:        nodeText(name, content),
		Kind:        model.KindEnum,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: []string{},
	}
	for _, val := range childrenByKind(body, "enumerator") {
		decl.Fields = append(decl.Fields, nodeText(val.ChildByFieldName("name"), content))
	}
	return decl, true
}

func (e *cExtractor) extractFunction(node *sitter.Node, path, content string) (model.CallableDecl, bool) {
	fnDecl := functionDeclarator(node.ChildByFieldName("declarator"))
	if fnDecl == nil {
		return model.CallableDecl{}, false
	}
	name := declaratorName(fnDecl.ChildByFieldName("declarator"), content)
	if name == "" {
		return model.CallableDecl{}, false
	}
	decl := model.CallableDecl{
		Name:        name,
		Kind:        model.KindProcedure,
		SourceFile:  path,
		Line:        nodeLine(node),
		ReturnType:  nodeText(node.ChildByFieldName("type"), content),
		Annotations: []string{},
	}
	if params := fnDecl.ChildByFieldName("parameters"); params != nil {
		raw := strings.TrimSuffix(strings.TrimPrefix(nodeText(params, content), "("), ")")
		if raw != "" && raw != "void" {
			decl.Parameters = textscan.SplitParams(raw)
		}
	}
	return decl, true
}

func (e *cExtractor) extractInclude(node *sitter.Node, path, content string) (model.ImportDecl, bool) {
	p := node.ChildByFieldName("path")
	if p == nil {
		return model.ImportDecl{}, false
	}
	raw := strings.Trim(nodeText(p, content), `"<>`)
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

// functionDeclarator unwraps pointer declarators down to the
// function_declarator carrying the name and parameter list.
func functionDeclarator(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Kind() {
		case "function_declarator":
			return node
		case "pointer_declarator":
			node = node.ChildByFieldName("declarator")
		default:
			return nil
		}
	}
	return nil
}

// declaratorName digs the identifier out of a possibly nested declarator.
func declaratorName(node *sitter.Node, content string) string {
	for node != nil {
		switch node.Kind() {
		case "identifier", "field_identifier":
			return nodeText(node, content)
		case "pointer_declarator", "array_declarator", "function_declarator", "init_declarator":
			node = node.ChildByFieldName("declarator")
		default:
			return ""
		}
	}
	return ""
}
