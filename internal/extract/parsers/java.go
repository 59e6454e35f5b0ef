package parsers

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/atlasview/codeatlas/internal/extract/textscan"
	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// javaExtractor extracts Java declarations.
type javaExtractor struct {
	*treeSitterExtractor
}

// NewJavaExtractor creates a new Java extractor.
func NewJavaExtractor(limits guard.Limits) *javaExtractor {
	lang := sitter.NewLanguage(java.Language())
	return &javaExtractor{
		treeSitterExtractor: newTreeSitterExtractor(lang, "java", limits),
	}
}

// Extract walks the Java syntax tree and maps classes, interfaces, enums,
// records, and imports onto the common schema. Methods live only on their
// owning type; Java has no module-level callables.
func (e *javaExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
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
		case "class_declaration":
			syms.Types = append(syms.Types, e.extractClass(n, path, content))
			return false
		case "interface_declaration":
			syms.Types = append(syms.Types, e.extractInterface(n, path, content))
			return false
		case "enum_declaration":
			syms.Types = append(syms.Types, e.extractEnum(n, path, content))
			return false
		case "record_declaration":
			syms.Types = append(syms.Types, e.extractRecord(n, path, content))
			return false
		case "import_declaration":
			syms.Imports = append(syms.Imports, e.extractImport(n, path, content))
		}
		return true
	})
	if err != nil {
		return model.FileSymbols{}, err
	}

	return syms, nil
}

// extractClass extracts a class with methods, fields, superclass, and
// implemented interfaces.
func (e *javaExtractor) extractClass(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindClass,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}

	if super := node.ChildByFieldName("superclass"); super != nil {
		base := strings.TrimSpace(strings.TrimPrefix(nodeText(super, content), "extends"))
		if base != "" {
			decl.BaseTypes = append(decl.BaseTypes, base)
		}
	}
	if ifaces := node.ChildByFieldName("interfaces"); ifaces != nil {
		raw := strings.TrimSpace(strings.TrimPrefix(nodeText(ifaces, content), "implements"))
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				decl.BaseTypes = append(decl.BaseTypes, name)
			}
		}
	}

	e.extractBody(node.ChildByFieldName("body"), content, &decl)
	return decl
}

// extractBody collects method names and "name: type" fields from a class
// or enum body.
func (e *javaExtractor) extractBody(body *sitter.Node, content string, decl *model.TypeDecl) {
	if body == nil {
		return
	}
	for i := uint(0); i < uint(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Kind() {
		case "method_declaration", "constructor_declaration":
			decl.Methods = append(decl.Methods, nodeText(child.ChildByFieldName("name"), content))
		case "field_declaration":
			typ := nodeText(child.ChildByFieldName("type"), content)
			for _, declarator := range childrenByKind(child, "variable_declarator") {
				name := nodeText(declarator.ChildByFieldName("name"), content)
				decl.Fields = append(decl.Fields, name+": "+typ)
			}
		}
	}
}

// extractInterface extracts an interface with its method signatures; no
// implementation and no fields.
func (e *javaExtractor) extractInterface(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindInterface,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, method := range childrenByKind(body, "method_declaration") {
			decl.Methods = append(decl.Methods, nodeText(method.ChildByFieldName("name"), content))
		}
	}
	return decl
}

// extractEnum extracts an enum; constants become fields, declared methods
// stay methods.
func (e *javaExtractor) extractEnum(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindEnum,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}
	for i := uint(0); i < uint(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Kind() {
		case "enum_constant":
			decl.Fields = append(decl.Fields, nodeText(child.ChildByFieldName("name"), content))
		case "enum_body_declarations":
			e.extractBody(child, content, &decl)
		}
	}
	return decl
}

// extractRecord extracts a record; its header components become fields.
func (e *javaExtractor) extractRecord(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindRecord,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		for _, param := range childrenByKind(params, "formal_parameter") {
			name := nodeText(param.ChildByFieldName("name"), content)
			typ := nodeText(param.ChildByFieldName("type"), content)
			decl.Fields = append(decl.Fields, name+": "+typ)
		}
	}
	e.extractBody(node.ChildByFieldName("body"), content, &decl)
	return decl
}

// extractImport normalizes an import declaration; Java has no alias form,
// so the symbol list stays empty and the dotted path is preserved raw.
func (e *javaExtractor) extractImport(node *sitter.Node, path, content string) model.ImportDecl {
	raw := nodeText(node, content)
	raw = strings.TrimPrefix(raw, "import")
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "static")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), ";")
	return model.ImportDecl{
		SourceFile: path,
		Line:       nodeLine(node),
		ModulePath: strings.TrimSpace(raw),
		Symbols:    []string{},
	}
}
