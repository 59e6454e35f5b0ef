package parsers

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/atlasview/codeatlas/internal/extract/textscan"
	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// phpExtractor extracts PHP declarations.
type phpExtractor struct {
	*treeSitterExtractor
}

// NewPHPExtractor creates a new PHP extractor.
func NewPHPExtractor(limits guard.Limits) *phpExtractor {
	lang := sitter.NewLanguage(php.LanguagePHP())
	return &phpExtractor{
		treeSitterExtractor: newTreeSitterExtractor(lang, "php", limits),
	}
}

// Extract walks the PHP syntax tree: classes, interfaces, traits, enums,
// top-level functions, and use declarations.
func (e *phpExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
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
		case "trait_declaration":
			syms.Types = append(syms.Types, e.extractTrait(n, path, content))
			return false
		case "enum_declaration":
			syms.Types = append(syms.Types, e.extractEnum(n, path, content))
			return false
		case "function_definition":
			if !insideDeclaration(n, "class_declaration", "interface_declaration", "trait_declaration", "function_definition", "method_declaration") {
				syms.Callables = append(syms.Callables, e.extractFunction(n, path, content))
			}
			return false
		case "namespace_use_declaration":
			syms.Imports = append(syms.Imports, e.extractUse(n, path, content))
			return false
		}
		return true
	})
	if err != nil {
		return model.FileSymbols{}, err
	}
	return syms, nil
}

func (e *phpExtractor) extractClass(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindClass,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "base_clause":
			decl.BaseTypes = append(decl.BaseTypes, clauseNames(child, content, "extends")...)
		case "class_interface_clause":
			decl.BaseTypes = append(decl.BaseTypes, clauseNames(child, content, "implements")...)
		}
	}
	e.extractBody(node.ChildByFieldName("body"), content, &decl)
	return decl
}

func (e *phpExtractor) extractInterface(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindInterface,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Kind() == "base_clause" {
			decl.BaseTypes = append(decl.BaseTypes, clauseNames(child, content, "extends")...)
		}
	}
	e.extractBody(node.ChildByFieldName("body"), content, &decl)
	return decl
}

func (e *phpExtractor) extractTrait(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindTrait,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	e.extractBody(node.ChildByFieldName("body"), content, &decl)
	return decl
}

func (e *phpExtractor) extractEnum(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindEnum,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, c := range childrenByKind(body, "enum_case") {
			decl.Fields = append(decl.Fields, nodeText(c.ChildByFieldName("name"), content))
		}
		for _, m := range childrenByKind(body, "method_declaration") {
			decl.Methods = append(decl.Methods, nodeText(m.ChildByFieldName("name"), content))
		}
	}
	return decl
}

// extractBody collects methods, properties, and used traits from a
// declaration body.
func (e *phpExtractor) extractBody(body *sitter.Node, content string, decl *model.TypeDecl) {
	if body == nil {
		return
	}
	for i := uint(0); i < uint(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Kind() {
		case "method_declaration":
			decl.Methods = append(decl.Methods, nodeText(child.ChildByFieldName("name"), content))
		case "property_declaration":
			e.extractProperty(child, content, decl)
		case "use_declaration":
			// Trait usage inside a class body.
			raw := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(nodeText(child, content), "use")), ";")
			for _, t := range strings.Split(raw, ",") {
				decl.BaseTypes = append(decl.BaseTypes, strings.TrimSpace(t))
			}
		}
	}
}

func (e *phpExtractor) extractProperty(node *sitter.Node, content string, decl *model.TypeDecl) {
	typ := nodeText(node.ChildByFieldName("type"), content)
	for _, elem := range childrenByKind(node, "property_element") {
		name := strings.TrimPrefix(nodeText(elem.ChildByFieldName("name"), content), "$")
		if typ != "" {
			decl.Fields = append(decl.Fields, name+": "+typ)
		} else {
			decl.Fields = append(decl.Fields, name)
		}
	}
}

func (e *phpExtractor) extractFunction(node *sitter.Node, path, content string) model.CallableDecl {
	decl := model.CallableDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindFunction,
		SourceFile:  path,
		Line:        nodeLine(node),
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		raw := strings.TrimSuffix(strings.TrimPrefix(nodeText(params, content), "("), ")")
		decl.Parameters = textscan.StripReceiver(textscan.SplitParams(raw))
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		decl.ReturnType = nodeText(ret, content)
	}
	return decl
}

// extractUse normalizes a namespace use declaration. Group imports keep
// the prefix as ModulePath and list each clause; "use A as B" records the
// alias as the sole symbol.
func (e *phpExtractor) extractUse(node *sitter.Node, path, content string) model.ImportDecl {
	decl := model.ImportDecl{
		SourceFile: path,
		Line:       nodeLine(node),
		Symbols:    []string{},
	}

	raw := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(nodeText(node, content), "use")), ";")
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(raw, "function "), "const "))

	if open := strings.Index(raw, "{"); open >= 0 {
		decl.ModulePath = strings.TrimSuffix(strings.TrimSpace(raw[:open]), "\\")
		decl.Qualified = true
		inner := strings.TrimSuffix(raw[open+1:], "}")
		for _, sym := range strings.Split(inner, ",") {
			if sym = strings.TrimSpace(sym); sym != "" {
				decl.Symbols = append(decl.Symbols, sym)
			}
		}
		return decl
	}

	if i := strings.Index(raw, " as "); i >= 0 {
		decl.ModulePath = strings.TrimSpace(raw[:i])
		decl.Symbols = append(decl.Symbols, strings.TrimSpace(raw[i+4:]))
		return decl
	}

	decl.ModulePath = strings.TrimSpace(raw)
	return decl
}

// clauseNames strips the leading keyword from a heritage clause and splits
// the remaining comma-separated names.
func clauseNames(node *sitter.Node, content, keyword string) []string {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(nodeText(node, content)), keyword))
	var names []string
	for _, n := range strings.Split(raw, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
