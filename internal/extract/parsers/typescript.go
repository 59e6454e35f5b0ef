package parsers

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/atlasview/codeatlas/internal/extract/textscan"
	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// typeScriptExtractor extracts TypeScript and TSX declarations.
type typeScriptExtractor struct {
	*treeSitterExtractor
}

// NewTypeScriptExtractor creates a new TypeScript extractor.
func NewTypeScriptExtractor(limits guard.Limits) *typeScriptExtractor {
	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	return &typeScriptExtractor{
		treeSitterExtractor: newTreeSitterExtractor(lang, "typescript", limits),
	}
}

// NewTSXExtractor creates an extractor for .tsx files using the TSX grammar.
func NewTSXExtractor(limits guard.Limits) *typeScriptExtractor {
	lang := sitter.NewLanguage(typescript.LanguageTSX())
	return &typeScriptExtractor{
		treeSitterExtractor: newTreeSitterExtractor(lang, "typescript", limits),
	}
}

// Extract walks the TypeScript syntax tree: classes, interfaces, enums,
// functions, arrow functions bound to const/let/var, and ES imports.
func (e *typeScriptExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
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
		case "function_declaration":
			if !insideDeclaration(n, "class_declaration", "function_declaration", "method_definition") {
				syms.Callables = append(syms.Callables, e.extractFunction(n, path, content))
			}
			return false
		case "variable_declarator":
			if decl, ok := e.extractArrowFunction(n, path, content); ok {
				syms.Callables = append(syms.Callables, decl)
				return false
			}
		case "import_statement":
			syms.Imports = append(syms.Imports, e.extractImport(n, path, content))
			return false
		}
		return true
	})
	if err != nil {
		return model.FileSymbols{}, err
	}

	return syms, nil
}

// extractClass extracts a class with heritage (extends/implements), method
// names, and public field definitions.
func (e *typeScriptExtractor) extractClass(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindClass,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}

	if heritage := childByKind(node, "class_heritage"); heritage != nil {
		for i := uint(0); i < uint(heritage.ChildCount()); i++ {
			clause := heritage.Child(i)
			switch clause.Kind() {
			case "extends_clause", "implements_clause":
				decl.BaseTypes = append(decl.BaseTypes, heritageNames(clause, content)...)
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}
	for i := uint(0); i < uint(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Kind() {
		case "method_definition":
			decl.Methods = append(decl.Methods, nodeText(child.ChildByFieldName("name"), content))
		case "public_field_definition":
			name := nodeText(child.ChildByFieldName("name"), content)
			if typ := child.ChildByFieldName("type"); typ != nil {
				raw := strings.TrimSpace(strings.TrimPrefix(nodeText(typ, content), ":"))
				decl.Fields = append(decl.Fields, name+": "+raw)
			} else {
				decl.Fields = append(decl.Fields, name)
			}
		}
	}
	return decl
}

// heritageNames collects the type names referenced by an extends or
// implements clause, skipping keyword and punctuation tokens.
func heritageNames(clause *sitter.Node, content string) []string {
	var names []string
	for i := uint(0); i < uint(clause.ChildCount()); i++ {
		child := clause.Child(i)
		switch child.Kind() {
		case "identifier", "type_identifier", "member_expression", "nested_type_identifier", "generic_type":
			names = append(names, nodeText(child, content))
		}
	}
	return names
}

// extractInterface extracts an interface with its method and property
// signatures; properties become fields, methods stay signatures only.
func (e *typeScriptExtractor) extractInterface(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindInterface,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	if extends := childByKind(node, "extends_type_clause"); extends != nil {
		decl.BaseTypes = append(decl.BaseTypes, heritageNames(extends, content)...)
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}
	for i := uint(0); i < uint(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Kind() {
		case "method_signature":
			decl.Methods = append(decl.Methods, nodeText(child.ChildByFieldName("name"), content))
		case "property_signature":
			name := nodeText(child.ChildByFieldName("name"), content)
			if typ := child.ChildByFieldName("type"); typ != nil {
				raw := strings.TrimSpace(strings.TrimPrefix(nodeText(typ, content), ":"))
				decl.Fields = append(decl.Fields, name+": "+raw)
			} else {
				decl.Fields = append(decl.Fields, name)
			}
		}
	}
	return decl
}

// extractEnum extracts an enum; members become fields.
func (e *typeScriptExtractor) extractEnum(node *sitter.Node, path, content string) model.TypeDecl {
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
		case "enum_assignment":
			decl.Fields = append(decl.Fields, nodeText(child.ChildByFieldName("name"), content))
		case "property_identifier":
			decl.Fields = append(decl.Fields, nodeText(child, content))
		}
	}
	return decl
}

// extractFunction extracts a function declaration.
func (e *typeScriptExtractor) extractFunction(node *sitter.Node, path, content string) model.CallableDecl {
	decl := model.CallableDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindFunction,
		SourceFile:  path,
		Line:        nodeLine(node),
		Async:       hasKeywordChild(node, "async"),
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	e.fillSignature(node, content, &decl)
	return decl
}

// extractArrowFunction promotes a const/let/var binding whose value is an
// arrow function. Bindings nested inside classes or other functions are
// not promoted.
func (e *typeScriptExtractor) extractArrowFunction(node *sitter.Node, path, content string) (model.CallableDecl, bool) {
	value := node.ChildByFieldName("value")
	if value == nil || value.Kind() != "arrow_function" {
		return model.CallableDecl{}, false
	}
	if insideDeclaration(node, "class_declaration", "function_declaration", "method_definition", "arrow_function") {
		return model.CallableDecl{}, false
	}
	decl := model.CallableDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindArrowFunction,
		SourceFile:  path,
		Line:        nodeLine(node),
		Async:       hasKeywordChild(value, "async"),
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	e.fillSignature(value, content, &decl)
	return decl, true
}

// fillSignature populates parameters and return type from a function-like
// node.
func (e *typeScriptExtractor) fillSignature(node *sitter.Node, content string, decl *model.CallableDecl) {
	if params := node.ChildByFieldName("parameters"); params != nil {
		raw := strings.TrimSuffix(strings.TrimPrefix(nodeText(params, content), "("), ")")
		decl.Parameters = textscan.SplitParams(raw)
	}
	if ret := node.ChildByFieldName("return_type"); ret != nil {
		decl.ReturnType = strings.TrimSpace(strings.TrimPrefix(nodeText(ret, content), ":"))
	}
}

// extractImport normalizes an ES import statement. Named imports keep
// their raw clause text ("B as C" stays one symbol); a namespace import
// records the alias as the sole symbol.
func (e *typeScriptExtractor) extractImport(node *sitter.Node, path, content string) model.ImportDecl {
	decl := model.ImportDecl{
		SourceFile: path,
		Line:       nodeLine(node),
		Symbols:    []string{},
	}
	if source := node.ChildByFieldName("source"); source != nil {
		decl.ModulePath = strings.Trim(nodeText(source, content), `"'`)
	}
	clause := childByKind(node, "import_clause")
	if clause == nil {
		return decl
	}
	for i := uint(0); i < uint(clause.ChildCount()); i++ {
		child := clause.Child(i)
		switch child.Kind() {
		case "identifier": // default import
			decl.Symbols = append(decl.Symbols, nodeText(child, content))
			decl.Qualified = true
		case "named_imports":
			for _, spec := range childrenByKind(child, "import_specifier") {
				decl.Symbols = append(decl.Symbols, nodeText(spec, content))
			}
			decl.Qualified = true
		case "namespace_import":
			// "* as X": the alias is the sole imported symbol.
			if alias := childByKind(child, "identifier"); alias != nil {
				decl.Symbols = append(decl.Symbols, nodeText(alias, content))
			}
		}
	}
	return decl
}
