package parsers

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/atlasview/codeatlas/internal/extract/textscan"
	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// pythonExtractor extracts Python declarations.
type pythonExtractor struct {
	*treeSitterExtractor
}

// NewPythonExtractor creates a new Python extractor.
func NewPythonExtractor(limits guard.Limits) *pythonExtractor {
	lang := sitter.NewLanguage(python.Language())
	return &pythonExtractor{
		treeSitterExtractor: newTreeSitterExtractor(lang, "python", limits),
	}
}

// Extract walks the Python syntax tree and maps class, function, and import
// declarations onto the common schema.
func (e *pythonExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
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
		case "class_definition":
			syms.Types = append(syms.Types, e.extractClass(n, path, content))
			return false // Methods are folded into the class, not revisited.
		case "function_definition":
			if !insideDeclaration(n, "class_definition", "function_definition") {
				syms.Callables = append(syms.Callables, e.extractFunction(n, path, content, model.KindFunction))
			}
			return false
		case "import_statement":
			syms.Imports = append(syms.Imports, e.extractImport(n, path, content)...)
		case "import_from_statement":
			syms.Imports = append(syms.Imports, e.extractFromImport(n, path, content))
		}
		return true
	})
	if err != nil {
		return model.FileSymbols{}, err
	}

	return syms, nil
}

// extractClass extracts a class definition with its methods, fields, and
// superclasses.
func (e *pythonExtractor) extractClass(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindClass,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := uint(0); i < uint(supers.ChildCount()); i++ {
			child := supers.Child(i)
			switch child.Kind() {
			case "identifier", "attribute":
				decl.BaseTypes = append(decl.BaseTypes, nodeText(child, content))
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
		case "function_definition":
			decl.Methods = append(decl.Methods, nodeText(child.ChildByFieldName("name"), content))
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil && def.Kind() == "function_definition" {
				decl.Methods = append(decl.Methods, nodeText(def.ChildByFieldName("name"), content))
			}
		case "expression_statement":
			if field, ok := e.classField(child, content); ok {
				decl.Fields = append(decl.Fields, field)
			}
		}
	}
	return decl
}

// classField renders a class-body assignment as a "name: type-or-raw" field
// entry.
func (e *pythonExtractor) classField(stmt *sitter.Node, content string) (string, bool) {
	assign := childByKind(stmt, "assignment")
	if assign == nil {
		return "", false
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return "", false
	}
	name := nodeText(left, content)
	if typ := assign.ChildByFieldName("type"); typ != nil {
		return name + ": " + nodeText(typ, content), true
	}
	return name, true
}

// extractFunction extracts a function definition with parameters, return
// type, async modifier, and decorator window.
func (e *pythonExtractor) extractFunction(node *sitter.Node, path, content string, kind model.CallableKind) model.CallableDecl {
	decl := model.CallableDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        kind,
		SourceFile:  path,
		Line:        nodeLine(node),
		Async:       hasKeywordChild(node, "async"),
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

// extractImport normalizes "import a.b, c as d" into one ImportDecl per
// clause; an alias becomes the sole imported symbol.
func (e *pythonExtractor) extractImport(node *sitter.Node, path, content string) []model.ImportDecl {
	var imports []model.ImportDecl
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name":
			imports = append(imports, model.ImportDecl{
				SourceFile: path,
				Line:       nodeLine(node),
				ModulePath: nodeText(child, content),
				Symbols:    []string{},
			})
		case "aliased_import":
			imports = append(imports, model.ImportDecl{
				SourceFile: path,
				Line:       nodeLine(node),
				ModulePath: nodeText(child.ChildByFieldName("name"), content),
				Symbols:    []string{nodeText(child.ChildByFieldName("alias"), content)},
			})
		}
	}
	return imports
}

// extractFromImport normalizes "from pkg.sub import A, B as C" with the
// raw aliased clause preserved as one symbol.
func (e *pythonExtractor) extractFromImport(node *sitter.Node, path, content string) model.ImportDecl {
	decl := model.ImportDecl{
		SourceFile: path,
		Line:       nodeLine(node),
		ModulePath: nodeText(node.ChildByFieldName("module_name"), content),
		Symbols:    []string{},
		Qualified:  true,
	}
	seenModule := false
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "dotted_name", "relative_import":
			if !seenModule {
				seenModule = true
				continue // module_name field, already captured
			}
			decl.Symbols = append(decl.Symbols, nodeText(child, content))
		case "aliased_import":
			decl.Symbols = append(decl.Symbols, nodeText(child, content))
		case "wildcard_import":
			decl.Symbols = append(decl.Symbols, "*")
		}
	}
	return decl
}
