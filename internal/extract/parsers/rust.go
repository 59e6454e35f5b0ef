package parsers

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/atlasview/codeatlas/internal/extract/textscan"
	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// rustExtractor extracts Rust declarations.
type rustExtractor struct {
	*treeSitterExtractor
}

// NewRustExtractor creates a new Rust extractor.
func NewRustExtractor(limits guard.Limits) *rustExtractor {
	lang := sitter.NewLanguage(rust.Language())
	return &rustExtractor{
		treeSitterExtractor: newTreeSitterExtractor(lang, "rust", limits),
	}
}

// implBlock is a pending impl whose methods attach to the named type after
// the walk completes.
type implBlock struct {
	typeName  string
	traitName string
	methods   []string
}

// Extract walks the Rust syntax tree: structs, enums, traits, impl blocks
// (methods fold into the implemented type), free functions, and use
// declarations.
func (e *rustExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
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

	var impls []implBlock

	g := guard.NewWalkGuard(e.limits)
	err = walk(root, g, 0, func(n *sitter.Node, depth int) bool {
		switch n.Kind() {
		case "struct_item":
			syms.Types = append(syms.Types, e.extractStruct(n, path, content))
			return false
		case "enum_item":
			syms.Types = append(syms.Types, e.extractEnum(n, path, content))
			return false
		case "trait_item":
			syms.Types = append(syms.Types, e.extractTrait(n, path, content))
			return false
		case "impl_item":
			impls = append(impls, e.extractImpl(n, content))
			return false
		case "function_item":
			if !insideDeclaration(n, "impl_item", "trait_item", "function_item") {
				syms.Callables = append(syms.Callables, e.extractFunction(n, path, content))
			}
			return false
		case "use_declaration":
			syms.Imports = append(syms.Imports, e.extractUse(n, path, content))
			return false
		}
		return true
	})
	if err != nil {
		return model.FileSymbols{}, err
	}

	attachImpls(syms.Types, impls)
	return syms, nil
}

// attachImpls folds impl-block methods into their owning type and records
// implemented traits as base types. Impls for types declared elsewhere are
// dropped; cross-file resolution is out of scope.
func attachImpls(types []model.TypeDecl, impls []implBlock) {
	byName := make(map[string]*model.TypeDecl, len(types))
	for i := range types {
		byName[types[i].Name] = &types[i]
	}
	for _, impl := range impls {
		decl, ok := byName[impl.typeName]
		if !ok {
			continue
		}
		decl.Methods = append(decl.Methods, impl.methods...)
		if impl.traitName != "" {
			decl.BaseTypes = append(decl.BaseTypes, impl.traitName)
		}
	}
}

// extractStruct extracts a struct; Rust has no inheritance, so BaseTypes
// stays empty until trait impls attach.
func (e *rustExtractor) extractStruct(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindStruct,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, field := range childrenByKind(body, "field_declaration") {
			name := nodeText(field.ChildByFieldName("name"), content)
			typ := nodeText(field.ChildByFieldName("type"), content)
			decl.Fields = append(decl.Fields, name+": "+typ)
		}
	}
	return decl
}

// extractEnum extracts an enum; variants become fields.
func (e *rustExtractor) extractEnum(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindEnum,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, variant := range childrenByKind(body, "enum_variant") {
			decl.Fields = append(decl.Fields, nodeText(variant.ChildByFieldName("name"), content))
		}
	}
	return decl
}

// extractTrait extracts a trait with its method signatures only.
func (e *rustExtractor) extractTrait(node *sitter.Node, path, content string) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindTrait,
		SourceFile:  path,
		Line:        nodeLine(node),
		BaseTypes:   []string{},
		Annotations: textscan.Annotations(content, int(node.StartByte())),
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < uint(body.ChildCount()); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "function_item", "function_signature_item":
				decl.Methods = append(decl.Methods, nodeText(child.ChildByFieldName("name"), content))
			}
		}
	}
	return decl
}

// extractImpl collects the method names of an impl block and the trait it
// implements, if any.
func (e *rustExtractor) extractImpl(node *sitter.Node, content string) implBlock {
	impl := implBlock{
		typeName: nodeText(node.ChildByFieldName("type"), content),
	}
	if trait := node.ChildByFieldName("trait"); trait != nil {
		impl.traitName = nodeText(trait, content)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, fn := range childrenByKind(body, "function_item") {
			impl.methods = append(impl.methods, nodeText(fn.ChildByFieldName("name"), content))
		}
	}
	return impl
}

// extractFunction extracts a free function; self receivers are stripped
// from parameters and async is detected from the modifier preceding fn.
func (e *rustExtractor) extractFunction(node *sitter.Node, path, content string) model.CallableDecl {
	decl := model.CallableDecl{
		Name:        nodeText(node.ChildByFieldName("name"), content),
		Kind:        model.KindFunction,
		SourceFile:  path,
		Line:        nodeLine(node),
		Async:       isAsyncFn(node, content),
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

// isAsyncFn reports whether the async modifier precedes the fn keyword.
// The grammar groups modifiers in a wrapper node, so the header text is
// checked directly.
func isAsyncFn(node *sitter.Node, content string) bool {
	text := nodeText(node, content)
	if i := strings.Index(text, "fn "); i >= 0 {
		return strings.Contains(text[:i], "async")
	}
	return false
}

// extractUse normalizes a use declaration. A scoped list keeps each raw
// clause as one symbol; "use x as y" records the alias as the sole symbol.
func (e *rustExtractor) extractUse(node *sitter.Node, path, content string) model.ImportDecl {
	decl := model.ImportDecl{
		SourceFile: path,
		Line:       nodeLine(node),
		Symbols:    []string{},
	}

	arg := node.ChildByFieldName("argument")
	if arg == nil {
		raw := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(nodeText(node, content), "use")), ";")
		decl.ModulePath = strings.TrimSpace(raw)
		return decl
	}

	switch arg.Kind() {
	case "scoped_use_list":
		decl.ModulePath = nodeText(arg.ChildByFieldName("path"), content)
		decl.Qualified = true
		if list := arg.ChildByFieldName("list"); list != nil {
			for i := uint(0); i < uint(list.ChildCount()); i++ {
				child := list.Child(i)
				switch child.Kind() {
				case "identifier", "scoped_identifier", "use_as_clause", "self":
					decl.Symbols = append(decl.Symbols, nodeText(child, content))
				}
			}
		}
	case "use_as_clause":
		decl.ModulePath = nodeText(arg.ChildByFieldName("path"), content)
		if alias := arg.ChildByFieldName("alias"); alias != nil {
			decl.Symbols = append(decl.Symbols, nodeText(alias, content))
		}
	default:
		decl.ModulePath = nodeText(arg, content)
	}
	return decl
}
