package parsers

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// goExtractor extracts Go declarations with the native parser instead of a
// grammar binding. Methods declared on a receiver fold into the receiver's
// type declaration when it lives in the same file.
type goExtractor struct {
	limits guard.Limits
}

// NewGoExtractor creates a new Go extractor.
func NewGoExtractor(limits guard.Limits) *goExtractor {
	return &goExtractor{limits: limits}
}

func (e *goExtractor) Language() string { return "go" }

func (e *goExtractor) Method() model.ExtractionMethod { return model.MethodPrecise }

func (e *goExtractor) Extract(ctx context.Context, path string, content string) (model.FileSymbols, error) {
	var syms model.FileSymbols

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.SkipObjectResolution)
	if err != nil {
		return syms, &ParseError{Language: "go", Detail: err.Error()}
	}

	type pendingMethod struct {
		recv string
		name string
	}
	var methods []pendingMethod

	for _, d := range file.Decls {
		if err := ctx.Err(); err != nil {
			return model.FileSymbols{}, err
		}
		switch decl := d.(type) {
		case *ast.GenDecl:
			switch decl.Tok {
			case token.TYPE:
				for _, spec := range decl.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					syms.Types = append(syms.Types, e.extractType(fset, path, ts))
				}
			case token.IMPORT:
				for _, spec := range decl.Specs {
					is, ok := spec.(*ast.ImportSpec)
					if !ok {
						continue
					}
					syms.Imports = append(syms.Imports, e.extractImport(fset, path, is))
				}
			}
		case *ast.FuncDecl:
			if decl.Recv != nil && len(decl.Recv.List) > 0 {
				methods = append(methods, pendingMethod{
					recv: receiverTypeName(decl.Recv.List[0].Type),
					name: decl.Name.Name,
				})
				continue
			}
			syms.Callables = append(syms.Callables, e.extractFunc(fset, path, decl))
		}
	}

	byName := make(map[string]*model.TypeDecl, len(syms.Types))
	for i := range syms.Types {
		byName[syms.Types[i].Name] = &syms.Types[i]
	}
	for _, m := range methods {
		if decl, ok := byName[m.recv]; ok {
			decl.Methods = append(decl.Methods, m.name)
		}
	}
	return syms, nil
}

func (e *goExtractor) extractType(fset *token.FileSet, path string, ts *ast.TypeSpec) model.TypeDecl {
	decl := model.TypeDecl{
		Name:        ts.Name.Name,
		SourceFile:  path,
		Line:        fset.Position(ts.Pos()).Line,
		BaseTypes:   []string{},
		Annotations: []string{},
	}
	switch t := ts.Type.(type) {
	case *ast.StructType:
		decl.Kind = model.KindStruct
		for _, field := range t.Fields.List {
			typ := exprString(field.Type)
			if len(field.Names) == 0 {
				// Embedded field; treat as a base type.
				decl.BaseTypes = append(decl.BaseTypes, typ)
				continue
			}
			for _, name := range field.Names {
				decl.Fields = append(decl.Fields, name.Name+": "+typ)
			}
		}
	case *ast.InterfaceType:
		decl.Kind = model.KindInterface
		for _, m := range t.Methods.List {
			if len(m.Names) == 0 {
				decl.BaseTypes = append(decl.BaseTypes, exprString(m.Type))
				continue
			}
			for _, name := range m.Names {
				decl.Methods = append(decl.Methods, name.Name)
			}
		}
	default:
		decl.Kind = model.KindStruct
	}
	return decl
}

func (e *goExtractor) extractFunc(fset *token.FileSet, path string, fn *ast.FuncDecl) model.CallableDecl {
	decl := model.CallableDecl{
		Name:        fn.Name.Name,
		Kind:        model.KindFunction,
		SourceFile:  path,
		Line:        fset.Position(fn.Pos()).Line,
		Annotations: []string{},
	}
	if fn.Type.Params != nil {
		for _, p := range fn.Type.Params.List {
			typ := exprString(p.Type)
			if len(p.Names) == 0 {
				decl.Parameters = append(decl.Parameters, typ)
				continue
			}
			for _, name := range p.Names {
				decl.Parameters = append(decl.Parameters, name.Name+" "+typ)
			}
		}
	}
	if fn.Type.Results != nil && len(fn.Type.Results.List) > 0 {
		var rets []string
		for _, r := range fn.Type.Results.List {
			rets = append(rets, exprString(r.Type))
		}
		decl.ReturnType = strings.Join(rets, ", ")
		if len(rets) > 1 {
			decl.ReturnType = "(" + decl.ReturnType + ")"
		}
	}
	return decl
}

func (e *goExtractor) extractImport(fset *token.FileSet, path string, is *ast.ImportSpec) model.ImportDecl {
	decl := model.ImportDecl{
		SourceFile: path,
		Line:       fset.Position(is.Pos()).Line,
		ModulePath: strings.Trim(is.Path.Value, `"`),
		Symbols:    []string{},
	}
	if is.Name != nil {
		decl.Symbols = append(decl.Symbols, is.Name.Name)
	}
	return decl
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// exprString renders a type expression compactly. Unusual shapes fall back
// to a generic placeholder rather than panicking on new AST nodes.
func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.ChanType:
		return "chan " + exprString(t.Value)
	case *ast.FuncType:
		return "func"
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.StructType:
		return "struct{}"
	case *ast.Ellipsis:
		return "..." + exprString(t.Elt)
	case *ast.IndexExpr:
		return exprString(t.X) + "[" + exprString(t.Index) + "]"
	}
	return "any"
}
