// Package model defines the common structural schema every language extractor
// normalizes into. All extractors, precise or heuristic, produce the same
// shapes so downstream consumers never special-case a language or an
// extraction tier.
package model

// TypeKind classifies a type declaration.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindStruct    TypeKind = "struct"
	KindInterface TypeKind = "interface"
	KindTrait     TypeKind = "trait"
	KindEnum      TypeKind = "enum"
	KindModule    TypeKind = "module"
	KindRecord    TypeKind = "record"
)

// CallableKind classifies a callable declaration.
type CallableKind string

const (
	KindFunction      CallableKind = "function"
	KindMethod        CallableKind = "method"
	KindProcedure     CallableKind = "procedure"
	KindArrowFunction CallableKind = "arrow-function"
)

// ExtractionMethod records which tier produced a FileAnalysis.
type ExtractionMethod string

const (
	MethodPrecise   ExtractionMethod = "precise"
	MethodHeuristic ExtractionMethod = "heuristic"
)

// TypeDecl is a normalized type declaration (class, struct, interface, ...).
// Methods and Fields preserve source declaration order and are never
// deduplicated. Fields hold "name: type" strings, or raw declaration text
// when the source language provides no separable type.
type TypeDecl struct {
	Name        string   `json:"name"`
	Kind        TypeKind `json:"kind"`
	SourceFile  string   `json:"source_file"`
	Line        int      `json:"declaration_line"`
	Methods     []string `json:"methods"`
	Fields      []string `json:"fields"`
	BaseTypes   []string `json:"base_types"`
	Annotations []string `json:"annotations"`
}

// CallableDecl is a normalized function, method, or procedure declaration.
// Parameters hold raw parameter text in declaration order with any receiver
// or self parameter stripped.
type CallableDecl struct {
	Name        string       `json:"name"`
	Kind        CallableKind `json:"kind"`
	SourceFile  string       `json:"source_file"`
	Line        int          `json:"declaration_line"`
	Parameters  []string     `json:"parameters"`
	ReturnType  string       `json:"return_type,omitempty"`
	Async       bool         `json:"is_asynchronous"`
	Annotations []string     `json:"annotations"`
}

// ImportDecl is a normalized import/include/use/require declaration.
// ModulePath preserves the language-specific syntax. Symbols preserves the
// raw source text of each imported name: an aliased clause stays one element
// ("B as C"), and an aliased module import with no symbol list records the
// alias as the sole symbol. Qualified is true for "from X import Y"-style
// constructs that name specific symbols.
type ImportDecl struct {
	SourceFile string   `json:"source_file"`
	Line       int      `json:"declaration_line"`
	ModulePath string   `json:"module_path"`
	Symbols    []string `json:"imported_symbols"`
	Qualified  bool     `json:"is_qualified_import"`
}

// FileSymbols is the raw output of one extractor run over one file.
type FileSymbols struct {
	Types     []TypeDecl     `json:"types"`
	Callables []CallableDecl `json:"callables"`
	Imports   []ImportDecl   `json:"imports"`
}

// Probe is the minimal structural fallback produced when extraction fails
// outright: coarse presence booleans plus file metadata.
type Probe struct {
	LineCount    int    `json:"line_count"`
	Size         int    `json:"size"`
	Extension    string `json:"extension,omitempty"`
	HasClasses   bool   `json:"has_classes"`
	HasFunctions bool   `json:"has_functions"`
	HasImports   bool   `json:"has_imports"`
}

// FileAnalysis aggregates one file's extraction. A failed extraction still
// yields a FileAnalysis, with Error set and possibly empty symbol lists.
type FileAnalysis struct {
	Path     string           `json:"path"`
	Language string           `json:"language"`
	Method   ExtractionMethod `json:"extraction_method"`
	Symbols  FileSymbols      `json:"symbols"`
	Probe    *Probe           `json:"probe,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// LanguageStats is a per-language breakdown within a ProjectAnalysis.
type LanguageStats struct {
	Files     int `json:"files"`
	Types     int `json:"types"`
	Callables int `json:"callables"`
}

// ProjectAnalysis is the project-level aggregate for one analysis run.
// Paths preserves discovery order for the Files map. The value is treated
// as immutable once returned by the walker; re-analysis rebuilds it
// wholesale.
type ProjectAnalysis struct {
	Root           string                    `json:"root"`
	Paths          []string                  `json:"-"`
	Files          map[string]*FileAnalysis  `json:"files"`
	Languages      map[string]*LanguageStats `json:"languages"`
	TotalFiles     int                       `json:"total_files"`
	TotalTypes     int                       `json:"total_types"`
	TotalCallables int                       `json:"total_callables"`
	Successful     int                       `json:"successful"`
	Failed         int                       `json:"failed"`
	Skipped        int                       `json:"skipped"`
	CacheHits      int                       `json:"cached"`
	Errors         []string                  `json:"errors"`
}

// LanguagesDetected returns the detected language tags in first-seen order.
func (p *ProjectAnalysis) LanguagesDetected() []string {
	seen := make(map[string]bool)
	var langs []string
	for _, path := range p.Paths {
		fa := p.Files[path]
		if fa == nil || seen[fa.Language] {
			continue
		}
		seen[fa.Language] = true
		langs = append(langs, fa.Language)
	}
	return langs
}
