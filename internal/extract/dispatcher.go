package extract

import (
	"path/filepath"
	"strings"

	"github.com/atlasview/codeatlas/internal/extract/heuristic"
	"github.com/atlasview/codeatlas/internal/extract/parsers"
	"github.com/atlasview/codeatlas/internal/guard"
)

// Dispatcher maps file extensions to extractors in priority order: a
// dedicated precise extractor, then a language-specific regex extractor,
// then the generic keyword extractor. Extractors are built once and reused
// across files.
type Dispatcher struct {
	byExt     map[string]Extractor
	heuristic map[string]Extractor
	generic   Extractor
}

// NewDispatcher builds the extension table with all extractors sharing one
// limit set.
func NewDispatcher(limits guard.Limits) *Dispatcher {
	python := parsers.NewPythonExtractor(limits)
	java := parsers.NewJavaExtractor(limits)
	ts := parsers.NewTypeScriptExtractor(limits)
	tsx := parsers.NewTSXExtractor(limits)
	rust := parsers.NewRustExtractor(limits)
	ruby := parsers.NewRubyExtractor(limits)
	php := parsers.NewPHPExtractor(limits)
	cex := parsers.NewCExtractor(limits)
	golang := parsers.NewGoExtractor(limits)

	js := heuristic.NewJavaScript(limits)
	cpp := heuristic.NewCPP(limits)
	py := heuristic.NewPython(limits)
	generic := heuristic.NewGeneric(limits)

	byExt := map[string]Extractor{
		".py":   python,
		".pyi":  python,
		".java": java,
		".ts":   ts,
		".tsx":  tsx,
		".rs":   rust,
		".rb":   ruby,
		".rake": ruby,
		".php":  php,
		".c":    cex,
		".h":    cex,
		".go":   golang,

		".js":  js,
		".jsx": js,
		".mjs": js,
		".cjs": js,

		".cpp": cpp,
		".cc":  cpp,
		".cxx": cpp,
		".hpp": cpp,
		".hh":  cpp,
	}

	// Recognized languages without any dedicated extractor fall through to
	// keyword guessing.
	for _, ext := range []string{
		".cs", ".kt", ".kts", ".swift", ".scala", ".vb", ".pas", ".dpr",
		".pl", ".lua", ".r", ".m", ".sh", ".ex", ".exs", ".dart", ".zig",
	} {
		byExt[ext] = generic
	}

	return &Dispatcher{
		byExt: byExt,
		heuristic: map[string]Extractor{
			"javascript": js,
			"typescript": js,
			"cpp":        cpp,
			"python":     py,
		},
		generic: generic,
	}
}

// ForFile returns the extractor for a path's extension, or nil when the
// extension is unrecognized. A nil return means skip, not error.
func (d *Dispatcher) ForFile(path string) Extractor {
	return d.byExt[strings.ToLower(filepath.Ext(path))]
}

// FallbackFor returns the regex extractor covering a language, or nil when
// the language has no heuristic tier. Used by recovery after a precise
// extractor fails; never returns the extractor that already ran.
func (d *Dispatcher) FallbackFor(lang string) Extractor {
	return d.heuristic[lang]
}

// Extensions returns every recognized extension, for walker enumeration.
func (d *Dispatcher) Extensions() map[string]bool {
	out := make(map[string]bool, len(d.byExt))
	for ext := range d.byExt {
		out[ext] = true
	}
	return out
}
