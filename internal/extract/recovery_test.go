package extract

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// Test Plan for the recovery wrapper:
// - Pass successful extractions through untouched
// - Downgrade a failed precise extraction to the language's regex tier,
//   keeping the original failure in the result
// - Degrade resource-ceiling failures the same way as parse failures
// - Fall back to the structural probe when no regex tier exists
// - Convert extractor panics into metadata-only results
// - Convert unexpected errors into metadata-only results

func newTestRecovery() *Recovery {
	d := NewDispatcher(guard.DefaultLimits())
	return NewRecovery(d, log.New(io.Discard))
}

func TestRecovery_Success(t *testing.T) {
	t.Parallel()

	r := newTestRecovery()
	d := NewDispatcher(guard.DefaultLimits())

	ex := d.ForFile("ok.py")
	require.NotNil(t, ex)
	fa := r.Run(context.Background(), ex, "ok.py", "class Foo:\n    pass\n")

	assert.Equal(t, "ok.py", fa.Path)
	assert.Equal(t, "python", fa.Language)
	assert.Equal(t, model.MethodPrecise, fa.Method)
	assert.Empty(t, fa.Error)
	require.Len(t, fa.Symbols.Types, 1)
	assert.Equal(t, "Foo", fa.Symbols.Types[0].Name)
}

func TestRecovery_DowngradeToHeuristic(t *testing.T) {
	t.Parallel()

	r := newTestRecovery()
	d := NewDispatcher(guard.DefaultLimits())

	// Malformed enough for the grammar, still legible to the regex tier.
	src := "class UserService extends BaseService {\n  save() {}\n%%%%\n"
	ex := d.ForFile("svc.ts")
	require.NotNil(t, ex)
	fa := r.Run(context.Background(), ex, "svc.ts", src)

	assert.Equal(t, "typescript", fa.Language)
	assert.Equal(t, model.MethodHeuristic, fa.Method)
	assert.NotEmpty(t, fa.Error)
	require.NotEmpty(t, fa.Symbols.Types)
	assert.Equal(t, "UserService", fa.Symbols.Types[0].Name)
}

func TestRecovery_DowngradePython(t *testing.T) {
	t.Parallel()

	r := newTestRecovery()
	d := NewDispatcher(guard.DefaultLimits())

	// The grammar rejects the dangling bracket; the line-anchored
	// patterns still recover the surrounding declarations.
	src := "import os\n\nclass Kept:\n    x = [1,\n\ndef also_kept():\n    pass\n"
	ex := d.ForFile("broken.py")
	require.NotNil(t, ex)
	fa := r.Run(context.Background(), ex, "broken.py", src)

	assert.Equal(t, "python", fa.Language)
	assert.Equal(t, model.MethodHeuristic, fa.Method)
	assert.NotEmpty(t, fa.Error)
	require.Len(t, fa.Symbols.Types, 1)
	assert.Equal(t, "Kept", fa.Symbols.Types[0].Name)
	require.Len(t, fa.Symbols.Callables, 1)
	assert.Equal(t, "also_kept", fa.Symbols.Callables[0].Name)
	require.Len(t, fa.Symbols.Imports, 1)
	assert.Equal(t, "os", fa.Symbols.Imports[0].ModulePath)
}

func TestRecovery_DepthLimitDowngrade(t *testing.T) {
	t.Parallel()

	limits := guard.DefaultLimits()
	limits.MaxDepth = 6
	d := NewDispatcher(limits)
	r := NewRecovery(d, log.New(io.Discard))

	// The class sits at shallow depth; the expression tree blows the
	// ceiling mid-walk.
	src := "class Kept:\n    pass\n\nx = ((((((((((((1))))))))))))\n"
	ex := d.ForFile("deep.py")
	require.NotNil(t, ex)
	fa := r.Run(context.Background(), ex, "deep.py", src)

	assert.Equal(t, model.MethodHeuristic, fa.Method)
	assert.Contains(t, fa.Error, "depth limit")
	require.Len(t, fa.Symbols.Types, 1)
	assert.Equal(t, "Kept", fa.Symbols.Types[0].Name)
}

func TestRecovery_ProbeFallback(t *testing.T) {
	t.Parallel()

	r := newTestRecovery()
	d := NewDispatcher(guard.DefaultLimits())

	// Rust has no regex tier; the probe is the last resort.
	src := "fn broken( {\n    use std::fs;\n"
	ex := d.ForFile("broken.rs")
	require.NotNil(t, ex)
	fa := r.Run(context.Background(), ex, "broken.rs", src)

	assert.Equal(t, model.MethodHeuristic, fa.Method)
	assert.NotEmpty(t, fa.Error)
	assert.Empty(t, fa.Symbols.Types)
	require.NotNil(t, fa.Probe)
	assert.Equal(t, 3, fa.Probe.LineCount)
	assert.True(t, fa.Probe.HasFunctions)
	assert.True(t, fa.Probe.HasImports)
}

type panicExtractor struct{}

func (panicExtractor) Language() string { return "python" }
func (panicExtractor) Method() model.ExtractionMethod { return model.MethodPrecise }
func (panicExtractor) Extract(context.Context, string, string) (model.FileSymbols, error) {
	panic("boom")
}

func TestRecovery_Panic(t *testing.T) {
	t.Parallel()

	r := newTestRecovery()
	fa := r.Run(context.Background(), panicExtractor{}, "x.py", "class A:\n    pass\n")

	require.NotNil(t, fa)
	assert.Contains(t, fa.Error, "boom")
	assert.NotNil(t, fa.Probe)
	assert.Empty(t, fa.Symbols.Types)
}

type failingExtractor struct{}

func (failingExtractor) Language() string { return "ruby" }
func (failingExtractor) Method() model.ExtractionMethod { return model.MethodPrecise }
func (failingExtractor) Extract(context.Context, string, string) (model.FileSymbols, error) {
	return model.FileSymbols{}, errors.New("disk melted")
}

func TestRecovery_UnexpectedError(t *testing.T) {
	t.Parallel()

	r := newTestRecovery()
	fa := r.Run(context.Background(), failingExtractor{}, "x.rb", "class A\nend\n")

	require.NotNil(t, fa)
	assert.Equal(t, "disk melted", fa.Error)
	assert.NotNil(t, fa.Probe)
}
