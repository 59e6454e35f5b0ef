package heuristic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// Test Plan for the generic keyword extractor:
// - Detect type declarations across keyword families with the right kind
// - Detect callables under several function keywords, skipping control words
// - Detect import-like statements from multiple conventions
// - Return empty symbols, not an error, for unmatchable content

const genericFixture = `import System.Collections

class Widget
end

interface Renderer
end

def render(widget)
end

sub Cleanup()
end
`

func TestGeneric_Types(t *testing.T) {
	t.Parallel()

	ex := NewGeneric(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "widget.vb", genericFixture)
	require.NoError(t, err)
	require.Len(t, syms.Types, 2)

	assert.Equal(t, "Widget", syms.Types[0].Name)
	assert.Equal(t, model.KindClass, syms.Types[0].Kind)
	assert.Equal(t, "Renderer", syms.Types[1].Name)
	assert.Equal(t, model.KindInterface, syms.Types[1].Kind)
}

func TestGeneric_Callables(t *testing.T) {
	t.Parallel()

	ex := NewGeneric(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "widget.vb", genericFixture)
	require.NoError(t, err)

	names := make([]string, 0, len(syms.Callables))
	for _, c := range syms.Callables {
		names = append(names, c.Name)
		assert.Equal(t, model.KindProcedure, c.Kind)
	}
	assert.Equal(t, []string{"render", "Cleanup"}, names)
}

func TestGeneric_Imports(t *testing.T) {
	t.Parallel()

	ex := NewGeneric(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "widget.vb", genericFixture)
	require.NoError(t, err)
	require.Len(t, syms.Imports, 1)
	assert.Equal(t, "System.Collections", syms.Imports[0].ModulePath)
}

func TestGeneric_Unmatchable(t *testing.T) {
	t.Parallel()

	ex := NewGeneric(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "data.bin", "\x00\x01\x02 binary blob")
	require.NoError(t, err)
	assert.Empty(t, syms.Types)
	assert.Empty(t, syms.Callables)
	assert.Empty(t, syms.Imports)
}
