package heuristic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// Test Plan for the Python regex extractor:
// - Detect module-level classes with their base lists
// - Detect module-level plain and async defs with receiver stripped
// - Detect plain, aliased, and from-style imports
// - Ignore nested definitions, which are not line-anchored
// - Still recover declarations from structurally broken content

const pyFixture = `import os
import numpy as np
from pkg.sub import A, B as C

class UserModel(Base, Mixin):
    def save(self):
        pass

def top_level(a, b=1):
    return a + b

async def fetch(url):
    return url
`

func TestPython_Classes(t *testing.T) {
	t.Parallel()

	ex := NewPython(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "app.py", pyFixture)
	require.NoError(t, err)
	require.Len(t, syms.Types, 1)

	user := syms.Types[0]
	assert.Equal(t, "UserModel", user.Name)
	assert.Equal(t, model.KindClass, user.Kind)
	assert.Equal(t, []string{"Base", "Mixin"}, user.BaseTypes)
	assert.Equal(t, 5, user.Line)
}

func TestPython_Functions(t *testing.T) {
	t.Parallel()

	ex := NewPython(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "app.py", pyFixture)
	require.NoError(t, err)

	// save is indented inside the class and stays invisible to this tier.
	require.Len(t, syms.Callables, 2)

	top := syms.Callables[0]
	assert.Equal(t, "top_level", top.Name)
	assert.Equal(t, []string{"a", "b=1"}, top.Parameters)
	assert.False(t, top.Async)

	fetch := syms.Callables[1]
	assert.Equal(t, "fetch", fetch.Name)
	assert.True(t, fetch.Async)
}

func TestPython_Imports(t *testing.T) {
	t.Parallel()

	ex := NewPython(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "app.py", pyFixture)
	require.NoError(t, err)
	require.Len(t, syms.Imports, 3)

	assert.Equal(t, "os", syms.Imports[0].ModulePath)
	assert.Empty(t, syms.Imports[0].Symbols)

	assert.Equal(t, "numpy", syms.Imports[1].ModulePath)
	assert.Equal(t, []string{"np"}, syms.Imports[1].Symbols)

	from := syms.Imports[2]
	assert.Equal(t, "pkg.sub", from.ModulePath)
	assert.True(t, from.Qualified)
	assert.Equal(t, []string{"A", "B as C"}, from.Symbols)
}

func TestPython_BrokenContent(t *testing.T) {
	t.Parallel()

	// Unbalanced brackets break the grammar but not line-anchored
	// patterns.
	src := "class Recovered:\n    x = [1, 2\n\ndef still_here():\n    pass\n"
	ex := NewPython(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "broken.py", src)
	require.NoError(t, err)

	require.Len(t, syms.Types, 1)
	assert.Equal(t, "Recovered", syms.Types[0].Name)
	require.Len(t, syms.Callables, 1)
	assert.Equal(t, "still_here", syms.Callables[0].Name)
}
