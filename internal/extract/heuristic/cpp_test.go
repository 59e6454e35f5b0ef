package heuristic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// Test Plan for the C++ regex extractor:
// - Detect class and struct definitions with access-specified base lists
// - Detect free function definitions while skipping control keywords
// - Detect includes and using-namespace directives

const cppFixture = `#include <vector>
#include "user.h"

using namespace std;

class UserModel : public Base, private Mixin {
public:
    int age;
};

struct Point {
    double x;
    double y;
};

int add(int a, int b) {
    return a + b;
}
`

func TestCPP_Types(t *testing.T) {
	t.Parallel()

	ex := NewCPP(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "model.cpp", cppFixture)
	require.NoError(t, err)
	require.Len(t, syms.Types, 2)

	user := syms.Types[0]
	assert.Equal(t, "UserModel", user.Name)
	assert.Equal(t, model.KindClass, user.Kind)
	assert.Equal(t, []string{"Base", "Mixin"}, user.BaseTypes)

	point := syms.Types[1]
	assert.Equal(t, "Point", point.Name)
	assert.Equal(t, model.KindStruct, point.Kind)
	assert.Empty(t, point.BaseTypes)
}

func TestCPP_Functions(t *testing.T) {
	t.Parallel()

	ex := NewCPP(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "model.cpp", cppFixture)
	require.NoError(t, err)

	names := make([]string, 0, len(syms.Callables))
	for _, c := range syms.Callables {
		names = append(names, c.Name)
		assert.Equal(t, model.KindProcedure, c.Kind)
	}
	assert.Contains(t, names, "add")
	// The return inside add's body must not surface as a function.
	assert.NotContains(t, names, "return")
}

func TestCPP_Imports(t *testing.T) {
	t.Parallel()

	ex := NewCPP(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "model.cpp", cppFixture)
	require.NoError(t, err)

	paths := make([]string, 0, len(syms.Imports))
	for _, imp := range syms.Imports {
		paths = append(paths, imp.ModulePath)
	}
	assert.Equal(t, []string{"vector", "user.h", "std"}, paths)
}
