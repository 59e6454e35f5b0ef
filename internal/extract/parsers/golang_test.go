package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// Test Plan for the Go extractor:
// - Extract struct types with named fields and embedded base types
// - Extract interface types with method names and embedded interfaces
// - Fold receiver methods into the matching same-file type declaration
// - Extract top-level functions with parameters and multi-value returns
// - Preserve import paths and aliases
// - Report parse failures as ParseError

const goFixture = `package store

import (
	"context"
	stdjson "encoding/json"
)

type Base struct {
	ID string
}

type UserModel struct {
	Base
	Name string
	Age  int
}

func (m *UserModel) Save(ctx context.Context) error {
	return nil
}

func (m UserModel) Reset() {}

type Repository interface {
	stdjson.Marshaler
	Load(id string) (*UserModel, error)
}

func Open(path string, readOnly bool) (*UserModel, error) {
	return nil, nil
}
`

func TestGoExtractor_Types(t *testing.T) {
	t.Parallel()

	ex := NewGoExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "fixture.go", goFixture)
	require.NoError(t, err)
	require.Len(t, syms.Types, 3)

	user := syms.Types[1]
	assert.Equal(t, "UserModel", user.Name)
	assert.Equal(t, model.KindStruct, user.Kind)
	assert.Equal(t, []string{"Base"}, user.BaseTypes)
	assert.Equal(t, []string{"Name: string", "Age: int"}, user.Fields)
	// Pointer and value receivers both attach.
	assert.Equal(t, []string{"Save", "Reset"}, user.Methods)

	repo := syms.Types[2]
	assert.Equal(t, "Repository", repo.Name)
	assert.Equal(t, model.KindInterface, repo.Kind)
	assert.Equal(t, []string{"stdjson.Marshaler"}, repo.BaseTypes)
	assert.Equal(t, []string{"Load"}, repo.Methods)
}

func TestGoExtractor_Functions(t *testing.T) {
	t.Parallel()

	ex := NewGoExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "fixture.go", goFixture)
	require.NoError(t, err)

	// Receiver methods live on their types, not here.
	require.Len(t, syms.Callables, 1)
	open := syms.Callables[0]
	assert.Equal(t, "Open", open.Name)
	assert.Equal(t, model.KindFunction, open.Kind)
	assert.Equal(t, []string{"path string", "readOnly bool"}, open.Parameters)
	assert.Equal(t, "(*UserModel, error)", open.ReturnType)
}

func TestGoExtractor_Imports(t *testing.T) {
	t.Parallel()

	ex := NewGoExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "fixture.go", goFixture)
	require.NoError(t, err)
	require.Len(t, syms.Imports, 2)

	assert.Equal(t, "context", syms.Imports[0].ModulePath)
	assert.Empty(t, syms.Imports[0].Symbols)

	assert.Equal(t, "encoding/json", syms.Imports[1].ModulePath)
	assert.Equal(t, []string{"stdjson"}, syms.Imports[1].Symbols)
}

func TestGoExtractor_Malformed(t *testing.T) {
	t.Parallel()

	ex := NewGoExtractor(guard.DefaultLimits())
	_, err := ex.Extract(context.Background(), "broken.go", "package x\nfunc {")
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "go", perr.Language)
}
