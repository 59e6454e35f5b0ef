package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// Test Plan for the PHP extractor:
// - Extract classes with extends/implements, methods, and typed properties
// - Extract interfaces and traits
// - Extract top-level functions with parameters and return type
// - Normalize use declarations, group imports and aliases included

const phpFixture = `<?php

namespace App;

use App\Models\UserModel;
use App\Contracts\{Storable, Comparable};
use Very\Long\Name as Short;

class UserService extends BaseService implements Storable
{
    private string $name;

    public function save(): bool
    {
        return true;
    }

    public function reload(): void
    {
    }
}

interface Storable
{
    public function persist(): bool;
}

trait Timestamps
{
    public function touch(): void
    {
    }
}

function top_level(int $a, string $b): int
{
    return $a;
}
`

func TestPHPExtractor_Class(t *testing.T) {
	t.Parallel()

	ex := NewPHPExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "fixture.php", phpFixture)
	require.NoError(t, err)
	require.Len(t, syms.Types, 3)

	cls := syms.Types[0]
	assert.Equal(t, "UserService", cls.Name)
	assert.Equal(t, model.KindClass, cls.Kind)
	assert.Equal(t, []string{"BaseService", "Storable"}, cls.BaseTypes)
	assert.Equal(t, []string{"save", "reload"}, cls.Methods)
	assert.Equal(t, []string{"name: string"}, cls.Fields)

	iface := syms.Types[1]
	assert.Equal(t, "Storable", iface.Name)
	assert.Equal(t, model.KindInterface, iface.Kind)
	assert.Equal(t, []string{"persist"}, iface.Methods)

	trait := syms.Types[2]
	assert.Equal(t, "Timestamps", trait.Name)
	assert.Equal(t, model.KindTrait, trait.Kind)
	assert.Equal(t, []string{"touch"}, trait.Methods)
}

func TestPHPExtractor_Function(t *testing.T) {
	t.Parallel()

	ex := NewPHPExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "fixture.php", phpFixture)
	require.NoError(t, err)

	require.Len(t, syms.Callables, 1)
	fn := syms.Callables[0]
	assert.Equal(t, "top_level", fn.Name)
	assert.Equal(t, []string{"int $a", "string $b"}, fn.Parameters)
	assert.Equal(t, "int", fn.ReturnType)
}

func TestPHPExtractor_Uses(t *testing.T) {
	t.Parallel()

	ex := NewPHPExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "fixture.php", phpFixture)
	require.NoError(t, err)
	require.Len(t, syms.Imports, 3)

	assert.Equal(t, `App\Models\UserModel`, syms.Imports[0].ModulePath)

	assert.Equal(t, `App\Contracts`, syms.Imports[1].ModulePath)
	assert.Equal(t, []string{"Storable", "Comparable"}, syms.Imports[1].Symbols)
	assert.True(t, syms.Imports[1].Qualified)

	assert.Equal(t, `Very\Long\Name`, syms.Imports[2].ModulePath)
	assert.Equal(t, []string{"Short"}, syms.Imports[2].Symbols)
}
