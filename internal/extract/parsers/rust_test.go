package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// Test Plan for the Rust extractor:
// - Extract structs with typed fields and enums with variants
// - Extract traits with method signatures
// - Attach impl-block methods to the owning struct
// - Record implemented traits as base types
// - Extract free functions with receiver stripped and async detected
// - Normalize use declarations, aliases and scoped lists included

const rustFixture = `use std::collections::HashMap;
use std::io::{Read, Write};
use serde_json as json;

pub struct UserModel {
    name: String,
    age: u32,
}

pub enum Status {
    Active,
    Disabled,
}

pub trait Storage {
    fn load(&self) -> String;
    fn persist(&self);
}

impl UserModel {
    pub fn new(name: String) -> Self {
        UserModel { name, age: 0 }
    }
}

impl Storage for UserModel {
    fn load(&self) -> String {
        self.name.clone()
    }

    fn persist(&self) {}
}

pub async fn fetch_user(id: u32) -> UserModel {
    UserModel::new(String::new())
}

fn helper(x: i32) -> i32 {
    x
}
`

func TestRustExtractor_Types(t *testing.T) {
	t.Parallel()

	ex := NewRustExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "fixture.rs", rustFixture)
	require.NoError(t, err)
	require.Len(t, syms.Types, 3)

	s := syms.Types[0]
	assert.Equal(t, "UserModel", s.Name)
	assert.Equal(t, model.KindStruct, s.Kind)
	assert.Equal(t, []string{"name: String", "age: u32"}, s.Fields)
	// Impl methods fold into the struct; the trait impl adds a base type.
	assert.Equal(t, []string{"new", "load", "persist"}, s.Methods)
	assert.Equal(t, []string{"Storage"}, s.BaseTypes)

	enum := syms.Types[1]
	assert.Equal(t, "Status", enum.Name)
	assert.Equal(t, model.KindEnum, enum.Kind)
	assert.Equal(t, []string{"Active", "Disabled"}, enum.Fields)

	trait := syms.Types[2]
	assert.Equal(t, "Storage", trait.Name)
	assert.Equal(t, model.KindTrait, trait.Kind)
	assert.Equal(t, []string{"load", "persist"}, trait.Methods)
}

func TestRustExtractor_Functions(t *testing.T) {
	t.Parallel()

	ex := NewRustExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "fixture.rs", rustFixture)
	require.NoError(t, err)

	// Impl and trait methods never surface as top-level callables.
	require.Len(t, syms.Callables, 2)

	fetch := syms.Callables[0]
	assert.Equal(t, "fetch_user", fetch.Name)
	assert.True(t, fetch.Async)
	assert.Equal(t, []string{"id: u32"}, fetch.Parameters)

	helper := syms.Callables[1]
	assert.Equal(t, "helper", helper.Name)
	assert.False(t, helper.Async)
	assert.Equal(t, "i32", helper.ReturnType)
}

func TestRustExtractor_Uses(t *testing.T) {
	t.Parallel()

	ex := NewRustExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "fixture.rs", rustFixture)
	require.NoError(t, err)
	require.Len(t, syms.Imports, 3)

	assert.Equal(t, "std::collections::HashMap", syms.Imports[0].ModulePath)

	assert.Equal(t, "std::io", syms.Imports[1].ModulePath)
	assert.Equal(t, []string{"Read", "Write"}, syms.Imports[1].Symbols)
	assert.True(t, syms.Imports[1].Qualified)

	assert.Equal(t, "serde_json", syms.Imports[2].ModulePath)
	assert.Equal(t, []string{"json"}, syms.Imports[2].Symbols)
}
