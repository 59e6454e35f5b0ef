package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/guard"
	"github.com/atlasview/codeatlas/internal/model"
)

// Test Plan for the Java extractor:
// - Extract classes with superclass, interfaces, methods, and fields
// - Extract interfaces with method signatures
// - Extract enums with constants
// - Extract records with component fields
// - Capture annotations preceding a declaration
// - Normalize import statements

const javaFixture = `package demo;

import java.util.List;
import static java.util.Collections.emptyList;

@Entity
public class UserModel extends Base implements Comparable, Serializable {
    private String name;
    private int age;

    public UserModel(String name) {
        this.name = name;
    }

    public String getName() {
        return name;
    }
}

interface Repository {
    void save();
    List findAll();
}

enum Status {
    ACTIVE,
    DISABLED;

    public boolean usable() {
        return this == ACTIVE;
    }
}

record Point(int x, int y) {}
`

func TestJavaExtractor_Class(t *testing.T) {
	t.Parallel()

	ex := NewJavaExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "Fixture.java", javaFixture)
	require.NoError(t, err)
	require.Len(t, syms.Types, 4)

	cls := syms.Types[0]
	assert.Equal(t, "UserModel", cls.Name)
	assert.Equal(t, model.KindClass, cls.Kind)
	assert.Equal(t, []string{"Base", "Comparable", "Serializable"}, cls.BaseTypes)
	assert.Equal(t, []string{"UserModel", "getName"}, cls.Methods)
	assert.Contains(t, cls.Fields, "name: String")
	assert.Contains(t, cls.Fields, "age: int")
	assert.Contains(t, cls.Annotations, "@Entity")
}

func TestJavaExtractor_InterfaceEnumRecord(t *testing.T) {
	t.Parallel()

	ex := NewJavaExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "Fixture.java", javaFixture)
	require.NoError(t, err)
	require.Len(t, syms.Types, 4)

	iface := syms.Types[1]
	assert.Equal(t, "Repository", iface.Name)
	assert.Equal(t, model.KindInterface, iface.Kind)
	assert.Equal(t, []string{"save", "findAll"}, iface.Methods)

	enum := syms.Types[2]
	assert.Equal(t, "Status", enum.Name)
	assert.Equal(t, model.KindEnum, enum.Kind)
	assert.Equal(t, []string{"ACTIVE", "DISABLED"}, enum.Fields)
	assert.Contains(t, enum.Methods, "usable")

	rec := syms.Types[3]
	assert.Equal(t, "Point", rec.Name)
	assert.Equal(t, model.KindRecord, rec.Kind)
	assert.Equal(t, []string{"x: int", "y: int"}, rec.Fields)
}

func TestJavaExtractor_Imports(t *testing.T) {
	t.Parallel()

	ex := NewJavaExtractor(guard.DefaultLimits())
	syms, err := ex.Extract(context.Background(), "Fixture.java", javaFixture)
	require.NoError(t, err)

	require.Len(t, syms.Imports, 2)
	assert.Equal(t, "java.util.List", syms.Imports[0].ModulePath)
	assert.Equal(t, "java.util.Collections.emptyList", syms.Imports[1].ModulePath)
}
