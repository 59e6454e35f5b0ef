package textscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for the textscan helpers:
// - LineAt counts 1-based lines and clamps out-of-range offsets
// - Annotations finds decorator syntax in the preceding window only
// - Probe reports line count, size, and coarse presence booleans
// - SplitParams respects nested brackets and trims elements
// - StripReceiver drops self/cls/this receivers in their language forms

func TestLineAt(t *testing.T) {
	t.Parallel()

	content := "one\ntwo\nthree"
	assert.Equal(t, 1, LineAt(content, 0))
	assert.Equal(t, 1, LineAt(content, 3))
	assert.Equal(t, 2, LineAt(content, 4))
	assert.Equal(t, 3, LineAt(content, len(content)))
	assert.Equal(t, 3, LineAt(content, len(content)+100))
}

func TestAnnotations(t *testing.T) {
	t.Parallel()

	content := "@register\n@app.route(\"/users\")\ndef handler():\n    pass\n"
	off := len("@register\n@app.route(\"/users\")\n")
	assert.Equal(t, []string{"@register", `@app.route("/users")`}, Annotations(content, off))

	// The window does not look past the declaration offset.
	assert.Empty(t, Annotations(content, 0))
}

func TestProbe(t *testing.T) {
	t.Parallel()

	p := Probe("app.py", "import os\n\nclass Foo:\n    def bar(self):\n        pass\n")
	assert.Equal(t, 6, p.LineCount)
	assert.Equal(t, ".py", p.Extension)
	assert.True(t, p.HasClasses)
	assert.True(t, p.HasFunctions)
	assert.True(t, p.HasImports)

	empty := Probe("notes.txt", "plain text only")
	assert.Equal(t, 1, empty.LineCount)
	assert.False(t, empty.HasClasses)
	assert.False(t, empty.HasFunctions)
	assert.False(t, empty.HasImports)
}

func TestSplitParams(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SplitParams(""))
	assert.Nil(t, SplitParams("   "))
	assert.Equal(t, []string{"a", "b"}, SplitParams("a, b"))
	assert.Equal(t,
		[]string{"items: Dict[str, int]", "default=(1, 2)"},
		SplitParams("items: Dict[str, int], default=(1, 2)"))
	assert.Equal(t,
		[]string{"cb: Map<String, List<Integer>>", "n: int"},
		SplitParams("cb: Map<String, List<Integer>>, n: int"))
}

func TestStripReceiver(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"x"}, StripReceiver([]string{"self", "x"}))
	assert.Equal(t, []string{"x"}, StripReceiver([]string{"cls", "x"}))
	assert.Equal(t, []string{"x"}, StripReceiver([]string{"&self", "x"}))
	assert.Equal(t, []string{"x"}, StripReceiver([]string{"&mut self", "x"}))
	assert.Equal(t, []string{"x"}, StripReceiver([]string{"self: Widget", "x"}))
	assert.Equal(t, []string{"a", "b"}, StripReceiver([]string{"a", "b"}))
	assert.Empty(t, StripReceiver(nil))
}
