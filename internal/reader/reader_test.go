package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/guard"
)

// Test Plan for reader:
// - Read plain UTF-8 content
// - Strip a UTF-8 BOM
// - Decode Windows-1252 content that is not valid UTF-8
// - Decode the 0x80-0x9F range as Windows-1252 glyphs, not Latin-1 controls
// - Reject missing paths and directories without error
// - Reject files over the size ceiling

func newTestReader() *Reader {
	return New(guard.DefaultLimits(), nil)
}

func TestReader_UTF8(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("def f():\n    pass\n"), 0644))

	content, ok := newTestReader().Read(path)
	require.True(t, ok)
	assert.Contains(t, content, "def f()")
}

func TestReader_BOM(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bom.py")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x = 1")...)
	require.NoError(t, os.WriteFile(path, data, 0644))

	content, ok := newTestReader().Read(path)
	require.True(t, ok)
	assert.Equal(t, "x = 1", content)
}

func TestReader_SingleByteFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "latin.py")
	// 0xE9 is é in both Windows-1252 and Latin-1, and invalid as a
	// standalone UTF-8 byte.
	require.NoError(t, os.WriteFile(path, []byte{'#', ' ', 0xE9, '\n'}, 0644))

	content, ok := newTestReader().Read(path)
	require.True(t, ok)
	assert.Contains(t, content, "é")
}

func TestReader_Windows1252Quotes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cp1252.py")
	// 0x93 and 0x94 are curly quotes in Windows-1252 but C1 control
	// characters in Latin-1.
	require.NoError(t, os.WriteFile(path, []byte{'#', ' ', 0x93, 'q', 0x94, '\n'}, 0644))

	content, ok := newTestReader().Read(path)
	require.True(t, ok)
	assert.Contains(t, content, "“q”")
	assert.NotContains(t, content, "")
}

func TestReader_Missing(t *testing.T) {
	t.Parallel()

	_, ok := newTestReader().Read(filepath.Join(t.TempDir(), "nope.py"))
	assert.False(t, ok)
}

func TestReader_Directory(t *testing.T) {
	t.Parallel()

	_, ok := newTestReader().Read(t.TempDir())
	assert.False(t, ok)
}

func TestReader_TooLarge(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "big.py")
	require.NoError(t, os.WriteFile(path, make([]byte, 2*1024*1024), 0644))

	limits := guard.DefaultLimits()
	limits.MaxFileSizeMB = 1
	_, ok := New(limits, nil).Read(path)
	assert.False(t, ok)
}
