package heuristic

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/guard"
)

// Test Plan for the shared regex engine:
// - Content past the scan cap is never matched, and extraction still
//   succeeds on what fits
// - Oversized input returns promptly instead of erroring
// - An expired deadline yields no matches rather than a failure

func TestEngine_ContentCap(t *testing.T) {
	t.Parallel()

	limits := guard.DefaultLimits()
	limits.MaxContentLen = 40

	content := "class Early {}\n" +
		strings.Repeat("/", 60) + "\n" +
		"class Late {}\n"

	ex := NewJavaScript(limits)
	syms, err := ex.Extract(context.Background(), "big.js", content)
	require.NoError(t, err)

	require.Len(t, syms.Types, 1)
	assert.Equal(t, "Early", syms.Types[0].Name)
}

func TestEngine_OversizedInput(t *testing.T) {
	t.Parallel()

	limits := guard.DefaultLimits()

	// Several times the cap; the scan stays bounded by MaxContentLen.
	content := strings.Repeat("function padding_text() {}\n", 20000) // ~540KB
	ex := NewJavaScript(limits)
	syms, err := ex.Extract(context.Background(), "huge.js", content)
	require.NoError(t, err)

	assert.NotEmpty(t, syms.Callables)
	for _, c := range syms.Callables {
		assert.LessOrEqual(t, c.Line, limits.MaxContentLen)
	}
}

func TestEngine_CanceledContext(t *testing.T) {
	t.Parallel()

	e := newEngine("javascript", guard.DefaultLimits())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	re := regexp.MustCompile(`class\s+(\w+)`)
	assert.Nil(t, e.matchAll(ctx, re, "class Foo {}"))
}
