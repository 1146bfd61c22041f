package tokenizer_test

import (
	"testing"

	"github.com/snipdoc/snipdoc/pkg/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainLines(t *testing.T) {
	lines := tokenizer.PlainLines("first\n\nthird")
	require.Len(t, lines, 3)

	require.Len(t, lines[0], 1)
	assert.Equal(t, "first", lines[0][0].Content)
	assert.True(t, lines[0][0].Styles[0].BaseColor)

	assert.Empty(t, lines[1])

	require.Len(t, lines[2], 1)
	assert.Equal(t, "third", lines[2][0].Content)
}

func TestPlainLinesEmptyInput(t *testing.T) {
	lines := tokenizer.PlainLines("")
	require.Len(t, lines, 1)
	assert.Empty(t, lines[0])
}
