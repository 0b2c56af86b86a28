package chunkdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionMappingCoversPlainTextWithNoGaps(t *testing.T) {
	md := "Hello *world*, this is a test.\n"
	doc := parseMarkdown(newParser(), []byte(md))
	mapping := buildPositionMapping(md, doc)

	require.NotEmpty(t, mapping.Segments)
	for i := 1; i < len(mapping.Segments); i++ {
		assert.Equal(t, mapping.Segments[i-1].PlainEnd, mapping.Segments[i].PlainStart,
			"segments must tile the plain string with no gap or overlap")
	}
	assert.Equal(t, len(mapping.Plain), mapping.Segments[len(mapping.Segments)-1].PlainEnd)
}

func TestPlainToMarkdownRoundTripsWithinASegment(t *testing.T) {
	md := "plain paragraph text here\n"
	doc := parseMarkdown(newParser(), []byte(md))
	mapping := buildPositionMapping(md, doc)

	mdPos := plainToMarkdown(mapping, 6)
	assert.GreaterOrEqual(t, mdPos, 0)
	assert.LessOrEqual(t, mdPos, len(md))
}

func TestEscapedCharacterAbsorbsPrecedingBackslash(t *testing.T) {
	md := "a \\* b\n"
	doc := parseMarkdown(newParser(), []byte(md))
	mapping := buildPositionMapping(md, doc)

	assert.Contains(t, mapping.Plain, "a * b")
}
