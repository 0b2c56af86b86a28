package chunkdown

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSplitter(t *testing.T, chunkSize int) *Chunkdown {
	t.Helper()
	opts := DefaultOptions(chunkSize)
	c, err := New(opts, nil)
	require.NoError(t, err)
	return c
}

func TestSplitTextSmallDocumentIsOneChunk(t *testing.T) {
	c := newTestSplitter(t, 500)
	chunks, err := c.SplitText("# Title\n\nA short paragraph.\n")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "# Title")
	assert.Contains(t, chunks[0], "A short paragraph.")
}

func TestSplitTextNeverBreaksALinkAcrossChunks(t *testing.T) {
	c := newTestSplitter(t, 20)
	md := "Some text before the link [anchor text goes here](https://example.com/page) and some text after it that pushes well past the limit so a cut is forced somewhere nearby.\n"
	chunks, err := c.SplitText(md)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		open := strings.Count(chunk, "[")
		close := strings.Count(chunk, "]")
		assert.Equal(t, open, close, "a link's brackets must never be split across chunk boundaries: %q", chunk)
	}
	joined := strings.Join(chunks, "")
	assert.Contains(t, joined, "[anchor text goes here](https://example.com/page)")
}

func TestSplitTextOrderedListNumberingStaysContinuous(t *testing.T) {
	c := newTestSplitter(t, 70)
	md := "1. first item has some words in it\n2. second item also has some words\n3. third item keeps going with more words\n4. fourth item continues further still\n"
	chunks, err := c.SplitText(md)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	var firstNumbers []int
	for _, chunk := range chunks {
		trimmed := strings.TrimLeft(chunk, " ")
		var n int
		if _, err := fmt.Sscanf(trimmed, "%d.", &n); err == nil {
			firstNumbers = append(firstNumbers, n)
		}
	}
	require.NotEmpty(t, firstNumbers)
	for i := 1; i < len(firstNumbers); i++ {
		assert.Greater(t, firstNumbers[i], firstNumbers[i-1],
			"each chunk should continue the ordered list's numbering rather than restart it")
	}
}

func TestSplitTextHeadingStaysWithItsContent(t *testing.T) {
	c := newTestSplitter(t, 500)
	md := "# Heading Only Section\n\n## Child\n\nbody text under child\n"
	chunks, err := c.SplitText(md)
	require.NoError(t, err)
	for _, chunk := range chunks {
		if strings.Contains(chunk, "# Heading Only Section") {
			assert.NotEqual(t, strings.TrimSpace(chunk), "# Heading Only Section",
				"a bare heading chunk must be merged with its descendant content")
		}
	}
}

func TestSplitTextTableSplitsByRowsWithHeaderRepeated(t *testing.T) {
	c := newTestSplitter(t, 60)
	md := "| Name | Description |\n| --- | --- |\n| Alpha | the first long row of this table |\n| Beta | the second long row of this table |\n| Gamma | the third long row of this table |\n"
	chunks, err := c.SplitText(md)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		if strings.Contains(chunk, "|") {
			assert.Contains(t, chunk, "Name", "every table chunk should repeat the header row")
		}
	}
}

func TestSplitTextBlockquotePacksThenSplits(t *testing.T) {
	c := newTestSplitter(t, 15)
	md := "> first quoted paragraph with several words in it\n>\n> second quoted paragraph with several more words\n"
	chunks, err := c.SplitText(md)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.True(t, strings.HasPrefix(strings.TrimSpace(chunk), ">"))
	}
}

func TestSplitTextEveryChunkWithinAllowedOrSingleProtectedRange(t *testing.T) {
	c := newTestSplitter(t, 10)
	md := "Word " + strings.Repeat("filler ", 50) + "[a long link label that cannot be split](https://example.com/x)\n"
	chunks, err := c.SplitText(md)
	require.NoError(t, err)
	for _, chunk := range chunks {
		content := ContentSize(strings.TrimSpace(chunk), nil)
		if content > c.options.MaxAllowed() {
			assert.Contains(t, chunk, "[", "an oversized chunk must be explained by an unsplittable protected range")
		}
	}
}
