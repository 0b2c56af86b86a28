package chunkdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSplitTextOversizedListItemStaysAListItem covers spec §4.5's
// single-item overflow path: a list item too large to stand alone must
// still surface as a one-item list in every chunk it produces, not as
// bare paragraph text that has lost its marker.
func TestSplitTextOversizedListItemStaysAListItem(t *testing.T) {
	c := newTestSplitter(t, 12)
	md := "- short item\n" +
		"- a much longer item with many extra words that will not fit the budget at all\n" +
		"- another short item\n"
	chunks, err := c.SplitText(md)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	foundLongItemPiece := false
	for _, chunk := range chunks {
		trimmed := strings.TrimSpace(chunk)
		if strings.Contains(trimmed, "longer item") || strings.Contains(trimmed, "extra words") {
			foundLongItemPiece = true
			assert.True(t, strings.HasPrefix(trimmed, "-"),
				"a fragment of the oversized item must still read as a list item: %q", trimmed)
		}
	}
	assert.True(t, foundLongItemPiece, "the oversized item's content must appear somewhere in the output")
}

// TestSplitTextOversizedRowSplitsByCellIntoMiniTables covers spec §4.6's
// row-overflow fallback: when a row can't stand next to its header, each
// cell becomes its own one-column mini-table pairing the header cell
// with the data cell, rather than dropping the table shape entirely.
func TestSplitTextOversizedRowSplitsByCellIntoMiniTables(t *testing.T) {
	c := newTestSplitter(t, 8)
	md := "| Name | Description |\n" +
		"| --- | --- |\n" +
		"| Alpha | a description with quite a lot of words that will not fit next to its header at all |\n"
	chunks, err := c.SplitText(md)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	sawNameHeader := false
	sawDescriptionHeader := false
	for _, chunk := range chunks {
		if strings.Contains(chunk, "Name") {
			sawNameHeader = true
		}
		if strings.Contains(chunk, "Description") {
			sawDescriptionHeader = true
		}
		assert.True(t, strings.Contains(chunk, "|"), "every chunk of a split table row should stay a table: %q", chunk)
	}
	assert.True(t, sawNameHeader || sawDescriptionHeader,
		"at least one cell's own header should be repeated alongside its data")
}

// TestContentSizeOfStringMatchesVisibleText guards against ContentSize's
// string branch regressing back to returning the raw markdown length:
// punctuation-heavy markdown must measure shorter than its raw length.
func TestContentSizeOfStringMatchesVisibleText(t *testing.T) {
	md := "**bold** and _em_ and [a link](https://example.com)\n"
	content := ContentSize(md, nil)
	raw := RawSize(md, nil)
	assert.Less(t, content, raw, "content size must strip markdown punctuation, not equal raw length")
}
