package chunkdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// nodeByteRange returns the [start, end) byte span a node covers in its
// source, derived from goldmark's own position information. Block nodes
// carry Lines() directly; containers without lines of their own (List,
// ListItem, Blockquote, Table, Link, Emphasis, ...) are covered by
// recursing into the first and last descendant that does carry a range.
//
// This is how chunkdown satisfies spec §7's "Parser contract violation"
// recovery: a node with no position anywhere in its subtree returns
// ok=false, and callers skip building a protected range or segment for
// it while still descending into any children that do have positions.
func nodeByteRange(n ast.Node) (start, end int, ok bool) {
	if tn, isText := n.(*ast.Text); isText {
		return tn.Segment.Start, tn.Segment.Stop, true
	}
	// *ast.AutoLink keeps its underlying Text unexported, with no
	// Segment accessor (only Label/URL, which need source bytes).
	// RawSize's ast.Node branch falls back to re-serializing the node
	// when nodeByteRange reports not-ok, which covers this case; the
	// position mapper builds an autolink's segment itself, by locating
	// its label in source (see position.go's emitAutoLinkSegment).

	if liner, hasLines := n.(interface{ Lines() *text.Segments }); hasLines {
		lines := liner.Lines()
		if lines != nil && lines.Len() > 0 {
			return lines.At(0).Start, lines.At(lines.Len() - 1).Stop, true
		}
	}

	found := false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s, e, okc := nodeByteRange(c); okc {
			if !found {
				start, end, found = s, e, true
				continue
			}
			if s < start {
				start = s
			}
			if e > end {
				end = e
			}
		}
	}
	return start, end, found
}
