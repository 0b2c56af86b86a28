package chunkdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// wrapAsDocument reparents a slice of already-parsed block nodes under a
// fresh *ast.Document so the renderer can walk them as one tree. The
// nodes are detached from whatever section they came from; this is safe
// because the tree splitter only calls it once a block has been
// assigned to exactly one output chunk.
func wrapAsDocument(nodes []ast.Node) *ast.Document {
	doc := ast.NewDocument()
	for _, n := range nodes {
		if p := n.Parent(); p != nil {
			p.RemoveChild(p, n)
		}
		doc.AppendChild(doc, n)
	}
	return doc
}

// serializeNodes renders a run of block nodes back to markdown as a
// single document, the building block every packer and structural
// splitter in this package uses to measure and emit a candidate chunk.
func serializeNodes(nodes []ast.Node, source []byte) (string, error) {
	if len(nodes) == 0 {
		return "", nil
	}
	doc := wrapAsDocument(nodes)
	md := newParser()
	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, doc); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}
