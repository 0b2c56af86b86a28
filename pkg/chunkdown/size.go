package chunkdown

import (
	"github.com/yuin/goldmark/ast"
)

// ContentSize returns the length of the visible text of a node or string
// with all markdown punctuation removed (spec §4.1, the content_size
// model). Both branches work in bytes, matching goldmark's own
// byte-offset positions, which the rest of the size model relies on. A
// string is re-parsed so its punctuation is stripped the same way a
// node's would be; this is the same "serialize, then measure visible
// text" shape every packer in this package already relies on for nodes,
// just entered from the string side.
func ContentSize(v interface{}, source []byte) int {
	switch x := v.(type) {
	case string:
		doc := parseMarkdown(newParser(), []byte(x))
		return len(toPlainText(doc, []byte(x)))
	case ast.Node:
		return len(toPlainText(x, source))
	default:
		return 0
	}
}

// RawSize returns the serialized byte length of a node or string (spec
// §4.1). For a node, this is end-start of its byte range when position
// information is present, falling back to re-serialization otherwise.
func RawSize(v interface{}, source []byte) int {
	switch x := v.(type) {
	case string:
		return len(x)
	case ast.Node:
		if start, end, ok := nodeByteRange(x); ok {
			return end - start
		}
		md, err := serializeNode(x, source)
		if err != nil {
			return 0
		}
		return len(md)
	default:
		return 0
	}
}

// sectionSize computes spec §4.1's section_size: the heading's content
// size plus the recursive sizes of every child.
func sectionSize(s *Section, source []byte) int {
	total := 0
	if s.Heading != nil {
		total += ContentSize(s.Heading, source)
	}
	for _, child := range s.Children {
		switch c := child.(type) {
		case *Section:
			total += sectionSize(c, source)
		case ast.Node:
			total += ContentSize(c, source)
		}
	}
	return total
}
