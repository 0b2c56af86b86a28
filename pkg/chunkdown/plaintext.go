package chunkdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// isSeparatedBlock lists the block kinds that get a blank-line separator
// from their previous sibling, mirroring how a markdown serializer would
// lay blocks out (grounded on the teacher's non-recursive AST walk in
// internal/chunking/markdown.go and on the block-separator switch in the
// markdownfmt renderer in the reference corpus).
func isSeparatedBlock(n ast.Node) bool {
	switch n.(type) {
	case *ast.Paragraph, *ast.Heading, *ast.CodeBlock, *ast.FencedCodeBlock,
		*ast.List, *ast.Blockquote, *ast.ThematicBreak, *ast.HTMLBlock,
		*extast.Table:
		return true
	default:
		return false
	}
}

type plainFrame struct {
	node     ast.Node
	entering bool
}

// toPlainText is chunkdown's plain-text projector, standing in for the
// spec's external to_string(node) collaborator (spec §6). It walks the
// AST non-recursively and concatenates the visible text of text,
// inlineCode, code and image-alt leaves, with no markdown punctuation.
func toPlainText(n ast.Node, source []byte) string {
	var buf strings.Builder
	stack := []plainFrame{{node: n, entering: true}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !frame.entering {
			continue
		}
		node := frame.node

		if node.Parent() != nil && isSeparatedBlock(node) && node.PreviousSibling() != nil && buf.Len() > 0 {
			buf.WriteString("\n\n")
		}

		switch tn := node.(type) {
		case *ast.Text:
			buf.Write(tn.Segment.Value(source))
			if tn.SoftLineBreak() || tn.HardLineBreak() {
				buf.WriteString("\n")
			}
			continue
		case *ast.String:
			buf.Write(tn.Value)
			continue
		case *ast.AutoLink:
			buf.Write(tn.Label(source))
			continue
		case *ast.CodeSpan:
			writeInlineChildren(&buf, tn, source)
			continue
		case *ast.CodeBlock:
			writeLines(&buf, tn.Lines(), source)
			continue
		case *ast.FencedCodeBlock:
			writeLines(&buf, tn.Lines(), source)
			continue
		case *ast.HTMLBlock, *ast.RawHTML:
			// Raw HTML carries no prose; excluded from content size.
			continue
		case *extast.TableRow:
			writeTableRow(&buf, tn, source)
			continue
		case *extast.TableHeader:
			writeTableRow(&buf, tn, source)
			continue
		}

		if node.HasChildren() {
			stack = append(stack, plainFrame{node: node, entering: false})
			child := node.LastChild()
			for child != nil {
				stack = append(stack, plainFrame{node: child, entering: true})
				child = child.PreviousSibling()
			}
		}
	}

	return buf.String()
}

func writeInlineChildren(buf *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		buf.WriteString(toPlainText(c, source))
	}
}

func writeLines(buf *strings.Builder, lines *text.Segments, source []byte) {
	if lines == nil {
		return
	}
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
}

func writeTableRow(buf *strings.Builder, row ast.Node, source []byte) {
	first := true
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if !first {
			buf.WriteString(" ")
		}
		first = false
		buf.WriteString(toPlainText(c, source))
	}
}
