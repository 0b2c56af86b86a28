package chunkdown

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// cloneInline deep-copies an inline node so it can be reused across more
// than one output chunk (a table header row is the one place in this
// package that needs that: spec §4.6's preserve_table_headers contract
// repeats the same header in every chunk that carries a body row, so it
// can't simply be moved the way list items and body rows are). GFM
// table cells may only contain inline content, so this covers the
// inline node kinds goldmark produces and leaves anything else out
// rather than guessing at a clone for a block kind that cannot appear
// there.
func cloneInline(n ast.Node, source []byte) ast.Node {
	switch tn := n.(type) {
	case *ast.Text:
		clone := ast.NewTextSegment(tn.Segment)
		if tn.SoftLineBreak() {
			clone.SetSoftLineBreak(true)
		}
		if tn.HardLineBreak() {
			clone.SetHardLineBreak(true)
		}
		if tn.IsRaw() {
			clone.SetRaw(true)
		}
		return clone
	case *ast.String:
		return ast.NewString(append([]byte{}, tn.Value...))
	case *ast.CodeSpan:
		clone := ast.NewCodeSpan()
		cloneChildrenInto(clone, tn, source)
		return clone
	case *ast.Emphasis:
		clone := ast.NewEmphasis(tn.Level)
		cloneChildrenInto(clone, tn, source)
		return clone
	case *extast.Strikethrough:
		clone := extast.NewStrikethrough()
		cloneChildrenInto(clone, tn, source)
		return clone
	case *ast.Link:
		clone := ast.NewLink()
		clone.Destination = append([]byte{}, tn.Destination...)
		clone.Title = append([]byte{}, tn.Title...)
		cloneChildrenInto(clone, tn, source)
		return clone
	case *ast.Image:
		link := ast.NewLink()
		link.Destination = append([]byte{}, tn.Destination...)
		link.Title = append([]byte{}, tn.Title...)
		cloneChildrenInto(link, tn, source)
		return ast.NewImage(link)
	case *ast.AutoLink:
		return cloneAutoLink(tn, source)
	case *ast.RawHTML:
		clone := ast.NewRawHTML()
		for i := 0; i < tn.Segments.Len(); i++ {
			clone.Segments.Append(tn.Segments.At(i))
		}
		return clone
	default:
		return nil
	}
}

// cloneAutoLink rebuilds the *ast.Text an *ast.AutoLink wraps. AutoLink
// keeps that Text unexported (only Label/URL, which need source bytes,
// are exposed), so there is no accessor to copy; instead this locates
// the "<label>" span the autolink's own label produced in source and
// builds a fresh segment over it. A clone only ever feeds back into
// serializeNodes against this same source, so any of several identical
// occurrences of that span yields byte-identical output.
func cloneAutoLink(tn *ast.AutoLink, source []byte) ast.Node {
	label := tn.Label(source)
	needle := make([]byte, 0, len(label)+2)
	needle = append(needle, '<')
	needle = append(needle, label...)
	needle = append(needle, '>')
	idx := bytes.Index(source, needle)
	if idx < 0 {
		return nil
	}
	segStart := idx + 1
	value := ast.NewTextSegment(text.NewSegment(segStart, segStart+len(label)))
	return ast.NewAutoLink(tn.AutoLinkType, value)
}

func cloneChildrenInto(parent ast.Node, source ast.Node, sourceBytes []byte) {
	for c := source.FirstChild(); c != nil; c = c.NextSibling() {
		if clone := cloneInline(c, sourceBytes); clone != nil {
			parent.AppendChild(parent, clone)
		}
	}
}
