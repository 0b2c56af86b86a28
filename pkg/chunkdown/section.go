package chunkdown

import (
	"github.com/yuin/goldmark/ast"
)

// Section is the synthetic tree node spec §3 describes: a heading (or
// none, for an orphaned section) plus its nested content in document
// order. A child is either another *Section or a raw ast.Node block.
type Section struct {
	Depth   int
	Heading *ast.Heading
	// Children holds *Section and ast.Node values, in document order.
	Children []interface{}
}

// IsOrphan reports whether s is a depth-0, heading-less section grouping
// consecutive heading-less top-level blocks (spec §3, "orphaned section").
func (s *Section) IsOrphan() bool {
	return s.Depth == 0 && s.Heading == nil
}

// buildHierarchy implements spec §4.2's hierarchical AST shaper: it
// walks root's children in document order, maintaining a stack of open
// sections keyed by heading depth, and returns a synthetic top-level
// Section (Depth -1, no heading) whose Children are the ordered
// top-level Sections — orphaned collectors for leading heading-less
// content, and real sections for each heading encountered.
func buildHierarchy(root ast.Node) *Section {
	top := &Section{Depth: -1}
	var stack []*Section
	var orphan *Section

	closeOrphan := func() {
		if orphan != nil {
			top.Children = append(top.Children, orphan)
			orphan = nil
		}
	}

	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		if h, isHeading := c.(*ast.Heading); isHeading {
			closeOrphan()

			for len(stack) > 0 && stack[len(stack)-1].Depth >= h.Level {
				stack = stack[:len(stack)-1]
			}

			section := &Section{Depth: h.Level, Heading: h}
			if len(stack) == 0 {
				top.Children = append(top.Children, section)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, section)
			}
			stack = append(stack, section)
			continue
		}

		if len(stack) == 0 {
			if orphan == nil {
				orphan = &Section{Depth: 0}
			}
			orphan.Children = append(orphan.Children, c)
			continue
		}

		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, c)
	}
	closeOrphan()

	return top
}

// flattenSection implements the inverse of the shaper: emit the
// section's heading (if any) followed by its children in order,
// recursing into nested sections. It is used to rebuild a plain
// document fragment from a Section, e.g. before serializing a merged
// group of sections back into one chunk.
func flattenSection(s *Section, out *[]ast.Node) {
	if s.Heading != nil {
		*out = append(*out, s.Heading)
	}
	for _, child := range s.Children {
		switch c := child.(type) {
		case *Section:
			flattenSection(c, out)
		case ast.Node:
			*out = append(*out, c)
		}
	}
}

// immediateContent splits a section's children into its directly-owned
// blocks and its nested sub-sections, preserving relative order within
// each group (spec §4.4, break_down_section).
func immediateContent(s *Section) (blocks []ast.Node, nested []*Section) {
	for _, child := range s.Children {
		switch c := child.(type) {
		case *Section:
			nested = append(nested, c)
		case ast.Node:
			blocks = append(blocks, c)
		}
	}
	return blocks, nested
}

// groupOrphanSections implements the tree splitter's defensive step 2
// (spec §4.4): any run of bare ast.Node values appearing in a children
// slice (rather than already being wrapped by the shaper) is grouped
// into a single orphaned Section, preserving order.
func groupOrphanSections(children []interface{}) []interface{} {
	var out []interface{}
	var run []interface{}

	flushRun := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, &Section{Depth: 0, Children: run})
		run = nil
	}

	for _, child := range children {
		switch c := child.(type) {
		case *Section:
			flushRun()
			out = append(out, c)
		default:
			run = append(run, c)
		}
	}
	flushRun()
	return out
}
