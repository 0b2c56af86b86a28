package chunkdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// splitList implements spec §4.5: pack list items together while they
// fit, and re-number each emitted ordered-list chunk so it reads as a
// standalone, valid list (the "ordered-list numbering contract"). An
// item too large to stand alone is peeled apart by
// splitOversizedListItem rather than handed to the text splitter whole,
// so its overflow pieces still read as list items.
//
// Item sizes are measured individually up front (content/raw size of
// each item's own markdown), and a run is only ever reparented into a
// real, throwaway list once it's been decided on: reparenting a node
// detaches it from whatever list currently owns it, so doing it
// speculatively on every candidate size probe would empty out the
// original items it hadn't committed to yet.
func (c *Chunkdown) splitList(n ast.Node, source []byte) ([]string, error) {
	list, ok := n.(*ast.List)
	if !ok {
		return nil, ErrNotAList
	}

	var items []*ast.ListItem
	for child := list.FirstChild(); child != nil; child = child.NextSibling() {
		if li, isItem := child.(*ast.ListItem); isItem {
			items = append(items, li)
		}
	}

	type sized struct {
		item    *ast.ListItem
		content int
		raw     int
	}
	measured := make([]sized, len(items))
	for i, item := range items {
		measured[i] = sized{
			item:    item,
			content: ContentSize(item, source),
			raw:     RawSize(item, source),
		}
	}

	var out []string
	var run []*ast.ListItem
	runContent, runRaw := 0, 0
	start := list.Start

	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		md, err := serializeListItems(list, run, start, source)
		if err != nil {
			return err
		}
		out = append(out, md)
		start += len(run)
		run, runContent, runRaw = nil, 0, 0
		return nil
	}

	for _, m := range measured {
		candidateContent := runContent + m.content
		candidateRaw := runRaw + m.raw
		if c.options.isWithinAllowed(candidateContent, candidateRaw) {
			run = append(run, m.item)
			runContent, runRaw = candidateContent, candidateRaw
			continue
		}

		if len(run) > 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}

		if c.options.isWithinAllowed(m.content, m.raw) {
			run = []*ast.ListItem{m.item}
			runContent, runRaw = m.content, m.raw
			continue
		}

		sub, err := c.splitOversizedListItem(m.item, list, start, source)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
		start++
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// splitOversizedListItem implements the second half of spec §4.5: an
// item too large to stand alone has its children wrapped as a synthetic
// root, recursed through the tree splitter's generic node packer, and
// each resulting fragment re-wrapped as a single-item list sharing the
// parent list's marker/ordering so every emitted piece is still valid,
// standalone markdown that reads as "item number start".
func (c *Chunkdown) splitOversizedListItem(item *ast.ListItem, list *ast.List, number int, source []byte) ([]string, error) {
	var children []ast.Node
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		children = append(children, child)
	}
	pieces, err := c.packNodes(children, source)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(pieces))
	for i, piece := range pieces {
		out[i] = wrapChunkAsListItem(list, number, piece)
	}
	return out, nil
}

// wrapChunkAsListItem prefixes a serialized markdown fragment with the
// marker for list item "number" (reusing the original list's marker
// byte and ordered/unordered kind) and indents its continuation lines to
// match, so the fragment renders as a one-item list on its own.
func wrapChunkAsListItem(list *ast.List, number int, s string) string {
	var lead string
	if list.IsOrdered() {
		lead = fmt.Sprintf("%d%c ", number, list.Marker)
	} else {
		lead = fmt.Sprintf("%c ", list.Marker)
	}
	indent := strings.Repeat(" ", len(lead))

	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			lines[i] = lead + line
		case line == "":
			lines[i] = ""
		default:
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// serializeListItems renders a run of list items as a freestanding list
// of the same kind (ordered or bulleted) as the source list, restarting
// an ordered list's numbering at startNumber so the chunk is readable
// on its own without the items that came before it. It detaches each
// item from its current parent, so callers must only use it once a run
// is final.
func serializeListItems(original *ast.List, items []*ast.ListItem, startNumber int, source []byte) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	list := ast.NewList(original.Marker)
	list.IsTight = original.IsTight
	if original.IsOrdered() {
		list.Start = startNumber
	}
	for _, item := range items {
		if p := item.Parent(); p != nil {
			p.RemoveChild(p, item)
		}
		list.AppendChild(list, item)
	}
	return serializeNodes([]ast.Node{list}, source)
}
