package chunkdown

import "github.com/yuin/goldmark/ast"

// splitBlockquote implements spec §4.7: a blockquote is treated as a
// nested document. Try it whole first; if it doesn't fit, pack its
// direct children the same way packNodes packs a section's content,
// then re-wrap each resulting run in a fresh blockquote so every chunk
// stays valid markdown.
func (c *Chunkdown) splitBlockquote(n ast.Node, source []byte) ([]string, error) {
	bq, ok := n.(*ast.Blockquote)
	if !ok {
		return nil, ErrNotABlockquote
	}

	if c.options.isWithinAllowed(ContentSize(bq, source), RawSize(bq, source)) {
		md, err := serializeNodes([]ast.Node{bq}, source)
		if err != nil {
			return nil, err
		}
		return []string{md}, nil
	}

	var children []ast.Node
	for child := bq.FirstChild(); child != nil; child = child.NextSibling() {
		children = append(children, child)
	}
	return c.packBlockquoteChildren(children, source)
}

// packBlockquoteChildren mirrors packNodes's greedy packing, but child
// sizes are measured against the original, still-attached nodes (no
// reparenting) so a speculative candidate never mutates the tree; only
// a committed run is reparented, into a fresh blockquote, at flush
// time.
func (c *Chunkdown) packBlockquoteChildren(children []ast.Node, source []byte) ([]string, error) {
	var out []string
	var run []ast.Node
	runContent, runRaw := 0, 0

	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		bq := wrapInBlockquote(run)
		md, err := serializeNodes([]ast.Node{bq}, source)
		if err != nil {
			return err
		}
		out = append(out, md)
		run, runContent, runRaw = nil, 0, 0
		return nil
	}

	for _, child := range children {
		cc := ContentSize(child, source)
		cr := RawSize(child, source)
		// A blockquote's own "> " markers add roughly two raw bytes per
		// line; approximated here as a flat two bytes per child rather
		// than a real line count, since the exact total is re-checked
		// against MaxRawSize by SplitText's final defensive pass.
		if c.options.isWithinAllowed(runContent+cc, runRaw+cr+2) {
			run = append(run, child)
			runContent += cc
			runRaw += cr + 2
			continue
		}

		if len(run) > 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}

		if c.options.isWithinAllowed(cc, cr+2) {
			run = []ast.Node{child}
			runContent, runRaw = cc, cr+2
			continue
		}

		sub, err := c.processNode(child, source)
		if err != nil {
			return nil, err
		}
		for _, s := range sub {
			out = append(out, prefixLines(s, "> "))
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// wrapInBlockquote builds a fresh blockquote over children, reparenting
// each one. Callers must only call this once a run of children is
// final; it detaches them from whatever currently owns them.
func wrapInBlockquote(children []ast.Node) *ast.Blockquote {
	bq := ast.NewBlockquote()
	for _, c := range children {
		if p := c.Parent(); p != nil {
			p.RemoveChild(p, c)
		}
		bq.AppendChild(bq, c)
	}
	return bq
}
