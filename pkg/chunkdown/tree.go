package chunkdown

import "github.com/yuin/goldmark/ast"

// processSection implements spec §9's process_hierarchical_section: try
// the section whole first, and only break it down into its own content
// plus its nested subsections when it doesn't fit.
func (c *Chunkdown) processSection(s *Section, source []byte) ([]string, error) {
	var all []ast.Node
	flattenSection(s, &all)
	whole, err := serializeNodes(all, source)
	if err != nil {
		return nil, err
	}
	if c.options.isWithinAllowed(ContentSize(whole, nil), RawSize(whole, nil)) {
		return []string{whole}, nil
	}

	return c.breakDownSection(s, source)
}

// breakDownSection implements spec §4.4's break_down_section: split a
// section's children into its own immediate (non-section) content and
// its nested subsections, build a parent-section p holding the heading
// plus that immediate content, then dispatch to
// merge_parent_with_descendants.
func (c *Chunkdown) breakDownSection(s *Section, source []byte) ([]string, error) {
	blocks, nested := immediateContent(s)

	p := &Section{Depth: s.Depth, Heading: s.Heading}
	for _, b := range blocks {
		p.Children = append(p.Children, b)
	}

	return c.mergeParentWithDescendants(p, nested, source)
}

// mergeParentWithDescendants implements spec §4.4's
// merge_parent_with_descendants literally:
//   - no nested sections: process_section(p) (packSectionOwnContent).
//   - p fits: greedily absorb leading nested sections into p while the
//     combined size still fits, emit the merged section, and recurse
//     merge_sibling_sections over any leftover.
//   - p doesn't fit alone: emit process_section(p) (re-packing p's own
//     content), then merge_sibling_sections(nested).
func (c *Chunkdown) mergeParentWithDescendants(p *Section, nested []*Section, source []byte) ([]string, error) {
	if len(nested) == 0 {
		return c.packSectionOwnContent(p, source)
	}

	pSize := sectionSize(p, source)
	if c.options.isWithinAllowed(pSize, pSize) {
		return c.absorbLeadingDescendants(p, pSize, nested, source)
	}

	headChunks, err := c.packSectionOwnContent(p, source)
	if err != nil {
		return nil, err
	}
	nestedChunks, err := c.processMergedSiblings(nested, source)
	if err != nil {
		return nil, err
	}
	return append(headChunks, nestedChunks...), nil
}

// packSectionOwnContent implements spec §4.4's process_section(s): pack
// p's heading plus its own immediate content, delegating any single
// piece too large on its own to process_node via packNodes. This is the
// leaf-level packer; it never recurses back into processSection, since p
// by construction carries no nested sections of its own.
func (c *Chunkdown) packSectionOwnContent(p *Section, source []byte) ([]string, error) {
	var ownNodes []ast.Node
	if p.Heading != nil {
		ownNodes = append(ownNodes, p.Heading)
	}
	for _, child := range p.Children {
		if n, ok := child.(ast.Node); ok {
			ownNodes = append(ownNodes, n)
		}
	}
	return c.packNodes(ownNodes, source)
}

// absorbLeadingDescendants implements the "p fits" branch of spec
// §4.4's merge_parent_with_descendants: fold leading nested sections
// into p one at a time while the running combined size still fits,
// emit that merged section as a single chunk (within budget by
// sectionSize's estimate; the serialized chunk is not re-measured
// here), then recurse merge_sibling_sections over whatever nested
// sections were not absorbed.
func (c *Chunkdown) absorbLeadingDescendants(p *Section, pSize int, nested []*Section, source []byte) ([]string, error) {
	merged := p
	mergedSize := pSize
	absorbed := 0
	for _, ns := range nested {
		nsSize := sectionSize(ns, source)
		if !c.options.isWithinAllowed(mergedSize+nsSize, mergedSize+nsSize) {
			break
		}
		merged = &Section{
			Depth:    merged.Depth,
			Heading:  merged.Heading,
			Children: append(append([]interface{}{}, merged.Children...), ns),
		}
		mergedSize += nsSize
		absorbed++
	}

	var mergedNodes []ast.Node
	flattenSection(merged, &mergedNodes)
	mergedMD, err := serializeNodes(mergedNodes, source)
	if err != nil {
		return nil, err
	}
	chunks := []string{mergedMD}

	leftover := nested[absorbed:]
	if len(leftover) == 0 {
		return chunks, nil
	}
	nestedChunks, err := c.processMergedSiblings(leftover, source)
	if err != nil {
		return nil, err
	}
	return append(chunks, nestedChunks...), nil
}

// processMergedSiblings implements the merge_sibling_sections recursion
// spec names from inside merge_parent_with_descendants: pack adjacent
// siblings into groups, then run each group through
// process_hierarchical_section (processSection).
func (c *Chunkdown) processMergedSiblings(sections []*Section, source []byte) ([]string, error) {
	groups := mergeSiblingSections(sections, source, c.options)
	var out []string
	for _, g := range groups {
		cs, err := c.processSection(g, source)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}

// mergeSiblingSections greedily combines adjacent sibling sections into
// a single synthetic section while their combined size stays within the
// allowed budget, spec §9's merge_sibling_sections. A merged group is
// represented as one Section carrying the first sibling's heading and
// depth, with every later sibling folded in as a nested Section so
// flattenSection still emits each heading in its original place.
func mergeSiblingSections(sections []*Section, source []byte, opts SplitterOptions) []*Section {
	if len(sections) == 0 {
		return nil
	}

	var out []*Section
	group := sections[0]
	groupSize := sectionSize(group, source)

	for _, next := range sections[1:] {
		nextSize := sectionSize(next, source)
		if opts.isWithinAllowed(groupSize+nextSize, groupSize+nextSize) {
			group = &Section{
				Depth:    group.Depth,
				Heading:  group.Heading,
				Children: append(append([]interface{}{}, group.Children...), next),
			}
			groupSize += nextSize
			continue
		}
		out = append(out, group)
		group = next
		groupSize = nextSize
	}
	out = append(out, group)
	return out
}
