package chunkdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// splitTable implements spec §4.6: pack body rows together while they
// fit alongside the header, repeating the header in every chunk that
// carries at least one row (preserve_table_headers), and peeling a
// single row too wide to stand alone next to its header apart by cells
// (splitOversizedRow) rather than handing it to the text splitter whole.
func (c *Chunkdown) splitTable(n ast.Node, source []byte) ([]string, error) {
	table, ok := n.(*extast.Table)
	if !ok {
		return nil, ErrNotATable
	}

	var header *extast.TableHeader
	var rows []*extast.TableRow
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			header = row
		case *extast.TableRow:
			rows = append(rows, row)
		}
	}
	if header == nil {
		return nil, ErrNotATable
	}

	headerContent := ContentSize(header, source)
	headerRaw := RawSize(header, source)

	var out []string
	var run []*extast.TableRow
	runContent, runRaw := headerContent, headerRaw

	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		md, err := serializeTableRun(table, header, run, source)
		if err != nil {
			return err
		}
		out = append(out, md)
		run, runContent, runRaw = nil, headerContent, headerRaw
		return nil
	}

	for _, row := range rows {
		rc := ContentSize(row, source)
		rr := RawSize(row, source)
		candidateContent := runContent + rc
		candidateRaw := runRaw + rr
		if c.options.isWithinAllowed(candidateContent, candidateRaw) {
			run = append(run, row)
			runContent, runRaw = candidateContent, candidateRaw
			continue
		}

		if len(run) > 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}

		if c.options.isWithinAllowed(headerContent+rc, headerRaw+rr) {
			run = []*extast.TableRow{row}
			runContent, runRaw = headerContent+rc, headerRaw+rr
			continue
		}

		sub, err := c.splitOversizedRow(header, row, source)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// splitOversizedRow implements spec §4.6's row-overflow fallback: a row
// too wide to stand next to its header is split by cells instead, one
// one-column mini-table per cell pairing that cell's header with its
// data; if even a single cell's mini-table overflows, the cell's own
// children are recursed through the tree splitter's generic packer and
// each fragment re-wrapped as a one-column mini-table sharing the same
// header cell.
func (c *Chunkdown) splitOversizedRow(header *extast.TableHeader, row *extast.TableRow, source []byte) ([]string, error) {
	var headerCells, dataCells []*extast.TableCell
	for hc := header.FirstChild(); hc != nil; hc = hc.NextSibling() {
		if cell, ok := hc.(*extast.TableCell); ok {
			headerCells = append(headerCells, cell)
		}
	}
	for dc := row.FirstChild(); dc != nil; dc = dc.NextSibling() {
		if cell, ok := dc.(*extast.TableCell); ok {
			dataCells = append(dataCells, cell)
		}
	}

	var out []string
	for i, dataCell := range dataCells {
		var headerCell *extast.TableCell
		if i < len(headerCells) {
			headerCell = headerCells[i]
		}

		mini, err := serializeMiniTable(headerCell, dataCell, source)
		if err != nil {
			return nil, err
		}
		if c.options.isWithinAllowed(ContentSize(mini, nil), RawSize(mini, nil)) {
			out = append(out, mini)
			continue
		}

		var cellChildren []ast.Node
		for gc := dataCell.FirstChild(); gc != nil; gc = gc.NextSibling() {
			cellChildren = append(cellChildren, gc)
		}
		pieces, err := c.packNodes(cellChildren, source)
		if err != nil {
			return nil, err
		}
		for _, piece := range pieces {
			mini, err := serializeMiniTableWithBody(headerCell, piece, source)
			if err != nil {
				return nil, err
			}
			out = append(out, mini)
		}
	}
	return out, nil
}

// serializeMiniTable builds a one-column table pairing a clone of
// headerCell with a clone of dataCell (headerCell may be nil if the row
// has more cells than the header, which GFM permits).
func serializeMiniTable(headerCell, dataCell *extast.TableCell, source []byte) (string, error) {
	table := extast.NewTable()
	align := extast.AlignNone
	if dataCell != nil {
		align = dataCell.Alignment
	}
	table.Alignments = []extast.Alignment{align}

	hRow := extast.NewTableRow(table.Alignments)
	if headerCell != nil {
		hRow.AppendChild(hRow, cloneTableCell(headerCell, source))
	} else {
		hRow.AppendChild(hRow, extast.NewTableCell())
	}
	table.AppendChild(table, extast.NewTableHeader(hRow))

	dRow := extast.NewTableRow(table.Alignments)
	if dataCell != nil {
		dRow.AppendChild(dRow, cloneTableCell(dataCell, source))
	} else {
		dRow.AppendChild(dRow, extast.NewTableCell())
	}
	table.AppendChild(table, dRow)

	return serializeNodes([]ast.Node{table}, source)
}

// serializeMiniTableWithBody builds a one-column table whose header cell
// is a clone of headerCell and whose single data row's text is the
// already-serialized fragment bodyMD (produced by recursing an
// oversized cell's own children through the tree splitter). The fragment
// is re-parsed as inline content rather than appended verbatim, since it
// may itself contain markdown syntax that the table cell needs to carry
// as real inline nodes rather than literal text.
func serializeMiniTableWithBody(headerCell *extast.TableCell, bodyMD string, source []byte) (string, error) {
	bodySource := []byte(strings.TrimSpace(bodyMD))
	doc := parseMarkdown(newParser(), bodySource)

	dataCell := extast.NewTableCell()
	if para := firstParagraph(doc); para != nil {
		cloneChildrenInto(dataCell, para, bodySource)
	}

	table := extast.NewTable()
	align := extast.AlignNone
	if headerCell != nil {
		align = headerCell.Alignment
	}
	table.Alignments = []extast.Alignment{align}

	hRow := extast.NewTableRow(table.Alignments)
	if headerCell != nil {
		hRow.AppendChild(hRow, cloneTableCell(headerCell, source))
	} else {
		hRow.AppendChild(hRow, extast.NewTableCell())
	}
	table.AppendChild(table, extast.NewTableHeader(hRow))

	dRow := extast.NewTableRow(table.Alignments)
	dRow.AppendChild(dRow, dataCell)
	table.AppendChild(table, dRow)

	return serializeNodes([]ast.Node{table}, bodySource)
}

// firstParagraph returns the first paragraph (or text) block under doc,
// the node whose inline children carry bodyMD's content.
func firstParagraph(doc ast.Node) ast.Node {
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			return c
		}
	}
	return doc.FirstChild()
}

// serializeTableRun builds a freestanding table carrying a fresh copy of
// the header plus the given run of body rows. The header is cloned
// (spec §4.6 needs it in every chunk, so it can't just be moved); the
// rows are reparented directly since each one is ultimately used in
// exactly one chunk.
func serializeTableRun(original *extast.Table, header *extast.TableHeader, rows []*extast.TableRow, source []byte) (string, error) {
	table := extast.NewTable()
	table.Alignments = original.Alignments
	table.AppendChild(table, cloneTableHeader(header, source))
	for _, row := range rows {
		if p := row.Parent(); p != nil {
			p.RemoveChild(p, row)
		}
		table.AppendChild(table, row)
	}
	return serializeNodes([]ast.Node{table}, source)
}

func cloneTableHeader(h *extast.TableHeader, source []byte) *extast.TableHeader {
	newRow := extast.NewTableRow(h.Alignments)
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if cell, ok := c.(*extast.TableCell); ok {
			newRow.AppendChild(newRow, cloneTableCell(cell, source))
		}
	}
	return extast.NewTableHeader(newRow)
}

func cloneTableCell(cell *extast.TableCell, source []byte) *extast.TableCell {
	clone := extast.NewTableCell()
	clone.Alignment = cell.Alignment
	cloneChildrenInto(clone, cell, source)
	return clone
}
