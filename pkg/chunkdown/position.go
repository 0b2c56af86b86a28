package chunkdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Segment links a span of plain-text offsets to the markdown offsets
// that produced them (spec §3). NodeEnd is -1 when unset; when set it
// records the end of the outermost emphasis/strong/delete/link wrapper
// enclosing this segment, letting cuts advance past a closing marker
// instead of landing on its boundary. CharMap is nil unless the segment
// covers an escaped run whose markdown length differs from its plain
// length.
type Segment struct {
	PlainStart int
	PlainEnd   int
	MdStart    int
	MdEnd      int
	NodeEnd    int
	CharMap    []int
}

func (s Segment) mdEndPreferred() int {
	if s.NodeEnd >= 0 && s.NodeEnd > s.MdEnd {
		return s.NodeEnd
	}
	return s.MdEnd
}

// PositionMapping is the bidirectional plain<->markdown position map
// spec §3 and §4.8(c)/(d) describe.
type PositionMapping struct {
	Plain    string
	Markdown string
	Segments []Segment
}

type mappingBuilder struct {
	source    []byte
	plain     strings.Builder
	segments  []Segment
	lastMdEnd int
}

// buildPositionMapping implements spec §4.8(c): a DFS over the re-parsed
// AST that builds plain text alongside a Segment list mapping it back to
// markdown offsets.
func buildPositionMapping(markdown string, doc ast.Node) *PositionMapping {
	b := &mappingBuilder{source: []byte(markdown)}
	b.walk(doc, -1)
	return &PositionMapping{
		Plain:    b.plain.String(),
		Markdown: markdown,
		Segments: b.segments,
	}
}

// emitGapIfPassThrough copies a whitespace-or-table-separator gap
// between the last emitted markdown position and mdStart verbatim into
// plain text, per spec §4.8(c): "Before any segment at position p, if
// there is uncovered markdown between the last emitted segment and p,
// and that gap is pure whitespace, emit a pass-through segment."
// Gaps made only of table-cell separators ('|') and whitespace are
// folded to a single space so adjacent cells don't run together in the
// plain text the boundary scorer reads; this is chunkdown's own
// extension, grounded in the same "pure separator" spirit as the
// whitespace rule (see DESIGN.md).
func (b *mappingBuilder) emitGapIfPassThrough(mdStart int) {
	if mdStart <= b.lastMdEnd {
		return
	}
	gap := b.source[b.lastMdEnd:mdStart]
	if isAllWhitespace(gap) {
		start := b.plain.Len()
		b.plain.Write(gap)
		b.segments = append(b.segments, Segment{
			PlainStart: start,
			PlainEnd:   b.plain.Len(),
			MdStart:    b.lastMdEnd,
			MdEnd:      mdStart,
			NodeEnd:    -1,
		})
		b.lastMdEnd = mdStart
		return
	}
	if isTableSeparatorGap(gap) {
		start := b.plain.Len()
		b.plain.WriteByte(' ')
		b.segments = append(b.segments, Segment{
			PlainStart: start,
			PlainEnd:   b.plain.Len(),
			MdStart:    b.lastMdEnd,
			MdEnd:      mdStart,
			NodeEnd:    -1,
		})
		b.lastMdEnd = mdStart
	}
	// Otherwise: pure markdown syntax (brackets, backticks, fences,
	// asterisks, raw HTML). No plain representation; plainToMarkdown's
	// between-segments branch snaps cuts to the preceding segment's end.
}

func isAllWhitespace(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return len(b) > 0
}

func isTableSeparatorGap(b []byte) bool {
	sawPipe := false
	for _, c := range b {
		switch c {
		case ' ', '\t':
		case '|':
			sawPipe = true
		default:
			return false
		}
	}
	return sawPipe
}

func isWrappingNode(n ast.Node) bool {
	switch t := n.(type) {
	case *ast.Emphasis:
		_ = t
		return true
	case *ast.Link:
		return true
	default:
		return isStrikethrough(n)
	}
}

func (b *mappingBuilder) walk(n ast.Node, parentNodeEnd int) {
	switch tn := n.(type) {
	case *ast.Text:
		b.emitTextSegment(tn, parentNodeEnd)
		return
	case *ast.AutoLink:
		b.emitAutoLinkSegment(tn, parentNodeEnd)
		return
	case *ast.CodeSpan:
		b.emitCodeSpanSegment(tn)
		return
	case *ast.CodeBlock:
		b.emitCodeBlockSegment(tn)
		return
	case *ast.FencedCodeBlock:
		b.emitCodeBlockSegment(tn)
		return
	case *ast.Image:
		b.emitImageSegment(tn)
		return
	case *ast.HTMLBlock, *ast.RawHTML:
		// No plain representation; counted as a hard-protected gap by
		// the penalized-range builder instead of a segment here.
		return
	}

	nextParentEnd := parentNodeEnd
	if isWrappingNode(n) {
		if start, end, ok := nodeByteRange(n); ok {
			_ = start
			if end > nextParentEnd {
				nextParentEnd = end
			}
		}
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.walk(c, nextParentEnd)
	}
}

func isStrikethrough(n ast.Node) bool {
	key, ok := ruleKeyFor(n)
	return ok && key == "delete"
}

func (b *mappingBuilder) emitTextSegment(tn *ast.Text, parentNodeEnd int) {
	mdStart, mdEnd := tn.Segment.Start, tn.Segment.Stop
	if mdStart > b.lastMdEnd && mdStart-1 >= b.lastMdEnd && b.source[mdStart-1] == '\\' {
		mdStart--
	}
	b.emitGapIfPassThrough(mdStart)

	mdSlice := b.source[mdStart:mdEnd]
	plainValue := tn.Segment.Value(b.source)

	plainStart := b.plain.Len()
	b.plain.Write(plainValue)
	nodeEnd := -1
	if parentNodeEnd > mdEnd {
		nodeEnd = parentNodeEnd
	}
	seg := Segment{
		PlainStart: plainStart,
		PlainEnd:   b.plain.Len(),
		MdStart:    mdStart,
		MdEnd:      mdEnd,
		NodeEnd:    nodeEnd,
	}
	if len(mdSlice) != len(plainValue) {
		seg.CharMap = buildCharMap(mdSlice, plainValue)
	}
	b.segments = append(b.segments, seg)
	b.lastMdEnd = mdEnd

	if tn.HardLineBreak() {
		b.emitHardBreakSegment(mdEnd)
	}
}

// emitHardBreakSegment maps a hard line break (trailing backslash or
// two-or-more trailing spaces, then a newline) to a single "\n" in plain
// text, per spec §4.8(c)'s break handling.
func (b *mappingBuilder) emitHardBreakSegment(mdEnd int) {
	i := mdEnd
	breakEnd := mdEnd
	if i < len(b.source) && b.source[i] == '\\' && i+1 < len(b.source) && b.source[i+1] == '\n' {
		breakEnd = i + 2
	} else {
		for i < len(b.source) && b.source[i] == ' ' {
			i++
		}
		if i < len(b.source) && b.source[i] == '\n' {
			breakEnd = i + 1
		} else {
			return
		}
	}
	plainStart := b.plain.Len()
	b.plain.WriteByte('\n')
	b.segments = append(b.segments, Segment{
		PlainStart: plainStart,
		PlainEnd:   b.plain.Len(),
		MdStart:    mdEnd,
		MdEnd:      breakEnd,
		NodeEnd:    -1,
	})
	b.lastMdEnd = breakEnd
}

// emitAutoLinkSegment locates the "<label>" span an autolink produced,
// searching forward from the last markdown position the DFS has
// emitted so far. AutoLink keeps its underlying Text unexported (only
// Label/URL, which need source bytes, are exposed), so there is no
// byte-range accessor to read; this recovers the same span an accessor
// would have given by finding the one delimited occurrence of the
// label at or after the walk's current position.
func (b *mappingBuilder) emitAutoLinkSegment(al *ast.AutoLink, parentNodeEnd int) {
	label := al.Label(b.source)
	needle := make([]byte, 0, len(label)+2)
	needle = append(needle, '<')
	needle = append(needle, label...)
	needle = append(needle, '>')
	idx := bytes.Index(b.source[b.lastMdEnd:], needle)
	if idx < 0 {
		return
	}
	start := b.lastMdEnd + idx
	end := start + len(needle)
	mdStart, mdEnd := start+1, end-1

	b.emitGapIfPassThrough(start)
	plainStart := b.plain.Len()
	b.plain.Write(label)
	nodeEnd := -1
	if parentNodeEnd > end {
		nodeEnd = parentNodeEnd
	}
	b.segments = append(b.segments, Segment{
		PlainStart: plainStart,
		PlainEnd:   b.plain.Len(),
		MdStart:    mdStart,
		MdEnd:      mdEnd,
		NodeEnd:    nodeEnd,
	})
	b.lastMdEnd = end
}

func (b *mappingBuilder) emitCodeSpanSegment(cs *ast.CodeSpan) {
	start, end, ok := nodeByteRange(cs)
	if !ok {
		return
	}
	b.emitGapIfPassThrough(start)

	backticks := 0
	for i := start; i < end && i < len(b.source) && b.source[i] == '`'; i++ {
		backticks++
	}
	contentStart := start + backticks
	contentEnd := end - backticks
	if contentEnd < contentStart {
		contentEnd = contentStart
	}

	plainValue := toPlainText(cs, b.source)
	plainStart := b.plain.Len()
	b.plain.WriteString(plainValue)
	b.segments = append(b.segments, Segment{
		PlainStart: plainStart,
		PlainEnd:   b.plain.Len(),
		MdStart:    contentStart,
		MdEnd:      contentEnd,
		NodeEnd:    -1,
	})
	b.lastMdEnd = end
}

func (b *mappingBuilder) emitCodeBlockSegment(n ast.Node) {
	start, end, ok := nodeByteRange(n)
	if !ok {
		return
	}
	b.emitGapIfPassThrough(start)

	value := toPlainText(n, b.source)
	plainStart := b.plain.Len()
	b.plain.WriteString(value)
	b.segments = append(b.segments, Segment{
		PlainStart: plainStart,
		PlainEnd:   b.plain.Len(),
		MdStart:    start,
		MdEnd:      end,
		NodeEnd:    -1,
	})
	b.lastMdEnd = end
}

func (b *mappingBuilder) emitImageSegment(img *ast.Image) {
	start, end, ok := nodeByteRange(img)
	if !ok {
		return
	}
	b.emitGapIfPassThrough(start)

	alt := toPlainText(img, b.source)
	mdStart := start + 2
	plainStart := b.plain.Len()
	b.plain.WriteString(alt)
	b.segments = append(b.segments, Segment{
		PlainStart: plainStart,
		PlainEnd:   b.plain.Len(),
		MdStart:    mdStart,
		MdEnd:      mdStart + len(alt),
		NodeEnd:    -1,
	})
	b.lastMdEnd = end
}

// buildCharMap implements spec §4.8(c)'s escaped-text char_map
// construction, and §7's "escape mapping divergence" recovery: an
// unexpected mismatch advances the markdown pointer by one and the
// built map simply omits a plain character rather than corrupting
// downstream offsets.
func buildCharMap(mdSlice, plainValue []byte) []int {
	charMap := make([]int, 0, len(plainValue))
	mdOff, plainOff := 0, 0
	for plainOff < len(plainValue) {
		if mdOff >= len(mdSlice) {
			break
		}
		if mdSlice[mdOff] == '\\' && mdOff+1 < len(mdSlice) {
			charMap = append(charMap, mdOff+1)
			mdOff += 2
			plainOff++
			continue
		}
		if mdSlice[mdOff] == plainValue[plainOff] {
			charMap = append(charMap, mdOff)
			mdOff++
			plainOff++
			continue
		}
		mdOff++
	}
	return charMap
}

// plainToMarkdown implements spec §4.8(d): binary search segments by
// plain position and translate into a markdown offset.
func plainToMarkdown(m *PositionMapping, plainPos int) int {
	segs := m.Segments
	if len(segs) == 0 {
		return 0
	}

	idx := sort.Search(len(segs), func(i int) bool { return segs[i].PlainStart > plainPos })

	if idx > 0 {
		prev := segs[idx-1]
		if plainPos == prev.PlainEnd {
			return prev.mdEndPreferred()
		}
		if plainPos == prev.PlainStart {
			// At the seam between two segments: use the end of the
			// segment that closes here.
			if idx > 1 && segs[idx-2].PlainEnd == plainPos {
				return segs[idx-2].mdEndPreferred()
			}
			return prev.MdStart
		}
		if plainPos > prev.PlainStart && plainPos < prev.PlainEnd {
			offset := plainPos - prev.PlainStart
			if prev.CharMap != nil && offset < len(prev.CharMap) {
				return prev.MdStart + prev.CharMap[offset]
			}
			return prev.MdStart + offset
		}
		if plainPos >= prev.PlainEnd {
			// in a gap between prev and segs[idx] (or past everything)
			if idx == len(segs) {
				overflow := plainPos - prev.PlainEnd
				return prev.MdEnd + overflow
			}
			return prev.mdEndPreferred()
		}
	}

	first := segs[0]
	if plainPos <= first.PlainStart {
		underflow := first.PlainStart - plainPos
		v := first.MdStart - underflow
		if v < 0 {
			v = 0
		}
		return v
	}
	return first.MdStart
}
