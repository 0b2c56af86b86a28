package chunkdown

import (
	"sort"

	"github.com/dlclark/regexp2"
)

// Boundary is one candidate cut point in plain-text coordinates, scored
// by the pattern that found it minus whatever penalty covers it (spec
// §4.8(e)).
type Boundary struct {
	PlainPos int
	Score    float64
}

type boundaryPattern struct {
	name   string
	re     *regexp2.Regexp
	weight float64
}

// boundaryPatterns is the fixed table spec §4.8(e) describes, in the
// same order, most to least preferred. Go's stdlib regexp (RE2) cannot
// express the lookbehind and lookaheads several of these patterns need,
// which is why this package depends on dlclark/regexp2 instead (see
// DESIGN.md).
//
// The quote-pair clause pattern matches a whole quoted span (ASCII
// double or single quotes, backticks, or typographic quotes) as one
// pattern, unifying what the spec lists as two separate patterns;
// SPEC_FULL.md §6 records the reasoning.
var boundaryPatterns = []boundaryPattern{
	{
		// `\.(?=\n)`: a sentence that ends right at a line break, with no
		// trailing space, still scores as a SENTENCE boundary rather than
		// falling through to the newline CLAUSE pattern below.
		name:   "sentence-newline",
		weight: 100,
		re:     regexp2.MustCompile(`\.(?=\n)`, regexp2.None),
	},
	{
		// The negative lookbehind excludes list-item markers such as
		// "1." or "iii." at the start of a line from being read as a
		// sentence end. ^ is anchored per-line (regexp2.Multiline) since
		// the markers this guards against only appear at line starts.
		name:   "sentence",
		weight: 100,
		re:     regexp2.MustCompile(`(?<!^\s*(?:\d+|[a-zA-Z]+|[ivxlcdmIVXLCDM]+))[.?!]+\s+(?=[A-Z])`, regexp2.Multiline),
	},
	{
		name:   "sentence-eof",
		weight: 100,
		re:     regexp2.MustCompile(`[?!]+(?=\s|$)`, regexp2.None),
	},
	{
		name:   "clause-colon",
		weight: 70,
		re:     regexp2.MustCompile(`[:;](?=\s)`, regexp2.None),
	},
	{
		// Trailing `[.?!]?` is intentional: it keeps a period that
		// immediately follows a bracketed group from being orphaned onto
		// the next chunk.
		name:   "clause-bracket",
		weight: 70,
		re:     regexp2.MustCompile(`\([^)]*\)[.?!]?|\[[^\]]*\][.?!]?|\{[^}]*\}[.?!]?`, regexp2.None),
	},
	{
		name:   "clause-quote",
		weight: 70,
		re:     regexp2.MustCompile(`"[^"]*"|'[^']*'|`+"`[^`]*`"+`|\x{201C}[^\x{201D}]*\x{201D}|\x{2018}[^\x{2019}]*\x{2019}`, regexp2.None),
	},
	{
		// A paragraph or line break with no adjacent punctuation is still
		// a legitimate clause-level cut point.
		name:   "newline",
		weight: 70,
		re:     regexp2.MustCompile(`\n`, regexp2.None),
	},
	{
		name:   "comma",
		weight: 40,
		re:     regexp2.MustCompile(`,(?=\s)`, regexp2.None),
	},
	{
		name:   "dash",
		weight: 30,
		re:     regexp2.MustCompile(`\s[-\x{2013}\x{2014}]\s`, regexp2.None),
	},
	{
		name:   "fallback-period",
		weight: 10,
		re:     regexp2.MustCompile(`\.`, regexp2.None),
	},
	{
		name:   "fallback",
		weight: 10,
		re:     regexp2.MustCompile(`\s+`, regexp2.None),
	},
}

// findBoundaries implements spec §4.8(e): run every pattern over plain
// text, convert each match into a plain-text cut position, discard any
// position covered by a hard range, score the survivors by
// pattern.weight minus the strongest penalty covering them, and return
// them sorted by score desc then position asc.
func findBoundaries(plain string, plainRanges []PenalizedRange) []Boundary {
	seen := map[int]bool{}
	var out []Boundary

	for _, p := range boundaryPatterns {
		positions := matchAll(p.re, plain)
		for _, pos := range positions {
			if seen[pos] {
				continue
			}
			if _, hard := maxPenaltyOver(plainRanges, pos); hard {
				continue
			}
			penalty, _ := maxPenaltyOver(plainRanges, pos)
			seen[pos] = true
			out = append(out, Boundary{PlainPos: pos, Score: p.weight - penalty})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PlainPos < out[j].PlainPos
	})
	return out
}

// matchAll returns the plain-text offset at the end of each match, the
// position a cut should land at. Lookarounds consume nothing, so the
// cut lands right after whatever the match body consumed: after the
// punctuation and trailing whitespace for the sentence pattern, right
// after the comma (before the space) for `,(?=\s)`, and after the
// closing bracket or quote for the clause patterns. Either way the
// punctuation stays attached to the left side.
func matchAll(re *regexp2.Regexp, s string) []int {
	var out []int
	m, err := re.FindStringMatch(s)
	for err == nil && m != nil {
		out = append(out, m.Index+m.Length)
		m, err = re.FindNextMatch(m)
	}
	return out
}

// projectRangesToPlain maps a set of markdown-coordinate PenalizedRange
// values into plain-text coordinates using a PositionMapping's segments,
// so boundary scoring (which walks plain text) can test plain positions
// against the same protected/penalized spans the tree and text
// splitters already derived from the AST.
func projectRangesToPlain(ranges []PenalizedRange, mapping *PositionMapping) []PenalizedRange {
	if len(ranges) == 0 || len(mapping.Segments) == 0 {
		return nil
	}
	var out []PenalizedRange
	for _, r := range ranges {
		start, startOK := markdownToPlainNearest(mapping, r.Start, false)
		end, endOK := markdownToPlainNearest(mapping, r.End, true)
		if !startOK || !endOK || end <= start {
			continue
		}
		out = append(out, PenalizedRange{Start: start, End: end, Hard: r.Hard, Penalty: r.Penalty})
	}
	return out
}

// markdownToPlainNearest finds the plain-text offset of the segment
// whose markdown range covers or most closely precedes/follows mdPos.
// preferEnd chooses, for a position falling in a markdown-only gap,
// whether to snap to the end of the preceding segment or the start of
// the following one.
func markdownToPlainNearest(mapping *PositionMapping, mdPos int, preferEnd bool) (int, bool) {
	segs := mapping.Segments
	if len(segs) == 0 {
		return 0, false
	}
	idx := sort.Search(len(segs), func(i int) bool { return segs[i].MdStart > mdPos })
	if idx > 0 {
		prev := segs[idx-1]
		if mdPos >= prev.MdStart && mdPos <= prev.MdEnd {
			offset := mdPos - prev.MdStart
			if offset > prev.PlainEnd-prev.PlainStart {
				offset = prev.PlainEnd - prev.PlainStart
			}
			return prev.PlainStart + offset, true
		}
	}
	if preferEnd && idx > 0 {
		return segs[idx-1].PlainEnd, true
	}
	if idx < len(segs) {
		return segs[idx].PlainStart, true
	}
	if idx > 0 {
		return segs[idx-1].PlainEnd, true
	}
	return 0, false
}
