package chunkdown

import (
	"sort"

	"github.com/yuin/goldmark/ast"
)

// PenalizedRange is a markdown byte span that boundary scoring should
// discourage (or forbid) cutting inside, per spec §4.8(b). Hard ranges
// come from nodes whose rule resolves to "never split" (protected
// links/images/inline code by default, or any node a NodeRule pins to
// SplitNever); soft ranges come from nodes the penalty table in
// rules.go still discourages (emphasis/strong/delete) even though they
// remain splittable.
type PenalizedRange struct {
	Start   int
	End     int
	Hard    bool
	Penalty float64
}

// buildPenalizedRanges implements spec §4.8(b): walk the re-parsed AST
// for link, image, inlineCode, emphasis/strong/delete and heading
// nodes, resolve each against the rule set, and collect the resulting
// ranges. Raw HTML is treated as always hard-protected (SPEC_FULL.md
// §6): chunkdown never rewraps or reformats embedded HTML, so a cut
// landing inside it would corrupt the fragment with no way to reopen
// it in a later chunk.
func buildPenalizedRanges(root ast.Node, source []byte, rules map[string]NodeRule) []PenalizedRange {
	var ranges []PenalizedRange

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if _, isHTML := n.(*ast.HTMLBlock); isHTML {
			if start, end, ok := nodeByteRange(n); ok {
				ranges = append(ranges, PenalizedRange{Start: start, End: end, Hard: true})
			}
			return ast.WalkSkipChildren, nil
		}
		if _, isHTML := n.(*ast.RawHTML); isHTML {
			if start, end, ok := nodeByteRange(n); ok {
				ranges = append(ranges, PenalizedRange{Start: start, End: end, Hard: true})
			}
			return ast.WalkSkipChildren, nil
		}

		key, ok := ruleKeyFor(n)
		if !ok {
			return ast.WalkContinue, nil
		}

		start, end, ok := nodeByteRange(n)
		if !ok {
			return ast.WalkContinue, nil
		}
		contentSize := ContentSize(n, source)

		if !canSplitNode(rules, n, contentSize) {
			ranges = append(ranges, PenalizedRange{Start: start, End: end, Hard: true})
			return ast.WalkSkipChildren, nil
		}

		if p := penaltyFor(key); p > 0 {
			ranges = append(ranges, PenalizedRange{Start: start, End: end, Penalty: p})
		}
		return ast.WalkContinue, nil
	})

	return mergePenalizedRanges(ranges)
}

// mergePenalizedRanges sorts ranges by start and merges overlaps,
// keeping the stricter of any two overlapping ranges (hard wins over
// soft; otherwise the higher penalty wins), per spec §4.8(b).
func mergePenalizedRanges(ranges []PenalizedRange) []PenalizedRange {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].End < ranges[j].End
	})

	merged := []PenalizedRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start > last.End {
			merged = append(merged, r)
			continue
		}
		if r.End > last.End {
			last.End = r.End
		}
		if r.Hard {
			last.Hard = true
		}
		if r.Penalty > last.Penalty {
			last.Penalty = r.Penalty
		}
	}
	return merged
}

// maxPenaltyOver returns the strongest penalty among ranges that cover
// position pos (strictly inside, so a cut at either edge of a range is
// not covered), or 0 if pos is not covered by any soft range. A
// position covered by a hard range is the caller's responsibility to
// exclude outright (spec §4.8(e): hard ranges never host a boundary).
func maxPenaltyOver(ranges []PenalizedRange, pos int) (penalty float64, hard bool) {
	for _, r := range ranges {
		if pos > r.Start && pos < r.End {
			if r.Hard {
				hard = true
			}
			if r.Penalty > penalty {
				penalty = r.Penalty
			}
		}
	}
	return penalty, hard
}
