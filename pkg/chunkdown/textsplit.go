package chunkdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// splitText implements spec §4.8(f): serialize the node to markdown,
// re-parse it (so positions are local), build the penalized ranges and
// position mapping, find candidate boundaries, and recursively bisect
// at the best-scoring one until every piece is within the allowed size
// (or no further boundary can be found).
func (c *Chunkdown) splitText(n ast.Node, source []byte) ([]string, error) {
	md, err := serializeNode(n, source)
	if err != nil {
		return nil, err
	}
	md = strings.TrimRight(md, "\n") + "\n"
	return c.splitMarkdown(md)
}

// splitMarkdown is splitText's entry point for a raw markdown string
// rather than an AST node, used both by splitText above and directly by
// finalize's MaxRawSize pass, which already has a serialized chunk.
func (c *Chunkdown) splitMarkdown(md string) ([]string, error) {
	doc := parseMarkdown(c.parser, []byte(md))
	plainSize := ContentSize(doc, []byte(md))
	if c.options.isWithinAllowed(plainSize, len(md)) {
		return []string{md}, nil
	}

	mapping := buildPositionMapping(md, doc)
	mdRanges := buildPenalizedRanges(doc, []byte(md), c.options.Rules)
	plainRanges := projectRangesToPlain(mdRanges, mapping)
	boundaries := findBoundaries(mapping.Plain, plainRanges)

	cut, ok := pickBisectionBoundary(boundaries, len(mapping.Plain))
	if !ok {
		// No safe boundary anywhere in this fragment: it cannot be
		// split further without breaking a protected range. Spec §7
		// calls this an oversized-chunk fallback: emit it whole.
		return []string{md}, nil
	}

	mdCut := plainToMarkdown(mapping, cut)
	if mdCut <= 0 || mdCut >= len(md) {
		return []string{md}, nil
	}

	left := strings.TrimRight(md[:mdCut], " \t\n") + "\n"
	right := strings.TrimLeft(md[mdCut:], " \t\n")

	leftChunks, err := c.splitMarkdown(left)
	if err != nil {
		return nil, err
	}
	rightChunks, err := c.splitMarkdown(right)
	if err != nil {
		return nil, err
	}
	return append(leftChunks, rightChunks...), nil
}

// pickBisectionBoundary implements the balance_bonus scoring spec
// §4.8(f) describes on top of findBoundaries' own pattern-weight
// scores: among the highest-scoring boundaries, prefer the one closest
// to the fragment's midpoint, since a cut near the middle keeps both
// halves away from the size limit for longer.
func pickBisectionBoundary(boundaries []Boundary, plainLen int) (int, bool) {
	if len(boundaries) == 0 {
		return 0, false
	}
	mid := plainLen / 2
	best := boundaries[0]
	bestAdjusted := adjustedScore(best, mid, plainLen)
	for _, b := range boundaries[1:] {
		if b.Score < boundaries[0].Score-20 {
			// Stop once scores drop far enough below the top pattern
			// tier that balance can no longer outweigh them.
			break
		}
		adjusted := adjustedScore(b, mid, plainLen)
		if adjusted > bestAdjusted {
			best, bestAdjusted = b, adjusted
		}
	}
	return best.PlainPos, true
}

func adjustedScore(b Boundary, mid, plainLen int) float64 {
	if plainLen == 0 {
		return b.Score
	}
	dist := b.PlainPos - mid
	if dist < 0 {
		dist = -dist
	}
	balanceBonus := 10.0 * (1.0 - float64(dist)/float64(plainLen/2+1))
	return b.Score + balanceBonus
}
