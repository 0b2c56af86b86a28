package chunkdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yuin/goldmark/ast"
)

func TestCanSplitNodeHonorsNeverSplit(t *testing.T) {
	rules := DefaultRules()
	link := ast.NewLink()
	assert.False(t, canSplitNode(rules, link, 5))
}

func TestCanSplitNodeReferenceAliasProtectsLink(t *testing.T) {
	never := NeverSplit()
	rules := map[string]NodeRule{
		"linkReference": {Split: &never},
	}
	link := ast.NewLink()
	assert.False(t, canSplitNode(rules, link, 5))
}

func TestCanSplitNodeUnknownKindAlwaysSplits(t *testing.T) {
	rules := DefaultRules()
	assert.True(t, canSplitNode(rules, ast.NewParagraph(), 1000))
}

func TestSplitAllowsSizeSplit(t *testing.T) {
	rule := NodeRule{Split: &SplitRule{Kind: SplitBySize, Size: 10}}
	assert.False(t, splitAllows(rule, 5))
	assert.True(t, splitAllows(rule, 11))
}

func TestResolveRuleFallsBackToFormatting(t *testing.T) {
	never := NeverSplit()
	rules := map[string]NodeRule{"formatting": {Split: &never}}
	rule, ok := resolveRule(rules, "strong")
	assert.True(t, ok)
	assert.Equal(t, SplitNever, rule.Split.Kind)
}

func TestPenaltyForKnownKinds(t *testing.T) {
	assert.Equal(t, float64(50), penaltyFor("link"))
	assert.Equal(t, float64(30), penaltyFor("emphasis"))
	assert.Equal(t, float64(0), penaltyFor("heading"))
	assert.Equal(t, float64(0), penaltyFor("paragraph"))
}
