package chunkdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptionsNormalize(t *testing.T) {
	opts := DefaultOptions(500)
	require.NoError(t, opts.normalize())
	assert.Equal(t, 500, opts.MaxAllowed())
}

func TestMaxAllowedAppliesOverflowRatio(t *testing.T) {
	opts := SplitterOptions{ChunkSize: 100, MaxOverflowRatio: 1.2}
	assert.Equal(t, 120, opts.MaxAllowed())
}

func TestNormalizeRejectsZeroChunkSize(t *testing.T) {
	opts := SplitterOptions{}
	err := opts.normalize()
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestNormalizeRejectsSubUnityOverflow(t *testing.T) {
	opts := SplitterOptions{ChunkSize: 100, MaxOverflowRatio: 0.5}
	err := opts.normalize()
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestIsWithinAllowedHonorsMaxRawSize(t *testing.T) {
	max := 10
	opts := SplitterOptions{ChunkSize: 100, MaxOverflowRatio: 1.0, MaxRawSize: &max}
	require.NoError(t, opts.normalize())
	assert.True(t, opts.isWithinAllowed(5, 9))
	assert.False(t, opts.isWithinAllowed(5, 11))
	assert.False(t, opts.isWithinAllowed(200, 5))
}

func TestDefaultRulesProtectLinksImagesAndCode(t *testing.T) {
	rules := DefaultRules()
	for _, key := range []string{"heading", "link", "image", "inlineCode"} {
		rule, ok := rules[key]
		require.True(t, ok, key)
		require.NotNil(t, rule.Split)
		assert.Equal(t, SplitNever, rule.Split.Kind)
	}
}
