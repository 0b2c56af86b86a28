package chunkdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBoundariesPrefersSentenceOverComma(t *testing.T) {
	plain := "First sentence, with a clause. Second sentence here."
	boundaries := findBoundaries(plain, nil)
	require.NotEmpty(t, boundaries)
	assert.Equal(t, "sentence", boundaryNameAt(t, boundaries[0].PlainPos, plain))
}

// boundaryNameAt is a small helper that re-derives which named pattern
// produced a given cut position, used only to make assertions readable.
func boundaryNameAt(t *testing.T, pos int, plain string) string {
	t.Helper()
	for _, p := range boundaryPatterns {
		for _, got := range matchAll(p.re, plain) {
			if got == pos {
				return p.name
			}
		}
	}
	return ""
}

func TestFindBoundariesSkipsHardProtectedPositions(t *testing.T) {
	plain := "one, two, three"
	comma1 := 4
	hard := []PenalizedRange{{Start: 0, End: len(plain), Hard: true}}
	boundaries := findBoundaries(plain, hard)
	for _, b := range boundaries {
		assert.NotEqual(t, comma1, b.PlainPos)
	}
	assert.Empty(t, boundaries)
}

func TestFindBoundariesMatchesSentenceEndingAtNewline(t *testing.T) {
	plain := "First paragraph ends here.\nSecond paragraph starts here."
	boundaries := findBoundaries(plain, nil)
	require.NotEmpty(t, boundaries)
	periodPos := len(plain[:len("First paragraph ends here.")])
	found := false
	for _, b := range boundaries {
		if b.PlainPos == periodPos {
			found = true
			assert.Equal(t, float64(100), b.Score, "a sentence ending right at a newline scores as a SENTENCE boundary")
		}
	}
	assert.True(t, found, "no trailing-space boundary exists here, so the \\.(?=\\n) pattern must supply one")
}

func TestFindBoundariesMatchesBareNewline(t *testing.T) {
	plain := "line one with no punctuation\nline two continues"
	boundaries := findBoundaries(plain, nil)
	require.NotEmpty(t, boundaries)
	newlinePos := len("line one with no punctuation\n")
	found := false
	for _, b := range boundaries {
		if b.PlainPos == newlinePos {
			found = true
			assert.Equal(t, float64(70), b.Score, "a bare newline with no adjacent punctuation still scores as a CLAUSE boundary")
		}
	}
	assert.True(t, found, "a line break with no punctuation must still produce a boundary candidate")
}

func TestFindBoundariesAppliesSoftPenalty(t *testing.T) {
	plain := "a, b"
	plain2 := "a, b"
	unpenalized := findBoundaries(plain, nil)
	penalized := findBoundaries(plain2, []PenalizedRange{{Start: 0, End: len(plain2), Hard: false, Penalty: 35}})
	require.NotEmpty(t, unpenalized)
	require.NotEmpty(t, penalized)
	assert.Greater(t, unpenalized[0].Score, penalized[0].Score)
}
