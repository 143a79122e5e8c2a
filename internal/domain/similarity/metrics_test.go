package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, Jaccard([]string{"a", "b"}, []string{"b", "a"}))
	assert.Equal(t, 0.0, Jaccard([]string{"a", "b"}, []string{"c", "d"}))
	assert.Equal(t, 0.5, Jaccard([]string{"a", "b", "c"}, []string{"b", "c", "d"}))
	assert.Equal(t, 0.0, Jaccard(nil, []string{"a"}))
	assert.Equal(t, 0.0, Jaccard([]string{"a"}, nil))
}

func TestJaccard_DuplicateTokens(t *testing.T) {
	// Set semantics: repeated tokens count once.
	assert.Equal(t, 1.0, Jaccard([]string{"a", "a", "b"}, []string{"a", "b", "b"}))
}

func TestCosineTFIDF(t *testing.T) {
	assert.InDelta(t, 1.0, CosineTFIDF("water pipe burst", "water pipe burst"), 1e-9)
	assert.Equal(t, 0.0, CosineTFIDF("water pipe burst", "garbage container smell"))
	assert.Equal(t, 0.0, CosineTFIDF("", "water pipe"))

	partial := CosineTFIDF("water pipe burst", "water pipe leak")
	assert.Greater(t, partial, 0.0)
	assert.Less(t, partial, 1.0)
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("abc", "abc"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 5, LevenshteinDistance("", "abcde"))
	assert.Equal(t, 5, LevenshteinDistance("abcde", ""))
	assert.Equal(t, 1, LevenshteinDistance("pothole", "potholes"))
}

func TestNormalizedEditSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, NormalizedEditSimilarity("", ""))
	assert.Equal(t, 1.0, NormalizedEditSimilarity("same", "same"))
	assert.Equal(t, 0.0, NormalizedEditSimilarity("", "abc"))
	// kitten/sitting: 1 - 3/7.
	assert.InDelta(t, 4.0/7.0, NormalizedEditSimilarity("kitten", "sitting"), 1e-9)
}
