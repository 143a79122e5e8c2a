package similarity

import (
	"math"
)

// ─────────────────────────────────────────────────────────────────────────────
// Jaccard
// ─────────────────────────────────────────────────────────────────────────────

// Jaccard returns |intersection| / |union| over the two token sets, 0 when
// either is empty.
func Jaccard(tokensA, tokensB []string) float64 {
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	setA := toSet(tokensA)
	setB := toSet(tokensB)

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// ─────────────────────────────────────────────────────────────────────────────
// TF-IDF cosine
// ─────────────────────────────────────────────────────────────────────────────

// CosineTFIDF builds a two-document TF-IDF model from exactly the two texts
// and returns the cosine similarity of their term vectors, 0 when either
// vector has zero magnitude.
func CosineTFIDF(textA, textB string) float64 {
	tokensA := Tokenize(textA)
	tokensB := Tokenize(textB)
	return cosineTFIDFTokens(tokensA, tokensB)
}

func cosineTFIDFTokens(tokensA, tokensB []string) float64 {
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	tfA := termFrequencies(tokensA)
	tfB := termFrequencies(tokensB)

	vocab := make(map[string]struct{}, len(tfA)+len(tfB))
	for t := range tfA {
		vocab[t] = struct{}{}
	}
	for t := range tfB {
		vocab[t] = struct{}{}
	}

	// Two-document corpus: idf = ln(2/df) + 1 keeps shared terms
	// contributing instead of vanishing at df=2.
	const numDocs = 2.0
	var dot, magA, magB float64
	for term := range vocab {
		df := 0.0
		if _, ok := tfA[term]; ok {
			df++
		}
		if _, ok := tfB[term]; ok {
			df++
		}
		idf := math.Log(numDocs/df) + 1

		wA := tfA[term] * idf
		wB := tfB[term] * idf
		dot += wA * wB
		magA += wA * wA
		magB += wB * wB
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func termFrequencies(tokens []string) map[string]float64 {
	counts := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	total := float64(len(tokens))
	for t := range counts {
		counts[t] /= total
	}
	return counts
}

// ─────────────────────────────────────────────────────────────────────────────
// Edit distance
// ─────────────────────────────────────────────────────────────────────────────

// LevenshteinDistance returns the minimal number of single-character edits
// transforming a into b, computed over runes with a two-row table.
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// NormalizedEditSimilarity returns 1 - distance/max(len) over the raw texts.
// Both texts identical (including both empty) yields 1.
func NormalizedEditSimilarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(LevenshteinDistance(a, b))/float64(maxLen)
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
