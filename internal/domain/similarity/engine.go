package similarity

import (
	"math"
)

// ─────────────────────────────────────────────────────────────────────────────
// Engine
// ─────────────────────────────────────────────────────────────────────────────

// Default combination weights and the edit-distance cutoff.
const (
	DefaultJaccardWeight = 0.4
	DefaultCosineWeight  = 0.5
	DefaultEditWeight    = 0.1
	DefaultEditMaxLen    = 100
)

// Breakdown carries the per-metric scores behind a combined text score.
// Each metric is rounded to 2 decimals before combination, so the breakdown
// values recombine exactly.
type Breakdown struct {
	Jaccard  float64 `json:"jaccard"`
	Cosine   float64 `json:"cosine"`
	Edit     float64 `json:"edit"`
	Combined float64 `json:"combined"`
}

// Engine combines the three text metrics with fixed weights.  It is
// stateless and safe for concurrent use; memoization lives at the caller.
type Engine struct {
	jaccardWeight float64
	cosineWeight  float64
	editWeight    float64
	editMaxLen    int
}

// NewEngine constructs an Engine.  Non-positive editMaxLen and all-zero
// weights fall back to the defaults.
func NewEngine(jaccardWeight, cosineWeight, editWeight float64, editMaxLen int) *Engine {
	if jaccardWeight == 0 && cosineWeight == 0 && editWeight == 0 {
		jaccardWeight = DefaultJaccardWeight
		cosineWeight = DefaultCosineWeight
		editWeight = DefaultEditWeight
	}
	if editMaxLen <= 0 {
		editMaxLen = DefaultEditMaxLen
	}
	return &Engine{
		jaccardWeight: jaccardWeight,
		cosineWeight:  cosineWeight,
		editWeight:    editWeight,
		editMaxLen:    editMaxLen,
	}
}

// NewDefaultEngine constructs an Engine with the standard weights.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultJaccardWeight, DefaultCosineWeight, DefaultEditWeight, DefaultEditMaxLen)
}

// Compare scores two texts and returns the full metric breakdown.  All
// metrics and the combined score are symmetric in their arguments.
func (e *Engine) Compare(textA, textB string) Breakdown {
	tokensA := Tokenize(textA)
	tokensB := Tokenize(textB)

	jaccard := round2(Jaccard(tokensA, tokensB))
	cosine := round2(cosineTFIDFTokens(tokensA, tokensB))

	// The edit metric is a cost control: skipped (contributing 0) unless
	// both raw texts are short.
	edit := 0.0
	if len(textA) < e.editMaxLen && len(textB) < e.editMaxLen {
		edit = round2(NormalizedEditSimilarity(textA, textB))
	}

	combined := e.jaccardWeight*jaccard + e.cosineWeight*cosine + e.editWeight*edit
	return Breakdown{
		Jaccard:  jaccard,
		Cosine:   cosine,
		Edit:     edit,
		Combined: combined,
	}
}

// Combined returns only the weighted combined score for two texts.
func (e *Engine) Combined(textA, textB string) float64 {
	return e.Compare(textA, textB).Combined
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
