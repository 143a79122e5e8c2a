package triage

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Area impact
// ─────────────────────────────────────────────────────────────────────────────

// AreaType is the land-use classification of the complaint's surroundings.
type AreaType string

const (
	AreaResidential AreaType = "residential"
	AreaEducational AreaType = "educational"
	AreaHospital    AreaType = "hospital"
	AreaIndustrial  AreaType = "industrial"
	AreaCommercial  AreaType = "commercial"
)

var areaBaseMultiplier = map[AreaType]float64{
	AreaResidential: 1.0,
	AreaEducational: 1.2,
	AreaHospital:    1.3,
	AreaIndustrial:  0.7,
	AreaCommercial:  1.1,
}

// AreaContext carries the optional environmental boosts for a complaint
// location, supplied by the caller (manual tagging or a mapping
// collaborator).  The zero value means residential with no boosts.
type AreaContext struct {
	Type         AreaType `json:"type,omitempty"`
	NearSchool   bool     `json:"near_school,omitempty"`
	NearHospital bool     `json:"near_hospital,omitempty"`
	HighTraffic  bool     `json:"high_traffic,omitempty"`
	MainRoad     bool     `json:"main_road,omitempty"`
}

// areaImpactNormalizer maps the maximal plausible multiplier (hospital area
// with every boost, ~2.07) near the top of the [0,10] factor scale.
const areaImpactNormalizer = 2.0

// ─────────────────────────────────────────────────────────────────────────────
// Scorer
// ─────────────────────────────────────────────────────────────────────────────

// Scorer computes the 1-10 severity score from five weighted factors.  The
// frequency and duration factors query recent complaints; the quick variant
// skips both for synchronous estimates.
type Scorer struct {
	complaints ComplaintRepository
	categories CategoryRepository
	cfg        config.SeverityConfig
	logger     logging.Logger
}

// ScoreOptions tunes a single scoring call.
type ScoreOptions struct {
	Area AreaContext

	// ExcludeIDs removes already-known complaints (the draft itself once
	// persisted) from the frequency query.
	ExcludeIDs []common.ID
}

// Factor score map keys.
const (
	FactorFrequency       = "frequency"
	FactorDuration        = "duration"
	FactorCategoryUrgency = "category_urgency"
	FactorAreaImpact      = "area_impact"
	FactorCitizenUrgency  = "citizen_urgency"
)

// Frequency and duration anchor tables; linear interpolation between
// anchors, clamped at the extremes.
var (
	frequencyAnchors = []anchor{{0, 1}, {2, 4}, {5, 7}, {10, 10}}
	durationAnchors  = []anchor{{0, 1}, {24, 4}, {72, 7}, {168, 10}}
)

type anchor struct {
	x, y float64
}

// NewScorer constructs a Scorer.
func NewScorer(complaints ComplaintRepository, categories CategoryRepository, cfg config.SeverityConfig, logger logging.Logger) *Scorer {
	return &Scorer{
		complaints: complaints,
		categories: categories,
		cfg:        cfg,
		logger:     logger.Named("severity"),
	}
}

// Score computes the full five-factor severity for a draft.
func (s *Scorer) Score(ctx context.Context, draft *complaint.Draft, opts ScoreOptions) (complaint.SeverityResult, error) {
	freq, err := s.frequencyScore(ctx, draft, opts.ExcludeIDs)
	if err != nil {
		return complaint.SeverityResult{}, errors.Wrap(err, errors.ErrCodeTriageScoringFailed,
			"frequency factor failed")
	}
	dur, err := s.durationScore(ctx, draft, opts.ExcludeIDs)
	if err != nil {
		return complaint.SeverityResult{}, errors.Wrap(err, errors.ErrCodeTriageScoringFailed,
			"duration factor failed")
	}

	catUrgency := s.categoryUrgency(ctx, draft.Category)
	areaImpact := s.areaImpact(opts.Area)
	citizenUrgency := s.citizenUrgency(draft)

	factors := map[string]float64{
		FactorFrequency:       freq,
		FactorDuration:        dur,
		FactorCategoryUrgency: catUrgency,
		FactorAreaImpact:      areaImpact,
		FactorCitizenUrgency:  citizenUrgency,
	}

	weighted := s.cfg.FrequencyWeight*freq +
		s.cfg.DurationWeight*dur +
		s.cfg.CategoryUrgencyWeight*catUrgency +
		s.cfg.AreaImpactWeight*areaImpact +
		s.cfg.CitizenUrgencyWeight*citizenUrgency

	score := roundScore(clampScore(weighted))
	return complaint.SeverityResult{
		Score:        score,
		Priority:     complaint.PriorityFor(score),
		FactorScores: factors,
	}, nil
}

// QuickScore is the degraded synchronous estimate: it blends only the
// category urgency (0.6) and citizen urgency (0.4) factors, skipping every
// DB-dependent query.
func (s *Scorer) QuickScore(ctx context.Context, draft *complaint.Draft) complaint.SeverityResult {
	catUrgency := s.categoryUrgency(ctx, draft.Category)
	citizenUrgency := s.citizenUrgency(draft)

	score := roundScore(clampScore(0.6*catUrgency + 0.4*citizenUrgency))
	return complaint.SeverityResult{
		Score:    score,
		Priority: complaint.PriorityFor(score),
		FactorScores: map[string]float64{
			FactorCategoryUrgency: catUrgency,
			FactorCitizenUrgency:  citizenUrgency,
		},
		Quick: true,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Factors
// ─────────────────────────────────────────────────────────────────────────────

// frequencyScore counts other open, same-category complaints within 500m
// over the last 7 days and buckets the count.
func (s *Scorer) frequencyScore(ctx context.Context, draft *complaint.Draft, excludeIDs []common.ID) (float64, error) {
	count, err := s.complaints.CountNearby(ctx, NearbyQuery{
		Center:       draft.Location,
		RadiusMeters: 500,
		Since:        draft.CreatedAt.Add(-7 * 24 * time.Hour),
		Statuses:     complaint.OpenStatuses(),
		Category:     draft.Category,
		ExcludeIDs:   excludeIDs,
	})
	if err != nil {
		return 0, err
	}
	return interpolate(frequencyAnchors, float64(count)), nil
}

// durationScore measures hours since the cluster's first open report, or
// since the draft itself when no cluster exists.
func (s *Scorer) durationScore(ctx context.Context, draft *complaint.Draft, excludeIDs []common.ID) (float64, error) {
	first, ok, err := s.complaints.EarliestNearby(ctx, NearbyQuery{
		Center:       draft.Location,
		RadiusMeters: 500,
		Since:        draft.CreatedAt.Add(-7 * 24 * time.Hour),
		Statuses:     complaint.OpenStatuses(),
		Category:     draft.Category,
		ExcludeIDs:   excludeIDs,
	})
	if err != nil {
		return 0, err
	}
	opened := draft.CreatedAt
	if ok && first.Before(opened) {
		opened = first
	}
	hours := draft.CreatedAt.Sub(opened).Hours()
	return interpolate(durationAnchors, hours), nil
}

// categoryUrgency reads the per-category base score, falling back to the
// static table when the store has no entry.
func (s *Scorer) categoryUrgency(ctx context.Context, cat complaint.CategoryName) float64 {
	if cat == "" {
		return complaint.BaseUrgencyFor(complaint.CategoryOthers)
	}
	if s.categories != nil {
		if c, err := s.categories.GetCategory(ctx, cat); err == nil && c != nil {
			return c.BaseUrgencyScore
		}
	}
	return complaint.BaseUrgencyFor(cat)
}

// areaImpact multiplies the area-type base by the active boosts and
// normalizes onto [0,10].
func (s *Scorer) areaImpact(area AreaContext) float64 {
	base, ok := areaBaseMultiplier[area.Type]
	if !ok {
		base = areaBaseMultiplier[AreaResidential]
	}
	mult := base
	if area.NearSchool {
		mult *= 1.15
	}
	if area.NearHospital {
		mult *= 1.2
	}
	if area.HighTraffic {
		mult *= 1.1
	}
	if area.MainRoad {
		mult *= 1.05
	}
	score := mult / areaImpactNormalizer * 10
	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

// citizenUrgency scans the description for keyword tiers over a base of 5,
// then averages with the explicit citizen-reported level when supplied.
func (s *Scorer) citizenUrgency(draft *complaint.Draft) float64 {
	text := strings.ToLower(draft.Description)
	score := 5.0
	switch {
	case containsAny(text, s.cfg.CriticalKeywords):
		score += 4
	case containsAny(text, s.cfg.HighKeywords):
		score += 2.5
	case containsAny(text, s.cfg.MediumKeywords):
		score += 1
	}
	if score > 10 {
		score = 10
	}
	if draft.HasUrgency() {
		score = (score + draft.Urgency.Score()) / 2
	}
	return score
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// interpolate evaluates a piecewise-linear curve through the anchors,
// clamped at both ends.  Monotonic anchors give a monotonic factor.
func interpolate(anchors []anchor, x float64) float64 {
	if x <= anchors[0].x {
		return anchors[0].y
	}
	last := anchors[len(anchors)-1]
	if x >= last.x {
		return last.y
	}
	for i := 1; i < len(anchors); i++ {
		if x <= anchors[i].x {
			a, b := anchors[i-1], anchors[i]
			t := (x - a.x) / (b.x - a.x)
			return a.y + t*(b.y-a.y)
		}
	}
	return last.y
}

func clampScore(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
