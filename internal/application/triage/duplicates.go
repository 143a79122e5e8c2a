package triage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/similarity"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Detector
// ─────────────────────────────────────────────────────────────────────────────

// Detector scores a draft against geo/time-windowed candidate complaints.
// The read-then-decide check carries no locking: two simultaneous reports of
// the same incident can both be accepted and reconciled by a later pass.
type Detector struct {
	repo   ComplaintRepository
	engine *similarity.Engine
	cache  CachePort // nil disables memoization
	cfg    config.DuplicateConfig
	simTTL time.Duration
	logger logging.Logger
}

// CandidateOptions tunes a single duplicate check.
type CandidateOptions struct {
	RadiusMeters float64      // 0 means configured default; clamped to the cap
	WindowDays   int          // 0 means configured default
	Category     complaint.CategoryName
	ExcludeIDs   []common.ID
	Limit        int // 0 means configured default
}

// NewDetector constructs a Detector.  cache may be nil.
func NewDetector(repo ComplaintRepository, engine *similarity.Engine, cache CachePort, cfg config.DuplicateConfig, simTTL time.Duration, logger logging.Logger) *Detector {
	return &Detector{
		repo:   repo,
		engine: engine,
		cache:  cache,
		cfg:    cfg,
		simTTL: simTTL,
		logger: logger.Named("dedup"),
	}
}

// FindCandidates returns open complaints within the radius and time window,
// category-filtered when a category is given.
func (d *Detector) FindCandidates(ctx context.Context, point geo.Point, createdAt time.Time, opts CandidateOptions) ([]*complaint.Complaint, error) {
	radius := d.cfg.RadiusMeters
	if opts.RadiusMeters > 0 {
		radius = opts.RadiusMeters
	}
	if radius > d.cfg.RadiusCapMeters {
		radius = d.cfg.RadiusCapMeters
	}
	windowDays := d.cfg.WindowDays
	if opts.WindowDays > 0 {
		windowDays = opts.WindowDays
	}
	limit := d.cfg.ScoreLimit
	if opts.Limit > 0 {
		limit = opts.Limit
	}

	return d.repo.FindNearby(ctx, NearbyQuery{
		Center:       point,
		RadiusMeters: radius,
		Since:        createdAt.Add(-time.Duration(windowDays) * 24 * time.Hour),
		Statuses:     complaint.OpenStatuses(),
		Category:     opts.Category,
		ExcludeIDs:   opts.ExcludeIDs,
		Limit:        limit,
	})
}

// Score compares a draft against one candidate.
func (d *Detector) Score(ctx context.Context, draft *complaint.Draft, candidate *complaint.Complaint) complaint.DuplicateScore {
	text := d.textSimilarity(ctx, draft.Description, candidate.Description)

	dist := draft.Location.DistanceTo(candidate.Location)
	geoProx := 1 - dist/d.cfg.RadiusCapMeters
	if geoProx < 0 {
		geoProx = 0
	}

	catMatch := 0.0
	if draft.Category != "" && draft.Category == candidate.Category {
		catMatch = 1.0
	}

	deltaHours := math.Abs(draft.CreatedAt.Sub(candidate.CreatedAt).Hours())
	timeProx := math.Exp(-deltaHours / (float64(d.cfg.WindowDays) * 24 / 3))

	combined := d.cfg.TextWeight*text + d.cfg.GeoWeight*geoProx +
		d.cfg.CategoryWeight*catMatch + d.cfg.TimeWeight*timeProx

	return complaint.DuplicateScore{
		ComplaintID:    candidate.ID,
		TextSimilarity: text,
		GeoProximity:   geoProx,
		CategoryMatch:  catMatch,
		TimeProximity:  timeProx,
		CombinedScore:  combined,
		IsExactMatch:   text >= d.cfg.ExactMatchThreshold,
	}
}

// CheckForDuplicates retrieves candidates, scores each, keeps those above
// the report threshold sorted descending, and declares a duplicate iff the
// best combined score reaches the duplicate threshold.  Top candidates go
// to human review; the single best match supports automatic linking.
func (d *Detector) CheckForDuplicates(ctx context.Context, draft *complaint.Draft, opts CandidateOptions) (complaint.DuplicateResult, error) {
	candidates, err := d.FindCandidates(ctx, draft.Location, draft.CreatedAt, opts)
	if err != nil {
		return complaint.DuplicateResult{}, errors.Wrap(err, errors.ErrCodeTriageDedupFailed,
			"candidate retrieval failed")
	}

	scored := make([]complaint.DuplicateScore, 0, len(candidates))
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return complaint.DuplicateResult{}, errors.Wrap(err, errors.ErrCodeTriageDedupFailed,
				"duplicate check cancelled")
		}
		s := d.Score(ctx, draft, cand)
		if s.CombinedScore >= d.cfg.ReportThreshold {
			scored = append(scored, s)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CombinedScore > scored[j].CombinedScore
	})

	result := complaint.DuplicateResult{
		CandidatesChecked: len(candidates),
	}
	if len(scored) > 0 {
		best := scored[0]
		result.CombinedScore = best.CombinedScore
		result.IsExactMatch = best.IsExactMatch
		if best.CombinedScore >= d.cfg.DuplicateThreshold {
			result.IsDuplicate = true
			result.MatchedComplaintID = best.ComplaintID
		}
		top := scored
		if len(top) > d.cfg.TopCandidates {
			top = top[:d.cfg.TopCandidates]
		}
		result.TopCandidates = top
	}

	d.logger.Debug("duplicate check complete",
		logging.Int("candidates", len(candidates)),
		logging.Bool("is_duplicate", result.IsDuplicate),
		logging.Float64("best_score", result.CombinedScore))
	return result, nil
}

// Link records the duplicate relationship: duplicate_of on the new
// complaint plus an entry in the original's linked list, atomically.
func (d *Detector) Link(ctx context.Context, originalID, duplicateID common.ID) error {
	if originalID == duplicateID {
		return errors.InvalidParam("a complaint cannot be linked to itself")
	}
	if err := d.repo.LinkDuplicate(ctx, originalID, duplicateID); err != nil {
		return errors.Wrap(err, errors.ErrCodeDuplicateLinkFailed,
			"failed to link %s as duplicate of %s", duplicateID, originalID)
	}
	return nil
}

// textSimilarity memoizes the symmetric combined text score when a cache is
// wired; correctness never depends on a hit.
func (d *Detector) textSimilarity(ctx context.Context, a, b string) float64 {
	if d.cache == nil {
		return d.engine.Combined(a, b)
	}
	key := similarityKey(a, b)
	var cached float64
	if found, err := d.cache.Get(ctx, key, &cached); err == nil && found {
		return cached
	}
	score := d.engine.Combined(a, b)
	if err := d.cache.Set(ctx, key, score, d.simTTL); err != nil {
		d.logger.Debug("similarity cache write failed", logging.Err(err))
	}
	return score
}

// similarityKey orders the pair so score(A,B) and score(B,A) share a key.
func similarityKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	sum := sha256.Sum256([]byte(a + "\x00" + b))
	return "sim:" + hex.EncodeToString(sum[:16])
}
