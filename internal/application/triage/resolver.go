package triage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
	"golang.org/x/sync/singleflight"
)

// ─────────────────────────────────────────────────────────────────────────────
// Resolver
// ─────────────────────────────────────────────────────────────────────────────

// Resolver assigns a complaint's coordinates to a UC/Town/City triple using
// a geofence test first and a confidence-graded nearest-center fallback.
type Resolver struct {
	repo   GeoUnitRepository
	cfg    config.AssignmentConfig
	logger logging.Logger

	// The hierarchy snapshot is rebuilt at most once per ttl; singleflight
	// collapses concurrent rebuilds.
	mu        sync.RWMutex
	index     *geo.Index
	expiresAt time.Time
	ttl       time.Duration
	group     singleflight.Group
}

// ResolveOptions tunes a single assignment call.
type ResolveOptions struct {
	// MaxDistanceMeters overrides the configured nearest-fallback bound
	// when positive.
	MaxDistanceMeters float64

	// Filter restricts the nearest search to a Town or City subtree.
	Filter geo.Filter
}

// NearbyCandidate is a UC annotated for manual-selection presentation.
type NearbyCandidate struct {
	UCID           common.ID            `json:"uc_id"`
	Name           string               `json:"name"`
	Code           string               `json:"code"`
	DistanceMeters float64              `json:"distance_meters"`
	Confidence     complaint.Confidence `json:"confidence"`
}

// NewResolver constructs a Resolver.  indexTTL bounds how stale the
// hierarchy snapshot may be; non-positive values default to one hour.
func NewResolver(repo GeoUnitRepository, cfg config.AssignmentConfig, indexTTL time.Duration, logger logging.Logger) *Resolver {
	if indexTTL <= 0 {
		indexTTL = time.Hour
	}
	return &Resolver{
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("resolver"),
		ttl:    indexTTL,
	}
}

// Assign resolves point to an Assignment.  A result with method "none" is a
// normal outcome near jurisdiction edges or in unmapped territory; the
// caller must then require manual UC selection.
func (r *Resolver) Assign(ctx context.Context, point geo.Point, opts ResolveOptions) (complaint.Assignment, error) {
	if err := point.Validate(); err != nil {
		return complaint.NoAssignment(), err
	}
	idx, err := r.loadIndex(ctx)
	if err != nil {
		return complaint.NoAssignment(), err
	}

	// Stage 1: geofence.
	if uc := idx.FindContaining(point); uc != nil {
		town, city, err := idx.Ancestors(uc)
		if err != nil {
			return complaint.NoAssignment(), err
		}
		return complaint.Assignment{
			UCID:       uc.ID,
			TownID:     town.ID,
			CityID:     city.ID,
			Method:     complaint.MethodGeofence,
			Confidence: complaint.ConfidenceExact,
		}, nil
	}

	// Stage 2: nearest center within the distance bound.
	maxDist := r.cfg.MaxDistanceMeters
	if opts.MaxDistanceMeters > 0 {
		maxDist = opts.MaxDistanceMeters
	}
	if uc, dist, ok := idx.FindNearestCenter(point, maxDist, opts.Filter); ok {
		town, city, err := idx.Ancestors(uc)
		if err != nil {
			return complaint.NoAssignment(), err
		}
		d := dist
		return complaint.Assignment{
			UCID:           uc.ID,
			TownID:         town.ID,
			CityID:         city.ID,
			Method:         complaint.MethodNearest,
			Confidence:     r.confidenceFor(dist),
			DistanceMeters: &d,
		}, nil
	}

	r.logger.Debug("no jurisdiction match", logging.String("point", point.String()))
	return complaint.NoAssignment(), nil
}

// NearbyCandidates returns up to limit active UCs sorted by ascending
// distance, for presentation when automatic assignment is declined.
func (r *Resolver) NearbyCandidates(ctx context.Context, point geo.Point, limit int) ([]NearbyCandidate, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}
	idx, err := r.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	raw := idx.NearbyCandidates(point, limit)
	out := make([]NearbyCandidate, 0, len(raw))
	for _, c := range raw {
		out = append(out, NearbyCandidate{
			UCID:           c.Unit.ID,
			Name:           c.Unit.Name,
			Code:           c.Unit.Code,
			DistanceMeters: c.DistanceMeters,
			Confidence:     r.confidenceFor(c.DistanceMeters),
		})
	}
	return out, nil
}

// ValidateManualChoice checks a human-selected UC.  The returned warning is
// advisory only: a selection far from the reported point is accepted but
// flagged for the reviewer.
func (r *Resolver) ValidateManualChoice(ctx context.Context, ucID common.ID, point geo.Point) (ok bool, warning string, err error) {
	if err := point.Validate(); err != nil {
		return false, "", err
	}
	idx, err := r.loadIndex(ctx)
	if err != nil {
		return false, "", err
	}
	uc := idx.Get(ucID)
	if uc == nil || uc.Level != geo.LevelUC {
		return false, "", errors.New(errors.ErrCodeGeoUnitNotFound, "uc %s not found", ucID)
	}
	if !uc.IsActive {
		return false, "", errors.New(errors.ErrCodeGeoUnitInactive, "uc %s is inactive", ucID)
	}
	dist := point.DistanceTo(uc.Center)
	if dist > r.cfg.ManualWarnDistanceMeters {
		warning = fmt.Sprintf("selected uc %s is %.0fm from the reported location", ucID, dist)
	}
	return true, warning, nil
}

// confidenceFor buckets a nearest-center distance.  Edges are exact:
// 1999m is high, 2000m is medium.
func (r *Resolver) confidenceFor(distanceMeters float64) complaint.Confidence {
	switch {
	case distanceMeters < r.cfg.HighConfidenceMeters:
		return complaint.ConfidenceHigh
	case distanceMeters <= r.cfg.MediumConfidenceMeters:
		return complaint.ConfidenceMedium
	default:
		return complaint.ConfidenceLow
	}
}

// Invalidate drops the cached hierarchy snapshot; the next call rebuilds it.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.index = nil
	r.expiresAt = time.Time{}
	r.mu.Unlock()
}

func (r *Resolver) loadIndex(ctx context.Context) (*geo.Index, error) {
	r.mu.RLock()
	if r.index != nil && time.Now().Before(r.expiresAt) {
		idx := r.index
		r.mu.RUnlock()
		return idx, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do("geo-index", func() (interface{}, error) {
		units, err := r.repo.ListUnits(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeTriageResolveFailed, "failed to load geographic units")
		}
		idx, err := geo.NewIndex(units)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.index = idx
		r.expiresAt = time.Now().Add(r.ttl)
		r.mu.Unlock()
		r.logger.Debug("rebuilt geo index", logging.Int("units", len(units)))
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*geo.Index), nil
}
