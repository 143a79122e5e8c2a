package triage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/similarity"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/database/memory"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

func testDuplicateConfig() config.DuplicateConfig {
	return config.DuplicateConfig{
		RadiusMeters:        200,
		RadiusCapMeters:     500,
		WindowDays:          7,
		ScoreLimit:          20,
		TopCandidates:       5,
		ReportThreshold:     0.3,
		DuplicateThreshold:  0.75,
		ExactMatchThreshold: 0.95,
		TextWeight:          0.5,
		GeoWeight:           0.25,
		CategoryWeight:      0.15,
		TimeWeight:          0.10,
	}
}

func newTestDetector(repo ComplaintRepository, cache CachePort) *Detector {
	return NewDetector(repo, similarity.NewDefaultEngine(), cache, testDuplicateConfig(),
		time.Minute, logging.NewNopLogger())
}

func mustDraft(t *testing.T, description string, loc geo.Point, category string, createdAt time.Time) *complaint.Draft {
	t.Helper()
	d, err := complaint.NewDraft("citizen-1", description, loc, category, "", createdAt)
	require.NoError(t, err)
	return d
}

func storedComplaint(id common.ID, description string, loc geo.Point, category complaint.CategoryName, createdAt time.Time) *complaint.Complaint {
	return &complaint.Complaint{
		ID:          id,
		Description: description,
		Location:    loc,
		Category:    category,
		Status:      complaint.StatusReported,
		CreatedAt:   createdAt,
	}
}

// latOffsetMeters shifts a latitude north by the given ground distance.
func latOffsetMeters(meters float64) float64 {
	return meters / geo.EarthRadiusMeters * 180 / 3.141592653589793
}

func TestDetector_CheckForDuplicates_PotholeReports(t *testing.T) {
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	loc := geo.Point{Lon: 67.0011, Lat: 24.8607}
	draft := mustDraft(t, "pothole on Main St near school", loc, "roads", base)

	// Same incident reported two hours earlier, 50m up the street.
	candidate := storedComplaint(common.NewID(), "big pothole Main Street by the school",
		geo.Point{Lon: loc.Lon, Lat: loc.Lat + latOffsetMeters(50)}, complaint.CategoryRoads,
		base.Add(-2*time.Hour))

	repo := &mockComplaintRepo{}
	repo.On("FindNearby", mock.Anything, mock.MatchedBy(func(q NearbyQuery) bool {
		return q.RadiusMeters == 200 && q.Category == complaint.CategoryRoads && q.Limit == 20
	})).Return([]*complaint.Complaint{candidate}, nil)

	d := newTestDetector(repo, nil)
	result, err := d.CheckForDuplicates(context.Background(), draft, CandidateOptions{Category: draft.Category})
	require.NoError(t, err)

	assert.True(t, result.IsDuplicate)
	assert.False(t, result.IsExactMatch)
	assert.Equal(t, candidate.ID, result.MatchedComplaintID)
	assert.Equal(t, 1, result.CandidatesChecked)
	assert.InDelta(t, 0.766, result.CombinedScore, 0.01)

	require.Len(t, result.TopCandidates, 1)
	top := result.TopCandidates[0]
	assert.InDelta(t, 0.589, top.TextSimilarity, 0.001)
	assert.InDelta(t, 0.90, top.GeoProximity, 0.001)
	assert.Equal(t, 1.0, top.CategoryMatch)
	assert.InDelta(t, 0.965, top.TimeProximity, 0.001)
}

func TestDetector_Score_ExactMatch(t *testing.T) {
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	loc := geo.Point{Lon: 67.0011, Lat: 24.8607}
	draft := mustDraft(t, "water pipe burst near the park", loc, "water", base)
	candidate := storedComplaint(common.NewID(), "water pipe burst near the park", loc,
		complaint.CategoryWater, base)

	d := newTestDetector(&mockComplaintRepo{}, nil)
	s := d.Score(context.Background(), draft, candidate)
	assert.True(t, s.IsExactMatch)
	assert.InDelta(t, 1.0, s.TextSimilarity, 1e-9)
	assert.InDelta(t, 1.0, s.GeoProximity, 1e-9)
	assert.Equal(t, 1.0, s.CategoryMatch)
	assert.InDelta(t, 1.0, s.TimeProximity, 1e-9)
	assert.InDelta(t, 1.0, s.CombinedScore, 1e-9)
}

func TestDetector_Score_GeoDecayNormalizedByCap(t *testing.T) {
	base := time.Now().UTC()
	loc := geo.Point{Lon: 67.0011, Lat: 24.8607}
	draft := mustDraft(t, "pothole", loc, "roads", base)

	at := func(meters float64) *complaint.Complaint {
		return storedComplaint(common.NewID(), "pothole",
			geo.Point{Lon: loc.Lon, Lat: loc.Lat + latOffsetMeters(meters)},
			complaint.CategoryRoads, base)
	}

	d := newTestDetector(&mockComplaintRepo{}, nil)
	ctx := context.Background()
	assert.InDelta(t, 0.5, d.Score(ctx, draft, at(250)).GeoProximity, 0.001)
	assert.InDelta(t, 0.0, d.Score(ctx, draft, at(500)).GeoProximity, 0.001)
	// Beyond the cap the factor floors at zero instead of going negative.
	assert.Equal(t, 0.0, d.Score(ctx, draft, at(800)).GeoProximity)
}

func TestDetector_CheckForDuplicates_BelowReportThresholdDropped(t *testing.T) {
	base := time.Now().UTC()
	loc := geo.Point{Lon: 67.0011, Lat: 24.8607}
	draft := mustDraft(t, "garbage pile rotting", loc, "garbage", base)

	// Unrelated text, different category, across the radius, six days old.
	candidate := storedComplaint(common.NewID(), "transformer sparking wires",
		geo.Point{Lon: loc.Lon, Lat: loc.Lat + latOffsetMeters(450)},
		complaint.CategoryElectricity, base.Add(-6*24*time.Hour))

	repo := &mockComplaintRepo{}
	repo.On("FindNearby", mock.Anything, mock.Anything).Return([]*complaint.Complaint{candidate}, nil)

	d := newTestDetector(repo, nil)
	result, err := d.CheckForDuplicates(context.Background(), draft, CandidateOptions{})
	require.NoError(t, err)
	assert.False(t, result.IsDuplicate)
	assert.Equal(t, 1, result.CandidatesChecked)
	assert.Empty(t, result.TopCandidates)
	assert.Equal(t, 0.0, result.CombinedScore)
}

func TestDetector_CheckForDuplicates_TopCandidatesCut(t *testing.T) {
	base := time.Now().UTC()
	loc := geo.Point{Lon: 67.0011, Lat: 24.8607}
	draft := mustDraft(t, "pothole on main road", loc, "roads", base)

	candidates := make([]*complaint.Complaint, 7)
	for i := range candidates {
		candidates[i] = storedComplaint(common.NewID(), "pothole on main road", loc,
			complaint.CategoryRoads, base.Add(-time.Duration(i)*time.Hour))
	}
	repo := &mockComplaintRepo{}
	repo.On("FindNearby", mock.Anything, mock.Anything).Return(candidates, nil)

	d := newTestDetector(repo, nil)
	result, err := d.CheckForDuplicates(context.Background(), draft, CandidateOptions{})
	require.NoError(t, err)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, 7, result.CandidatesChecked)
	assert.Len(t, result.TopCandidates, 5)
	// Sorted descending by combined score.
	for i := 1; i < len(result.TopCandidates); i++ {
		assert.GreaterOrEqual(t, result.TopCandidates[i-1].CombinedScore, result.TopCandidates[i].CombinedScore)
	}
}

func TestDetector_CheckForDuplicates_RepoFailure(t *testing.T) {
	repo := &mockComplaintRepo{}
	repo.On("FindNearby", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.CodeDatabaseError, "connection refused"))

	d := newTestDetector(repo, nil)
	draft := mustDraft(t, "pothole", geo.Point{Lon: 67.0, Lat: 24.86}, "", time.Now().UTC())
	_, err := d.CheckForDuplicates(context.Background(), draft, CandidateOptions{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeTriageDedupFailed))
}

func TestDetector_FindCandidates_RadiusClampedToCap(t *testing.T) {
	repo := &mockComplaintRepo{}
	repo.On("FindNearby", mock.Anything, mock.MatchedBy(func(q NearbyQuery) bool {
		return q.RadiusMeters == 500
	})).Return([]*complaint.Complaint{}, nil)

	d := newTestDetector(repo, nil)
	_, err := d.FindCandidates(context.Background(), geo.Point{Lon: 67.0, Lat: 24.86},
		time.Now().UTC(), CandidateOptions{RadiusMeters: 2000})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDetector_Link(t *testing.T) {
	repo := &mockComplaintRepo{}
	original, duplicate := common.NewID(), common.NewID()
	repo.On("LinkDuplicate", mock.Anything, original, duplicate).Return(nil)

	d := newTestDetector(repo, nil)
	assert.NoError(t, d.Link(context.Background(), original, duplicate))

	err := d.Link(context.Background(), original, original)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	repo.AssertNumberOfCalls(t, "LinkDuplicate", 1)
}

func TestDetector_TextSimilarityMemoized(t *testing.T) {
	cache := memory.NewCache(16, time.Minute)
	d := newTestDetector(&mockComplaintRepo{}, cache)
	ctx := context.Background()

	a, b := "pothole on main road", "pothole near main road"
	first := d.textSimilarity(ctx, a, b)
	// Symmetric key: the reversed pair hits the same entry.
	second := d.textSimilarity(ctx, b, a)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())
}
