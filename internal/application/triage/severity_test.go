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
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

func testSeverityConfig() config.SeverityConfig {
	return config.SeverityConfig{
		FrequencyWeight:       0.30,
		DurationWeight:        0.25,
		CategoryUrgencyWeight: 0.20,
		AreaImpactWeight:      0.15,
		CitizenUrgencyWeight:  0.10,
		CriticalKeywords:      config.DefaultCriticalKeywords,
		HighKeywords:          config.DefaultHighKeywords,
		MediumKeywords:        config.DefaultMediumKeywords,
	}
}

func newTestScorer(complaints ComplaintRepository, categories CategoryRepository) *Scorer {
	return NewScorer(complaints, categories, testSeverityConfig(), logging.NewNopLogger())
}

// quietCategoryRepo always misses so categoryUrgency falls back to the static
// table.
func quietCategoryRepo() *mockCategoryRepo {
	categories := &mockCategoryRepo{}
	categories.On("GetCategory", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.ErrCodeCategoryUnknown, "no such category"))
	return categories
}

func TestScorer_Score_IsolatedFreshComplaint(t *testing.T) {
	complaints := &mockComplaintRepo{}
	complaints.On("CountNearby", mock.Anything, mock.Anything).Return(0, nil)
	complaints.On("EarliestNearby", mock.Anything, mock.Anything).Return(time.Time{}, false, nil)

	s := newTestScorer(complaints, quietCategoryRepo())
	draft := mustDraft(t, "tap running dry since morning", geo.Point{Lon: 67.0, Lat: 24.86}, "water", time.Now().UTC())

	result, err := s.Score(context.Background(), draft, ScoreOptions{})
	require.NoError(t, err)

	// freq 1, dur 1, category 8 (water), area 5 (residential), citizen 5:
	// .30*1 + .25*1 + .20*8 + .15*5 + .10*5 = 3.4
	assert.InDelta(t, 3.4, result.Score, 1e-9)
	assert.Equal(t, complaint.PriorityLow, result.Priority)
	assert.False(t, result.Quick)
	assert.Equal(t, 1.0, result.FactorScores[FactorFrequency])
	assert.Equal(t, 1.0, result.FactorScores[FactorDuration])
	assert.Equal(t, 8.0, result.FactorScores[FactorCategoryUrgency])
	assert.Equal(t, 5.0, result.FactorScores[FactorAreaImpact])
	assert.Equal(t, 5.0, result.FactorScores[FactorCitizenUrgency])
}

func TestScorer_Score_HotCluster(t *testing.T) {
	now := time.Now().UTC()
	complaints := &mockComplaintRepo{}
	// Ten prior reports, the oldest a week old: both anchored factors max out.
	complaints.On("CountNearby", mock.Anything, mock.Anything).Return(10, nil)
	complaints.On("EarliestNearby", mock.Anything, mock.Anything).Return(now.Add(-168*time.Hour), true, nil)

	s := newTestScorer(complaints, quietCategoryRepo())
	draft, err := complaint.NewDraft("citizen-1", "gas leak, dangerous, evacuate now",
		geo.Point{Lon: 67.0, Lat: 24.86}, "water", "critical", now)
	require.NoError(t, err)

	result, err := s.Score(context.Background(), draft, ScoreOptions{
		Area: AreaContext{Type: AreaHospital, NearSchool: true, NearHospital: true, HighTraffic: true, MainRoad: true},
	})
	require.NoError(t, err)

	// freq 10, dur 10, category 8, area 10 (clamped), citizen (9+10)/2=9.5:
	// 3 + 2.5 + 1.6 + 1.5 + 0.95 = 9.55, which lands at 9.5 after rounding.
	assert.InDelta(t, 9.5, result.Score, 0.11)
	assert.Equal(t, complaint.PriorityCritical, result.Priority)
}

func TestScorer_Score_FrequencyInterpolation(t *testing.T) {
	assert.Equal(t, 1.0, interpolate(frequencyAnchors, 0))
	assert.Equal(t, 2.5, interpolate(frequencyAnchors, 1))
	assert.Equal(t, 4.0, interpolate(frequencyAnchors, 2))
	assert.Equal(t, 7.0, interpolate(frequencyAnchors, 5))
	assert.Equal(t, 8.2, interpolate(frequencyAnchors, 7))
	assert.Equal(t, 10.0, interpolate(frequencyAnchors, 10))
	assert.Equal(t, 10.0, interpolate(frequencyAnchors, 50))
}

func TestScorer_Score_DurationInterpolation(t *testing.T) {
	assert.Equal(t, 1.0, interpolate(durationAnchors, 0))
	assert.Equal(t, 4.0, interpolate(durationAnchors, 24))
	assert.Equal(t, 5.5, interpolate(durationAnchors, 48))
	assert.Equal(t, 7.0, interpolate(durationAnchors, 72))
	assert.Equal(t, 10.0, interpolate(durationAnchors, 168))
	assert.Equal(t, 10.0, interpolate(durationAnchors, 500))
}

func TestScorer_Score_RepoFailure(t *testing.T) {
	complaints := &mockComplaintRepo{}
	complaints.On("CountNearby", mock.Anything, mock.Anything).
		Return(0, errors.New(errors.CodeDatabaseError, "connection refused"))

	s := newTestScorer(complaints, quietCategoryRepo())
	draft := mustDraft(t, "pothole", geo.Point{Lon: 67.0, Lat: 24.86}, "roads", time.Now().UTC())
	_, err := s.Score(context.Background(), draft, ScoreOptions{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeTriageScoringFailed))
}

func TestScorer_QuickScore(t *testing.T) {
	s := newTestScorer(&mockComplaintRepo{}, quietCategoryRepo())
	draft, err := complaint.NewDraft("", "no water supply", geo.Point{Lon: 67.0, Lat: 24.86},
		"water", "high", time.Now().UTC())
	require.NoError(t, err)

	result := s.QuickScore(context.Background(), draft)

	// category 8, citizen (5+7)/2=6: 0.6*8 + 0.4*6 = 7.2
	assert.InDelta(t, 7.2, result.Score, 1e-9)
	assert.Equal(t, complaint.PriorityHigh, result.Priority)
	assert.True(t, result.Quick)
	assert.NotContains(t, result.FactorScores, FactorFrequency)
	assert.NotContains(t, result.FactorScores, FactorDuration)
}

func TestScorer_CategoryUrgencyFromStore(t *testing.T) {
	categories := &mockCategoryRepo{}
	stored, err := complaint.NewCategory(complaint.CategoryGarbage, 24, 6.5, nil)
	require.NoError(t, err)
	categories.On("GetCategory", mock.Anything, complaint.CategoryGarbage).Return(stored, nil)

	s := newTestScorer(&mockComplaintRepo{}, categories)
	assert.Equal(t, 6.5, s.categoryUrgency(context.Background(), complaint.CategoryGarbage))
}

func TestScorer_CategoryUrgencyFallbacks(t *testing.T) {
	s := newTestScorer(&mockComplaintRepo{}, quietCategoryRepo())
	ctx := context.Background()
	assert.Equal(t, 8.0, s.categoryUrgency(ctx, complaint.CategoryWater))
	assert.Equal(t, 3.0, s.categoryUrgency(ctx, ""))
}

func TestScorer_AreaImpact(t *testing.T) {
	s := newTestScorer(&mockComplaintRepo{}, quietCategoryRepo())

	// Residential base 1.0 over the 2.0 normalizer.
	assert.InDelta(t, 5.0, s.areaImpact(AreaContext{}), 1e-9)
	assert.InDelta(t, 6.5, s.areaImpact(AreaContext{Type: AreaHospital}), 1e-9)
	assert.InDelta(t, 3.5, s.areaImpact(AreaContext{Type: AreaIndustrial}), 1e-9)

	// Hospital area with every boost exceeds the normalizer and clamps.
	assert.Equal(t, 10.0, s.areaImpact(AreaContext{
		Type: AreaHospital, NearSchool: true, NearHospital: true, HighTraffic: true, MainRoad: true,
	}))
}

func TestScorer_CitizenUrgencyKeywordTiers(t *testing.T) {
	s := newTestScorer(&mockComplaintRepo{}, quietCategoryRepo())
	loc := geo.Point{Lon: 67.0, Lat: 24.86}
	now := time.Now().UTC()

	assert.Equal(t, 9.0, s.citizenUrgency(mustDraft(t, "gas leak at the corner shop", loc, "", now)))
	assert.Equal(t, 7.5, s.citizenUrgency(mustDraft(t, "burst pipe soaking the lane", loc, "", now)))
	assert.Equal(t, 6.0, s.citizenUrgency(mustDraft(t, "street light not working", loc, "", now)))
	assert.Equal(t, 5.0, s.citizenUrgency(mustDraft(t, "request new speed bumps", loc, "", now)))
}
