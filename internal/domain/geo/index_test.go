package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

const (
	testCityID  = common.ID("11111111-1111-1111-1111-111111111111")
	testCityBID = common.ID("22222222-2222-2222-2222-222222222222")
	testTownID  = common.ID("33333333-3333-3333-3333-333333333333")
	testUC1ID   = common.ID("44444444-4444-4444-4444-444444444444")
	testUC2ID   = common.ID("55555555-5555-5555-5555-555555555555")
	testUC3ID   = common.ID("66666666-6666-6666-6666-666666666666")
)

func mustUnit(t *testing.T, id common.ID, name string, level Level, parentID, cityID common.ID, center Point, ring []Point, active bool) *Unit {
	t.Helper()
	u, err := NewUnit(id, name, name, level, parentID, cityID, center, ring, active)
	require.NoError(t, err)
	return u
}

// testHierarchy builds one city with one town and three UCs: uc1 geofenced
// around (67.00-67.02, 24.80-24.82), uc2 without a boundary at (67.05, 24.85),
// uc3 inactive but geofencing the same square as uc1.
func testHierarchy(t *testing.T) []*Unit {
	t.Helper()
	city := mustUnit(t, testCityID, "Karachi", LevelCity, "", testCityID, Point{67.0, 24.86}, nil, true)
	town := mustUnit(t, testTownID, "Saddar Town", LevelTown, testCityID, testCityID, Point{67.01, 24.84}, nil, true)
	uc1 := mustUnit(t, testUC1ID, "UC-1", LevelUC, testTownID, testCityID,
		Point{67.01, 24.81}, squareRing(67.00, 24.80, 67.02, 24.82), true)
	uc2 := mustUnit(t, testUC2ID, "UC-2", LevelUC, testTownID, testCityID,
		Point{67.05, 24.85}, nil, true)
	uc3 := mustUnit(t, testUC3ID, "UC-3", LevelUC, testTownID, testCityID,
		Point{67.01, 24.81}, squareRing(67.00, 24.80, 67.02, 24.82), false)
	return []*Unit{city, town, uc1, uc2, uc3}
}

func TestNewIndex_MissingTown(t *testing.T) {
	city := mustUnit(t, testCityID, "Karachi", LevelCity, "", testCityID, Point{67.0, 24.86}, nil, true)
	orphan := mustUnit(t, testUC1ID, "UC-1", LevelUC, testTownID, testCityID, Point{67.01, 24.81}, nil, true)
	_, err := NewIndex([]*Unit{city, orphan})
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeGeoHierarchyBroken))
}

func TestNewIndex_CityIDMismatch(t *testing.T) {
	city := mustUnit(t, testCityID, "Karachi", LevelCity, "", testCityID, Point{67.0, 24.86}, nil, true)
	town := mustUnit(t, testTownID, "Saddar Town", LevelTown, testCityID, testCityID, Point{67.01, 24.84}, nil, true)
	// UC claims a different city than its parent town.
	uc := mustUnit(t, testUC1ID, "UC-1", LevelUC, testTownID, testCityBID, Point{67.01, 24.81}, nil, true)
	_, err := NewIndex([]*Unit{city, town, uc})
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeGeoHierarchyBroken))
}

func TestIndex_FindContaining(t *testing.T) {
	idx, err := NewIndex(testHierarchy(t))
	require.NoError(t, err)

	hit := idx.FindContaining(Point{67.01, 24.81})
	require.NotNil(t, hit)
	assert.Equal(t, testUC1ID, hit.ID)

	assert.Nil(t, idx.FindContaining(Point{67.10, 24.90}))
}

func TestIndex_FindContaining_SkipsInactive(t *testing.T) {
	city := mustUnit(t, testCityID, "Karachi", LevelCity, "", testCityID, Point{67.0, 24.86}, nil, true)
	town := mustUnit(t, testTownID, "Saddar Town", LevelTown, testCityID, testCityID, Point{67.01, 24.84}, nil, true)
	inactive := mustUnit(t, testUC3ID, "UC-3", LevelUC, testTownID, testCityID,
		Point{67.01, 24.81}, squareRing(67.00, 24.80, 67.02, 24.82), false)
	idx, err := NewIndex([]*Unit{city, town, inactive})
	require.NoError(t, err)

	assert.Nil(t, idx.FindContaining(Point{67.01, 24.81}))
}

func TestIndex_FindNearestCenter(t *testing.T) {
	idx, err := NewIndex(testHierarchy(t))
	require.NoError(t, err)

	// Just east of uc2's center, far from uc1.
	pt := Point{67.06, 24.85}
	uc, dist, ok := idx.FindNearestCenter(pt, 20000, Filter{})
	require.True(t, ok)
	assert.Equal(t, testUC2ID, uc.ID)
	assert.InDelta(t, 1009, dist, 10)

	// Bound tighter than the real distance: nothing qualifies.
	_, _, ok = idx.FindNearestCenter(pt, 500, Filter{})
	assert.False(t, ok)
}

func TestIndex_FindNearestCenter_Filter(t *testing.T) {
	idx, err := NewIndex(testHierarchy(t))
	require.NoError(t, err)

	_, _, ok := idx.FindNearestCenter(Point{67.06, 24.85}, 20000, Filter{CityID: testCityBID})
	assert.False(t, ok)

	uc, _, ok := idx.FindNearestCenter(Point{67.06, 24.85}, 20000, Filter{TownID: testTownID})
	require.True(t, ok)
	assert.Equal(t, testUC2ID, uc.ID)
}

func TestIndex_NearbyCandidates(t *testing.T) {
	idx, err := NewIndex(testHierarchy(t))
	require.NoError(t, err)

	out := idx.NearbyCandidates(Point{67.05, 24.85}, 1)
	require.Len(t, out, 1)
	assert.Equal(t, testUC2ID, out[0].Unit.ID)

	all := idx.NearbyCandidates(Point{67.05, 24.85}, 10)
	require.Len(t, all, 2) // inactive uc3 is excluded
	assert.LessOrEqual(t, all[0].DistanceMeters, all[1].DistanceMeters)

	assert.Nil(t, idx.NearbyCandidates(Point{67.05, 24.85}, 0))
}

func TestIndex_Ancestors(t *testing.T) {
	idx, err := NewIndex(testHierarchy(t))
	require.NoError(t, err)

	uc := idx.Get(testUC1ID)
	require.NotNil(t, uc)
	town, city, err := idx.Ancestors(uc)
	require.NoError(t, err)
	assert.Equal(t, testTownID, town.ID)
	assert.Equal(t, testCityID, city.ID)
}
