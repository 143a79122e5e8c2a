package geo

import (
	"sort"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Index
// ─────────────────────────────────────────────────────────────────────────────

// Index is a read-only snapshot of the geographic hierarchy supporting
// geofence and nearest-center queries.  It is immutable after construction
// and safe for concurrent use.  Only UC boundaries are geofenced; Town and
// City membership is inherited through the matched UC's ancestors.
type Index struct {
	byID  map[common.ID]*Unit
	ucs   []*Unit // active UCs only
	towns map[common.ID]*Unit
}

// Filter restricts nearest-center queries to a Town or City subtree.  Zero
// value means no restriction.
type Filter struct {
	TownID common.ID
	CityID common.ID
}

// Candidate is a unit annotated with its distance from the query point.
type Candidate struct {
	Unit           *Unit
	DistanceMeters float64
}

// NewIndex builds an Index from a hierarchy snapshot.  It verifies the
// denormalized city ids are consistent: every UC's CityID must equal its
// parent Town's CityID.
func NewIndex(units []*Unit) (*Index, error) {
	idx := &Index{
		byID:  make(map[common.ID]*Unit, len(units)),
		towns: make(map[common.ID]*Unit),
	}
	for _, u := range units {
		idx.byID[u.ID] = u
		if u.Level == LevelTown {
			idx.towns[u.ID] = u
		}
	}
	for _, u := range units {
		if u.Level != LevelUC {
			continue
		}
		town, ok := idx.towns[u.ParentID]
		if !ok {
			return nil, errors.New(errors.ErrCodeGeoHierarchyBroken,
				"uc %s references missing town %s", u.ID, u.ParentID)
		}
		if town.CityID != u.CityID {
			return nil, errors.New(errors.ErrCodeGeoHierarchyBroken,
				"uc %s city id %s does not match town %s city id %s",
				u.ID, u.CityID, town.ID, town.CityID)
		}
		if u.IsActive {
			idx.ucs = append(idx.ucs, u)
		}
	}
	return idx, nil
}

// Get returns the unit with the given id, or nil.
func (idx *Index) Get(id common.ID) *Unit {
	return idx.byID[id]
}

// FindContaining returns the active UC whose boundary contains pt, or nil
// when no boundary matches.  Absence is a normal outcome, not an error.
func (idx *Index) FindContaining(pt Point) *Unit {
	for _, uc := range idx.ucs {
		if uc.Boundary == nil {
			continue
		}
		min, max := uc.Boundary.BoundingBox()
		if pt.Lon < min.Lon || pt.Lon > max.Lon || pt.Lat < min.Lat || pt.Lat > max.Lat {
			continue
		}
		if uc.Boundary.Contains(pt) {
			return uc
		}
	}
	return nil
}

// FindNearestCenter returns the active UC with the minimal great-circle
// distance from pt to its center, restricted to maxDistanceMeters and the
// optional filter.  The boolean is false when nothing qualifies.
func (idx *Index) FindNearestCenter(pt Point, maxDistanceMeters float64, filter Filter) (*Unit, float64, bool) {
	var best *Unit
	bestDist := maxDistanceMeters
	for _, uc := range idx.ucs {
		if !idx.matchesFilter(uc, filter) {
			continue
		}
		d := pt.DistanceTo(uc.Center)
		if d <= bestDist && (best == nil || d < bestDist) {
			best = uc
			bestDist = d
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestDist, true
}

// NearbyCandidates returns up to limit active UCs sorted by ascending
// distance from pt.
func (idx *Index) NearbyCandidates(pt Point, limit int) []Candidate {
	if limit <= 0 {
		return nil
	}
	out := make([]Candidate, 0, len(idx.ucs))
	for _, uc := range idx.ucs {
		out = append(out, Candidate{Unit: uc, DistanceMeters: pt.DistanceTo(uc.Center)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DistanceMeters < out[j].DistanceMeters
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Ancestors resolves a UC's Town and City.
func (idx *Index) Ancestors(uc *Unit) (town, city *Unit, err error) {
	town = idx.byID[uc.ParentID]
	if town == nil {
		return nil, nil, errors.New(errors.ErrCodeGeoHierarchyBroken,
			"uc %s references missing town %s", uc.ID, uc.ParentID)
	}
	city = idx.byID[town.ParentID]
	if city == nil {
		return nil, nil, errors.New(errors.ErrCodeGeoHierarchyBroken,
			"town %s references missing city %s", town.ID, town.ParentID)
	}
	return town, city, nil
}

func (idx *Index) matchesFilter(uc *Unit, filter Filter) bool {
	if filter.CityID != "" && uc.CityID != filter.CityID {
		return false
	}
	if filter.TownID != "" && uc.ParentID != filter.TownID {
		return false
	}
	return true
}
