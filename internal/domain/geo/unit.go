package geo

import (
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Unit level
// ─────────────────────────────────────────────────────────────────────────────

// Level identifies the administrative tier of a geographic unit.  The
// hierarchy is strict containment: City holds Towns, Towns hold UCs.
type Level string

const (
	LevelCity Level = "city"
	LevelTown Level = "town"
	LevelUC   Level = "uc"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelCity, LevelTown, LevelUC:
		return true
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Unit
// ─────────────────────────────────────────────────────────────────────────────

// Unit is an administrative geographic unit.  Units are created and edited
// by administrative tooling; the triage engine consumes them read-only.
//
// CityID is denormalized onto every unit for query speed: a City's CityID is
// its own ID, a Town's is its parent, and a UC's must equal its parent
// Town's CityID.
type Unit struct {
	ID       common.ID `json:"id"`
	Name     string    `json:"name"`
	Code     string    `json:"code"`
	Level    Level     `json:"level"`
	ParentID common.ID `json:"parent_id,omitempty"`
	CityID   common.ID `json:"city_id"`
	Center   Point     `json:"center"`
	Boundary *Polygon  `json:"-"`
	IsActive bool      `json:"is_active"`
}

// NewUnit constructs a validated Unit.  boundaryRing may be nil for City and
// Town units; UCs are the geofenced tier and should normally carry one, but
// a UC without a boundary still participates in nearest-center queries.
func NewUnit(id common.ID, name, code string, level Level, parentID, cityID common.ID, center Point, boundaryRing []Point, active bool) (*Unit, error) {
	if err := id.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "unit id is invalid")
	}
	if name == "" {
		return nil, errors.InvalidParam("unit name cannot be empty")
	}
	if code == "" {
		return nil, errors.InvalidParam("unit code cannot be empty")
	}
	if !level.Valid() {
		return nil, errors.InvalidParam("unit level %q is not one of city|town|uc", level)
	}
	if level == LevelCity && parentID != "" {
		return nil, errors.InvalidParam("city unit %s cannot have a parent", id)
	}
	if level != LevelCity && parentID == "" {
		return nil, errors.InvalidParam("%s unit %s requires a parent", level, id)
	}
	if cityID == "" {
		return nil, errors.New(errors.ErrCodeGeoHierarchyBroken, "unit %s is missing its city id", id)
	}
	if level == LevelCity && cityID != id {
		return nil, errors.New(errors.ErrCodeGeoHierarchyBroken, "city unit %s must be its own city id", id)
	}
	if err := center.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGeoInvalidPoint, "unit %s center is invalid", id)
	}

	var boundary *Polygon
	if len(boundaryRing) > 0 {
		var err error
		boundary, err = NewPolygon(boundaryRing)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeGeoInvalidPolygon, "unit %s boundary is invalid", id)
		}
	}

	return &Unit{
		ID:       id,
		Name:     name,
		Code:     code,
		Level:    level,
		ParentID: parentID,
		CityID:   cityID,
		Center:   center,
		Boundary: boundary,
		IsActive: active,
	}, nil
}

// Contains reports whether pt falls inside this unit's boundary.  Units
// without a boundary never contain anything.
func (u *Unit) Contains(pt Point) bool {
	return u.Boundary != nil && u.Boundary.Contains(pt)
}
