// Package repositories holds the PostgreSQL implementations of the triage
// engine's repository ports.
package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// GeoUnitRepository is the PostgreSQL store for the geographic hierarchy.
type GeoUnitRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewGeoUnitRepository constructs a ready-to-use GeoUnitRepository.
func NewGeoUnitRepository(pool *pgxpool.Pool, logger logging.Logger) *GeoUnitRepository {
	return &GeoUnitRepository{pool: pool, logger: logger.Named("geo_unit_repo")}
}

const geoUnitColumns = `id, name, code, level, parent_id, city_id, center_lon, center_lat, boundary, is_active`

// ListUnits returns the full hierarchy snapshot, active and inactive.
func (r *GeoUnitRepository) ListUnits(ctx context.Context) ([]*geo.Unit, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+geoUnitColumns+` FROM geo_units ORDER BY level, name`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list geo units")
	}
	defer rows.Close()

	var units []*geo.Unit
	for rows.Next() {
		u, err := scanGeoUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to read geo units")
	}
	return units, nil
}

// GetUnit returns one unit by id.
func (r *GeoUnitRepository) GetUnit(ctx context.Context, id common.ID) (*geo.Unit, error) {
	u, err := scanGeoUnit(r.pool.QueryRow(ctx, `SELECT `+geoUnitColumns+` FROM geo_units WHERE id = $1`, id))
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return nil, errors.New(errors.ErrCodeGeoUnitNotFound, "geo unit %s not found", id)
		}
		return nil, err
	}
	return u, nil
}

// UpsertUnit inserts or replaces a unit.  Used by administrative tooling and
// the seed command.
func (r *GeoUnitRepository) UpsertUnit(ctx context.Context, u *geo.Unit) error {
	var boundaryJSON []byte
	if u.Boundary != nil {
		var err error
		boundaryJSON, err = json.Marshal(ringToPairs(u.Boundary.Ring()))
		if err != nil {
			return errors.Wrap(err, errors.CodeInvalidParam, "failed to encode boundary for unit %s", u.ID)
		}
	}

	var parentID interface{}
	if u.ParentID != "" {
		parentID = string(u.ParentID)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO geo_units (id, name, code, level, parent_id, city_id, center_lon, center_lat, boundary, is_active, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			code = EXCLUDED.code,
			level = EXCLUDED.level,
			parent_id = EXCLUDED.parent_id,
			city_id = EXCLUDED.city_id,
			center_lon = EXCLUDED.center_lon,
			center_lat = EXCLUDED.center_lat,
			boundary = EXCLUDED.boundary,
			is_active = EXCLUDED.is_active,
			updated_at = now()`,
		u.ID, u.Name, u.Code, u.Level, parentID, u.CityID,
		u.Center.Lon, u.Center.Lat, boundaryJSON, u.IsActive,
	)
	if err != nil {
		r.logger.Error("upsert geo unit failed", logging.String("id", string(u.ID)), logging.Err(err))
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to upsert geo unit %s", u.ID)
	}
	return nil
}

// scanGeoUnit reads one row into a validated geo.Unit.
func scanGeoUnit(row pgx.Row) (*geo.Unit, error) {
	var (
		id, name, code, level, cityID string
		parentID                      *string
		lon, lat                      float64
		boundaryJSON                  []byte
		isActive                      bool
	)
	err := row.Scan(&id, &name, &code, &level, &parentID, &cityID, &lon, &lat, &boundaryJSON, &isActive)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("geo unit not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan geo unit")
	}

	var ring []geo.Point
	if len(boundaryJSON) > 0 {
		var pairs [][2]float64
		if err := json.Unmarshal(boundaryJSON, &pairs); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeGeoInvalidPolygon, "stored boundary for unit %s is malformed", id)
		}
		ring = pairsToRing(pairs)
	}

	var parent common.ID
	if parentID != nil {
		parent = common.ID(*parentID)
	}

	return geo.NewUnit(common.ID(id), name, code, geo.Level(level), parent, common.ID(cityID),
		geo.Point{Lon: lon, Lat: lat}, ring, isActive)
}

// Boundaries are stored as JSON arrays of [lon, lat] pairs.

func ringToPairs(ring []geo.Point) [][2]float64 {
	pairs := make([][2]float64, len(ring))
	for i, p := range ring {
		pairs[i] = [2]float64{p.Lon, p.Lat}
	}
	return pairs
}

func pairsToRing(pairs [][2]float64) []geo.Point {
	ring := make([]geo.Point, len(pairs))
	for i, pair := range pairs {
		ring[i] = geo.Point{Lon: pair[0], Lat: pair[1]}
	}
	return ring
}
