package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/application/triage"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// metersPerDegreeLat is close enough for bounding-box prefilters; the exact
// great-circle distance is always re-checked in Go.
const metersPerDegreeLat = 111320.0

// ComplaintRepository is the PostgreSQL store for complaints.  Geo queries
// run a bounding-box prefilter in SQL and an exact Haversine check in Go.
type ComplaintRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewComplaintRepository constructs a ready-to-use ComplaintRepository.
func NewComplaintRepository(pool *pgxpool.Pool, logger logging.Logger) *ComplaintRepository {
	return &ComplaintRepository{pool: pool, logger: logger.Named("complaint_repo")}
}

const complaintColumns = `id, citizen_id, description, lon, lat, category, urgency, status,
	triage, history, duplicate_of, linked_complaints, reopen_requested, created_at, updated_at`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD
// ─────────────────────────────────────────────────────────────────────────────

// GetComplaint returns one complaint by id.
func (r *ComplaintRepository) GetComplaint(ctx context.Context, id common.ID) (*complaint.Complaint, error) {
	c, err := scanComplaint(r.pool.QueryRow(ctx,
		`SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeComplaintNotFound, "complaint %s not found", id)
	}
	return c, err
}

// SaveComplaint inserts a new complaint.
func (r *ComplaintRepository) SaveComplaint(ctx context.Context, c *complaint.Complaint) error {
	triageJSON, historyJSON, linkedJSON, err := encodeComplaint(c)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO complaints (
			id, citizen_id, description, lon, lat, category, urgency, status,
			triage, history, duplicate_of, linked_complaints, reopen_requested,
			severity, priority, needs_review, sla_deadline, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,
			$9,$10,$11,$12,$13,
			$14,$15,$16,$17,$18,$19
		)`,
		c.ID, c.CitizenID, c.Description, c.Location.Lon, c.Location.Lat, c.Category, c.Urgency, c.Status,
		triageJSON, historyJSON, nullableID(c.DuplicateOf), linkedJSON, c.ReopenRequested,
		c.Triage.Severity.Score, c.Triage.Severity.Priority, c.Triage.NeedsReview, c.Triage.SLA.Deadline,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("insert complaint failed", logging.String("id", string(c.ID)), logging.Err(err))
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to insert complaint")
	}
	return nil
}

// UpdateComplaint replaces the mutable fields of a stored complaint.
func (r *ComplaintRepository) UpdateComplaint(ctx context.Context, c *complaint.Complaint) error {
	triageJSON, historyJSON, linkedJSON, err := encodeComplaint(c)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE complaints SET
			status = $2, triage = $3, history = $4, duplicate_of = $5,
			linked_complaints = $6, reopen_requested = $7,
			severity = $8, priority = $9, needs_review = $10, sla_deadline = $11,
			updated_at = $12
		WHERE id = $1`,
		c.ID, c.Status, triageJSON, historyJSON, nullableID(c.DuplicateOf),
		linkedJSON, c.ReopenRequested,
		c.Triage.Severity.Score, c.Triage.Severity.Priority, c.Triage.NeedsReview, c.Triage.SLA.Deadline,
		c.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to update complaint %s", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeComplaintNotFound, "complaint %s not found", c.ID)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Geo window queries
// ─────────────────────────────────────────────────────────────────────────────

// FindNearby returns complaints matching the query, nearest first.
func (r *ComplaintRepository) FindNearby(ctx context.Context, q triage.NearbyQuery) ([]*complaint.Complaint, error) {
	where, args := nearbyConditions(q)
	sql := `SELECT ` + complaintColumns + ` FROM complaints WHERE ` + strings.Join(where, " AND ")

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query nearby complaints")
	}
	defer rows.Close()

	type hit struct {
		c    *complaint.Complaint
		dist float64
	}
	var hits []hit
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		d := q.Center.DistanceTo(c.Location)
		if d <= q.RadiusMeters {
			hits = append(hits, hit{c: c, dist: d})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to read nearby complaints")
	}

	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].dist < hits[j-1].dist; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]*complaint.Complaint, len(hits))
	for i, h := range hits {
		out[i] = h.c
	}
	return out, nil
}

// CountNearby returns only the match count for the query.
func (r *ComplaintRepository) CountNearby(ctx context.Context, q triage.NearbyQuery) (int, error) {
	lons, lats, err := r.nearbyCoords(ctx, q)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range lons {
		if q.Center.DistanceTo(geo.Point{Lon: lons[i], Lat: lats[i]}) <= q.RadiusMeters {
			count++
		}
	}
	return count, nil
}

// EarliestNearby returns the oldest CreatedAt among matches.
func (r *ComplaintRepository) EarliestNearby(ctx context.Context, q triage.NearbyQuery) (time.Time, bool, error) {
	where, args := nearbyConditions(q)
	sql := `SELECT lon, lat, created_at FROM complaints WHERE ` + strings.Join(where, " AND ")

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return time.Time{}, false, errors.Wrap(err, errors.CodeDatabaseError, "failed to query nearby complaints")
	}
	defer rows.Close()

	var (
		earliest time.Time
		found    bool
	)
	for rows.Next() {
		var (
			lon, lat  float64
			createdAt time.Time
		)
		if err := rows.Scan(&lon, &lat, &createdAt); err != nil {
			return time.Time{}, false, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan nearby complaint")
		}
		if q.Center.DistanceTo(geo.Point{Lon: lon, Lat: lat}) > q.RadiusMeters {
			continue
		}
		if !found || createdAt.Before(earliest) {
			earliest = createdAt
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return time.Time{}, false, errors.Wrap(err, errors.CodeDatabaseError, "failed to read nearby complaints")
	}
	return earliest, found, nil
}

func (r *ComplaintRepository) nearbyCoords(ctx context.Context, q triage.NearbyQuery) ([]float64, []float64, error) {
	where, args := nearbyConditions(q)
	sql := `SELECT lon, lat FROM complaints WHERE ` + strings.Join(where, " AND ")

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query nearby complaints")
	}
	defer rows.Close()

	var lons, lats []float64
	for rows.Next() {
		var lon, lat float64
		if err := rows.Scan(&lon, &lat); err != nil {
			return nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan nearby complaint")
		}
		lons = append(lons, lon)
		lats = append(lats, lat)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to read nearby complaints")
	}
	return lons, lats, nil
}

// nearbyConditions builds the WHERE clause for a NearbyQuery: bounding box,
// time window, status set, optional category, and exclusions.
func nearbyConditions(q triage.NearbyQuery) ([]string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	nextArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	dLat := q.RadiusMeters / metersPerDegreeLat
	cosLat := math.Cos(q.Center.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01 // near the poles every longitude is close
	}
	dLon := q.RadiusMeters / (metersPerDegreeLat * cosLat)

	conditions = append(conditions,
		fmt.Sprintf("lat BETWEEN %s AND %s", nextArg(q.Center.Lat-dLat), nextArg(q.Center.Lat+dLat)),
		fmt.Sprintf("lon BETWEEN %s AND %s", nextArg(q.Center.Lon-dLon), nextArg(q.Center.Lon+dLon)),
	)

	if !q.Since.IsZero() {
		conditions = append(conditions, fmt.Sprintf("created_at >= %s", nextArg(q.Since)))
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("status = ANY(%s)", nextArg(statuses)))
	}
	if q.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = %s", nextArg(string(q.Category))))
	}
	if len(q.ExcludeIDs) > 0 {
		ids := make([]string, len(q.ExcludeIDs))
		for i, id := range q.ExcludeIDs {
			ids[i] = string(id)
		}
		conditions = append(conditions, fmt.Sprintf("NOT (id = ANY(%s))", nextArg(ids)))
	}
	return conditions, args
}

// ─────────────────────────────────────────────────────────────────────────────
// Duplicate linking
// ─────────────────────────────────────────────────────────────────────────────

// LinkDuplicate atomically sets duplicate_of on the duplicate and appends it
// to the original's linked list.  Partial links are never persisted.
func (r *ComplaintRepository) LinkDuplicate(ctx context.Context, originalID, duplicateID common.ID) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to begin link transaction")
	}
	defer tx.Rollback(ctx)

	var existing *string
	err = tx.QueryRow(ctx,
		`SELECT duplicate_of FROM complaints WHERE id = $1 FOR UPDATE`, duplicateID).Scan(&existing)
	if err == pgx.ErrNoRows {
		return errors.New(errors.ErrCodeComplaintNotFound, "complaint %s not found", duplicateID)
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to lock complaint %s", duplicateID)
	}
	if existing != nil && *existing != "" {
		return errors.New(errors.ErrCodeComplaintAlreadyLinked,
			"complaint %s is already linked to %s", duplicateID, *existing)
	}

	var linkedJSON []byte
	err = tx.QueryRow(ctx,
		`SELECT linked_complaints FROM complaints WHERE id = $1 FOR UPDATE`, originalID).Scan(&linkedJSON)
	if err == pgx.ErrNoRows {
		return errors.New(errors.ErrCodeComplaintNotFound, "complaint %s not found", originalID)
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to lock complaint %s", originalID)
	}

	var linked []common.ID
	if len(linkedJSON) > 0 {
		if err := json.Unmarshal(linkedJSON, &linked); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "stored linked list for %s is malformed", originalID)
		}
	}
	already := false
	for _, id := range linked {
		if id == duplicateID {
			already = true
			break
		}
	}
	if !already {
		linked = append(linked, duplicateID)
	}
	newLinked, err := json.Marshal(linked)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to encode linked list for %s", originalID)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE complaints SET duplicate_of = $2, updated_at = now() WHERE id = $1`,
		duplicateID, originalID); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to set duplicate link on %s", duplicateID)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE complaints SET linked_complaints = $2, updated_at = now() WHERE id = $1`,
		originalID, newLinked); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to append linked complaint on %s", originalID)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to commit duplicate link")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SLA sweep
// ─────────────────────────────────────────────────────────────────────────────

// FindBreached returns open complaints whose SLA deadline passed before now,
// oldest deadline first.
func (r *ComplaintRepository) FindBreached(ctx context.Context, now time.Time, limit int) ([]*complaint.Complaint, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+complaintColumns+`
		FROM complaints
		WHERE sla_deadline < $1
		  AND status NOT IN ('resolved', 'closed', 'citizen_feedback')
		ORDER BY sla_deadline
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query breached complaints")
	}
	defer rows.Close()

	var out []*complaint.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to read breached complaints")
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row mapping
// ─────────────────────────────────────────────────────────────────────────────

func encodeComplaint(c *complaint.Complaint) (triageJSON, historyJSON, linkedJSON []byte, err error) {
	if triageJSON, err = json.Marshal(c.Triage); err != nil {
		return nil, nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to encode triage result")
	}
	if historyJSON, err = json.Marshal(c.History); err != nil {
		return nil, nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to encode status history")
	}
	if linkedJSON, err = json.Marshal(c.LinkedComplaints); err != nil {
		return nil, nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to encode linked complaints")
	}
	return triageJSON, historyJSON, linkedJSON, nil
}

func nullableID(id common.ID) interface{} {
	if id == "" {
		return nil
	}
	return string(id)
}

func scanComplaint(row pgx.Row) (*complaint.Complaint, error) {
	var (
		c            complaint.Complaint
		citizenID    string
		category     string
		urgency      string
		status       string
		triageJSON   []byte
		historyJSON  []byte
		duplicateOf  *string
		linkedJSON   []byte
	)
	err := row.Scan(&c.ID, &citizenID, &c.Description, &c.Location.Lon, &c.Location.Lat,
		&category, &urgency, &status,
		&triageJSON, &historyJSON, &duplicateOf, &linkedJSON, &c.ReopenRequested,
		&c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan complaint")
	}

	c.CitizenID = common.CitizenID(citizenID)
	c.Category = complaint.CategoryName(category)
	c.Urgency = complaint.Urgency(urgency)
	c.Status = complaint.Status(status)
	if duplicateOf != nil {
		c.DuplicateOf = common.ID(*duplicateOf)
	}

	if len(triageJSON) > 0 {
		if err := json.Unmarshal(triageJSON, &c.Triage); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "stored triage result for %s is malformed", c.ID)
		}
	}
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &c.History); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "stored history for %s is malformed", c.ID)
		}
	}
	if len(linkedJSON) > 0 {
		if err := json.Unmarshal(linkedJSON, &c.LinkedComplaints); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "stored linked list for %s is malformed", c.ID)
		}
	}
	return &c, nil
}
