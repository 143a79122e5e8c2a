// Package triage implements the complaint triage engine: hierarchy
// resolution, duplicate detection, severity scoring, and SLA management,
// orchestrated by Service.  Every stage is a function of its inputs plus
// read-only queries; infrastructure enters only through the ports below.
package triage

import (
	"context"
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Repository ports
// ─────────────────────────────────────────────────────────────────────────────

// GeoUnitRepository is the read API over the geographic hierarchy.
type GeoUnitRepository interface {
	// ListUnits returns the full hierarchy snapshot, active and inactive.
	ListUnits(ctx context.Context) ([]*geo.Unit, error)

	// GetUnit returns one unit by id, or a GEO_001 error.
	GetUnit(ctx context.Context, id common.ID) (*geo.Unit, error)
}

// CategoryRepository is the read API over the category table.
type CategoryRepository interface {
	// GetCategory returns the category by name, or a CMP_004 error.
	GetCategory(ctx context.Context, name complaint.CategoryName) (*complaint.Category, error)

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]*complaint.Category, error)
}

// NearbyQuery selects complaints for dedup and frequency scoring.
type NearbyQuery struct {
	Center       geo.Point
	RadiusMeters float64
	Since        time.Time
	Statuses     []complaint.Status
	Category     complaint.CategoryName // empty means any
	ExcludeIDs   []common.ID
	Limit        int
}

// ComplaintRepository is the persistence API the engine depends on.
type ComplaintRepository interface {
	GetComplaint(ctx context.Context, id common.ID) (*complaint.Complaint, error)
	SaveComplaint(ctx context.Context, c *complaint.Complaint) error
	UpdateComplaint(ctx context.Context, c *complaint.Complaint) error

	// FindNearby returns complaints matching the query, nearest first.
	FindNearby(ctx context.Context, q NearbyQuery) ([]*complaint.Complaint, error)

	// CountNearby returns only the match count for the query.
	CountNearby(ctx context.Context, q NearbyQuery) (int, error)

	// EarliestNearby returns the oldest CreatedAt among matches; ok is
	// false when nothing matches.
	EarliestNearby(ctx context.Context, q NearbyQuery) (time.Time, bool, error)

	// LinkDuplicate atomically sets duplicate_of on the duplicate and
	// appends it to the original's linked list; partial links are never
	// persisted.
	LinkDuplicate(ctx context.Context, originalID, duplicateID common.ID) error

	// FindBreached returns open complaints whose SLA deadline passed
	// before now, excluding breach-exempt statuses.
	FindBreached(ctx context.Context, now time.Time, limit int) ([]*complaint.Complaint, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Infrastructure ports
// ─────────────────────────────────────────────────────────────────────────────

// CachePort is the bounded, TTL-expiring cache used for memoization.  It is
// a performance optimization only; every consumer must behave identically
// with a nil or disabled cache.
type CachePort interface {
	// Get unmarshals the cached value into dest; found is false on miss.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a key; missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// EventPublisher pushes domain events onto the complaint event bus.
// Publish failures must never affect triage output.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}
