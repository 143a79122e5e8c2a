package complaint

import (
	"strings"
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Urgency
// ─────────────────────────────────────────────────────────────────────────────

// Urgency is the citizen-reported urgency level.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Valid reports whether u is a known urgency level.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// Score maps the urgency level onto the [1,10] factor scale.
func (u Urgency) Score() float64 {
	switch u {
	case UrgencyLow:
		return 3
	case UrgencyMedium:
		return 5
	case UrgencyHigh:
		return 7
	case UrgencyCritical:
		return 10
	}
	return 5
}

// ─────────────────────────────────────────────────────────────────────────────
// Draft
// ─────────────────────────────────────────────────────────────────────────────

// Draft is the citizen submission entering triage.  Produced once per
// submission and immutable inside the engine.
type Draft struct {
	CitizenID   common.CitizenID `json:"citizen_id,omitempty"`
	Description string           `json:"description"`
	Location    geo.Point        `json:"location"`
	Category    CategoryName     `json:"category,omitempty"`
	Urgency     Urgency          `json:"urgency,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewDraft constructs a validated Draft.  Validation failures here are the
// only fatal errors of a submission; downstream triage stages degrade
// instead of aborting.
func NewDraft(citizenID common.CitizenID, description string, location geo.Point, category string, urgency string, createdAt time.Time) (*Draft, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.New(errors.ErrCodeComplaintInvalidDraft, "description cannot be empty")
	}
	if err := location.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeComplaintInvalidDraft, "draft coordinates are invalid")
	}

	var cat CategoryName
	if category != "" {
		parsed, err := ParseCategory(category)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeComplaintInvalidDraft, "draft category is invalid")
		}
		cat = parsed
	}

	var urg Urgency
	if urgency != "" {
		urg = Urgency(strings.ToLower(strings.TrimSpace(urgency)))
		if !urg.Valid() {
			return nil, errors.New(errors.ErrCodeComplaintInvalidDraft,
				"urgency %q is not one of low|medium|high|critical", urgency)
		}
	}

	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return &Draft{
		CitizenID:   citizenID,
		Description: description,
		Location:    location,
		Category:    cat,
		Urgency:     urg,
		CreatedAt:   createdAt.UTC(),
	}, nil
}

// HasCategory reports whether the citizen supplied a category hint.
func (d *Draft) HasCategory() bool {
	return d.Category != ""
}

// HasUrgency reports whether the citizen supplied an explicit urgency.
func (d *Draft) HasUrgency() bool {
	return d.Urgency != ""
}
