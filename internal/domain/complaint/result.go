package complaint

import (
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Assignment
// ─────────────────────────────────────────────────────────────────────────────

// AssignmentMethod records how the jurisdiction was determined.
type AssignmentMethod string

const (
	MethodGeofence AssignmentMethod = "geofence"
	MethodNearest  AssignmentMethod = "nearest"
	MethodNone     AssignmentMethod = "none"
)

// Confidence grades an assignment.
type Confidence string

const (
	ConfidenceExact  Confidence = "exact"
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// Assignment is the jurisdiction triple derived for a complaint.  A
// MethodNone assignment is a normal outcome requiring manual UC selection,
// not a failure.
type Assignment struct {
	UCID           common.ID        `json:"uc_id,omitempty"`
	TownID         common.ID        `json:"town_id,omitempty"`
	CityID         common.ID        `json:"city_id,omitempty"`
	Method         AssignmentMethod `json:"method"`
	Confidence     Confidence       `json:"confidence"`
	DistanceMeters *float64         `json:"distance_meters,omitempty"`
}

// NoAssignment is the canonical "needs manual selection" result.
func NoAssignment() Assignment {
	return Assignment{Method: MethodNone, Confidence: ConfidenceNone}
}

// Assigned reports whether a UC was determined.
func (a Assignment) Assigned() bool {
	return a.Method != MethodNone && a.UCID != ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Duplicates
// ─────────────────────────────────────────────────────────────────────────────

// DuplicateScore is the scored comparison of a draft against one candidate.
type DuplicateScore struct {
	ComplaintID    common.ID `json:"complaint_id"`
	TextSimilarity float64   `json:"text_similarity"`
	GeoProximity   float64   `json:"geo_proximity"`
	CategoryMatch  float64   `json:"category_match"`
	TimeProximity  float64   `json:"time_proximity"`
	CombinedScore  float64   `json:"combined_score"`
	IsExactMatch   bool      `json:"is_exact_match"`
}

// DuplicateResult summarizes duplicate detection for a draft.
type DuplicateResult struct {
	IsDuplicate        bool             `json:"is_duplicate"`
	IsExactMatch       bool             `json:"is_exact_match"`
	MatchedComplaintID common.ID        `json:"matched_complaint_id,omitempty"`
	CombinedScore      float64          `json:"combined_score"`
	CandidatesChecked  int              `json:"candidates_checked"`
	TopCandidates      []DuplicateScore `json:"top_candidates,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Severity
// ─────────────────────────────────────────────────────────────────────────────

// Priority buckets the severity score.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// PriorityFor maps a severity score onto its bucket.  Boundaries are
// inclusive at 8, 6, and 4.
func PriorityFor(score float64) Priority {
	switch {
	case score >= 8:
		return PriorityCritical
	case score >= 6:
		return PriorityHigh
	case score >= 4:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// SeverityResult carries the final score, its bucket, and the per-factor
// breakdown.  Quick marks the degraded estimate that skips the DB-dependent
// frequency and duration factors.
type SeverityResult struct {
	Score        float64            `json:"score"`
	Priority     Priority           `json:"priority"`
	FactorScores map[string]float64 `json:"factor_scores,omitempty"`
	Quick        bool               `json:"quick,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// SLA
// ─────────────────────────────────────────────────────────────────────────────

// SLAInfo carries the deadline derived at creation.  Breached is evaluated
// on demand from (now, deadline, status); it is never a stale stored flag.
type SLAInfo struct {
	TargetHours int       `json:"target_hours"`
	Deadline    time.Time `json:"deadline"`
	Breached    bool      `json:"breached"`
}

// ─────────────────────────────────────────────────────────────────────────────
// TriageResult
// ─────────────────────────────────────────────────────────────────────────────

// TriageResult is the combined output of the four triage stages.
// NeedsReview is set when any stage degraded to its safe default.
type TriageResult struct {
	Assignment  Assignment      `json:"assignment"`
	Duplicate   DuplicateResult `json:"duplicate"`
	Severity    SeverityResult  `json:"severity"`
	SLA         SLAInfo         `json:"sla"`
	NeedsReview bool            `json:"needs_review"`
	Warnings    []string        `json:"warnings,omitempty"`
}
