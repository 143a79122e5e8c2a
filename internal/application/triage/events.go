package triage

import (
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
)

// ─────────────────────────────────────────────────────────────────────────────
// Event topics
// ─────────────────────────────────────────────────────────────────────────────

// Topic names on the complaint event bus.  Publishing is fire-after-commit;
// a bus failure degrades to a warning and never affects triage output.
const (
	TopicComplaintReported = "complaint.reported"
	TopicComplaintTriaged  = "complaint.triaged"
	TopicDuplicateLinked   = "complaint.duplicate_linked"
	TopicStatusChanged     = "complaint.status_changed"
	TopicSLABreached       = "complaint.sla_breached"
)

// ─────────────────────────────────────────────────────────────────────────────
// Event payloads
// ─────────────────────────────────────────────────────────────────────────────

type complaintReportedEvent struct {
	ComplaintID string    `json:"complaint_id"`
	Category    string    `json:"category,omitempty"`
	ReportedAt  time.Time `json:"reported_at"`
}

type complaintTriagedEvent struct {
	ComplaintID string             `json:"complaint_id"`
	Assignment  complaint.Assignment `json:"assignment"`
	IsDuplicate bool               `json:"is_duplicate"`
	Severity    float64            `json:"severity"`
	Priority    string             `json:"priority"`
	Deadline    time.Time          `json:"deadline"`
	NeedsReview bool               `json:"needs_review"`
}

type duplicateLinkedEvent struct {
	OriginalID  string    `json:"original_id"`
	DuplicateID string    `json:"duplicate_id"`
	LinkedAt    time.Time `json:"linked_at"`
}

type statusChangedEvent struct {
	ComplaintID string    `json:"complaint_id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Actor       string    `json:"actor,omitempty"`
	ChangedAt   time.Time `json:"changed_at"`
}
