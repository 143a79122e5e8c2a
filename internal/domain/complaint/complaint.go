package complaint

import (
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Status history
// ─────────────────────────────────────────────────────────────────────────────

// StatusChange is one entry of a complaint's status history.
type StatusChange struct {
	From  Status    `json:"from"`
	To    Status    `json:"to"`
	At    time.Time `json:"at"`
	Actor string    `json:"actor,omitempty"`
	Note  string    `json:"note,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Complaint aggregate
// ─────────────────────────────────────────────────────────────────────────────

// Complaint is the persisted record: the original draft plus the triage
// result, the status machine state, and duplicate links.
type Complaint struct {
	ID        common.ID        `json:"id"`
	CitizenID common.CitizenID `json:"citizen_id,omitempty"`

	Description string       `json:"description"`
	Location    geo.Point    `json:"location"`
	Category    CategoryName `json:"category,omitempty"`
	Urgency     Urgency      `json:"urgency,omitempty"`

	Triage TriageResult `json:"triage"`

	Status  Status         `json:"status"`
	History []StatusChange `json:"history"`

	// DuplicateOf is the one-way link set on a complaint identified as a
	// duplicate; LinkedComplaints is the reverse list on the original.
	DuplicateOf      common.ID   `json:"duplicate_of,omitempty"`
	LinkedComplaints []common.ID `json:"linked_complaints,omitempty"`

	// ReopenRequested can only be raised while in citizen_feedback; the
	// reviewing party acts on it out of band.
	ReopenRequested bool `json:"reopen_requested,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New assembles a Complaint from a validated draft and its triage result.
// Complaints always start in the reported status.
func New(draft *Draft, triage TriageResult) (*Complaint, error) {
	if draft == nil {
		return nil, errors.New(errors.ErrCodeComplaintInvalidDraft, "draft cannot be nil")
	}
	now := time.Now().UTC()
	return &Complaint{
		ID:          common.NewID(),
		CitizenID:   draft.CitizenID,
		Description: draft.Description,
		Location:    draft.Location,
		Category:    draft.Category,
		Urgency:     draft.Urgency,
		Triage:      triage,
		Status:      StatusReported,
		CreatedAt:   draft.CreatedAt,
		UpdatedAt:   now,
	}, nil
}

// Transition moves the complaint to a new status, appending one history
// entry.  On an invalid pair the complaint is left untouched and an
// InvalidTransition error naming (from, to) is returned.
func (c *Complaint) Transition(to Status, actor, note string) error {
	if err := ValidateTransition(c.Status, to); err != nil {
		return err
	}
	now := time.Now().UTC()
	c.History = append(c.History, StatusChange{
		From:  c.Status,
		To:    to,
		At:    now,
		Actor: actor,
		Note:  note,
	})
	c.Status = to
	c.UpdatedAt = now
	return nil
}

// MarkDuplicateOf sets the one-way duplicate link.  A complaint can only be
// linked once.
func (c *Complaint) MarkDuplicateOf(originalID common.ID) error {
	if c.DuplicateOf != "" {
		return errors.New(errors.ErrCodeComplaintAlreadyLinked,
			"complaint %s is already linked to %s", c.ID, c.DuplicateOf)
	}
	if originalID == c.ID {
		return errors.InvalidParam("complaint %s cannot be a duplicate of itself", c.ID)
	}
	c.DuplicateOf = originalID
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// AppendLinkedComplaint records a duplicate pointing at this complaint.
func (c *Complaint) AppendLinkedComplaint(duplicateID common.ID) {
	for _, id := range c.LinkedComplaints {
		if id == duplicateID {
			return
		}
	}
	c.LinkedComplaints = append(c.LinkedComplaints, duplicateID)
	c.UpdatedAt = time.Now().UTC()
}

// RequestReopen flags the complaint for review.  Only allowed while the
// complaint sits in citizen_feedback.
func (c *Complaint) RequestReopen() error {
	if c.Status != StatusCitizenFeedback {
		return errors.InvalidState("reopen can only be requested in citizen_feedback, current status is %s", c.Status)
	}
	c.ReopenRequested = true
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// IsOpen reports whether the complaint counts as open for dedup and
// frequency queries.
func (c *Complaint) IsOpen() bool {
	return c.Status.IsOpen()
}
