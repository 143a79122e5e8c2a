// Package complaint holds the complaint aggregate: the immutable draft that
// enters triage, the category table, the triage result attached at
// persistence time, and the status state machine.
package complaint

import (
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Status
// ─────────────────────────────────────────────────────────────────────────────

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusReported        Status = "reported"
	StatusAcknowledged    Status = "acknowledged"
	StatusInProgress      Status = "in_progress"
	StatusResolved        Status = "resolved"
	StatusClosed          Status = "closed"
	StatusRejected        Status = "rejected"
	StatusCitizenFeedback Status = "citizen_feedback"
)

// allowedTransitions is the complete status graph.  Any pair absent from
// this table is an InvalidTransition.
var allowedTransitions = map[Status][]Status{
	StatusReported:        {StatusAcknowledged, StatusRejected},
	StatusAcknowledged:    {StatusInProgress, StatusRejected},
	StatusInProgress:      {StatusResolved, StatusRejected},
	StatusResolved:        {StatusClosed, StatusCitizenFeedback},
	StatusClosed:          {},
	StatusRejected:        {},
	StatusCitizenFeedback: {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether the move from s to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	next, ok := allowedTransitions[s]
	return ok && len(next) == 0
}

// IsOpen reports whether a complaint in this status still counts as open
// for duplicate detection and frequency scoring.
func (s Status) IsOpen() bool {
	switch s {
	case StatusResolved, StatusClosed, StatusRejected:
		return false
	}
	return true
}

// ExemptFromBreach reports whether the status shields a complaint from SLA
// breach: a complaint already in a terminal "done" state is never breached,
// even retroactively.
func (s Status) ExemptFromBreach() bool {
	switch s {
	case StatusResolved, StatusClosed, StatusCitizenFeedback:
		return true
	}
	return false
}

// ValidateTransition returns an InvalidTransition error naming the attempted
// pair when the move is not in the status graph.
func ValidateTransition(from, to Status) error {
	if !from.Valid() {
		return errors.InvalidTransition(string(from), string(to)).
			WithDetail("unknown current status")
	}
	if !to.Valid() {
		return errors.InvalidTransition(string(from), string(to)).
			WithDetail("unknown target status")
	}
	if !from.CanTransitionTo(to) {
		return errors.InvalidTransition(string(from), string(to))
	}
	return nil
}

// OpenStatuses returns the statuses considered open, for repository queries.
func OpenStatuses() []Status {
	return []Status{StatusReported, StatusAcknowledged, StatusInProgress, StatusCitizenFeedback}
}
