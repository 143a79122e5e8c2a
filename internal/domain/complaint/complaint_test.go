package complaint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

func newTestComplaint(t *testing.T) *Complaint {
	t.Helper()
	draft, err := NewDraft("citizen-1", "overflowing garbage container", testLocation, "garbage", "medium", time.Now().UTC())
	require.NoError(t, err)
	c, err := New(draft, TriageResult{})
	require.NoError(t, err)
	return c
}

func TestNew_StartsReported(t *testing.T) {
	c := newTestComplaint(t)
	assert.NotEmpty(t, c.ID)
	assert.NoError(t, c.ID.Validate())
	assert.Equal(t, StatusReported, c.Status)
	assert.Empty(t, c.History)
	assert.Equal(t, CategoryGarbage, c.Category)
}

func TestNew_NilDraft(t *testing.T) {
	_, err := New(nil, TriageResult{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeComplaintInvalidDraft))
}

func TestComplaint_Transition_AppendsHistory(t *testing.T) {
	c := newTestComplaint(t)
	require.NoError(t, c.Transition(StatusAcknowledged, "operator-7", "assigned to ward office"))

	assert.Equal(t, StatusAcknowledged, c.Status)
	require.Len(t, c.History, 1)
	assert.Equal(t, StatusReported, c.History[0].From)
	assert.Equal(t, StatusAcknowledged, c.History[0].To)
	assert.Equal(t, "operator-7", c.History[0].Actor)
	assert.Equal(t, "assigned to ward office", c.History[0].Note)
}

func TestComplaint_Transition_InvalidLeavesRecordUntouched(t *testing.T) {
	c := newTestComplaint(t)
	updatedAt := c.UpdatedAt

	err := c.Transition(StatusResolved, "operator-7", "")
	assert.True(t, errors.IsInvalidTransition(err))
	assert.Equal(t, StatusReported, c.Status)
	assert.Empty(t, c.History)
	assert.Equal(t, updatedAt, c.UpdatedAt)
}

func TestComplaint_FullLifecycle(t *testing.T) {
	c := newTestComplaint(t)
	for _, s := range []Status{StatusAcknowledged, StatusInProgress, StatusResolved, StatusClosed} {
		require.NoError(t, c.Transition(s, "", ""))
	}
	assert.Equal(t, StatusClosed, c.Status)
	assert.Len(t, c.History, 4)
	assert.True(t, c.Status.IsTerminal())
}

func TestComplaint_MarkDuplicateOf(t *testing.T) {
	c := newTestComplaint(t)
	original := common.NewID()
	require.NoError(t, c.MarkDuplicateOf(original))
	assert.Equal(t, original, c.DuplicateOf)

	err := c.MarkDuplicateOf(common.NewID())
	assert.True(t, errors.IsCode(err, errors.ErrCodeComplaintAlreadyLinked))
	assert.Equal(t, original, c.DuplicateOf)
}

func TestComplaint_MarkDuplicateOf_Self(t *testing.T) {
	c := newTestComplaint(t)
	err := c.MarkDuplicateOf(c.ID)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	assert.Empty(t, c.DuplicateOf)
}

func TestComplaint_AppendLinkedComplaint_Idempotent(t *testing.T) {
	c := newTestComplaint(t)
	dup := common.NewID()
	c.AppendLinkedComplaint(dup)
	c.AppendLinkedComplaint(dup)
	assert.Equal(t, []common.ID{dup}, c.LinkedComplaints)
}

func TestComplaint_RequestReopen(t *testing.T) {
	c := newTestComplaint(t)
	err := c.RequestReopen()
	assert.True(t, errors.IsCode(err, errors.CodeConflict))
	assert.False(t, c.ReopenRequested)

	for _, s := range []Status{StatusAcknowledged, StatusInProgress, StatusResolved, StatusCitizenFeedback} {
		require.NoError(t, c.Transition(s, "", ""))
	}
	require.NoError(t, c.RequestReopen())
	assert.True(t, c.ReopenRequested)
}

func TestPriorityFor_Boundaries(t *testing.T) {
	assert.Equal(t, PriorityCritical, PriorityFor(10))
	assert.Equal(t, PriorityCritical, PriorityFor(8))
	assert.Equal(t, PriorityHigh, PriorityFor(7.9))
	assert.Equal(t, PriorityHigh, PriorityFor(6))
	assert.Equal(t, PriorityMedium, PriorityFor(5.9))
	assert.Equal(t, PriorityMedium, PriorityFor(4))
	assert.Equal(t, PriorityLow, PriorityFor(3.9))
	assert.Equal(t, PriorityLow, PriorityFor(1))
}
