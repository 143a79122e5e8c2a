package complaint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusReported, StatusAcknowledged},
		{StatusReported, StatusRejected},
		{StatusAcknowledged, StatusInProgress},
		{StatusAcknowledged, StatusRejected},
		{StatusInProgress, StatusResolved},
		{StatusInProgress, StatusRejected},
		{StatusResolved, StatusClosed},
		{StatusResolved, StatusCitizenFeedback},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
		assert.NoError(t, ValidateTransition(tc.from, tc.to))
	}

	denied := []struct{ from, to Status }{
		{StatusReported, StatusResolved},
		{StatusReported, StatusInProgress},
		{StatusAcknowledged, StatusResolved},
		{StatusInProgress, StatusClosed},
		{StatusResolved, StatusReported},
		{StatusClosed, StatusReported},
		{StatusRejected, StatusAcknowledged},
		{StatusCitizenFeedback, StatusResolved},
		{StatusReported, StatusReported},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s should be denied", tc.from, tc.to)
		err := ValidateTransition(tc.from, tc.to)
		assert.True(t, errors.IsInvalidTransition(err), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	assert.True(t, errors.IsInvalidTransition(ValidateTransition("bogus", StatusResolved)))
	assert.True(t, errors.IsInvalidTransition(ValidateTransition(StatusReported, "bogus")))
}

func TestValidateTransition_ErrorNamesEndpoints(t *testing.T) {
	err := ValidateTransition(StatusReported, StatusResolved)
	assert.Contains(t, err.Error(), "reported")
	assert.Contains(t, err.Error(), "resolved")
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusClosed.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCitizenFeedback.IsTerminal())
	assert.False(t, StatusReported.IsTerminal())
	assert.False(t, StatusResolved.IsTerminal())
	assert.False(t, Status("bogus").IsTerminal())
}

func TestStatus_IsOpen(t *testing.T) {
	assert.True(t, StatusReported.IsOpen())
	assert.True(t, StatusAcknowledged.IsOpen())
	assert.True(t, StatusInProgress.IsOpen())
	assert.True(t, StatusCitizenFeedback.IsOpen())
	assert.False(t, StatusResolved.IsOpen())
	assert.False(t, StatusClosed.IsOpen())
	assert.False(t, StatusRejected.IsOpen())
}

func TestStatus_ExemptFromBreach(t *testing.T) {
	assert.True(t, StatusResolved.ExemptFromBreach())
	assert.True(t, StatusClosed.ExemptFromBreach())
	assert.True(t, StatusCitizenFeedback.ExemptFromBreach())
	assert.False(t, StatusReported.ExemptFromBreach())
	assert.False(t, StatusInProgress.ExemptFromBreach())
	assert.False(t, StatusRejected.ExemptFromBreach())
}

func TestOpenStatuses(t *testing.T) {
	open := OpenStatuses()
	assert.Len(t, open, 4)
	for _, s := range open {
		assert.True(t, s.IsOpen())
	}
}
