package triage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/similarity"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// serviceFixture wires a Service over mock repositories for submission tests.
type serviceFixture struct {
	geoRepo    *mockGeoUnitRepo
	catRepo    *mockCategoryRepo
	repo       *mockComplaintRepo
	publisher  *mockPublisher
	service    *Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	logger := logging.NewNopLogger()
	f := &serviceFixture{
		geoRepo:   &mockGeoUnitRepo{},
		catRepo:   &mockCategoryRepo{},
		repo:      &mockComplaintRepo{},
		publisher: &mockPublisher{},
	}
	resolver := NewResolver(f.geoRepo, testAssignmentConfig(), time.Hour, logger)
	detector := NewDetector(f.repo, similarity.NewDefaultEngine(), nil, testDuplicateConfig(), 0, logger)
	scorer := NewScorer(f.repo, f.catRepo, testSeverityConfig(), logger)
	sla := NewSLAManager(f.repo, f.publisher, testSLAConfig(), logger)
	f.service = NewService(resolver, detector, scorer, sla, f.repo, f.publisher, nil, logger)
	return f
}

// happyPath stubs every stage so a submission succeeds end to end.
func (f *serviceFixture) happyPath(t *testing.T) {
	f.geoRepo.On("ListUnits", mock.Anything).Return(testUnits(t), nil)
	f.catRepo.On("GetCategory", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.ErrCodeCategoryUnknown, "no such category"))
	f.repo.On("FindNearby", mock.Anything, mock.Anything).Return([]*complaint.Complaint{}, nil)
	f.repo.On("CountNearby", mock.Anything, mock.Anything).Return(0, nil)
	f.repo.On("EarliestNearby", mock.Anything, mock.Anything).Return(time.Time{}, false, nil)
	f.repo.On("SaveComplaint", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func submitDraft(t *testing.T) *complaint.Draft {
	t.Helper()
	// Inside uc1's boundary.
	return mustDraft(t, "water pipe burst on the corner", geo.Point{Lon: 67.01, Lat: 24.81},
		"water", time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
}

func TestService_SubmitComplaint_HappyPath(t *testing.T) {
	f := newServiceFixture(t)
	f.happyPath(t)

	c, err := f.service.SubmitComplaint(context.Background(), submitDraft(t), SubmitOptions{})
	require.NoError(t, err)

	assert.Equal(t, complaint.StatusReported, c.Status)
	assert.Equal(t, complaint.MethodGeofence, c.Triage.Assignment.Method)
	assert.Equal(t, uc1ID, c.Triage.Assignment.UCID)
	assert.False(t, c.Triage.Duplicate.IsDuplicate)
	assert.False(t, c.Triage.NeedsReview)
	assert.Equal(t, 24, c.Triage.SLA.TargetHours)
	assert.Equal(t, c.CreatedAt.Add(24*time.Hour), c.Triage.SLA.Deadline)

	f.repo.AssertCalled(t, "SaveComplaint", mock.Anything, mock.Anything)
	f.publisher.AssertCalled(t, "Publish", mock.Anything, TopicComplaintReported, string(c.ID), mock.Anything)
	f.publisher.AssertCalled(t, "Publish", mock.Anything, TopicComplaintTriaged, string(c.ID), mock.Anything)
}

func TestService_SubmitComplaint_NilDraft(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.service.SubmitComplaint(context.Background(), nil, SubmitOptions{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeComplaintInvalidDraft))
}

func TestService_SubmitComplaint_ResolverDegrades(t *testing.T) {
	f := newServiceFixture(t)
	f.happyPath(t)
	// Replace the geo stub with a failing one.
	f.geoRepo.ExpectedCalls = nil
	f.geoRepo.On("ListUnits", mock.Anything).Return(nil, errors.New(errors.CodeDatabaseError, "connection refused"))

	c, err := f.service.SubmitComplaint(context.Background(), submitDraft(t), SubmitOptions{})
	require.NoError(t, err)

	assert.Equal(t, complaint.MethodNone, c.Triage.Assignment.Method)
	assert.True(t, c.Triage.NeedsReview)
	assert.NotEmpty(t, c.Triage.Warnings)
	// The remaining stages still ran.
	assert.NotZero(t, c.Triage.Severity.Score)
}

func TestService_SubmitComplaint_DedupDegrades(t *testing.T) {
	f := newServiceFixture(t)
	f.happyPath(t)
	f.repo.ExpectedCalls = nil
	f.repo.On("FindNearby", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.CodeDatabaseError, "connection refused"))
	f.repo.On("CountNearby", mock.Anything, mock.Anything).Return(0, nil)
	f.repo.On("EarliestNearby", mock.Anything, mock.Anything).Return(time.Time{}, false, nil)
	f.repo.On("SaveComplaint", mock.Anything, mock.Anything).Return(nil)

	c, err := f.service.SubmitComplaint(context.Background(), submitDraft(t), SubmitOptions{})
	require.NoError(t, err)

	assert.False(t, c.Triage.Duplicate.IsDuplicate)
	assert.Zero(t, c.Triage.Duplicate.CandidatesChecked)
	assert.True(t, c.Triage.NeedsReview)
}

func TestService_SubmitComplaint_ScoringFallsBackToQuick(t *testing.T) {
	f := newServiceFixture(t)
	f.happyPath(t)
	f.repo.ExpectedCalls = nil
	f.repo.On("FindNearby", mock.Anything, mock.Anything).Return([]*complaint.Complaint{}, nil)
	f.repo.On("CountNearby", mock.Anything, mock.Anything).
		Return(0, errors.New(errors.CodeDatabaseError, "connection refused"))
	f.repo.On("SaveComplaint", mock.Anything, mock.Anything).Return(nil)

	c, err := f.service.SubmitComplaint(context.Background(), submitDraft(t), SubmitOptions{})
	require.NoError(t, err)

	assert.True(t, c.Triage.Severity.Quick)
	assert.True(t, c.Triage.NeedsReview)
	assert.NotZero(t, c.Triage.Severity.Score)
}

func TestService_SubmitComplaint_SaveFailureIsFatal(t *testing.T) {
	f := newServiceFixture(t)
	f.happyPath(t)
	f.repo.ExpectedCalls = nil
	f.repo.On("FindNearby", mock.Anything, mock.Anything).Return([]*complaint.Complaint{}, nil)
	f.repo.On("CountNearby", mock.Anything, mock.Anything).Return(0, nil)
	f.repo.On("EarliestNearby", mock.Anything, mock.Anything).Return(time.Time{}, false, nil)
	f.repo.On("SaveComplaint", mock.Anything, mock.Anything).
		Return(errors.New(errors.CodeDatabaseError, "disk full"))

	_, err := f.service.SubmitComplaint(context.Background(), submitDraft(t), SubmitOptions{})
	assert.True(t, errors.IsCode(err, errors.CodeDatabaseError))
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SubmitComplaint_AutoLink(t *testing.T) {
	f := newServiceFixture(t)
	draft := submitDraft(t)
	existing := storedComplaint(common.NewID(), draft.Description, draft.Location,
		complaint.CategoryWater, draft.CreatedAt.Add(-time.Hour))

	f.geoRepo.On("ListUnits", mock.Anything).Return(testUnits(t), nil)
	f.catRepo.On("GetCategory", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.ErrCodeCategoryUnknown, "no such category"))
	f.repo.On("FindNearby", mock.Anything, mock.Anything).Return([]*complaint.Complaint{existing}, nil)
	f.repo.On("CountNearby", mock.Anything, mock.Anything).Return(1, nil)
	f.repo.On("EarliestNearby", mock.Anything, mock.Anything).Return(existing.CreatedAt, true, nil)
	f.repo.On("SaveComplaint", mock.Anything, mock.Anything).Return(nil)
	f.repo.On("LinkDuplicate", mock.Anything, existing.ID, mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	c, err := f.service.SubmitComplaint(context.Background(), draft, SubmitOptions{AutoLink: true})
	require.NoError(t, err)

	assert.True(t, c.Triage.Duplicate.IsDuplicate)
	assert.Equal(t, existing.ID, c.DuplicateOf)
	f.repo.AssertCalled(t, "LinkDuplicate", mock.Anything, existing.ID, c.ID)
	f.publisher.AssertCalled(t, "Publish", mock.Anything, TopicDuplicateLinked, string(c.ID), mock.Anything)
}

func TestService_TransitionStatus(t *testing.T) {
	f := newServiceFixture(t)
	id := common.NewID()
	stored := &complaint.Complaint{ID: id, Status: complaint.StatusReported}

	f.repo.On("GetComplaint", mock.Anything, id).Return(stored, nil)
	f.repo.On("UpdateComplaint", mock.Anything, stored).Return(nil)
	f.publisher.On("Publish", mock.Anything, TopicStatusChanged, string(id), mock.Anything).Return(nil)

	c, err := f.service.TransitionStatus(context.Background(), id, complaint.StatusAcknowledged, "operator-7", "")
	require.NoError(t, err)
	assert.Equal(t, complaint.StatusAcknowledged, c.Status)
	f.publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestService_TransitionStatus_InvalidNotPersisted(t *testing.T) {
	f := newServiceFixture(t)
	id := common.NewID()
	stored := &complaint.Complaint{ID: id, Status: complaint.StatusReported}
	f.repo.On("GetComplaint", mock.Anything, id).Return(stored, nil)

	_, err := f.service.TransitionStatus(context.Background(), id, complaint.StatusResolved, "", "")
	assert.True(t, errors.IsInvalidTransition(err))
	f.repo.AssertNotCalled(t, "UpdateComplaint", mock.Anything, mock.Anything)
}

func TestService_EvaluateSLA(t *testing.T) {
	f := newServiceFixture(t)
	id := common.NewID()
	deadline := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	stored := &complaint.Complaint{
		ID:     id,
		Status: complaint.StatusInProgress,
		Triage: complaint.TriageResult{SLA: complaint.SLAInfo{TargetHours: 24, Deadline: deadline}},
	}
	f.repo.On("GetComplaint", mock.Anything, id).Return(stored, nil)

	sla, err := f.service.EvaluateSLA(context.Background(), id, deadline.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, sla.Breached)

	sla, err = f.service.EvaluateSLA(context.Background(), id, deadline.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, sla.Breached)
}

func TestService_RequestReopen(t *testing.T) {
	f := newServiceFixture(t)
	id := common.NewID()
	stored := &complaint.Complaint{ID: id, Status: complaint.StatusCitizenFeedback}
	f.repo.On("GetComplaint", mock.Anything, id).Return(stored, nil)
	f.repo.On("UpdateComplaint", mock.Anything, stored).Return(nil)

	c, err := f.service.RequestReopen(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, c.ReopenRequested)
}

func TestService_ComputeSLA(t *testing.T) {
	f := newServiceFixture(t)
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sla := f.service.ComputeSLA(complaint.CategoryElectricity, createdAt, createdAt.Add(13*time.Hour), complaint.StatusReported)
	assert.Equal(t, 12, sla.TargetHours)
	assert.True(t, sla.Breached)

	sla = f.service.ComputeSLA(complaint.CategoryElectricity, createdAt, createdAt.Add(13*time.Hour), complaint.StatusResolved)
	assert.False(t, sla.Breached)
}
