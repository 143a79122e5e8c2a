package triage

import (
	"context"
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/geo"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	monprom "github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/prometheus"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Service
// ─────────────────────────────────────────────────────────────────────────────

// Service orchestrates the four triage stages and the complaint lifecycle.
// During submission each stage is wrapped so a failure degrades to a safe
// default instead of aborting; only an invalid draft is fatal.
type Service struct {
	resolver  *Resolver
	detector  *Detector
	scorer    *Scorer
	sla       *SLAManager
	repo      ComplaintRepository
	publisher EventPublisher       // nil disables events
	metrics   *monprom.AppMetrics // nil disables metrics
	logger    logging.Logger
}

// SubmitOptions tunes one submission.
type SubmitOptions struct {
	Resolve ResolveOptions
	Dedup   CandidateOptions
	Area    AreaContext

	// AutoLink records the duplicate link when the best match clears the
	// duplicate threshold.
	AutoLink bool
}

// NewService constructs the triage Service.
func NewService(resolver *Resolver, detector *Detector, scorer *Scorer, sla *SLAManager,
	repo ComplaintRepository, publisher EventPublisher, metrics *monprom.AppMetrics, logger logging.Logger) *Service {
	return &Service{
		resolver:  resolver,
		detector:  detector,
		scorer:    scorer,
		sla:       sla,
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.Named("triage"),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Submission
// ─────────────────────────────────────────────────────────────────────────────

// SubmitComplaint runs the full pipeline on a validated draft, persists the
// complaint, and publishes events.  Stage failures degrade: no assignment,
// not-a-duplicate, quick-estimate severity, each raising NeedsReview.
func (s *Service) SubmitComplaint(ctx context.Context, draft *complaint.Draft, opts SubmitOptions) (*complaint.Complaint, error) {
	if draft == nil {
		return nil, errors.New(errors.ErrCodeComplaintInvalidDraft, "draft cannot be nil")
	}

	result := complaint.TriageResult{}

	// Stage 1: jurisdiction.
	assignment, err := s.timedResolve(ctx, draft.Location, opts.Resolve)
	if err != nil {
		s.logger.Warn("hierarchy resolution degraded", logging.Err(err))
		assignment = complaint.NoAssignment()
		result.NeedsReview = true
		result.Warnings = append(result.Warnings, "jurisdiction assignment failed; manual selection required")
	} else if !assignment.Assigned() {
		result.Warnings = append(result.Warnings, "no jurisdiction matched; manual selection required")
	}
	result.Assignment = assignment

	// Stage 2: duplicates.
	dedupOpts := opts.Dedup
	if dedupOpts.Category == "" {
		dedupOpts.Category = draft.Category
	}
	dup, err := s.timedDedup(ctx, draft, dedupOpts)
	if err != nil {
		s.logger.Warn("duplicate detection degraded", logging.Err(err))
		dup = complaint.DuplicateResult{}
		result.NeedsReview = true
		result.Warnings = append(result.Warnings, "duplicate detection failed; treated as not a duplicate")
	}
	result.Duplicate = dup

	// Stage 3: severity.
	sev, err := s.timedScore(ctx, draft, ScoreOptions{Area: opts.Area})
	if err != nil {
		s.logger.Warn("severity scoring degraded to quick estimate", logging.Err(err))
		sev = s.scorer.QuickScore(ctx, draft)
		result.NeedsReview = true
		result.Warnings = append(result.Warnings, "severity degraded to quick estimate")
	}
	result.Severity = sev

	// Stage 4: SLA (pure math, cannot fail).
	result.SLA = s.sla.ComputeSLA(draft.Category, draft.CreatedAt)

	c, err := complaint.New(draft, result)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveComplaint(ctx, c); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to persist complaint")
	}

	if s.metrics != nil {
		s.metrics.ObserveSeverity(result.Severity.Score)
		s.metrics.IncAssignment(string(result.Assignment.Method))
		if result.Duplicate.IsDuplicate {
			s.metrics.IncDuplicateDetected()
		}
	}

	if opts.AutoLink && result.Duplicate.IsDuplicate {
		if err := s.LinkDuplicate(ctx, result.Duplicate.MatchedComplaintID, c.ID); err != nil {
			s.logger.Warn("auto-link failed",
				logging.String("original", string(result.Duplicate.MatchedComplaintID)),
				logging.String("duplicate", string(c.ID)),
				logging.Err(err))
		} else {
			c.DuplicateOf = result.Duplicate.MatchedComplaintID
		}
	}

	s.publish(ctx, TopicComplaintReported, string(c.ID), complaintReportedEvent{
		ComplaintID: string(c.ID),
		Category:    string(c.Category),
		ReportedAt:  c.CreatedAt,
	})
	s.publish(ctx, TopicComplaintTriaged, string(c.ID), complaintTriagedEvent{
		ComplaintID: string(c.ID),
		Assignment:  result.Assignment,
		IsDuplicate: result.Duplicate.IsDuplicate,
		Severity:    result.Severity.Score,
		Priority:    string(result.Severity.Priority),
		Deadline:    result.SLA.Deadline,
		NeedsReview: result.NeedsReview,
	})

	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Exposed stage contracts
// ─────────────────────────────────────────────────────────────────────────────

// ResolveHierarchy exposes the assignment stage directly.
func (s *Service) ResolveHierarchy(ctx context.Context, point geo.Point, opts ResolveOptions) (complaint.Assignment, error) {
	return s.timedResolve(ctx, point, opts)
}

// CheckDuplicate exposes the duplicate stage directly.
func (s *Service) CheckDuplicate(ctx context.Context, draft *complaint.Draft, opts CandidateOptions) (complaint.DuplicateResult, error) {
	if opts.Category == "" {
		opts.Category = draft.Category
	}
	return s.timedDedup(ctx, draft, opts)
}

// ScoreSeverity exposes the scoring stage directly.
func (s *Service) ScoreSeverity(ctx context.Context, draft *complaint.Draft, opts ScoreOptions) (complaint.SeverityResult, error) {
	return s.timedScore(ctx, draft, opts)
}

// ComputeSLA exposes the deadline stage, evaluated at now for status.
func (s *Service) ComputeSLA(category complaint.CategoryName, createdAt, now time.Time, status complaint.Status) complaint.SLAInfo {
	return s.sla.Evaluate(s.sla.ComputeSLA(category, createdAt), now, status)
}

// NearbyCandidates exposes the manual-selection candidate list.
func (s *Service) NearbyCandidates(ctx context.Context, point geo.Point, limit int) ([]NearbyCandidate, error) {
	return s.resolver.NearbyCandidates(ctx, point, limit)
}

// ValidateManualChoice exposes the manual-selection check.
func (s *Service) ValidateManualChoice(ctx context.Context, ucID common.ID, point geo.Point) (bool, string, error) {
	return s.resolver.ValidateManualChoice(ctx, ucID, point)
}

// ─────────────────────────────────────────────────────────────────────────────
// Lifecycle operations
// ─────────────────────────────────────────────────────────────────────────────

// GetComplaint returns one stored complaint.
func (s *Service) GetComplaint(ctx context.Context, id common.ID) (*complaint.Complaint, error) {
	return s.repo.GetComplaint(ctx, id)
}

// TransitionStatus moves a complaint through the status machine.  An
// InvalidTransition error is fatal to this request only; the stored record
// is unchanged.
func (s *Service) TransitionStatus(ctx context.Context, id common.ID, to complaint.Status, actor, note string) (*complaint.Complaint, error) {
	c, err := s.repo.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	from := c.Status
	if err := c.Transition(to, actor, note); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateComplaint(ctx, c); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to persist status change")
	}
	s.publish(ctx, TopicStatusChanged, string(c.ID), statusChangedEvent{
		ComplaintID: string(c.ID),
		From:        string(from),
		To:          string(to),
		Actor:       actor,
		ChangedAt:   c.UpdatedAt,
	})
	return c, nil
}

// LinkDuplicate records a duplicate link atomically and publishes the event.
func (s *Service) LinkDuplicate(ctx context.Context, originalID, duplicateID common.ID) error {
	if err := s.detector.Link(ctx, originalID, duplicateID); err != nil {
		return err
	}
	s.publish(ctx, TopicDuplicateLinked, string(duplicateID), duplicateLinkedEvent{
		OriginalID:  string(originalID),
		DuplicateID: string(duplicateID),
		LinkedAt:    time.Now().UTC(),
	})
	return nil
}

// EvaluateSLA re-evaluates the breach flag for a stored complaint at now.
func (s *Service) EvaluateSLA(ctx context.Context, id common.ID, now time.Time) (complaint.SLAInfo, error) {
	c, err := s.repo.GetComplaint(ctx, id)
	if err != nil {
		return complaint.SLAInfo{}, err
	}
	return s.sla.Evaluate(c.Triage.SLA, now, c.Status), nil
}

// RequestReopen raises the reopen flag on a citizen_feedback complaint.
func (s *Service) RequestReopen(ctx context.Context, id common.ID) (*complaint.Complaint, error) {
	c, err := s.repo.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.RequestReopen(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateComplaint(ctx, c); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to persist reopen request")
	}
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Internals
// ─────────────────────────────────────────────────────────────────────────────

func (s *Service) timedResolve(ctx context.Context, point geo.Point, opts ResolveOptions) (complaint.Assignment, error) {
	start := time.Now()
	a, err := s.resolver.Assign(ctx, point, opts)
	s.observeStage("resolve", start)
	return a, err
}

func (s *Service) timedDedup(ctx context.Context, draft *complaint.Draft, opts CandidateOptions) (complaint.DuplicateResult, error) {
	start := time.Now()
	r, err := s.detector.CheckForDuplicates(ctx, draft, opts)
	s.observeStage("dedup", start)
	return r, err
}

func (s *Service) timedScore(ctx context.Context, draft *complaint.Draft, opts ScoreOptions) (complaint.SeverityResult, error) {
	start := time.Now()
	r, err := s.scorer.Score(ctx, draft, opts)
	s.observeStage("score", start)
	return r, err
}

func (s *Service) observeStage(stage string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStageDuration(stage, time.Since(start))
	}
}

func (s *Service) publish(ctx context.Context, topic, key string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		s.logger.Warn("event publish failed", logging.String("topic", topic), logging.Err(err))
	}
}
