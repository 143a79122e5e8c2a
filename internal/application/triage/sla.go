package triage

import (
	"context"
	"time"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// SLAManager
// ─────────────────────────────────────────────────────────────────────────────

// SLAManager owns the single authoritative category-to-hours table and the
// breach predicate.  Breach is evaluated on demand from (now, deadline,
// status); it is never cached across writes.
type SLAManager struct {
	repo      ComplaintRepository
	publisher EventPublisher // nil disables breach events
	cfg       config.SLAConfig
	logger    logging.Logger
}

// NewSLAManager constructs an SLAManager.  repo and publisher are only
// needed for the breach sweep; pure deadline math works without either.
func NewSLAManager(repo ComplaintRepository, publisher EventPublisher, cfg config.SLAConfig, logger logging.Logger) *SLAManager {
	return &SLAManager{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.Named("sla"),
	}
}

// TargetHours returns the SLA hours for a category, falling back to the
// configured default for unmapped or empty categories.
func (m *SLAManager) TargetHours(category complaint.CategoryName) int {
	if category != "" {
		if hours, ok := m.cfg.HoursByCategory[string(category)]; ok {
			return hours
		}
	}
	return m.cfg.DefaultHours
}

// ComputeSLA derives the deadline for a complaint created at createdAt.
// The returned Breached flag reflects createdAt's moment and is therefore
// always false; re-evaluate with IsBreached at read time.
func (m *SLAManager) ComputeSLA(category complaint.CategoryName, createdAt time.Time) complaint.SLAInfo {
	hours := m.TargetHours(category)
	return complaint.SLAInfo{
		TargetHours: hours,
		Deadline:    createdAt.Add(time.Duration(hours) * time.Hour),
	}
}

// IsBreached reports whether the deadline has passed while the complaint is
// still actionable.  Terminal "done" statuses are never breached, even
// retroactively.
func (m *SLAManager) IsBreached(deadline time.Time, now time.Time, status complaint.Status) bool {
	if status.ExemptFromBreach() {
		return false
	}
	return now.After(deadline)
}

// Evaluate fills the Breached flag of an SLAInfo for the given moment.
func (m *SLAManager) Evaluate(sla complaint.SLAInfo, now time.Time, status complaint.Status) complaint.SLAInfo {
	sla.Breached = m.IsBreached(sla.Deadline, now, status)
	return sla
}

// ─────────────────────────────────────────────────────────────────────────────
// Breach sweep
// ─────────────────────────────────────────────────────────────────────────────

// slaBreachedEvent is the payload published for each newly detected breach.
type slaBreachedEvent struct {
	ComplaintID string    `json:"complaint_id"`
	Deadline    time.Time `json:"deadline"`
	DetectedAt  time.Time `json:"detected_at"`
	TargetHours int       `json:"target_hours"`
}

// FindBreached scans for open complaints past their deadline at now and
// publishes a breach event per hit.  Used by the worker loop and the CLI.
func (m *SLAManager) FindBreached(ctx context.Context, now time.Time, limit int) ([]*complaint.Complaint, error) {
	if m.repo == nil {
		return nil, errors.New(errors.ErrCodeSLASweepFailed, "sweep requires a complaint repository")
	}
	breached, err := m.repo.FindBreached(ctx, now, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSLASweepFailed, "breach query failed")
	}
	for _, c := range breached {
		if m.publisher == nil {
			break
		}
		evt := slaBreachedEvent{
			ComplaintID: string(c.ID),
			Deadline:    c.Triage.SLA.Deadline,
			DetectedAt:  now,
			TargetHours: c.Triage.SLA.TargetHours,
		}
		if err := m.publisher.Publish(ctx, TopicSLABreached, string(c.ID), evt); err != nil {
			m.logger.Warn("breach event publish failed",
				logging.String("complaint_id", string(c.ID)), logging.Err(err))
		}
	}
	if len(breached) > 0 {
		m.logger.Info("sla sweep found breaches", logging.Int("count", len(breached)))
	}
	return breached, nil
}

// RunSweeper loops FindBreached on the configured interval until the
// context is cancelled.
func (m *SLAManager) RunSweeper(ctx context.Context, limit int) {
	interval := m.cfg.SweepInterval
	if interval <= 0 {
		interval = config.DefaultSLASweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.FindBreached(ctx, time.Now().UTC(), 0); err != nil {
				m.logger.Error("sla sweep failed", logging.Err(err))
			}
		}
	}
}
