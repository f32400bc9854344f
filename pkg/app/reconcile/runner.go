package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/autoshield/autoshield/pkg/app/dispatch"
	"github.com/autoshield/autoshield/pkg/domain"
	"github.com/autoshield/autoshield/pkg/domain/changeset"
	"github.com/autoshield/autoshield/pkg/domain/iprange"
	"github.com/autoshield/autoshield/pkg/domain/snapshot"
	"github.com/autoshield/autoshield/pkg/domain/subscription"
	domainTelemetry "github.com/autoshield/autoshield/pkg/domain/telemetry"
	"github.com/autoshield/autoshield/pkg/infra/prometheus"
	infraTelemetry "github.com/autoshield/autoshield/pkg/infra/telemetry"
)

//go:generate mockery --name=Runner --dir=. --output=./mocks --filename=runner_mock.go --case=underscore --with-expecter

// Runner executes one reconciliation of the range store against the
// staged snapshot. Runs are serialized through a redis lock; overlapping
// invocations fail fast with ErrRunInProgress.
type Runner interface {
	Run(ctx context.Context) (*RunSummary, error)
}

// RunLocker serializes runs. *cache.RunLock is the production
// implementation.
type RunLocker interface {
	Acquire(ctx context.Context, token string) (bool, error)
	Release(ctx context.Context, token string) error
}

// RunSummary is what one successful run reports. It is returned to the
// caller, exported through telemetry and kept in redis as the last-run
// marker.
type RunSummary struct {
	RunID            uuid.UUID `json:"run_id"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	RangesAdded      int       `json:"ranges_added"`
	RangesRemoved    int       `json:"ranges_removed"`
	GroupsDispatched int       `json:"groups_dispatched"`
	GroupsFailed     int       `json:"groups_failed"`
	Unmatched        int       `json:"unmatched"`
}

type runner struct {
	logger           *logrus.Logger
	rangeRepo        iprange.Repository
	snapshotRepo     snapshot.Repository
	subscriptionRepo subscription.Repository
	dispatcher       dispatch.Dispatcher
	lock             RunLocker
	lastRun          LastRunStore
	emitter          infraTelemetry.Emitter
	retryFailed      bool
}

func NewRunner(
	logger *logrus.Logger,
	rangeRepo iprange.Repository,
	snapshotRepo snapshot.Repository,
	subscriptionRepo subscription.Repository,
	dispatcher dispatch.Dispatcher,
	lock RunLocker,
	lastRun LastRunStore,
	emitter infraTelemetry.Emitter,
	retryFailed bool,
) Runner {
	return &runner{
		logger:           logger,
		rangeRepo:        rangeRepo,
		snapshotRepo:     snapshotRepo,
		subscriptionRepo: subscriptionRepo,
		dispatcher:       dispatcher,
		lock:             lock,
		lastRun:          lastRun,
		emitter:          emitter,
		retryFailed:      retryFailed,
	}
}

func (r *runner) Run(ctx context.Context) (*RunSummary, error) {
	runID := uuid.New()
	token := runID.String()

	acquired, err := r.lock.Acquire(ctx, token)
	if err != nil {
		prometheus.ReconcileRunsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	if !acquired {
		r.logger.WithField("run_id", runID).Warn("another reconciliation run holds the lock")
		prometheus.ReconcileRunsTotal.WithLabelValues("skipped").Inc()
		return nil, domain.ErrRunInProgress
	}
	defer func() {
		if err := r.lock.Release(context.WithoutCancel(ctx), token); err != nil {
			r.logger.WithError(err).Warn("failed to release run lock")
		}
	}()

	start := time.Now()
	summary, err := r.execute(ctx, runID, start)
	elapsed := time.Since(start)

	prometheus.ReconcileDuration.Observe(float64(elapsed.Milliseconds()))
	if err != nil {
		prometheus.ReconcileRunsTotal.WithLabelValues("failed").Inc()
		r.logger.WithError(err).WithField("run_id", runID).Error("reconciliation run failed")
		r.emitter.Emit(domainTelemetry.NewRunEvent(domainTelemetry.RunEvent{
			RunID:      runID.String(),
			Status:     "failed",
			DurationMs: elapsed.Milliseconds(),
		}))
		return nil, err
	}
	prometheus.ReconcileRunsTotal.WithLabelValues("succeeded").Inc()

	summary.FinishedAt = start.Add(elapsed)
	r.logger.WithFields(logrus.Fields{
		"run_id":            summary.RunID,
		"ranges_added":      summary.RangesAdded,
		"ranges_removed":    summary.RangesRemoved,
		"groups_dispatched": summary.GroupsDispatched,
		"groups_failed":     summary.GroupsFailed,
		"unmatched":         summary.Unmatched,
		"duration_ms":       elapsed.Milliseconds(),
	}).Info("reconciliation run finished")

	r.emitter.Emit(domainTelemetry.NewRunEvent(domainTelemetry.RunEvent{
		RunID:            summary.RunID.String(),
		Status:           "succeeded",
		RangesAdded:      summary.RangesAdded,
		RangesRemoved:    summary.RangesRemoved,
		GroupsDispatched: summary.GroupsDispatched,
		GroupsFailed:     summary.GroupsFailed,
		Unmatched:        summary.Unmatched,
		DurationMs:       elapsed.Milliseconds(),
	}))
	r.lastRun.Save(ctx, summary)

	return summary, nil
}

// execute is the run body: stage, dispatch removals, commit removals,
// dispatch additions, commit additions. Staging finishes before the
// first outbound call, and no addition row is written before every
// removal has been dispatched and committed.
func (r *runner) execute(ctx context.Context, runID uuid.UUID, start time.Time) (*RunSummary, error) {
	active, err := r.rangeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active ranges: %w", err)
	}

	stagedRows, err := r.snapshotRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load staged snapshot: %w", err)
	}
	prometheus.StagedRanges.Set(float64(len(stagedRows)))
	if len(stagedRows) == 0 {
		return nil, domain.ErrEmptySnapshot
	}

	entries, err := r.subscriptionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription registry: %w", err)
	}

	changes, err := Diff(active, stagedRows)
	if err != nil {
		return nil, fmt.Errorf("snapshot rejected: %w", err)
	}
	grouped := Group(changes, entries)

	r.logger.WithFields(logrus.Fields{
		"run_id":    runID,
		"additions": len(changes.Additions),
		"removals":  len(changes.Removals),
		"groups":    len(grouped.Removals) + len(grouped.Additions),
		"unmatched": grouped.Unmatched,
	}).Info("reconciliation plan computed")

	now := time.Now()

	failedRemovals := r.dispatcher.DispatchAll(ctx, &runID, grouped.Removals)
	removed, err := r.commitRemovals(ctx, changes.Removals, failedRemovals, now)
	if err != nil {
		return nil, err
	}

	failedAdditions := r.dispatcher.DispatchAll(ctx, &runID, grouped.Additions)
	added, err := r.commitAdditions(ctx, changes.Additions, failedAdditions, now)
	if err != nil {
		return nil, err
	}

	return &RunSummary{
		RunID:            runID,
		StartedAt:        start,
		RangesAdded:      added,
		RangesRemoved:    removed,
		GroupsDispatched: len(grouped.Removals) + len(grouped.Additions),
		GroupsFailed:     len(failedRemovals) + len(failedAdditions),
		Unmatched:        grouped.Unmatched,
	}, nil
}

func (r *runner) commitRemovals(ctx context.Context, candidates []iprange.IPRange, failed []changeset.ChangeGroup, at time.Time) (int, error) {
	rows := r.withholdFailed(candidates, failed)
	if len(rows) == 0 {
		return 0, nil
	}
	keys := make([]iprange.Key, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, row.Key())
	}
	if err := r.rangeRepo.MarkDeleted(ctx, keys, at); err != nil {
		return 0, fmt.Errorf("failed to commit removals: %w", err)
	}
	prometheus.RangesChangedTotal.WithLabelValues("remove").Add(float64(len(keys)))
	return len(keys), nil
}

func (r *runner) commitAdditions(ctx context.Context, candidates []iprange.IPRange, failed []changeset.ChangeGroup, at time.Time) (int, error) {
	kept := r.withholdFailed(candidates, failed)
	if len(kept) == 0 {
		return 0, nil
	}
	rows := make([]iprange.IPRange, 0, len(kept))
	for _, row := range kept {
		row.Deleted = false
		row.UpdatedAt = at
		rows = append(rows, row)
	}
	if err := r.rangeRepo.Upsert(ctx, rows); err != nil {
		return 0, fmt.Errorf("failed to commit additions: %w", err)
	}
	prometheus.RangesChangedTotal.WithLabelValues("add").Add(float64(len(rows)))
	return len(rows), nil
}

// withholdFailed strips candidates whose (component, region) was touched
// by a failed dispatch, so the next run derives and attempts them again.
// With retry disabled every candidate commits and the audit log is the
// remediation trail.
func (r *runner) withholdFailed(candidates []iprange.IPRange, failed []changeset.ChangeGroup) []iprange.IPRange {
	if !r.retryFailed || len(failed) == 0 {
		return candidates
	}
	withheld := make(map[subscription.Scope]bool)
	for _, group := range failed {
		for _, row := range group.Ranges {
			withheld[subscription.Scope{Component: row.Component, Region: row.Region}] = true
		}
	}
	kept := make([]iprange.IPRange, 0, len(candidates))
	skipped := 0
	for _, row := range candidates {
		if withheld[subscription.Scope{Component: row.Component, Region: row.Region}] {
			skipped++
			continue
		}
		kept = append(kept, row)
	}
	if skipped > 0 {
		r.logger.WithField("withheld", skipped).Warn("withholding store commits for ranges touched by failed dispatches")
	}
	return kept
}
