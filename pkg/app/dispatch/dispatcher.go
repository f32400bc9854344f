package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/autoshield/autoshield/pkg/domain/audit"
	"github.com/autoshield/autoshield/pkg/domain/changeset"
	domainTelemetry "github.com/autoshield/autoshield/pkg/domain/telemetry"
	"github.com/autoshield/autoshield/pkg/infra/database/types"
	"github.com/autoshield/autoshield/pkg/infra/firewall"
	"github.com/autoshield/autoshield/pkg/infra/prometheus"
	infraTelemetry "github.com/autoshield/autoshield/pkg/infra/telemetry"
)

const persistTimeout = 10 * time.Second

//go:generate mockery --name=Dispatcher --dir=. --output=./mocks --filename=dispatcher_mock.go --case=underscore --with-expecter

// Dispatcher pushes change groups to the remote firewall endpoint, one
// call per group, and records every attempt in the audit log.
type Dispatcher interface {
	Dispatch(ctx context.Context, runID *uuid.UUID, group changeset.ChangeGroup) error
	DispatchAll(ctx context.Context, runID *uuid.UUID, groups []changeset.ChangeGroup) []changeset.ChangeGroup
}

type dispatcher struct {
	logger      *logrus.Logger
	client      firewall.Client
	auditRepo   audit.Repository
	emitter     infraTelemetry.Emitter
	timeout     time.Duration
	concurrency int
}

func NewDispatcher(
	logger *logrus.Logger,
	client firewall.Client,
	auditRepo audit.Repository,
	emitter infraTelemetry.Emitter,
	timeout time.Duration,
	concurrency int,
) Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &dispatcher{
		logger:      logger,
		client:      client,
		auditRepo:   auditRepo,
		emitter:     emitter,
		timeout:     timeout,
		concurrency: concurrency,
	}
}

// Dispatch performs exactly one mutation call for the group. The audit
// record is written whether the call succeeds or fails; the returned
// error reflects the call only.
func (d *dispatcher) Dispatch(ctx context.Context, runID *uuid.UUID, group changeset.ChangeGroup) error {
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	request := firewall.MutationRequest{
		SubscriptionID: group.Target.SubscriptionID,
		ServiceType:    string(group.Target.OfferingType),
		ServiceName:    group.Target.OfferingName,
		ResourceGroup:  group.Target.ResourceGroup,
		Action:         string(group.Action),
		IPRules:        group.IPRules(),
	}

	result, callErr := d.client.ApplyRules(callCtx, request)
	elapsed := time.Since(start)

	response := ""
	switch {
	case result != nil:
		response = result.Body
	case callErr != nil:
		response = callErr.Error()
	}

	record := &audit.DispatchRecord{
		ID:             uuid.New(),
		RunID:          runID,
		OfferingType:   string(group.Target.OfferingType),
		OfferingName:   group.Target.OfferingName,
		SubscriptionID: group.Target.SubscriptionID,
		ResourceGroup:  group.Target.ResourceGroup,
		Action:         string(group.Action),
		IPRules:        types.IPRuleArray(group.IPRules()),
		Succeeded:      callErr == nil,
		Response:       response,
		CreatedAt:      time.Now(),
	}

	// The record must land even when the surrounding run is being torn down.
	saveCtx, cancelSave := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancelSave()
	if err := d.auditRepo.Save(saveCtx, record); err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"target": group.Target.String(),
			"action": group.Action,
		}).Error("failed to persist dispatch record")
	}

	d.observe(runID, group, callErr == nil, elapsed)

	if callErr != nil {
		d.logger.WithError(callErr).WithFields(logrus.Fields{
			"target":     group.Target.String(),
			"action":     group.Action,
			"rule_count": len(group.Ranges),
		}).Error("firewall dispatch failed")
		return callErr
	}
	return nil
}

// DispatchAll fans the groups out over a bounded worker pool and returns
// the groups whose dispatch failed. A failing group never interrupts its
// siblings.
func (d *dispatcher) DispatchAll(ctx context.Context, runID *uuid.UUID, groups []changeset.ChangeGroup) []changeset.ChangeGroup {
	var (
		failed []changeset.ChangeGroup
		mu     sync.Mutex
	)

	g := &errgroup.Group{}
	g.SetLimit(d.concurrency)

	for _, group := range groups {
		group := group
		g.Go(func() error {
			if err := d.Dispatch(ctx, runID, group); err != nil {
				mu.Lock()
				failed = append(failed, group)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return failed
}

func (d *dispatcher) observe(runID *uuid.UUID, group changeset.ChangeGroup, succeeded bool, elapsed time.Duration) {
	status := "succeeded"
	if !succeeded {
		status = "failed"
	}
	serviceType := string(group.Target.OfferingType)

	prometheus.DispatchesTotal.WithLabelValues(serviceType, string(group.Action), status).Inc()
	if prometheus.Config.EnableDispatchLatency {
		prometheus.DispatchLatency.WithLabelValues(serviceType).
			Observe(float64(elapsed.Milliseconds()))
	}

	evt := domainTelemetry.DispatchEvent{
		OfferingType:   serviceType,
		OfferingName:   group.Target.OfferingName,
		SubscriptionID: group.Target.SubscriptionID,
		ResourceGroup:  group.Target.ResourceGroup,
		Action:         string(group.Action),
		RuleCount:      len(group.Ranges),
		Succeeded:      succeeded,
		DurationMs:     elapsed.Milliseconds(),
	}
	if runID != nil {
		evt.RunID = runID.String()
	}
	d.emitter.Emit(domainTelemetry.NewDispatchEvent(evt))
}
