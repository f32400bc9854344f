package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/autoshield/autoshield/pkg/domain/audit"
	auditMocks "github.com/autoshield/autoshield/pkg/domain/audit/mocks"
	"github.com/autoshield/autoshield/pkg/domain/changeset"
	"github.com/autoshield/autoshield/pkg/domain/iprange"
	"github.com/autoshield/autoshield/pkg/domain/subscription"
	domainTelemetry "github.com/autoshield/autoshield/pkg/domain/telemetry"
	"github.com/autoshield/autoshield/pkg/infra/firewall"
)

// mockFirewallClient is a mock for firewall.Client
type mockFirewallClient struct {
	mock.Mock
}

func (m *mockFirewallClient) ApplyRules(ctx context.Context, req firewall.MutationRequest) (*firewall.MutationResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*firewall.MutationResult)
	return result, args.Error(1)
}

// captureEmitter records emitted events instead of exporting them.
type captureEmitter struct {
	mu     sync.Mutex
	events []domainTelemetry.Event
}

func (c *captureEmitter) Emit(evt domainTelemetry.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
}

func (c *captureEmitter) Close() {}

func (c *captureEmitter) all() []domainTelemetry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domainTelemetry.Event, len(c.events))
	copy(out, c.events)
	return out
}

func setupDispatcher(client *mockFirewallClient, auditRepo *auditMocks.Repository, emitter *captureEmitter) Dispatcher {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Reduce noise in tests
	return NewDispatcher(logger, client, auditRepo, emitter, time.Second, 4)
}

func sampleGroup(action changeset.Action) changeset.ChangeGroup {
	return changeset.New(
		changeset.Target{
			OfferingType:   subscription.OfferingSQL,
			OfferingName:   "orders-db",
			SubscriptionID: "11111111-2222-3333-4444-555555555555",
			ResourceGroup:  "prod-rg",
		},
		action,
		[]iprange.IPRange{
			{Component: "AzureCloud", Region: "westeurope", Address: "40.112.0.1", StartIP: "40.112.0.1", EndIP: "40.112.0.1"},
			{Component: "AzureCloud", Region: "westeurope", Address: "13.64.0.0/16", StartIP: "13.64.0.0", EndIP: "13.64.255.255"},
		},
	)
}

func TestDispatcher_Dispatch_Success(t *testing.T) {
	client := new(mockFirewallClient)
	auditRepo := new(auditMocks.Repository)
	emitter := &captureEmitter{}
	d := setupDispatcher(client, auditRepo, emitter)

	group := sampleGroup(changeset.ActionAdd)
	runID := uuid.New()

	client.On("ApplyRules", mock.Anything, mock.AnythingOfType("firewall.MutationRequest")).
		Return(&firewall.MutationResult{StatusCode: 200, Body: `{"status":"ok"}`}, nil)

	var saved *audit.DispatchRecord
	auditRepo.On("Save", mock.Anything, mock.AnythingOfType("*audit.DispatchRecord")).
		Return(nil).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*audit.DispatchRecord)
		})

	err := d.Dispatch(context.Background(), &runID, group)

	assert.NoError(t, err)
	client.AssertNumberOfCalls(t, "ApplyRules", 1)
	auditRepo.AssertExpectations(t)

	req := client.Calls[0].Arguments.Get(1).(firewall.MutationRequest)
	assert.Equal(t, "sql", req.ServiceType)
	assert.Equal(t, "orders-db", req.ServiceName)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", req.SubscriptionID)
	assert.Equal(t, "prod-rg", req.ResourceGroup)
	assert.Equal(t, "add", req.Action)
	assert.Equal(t, []string{"13.64.0.0-13.64.255.255", "40.112.0.1"}, req.IPRules)

	assert.NotNil(t, saved)
	assert.True(t, saved.Succeeded)
	assert.Equal(t, `{"status":"ok"}`, saved.Response)
	assert.Equal(t, &runID, saved.RunID)
	assert.Equal(t, []string{"13.64.0.0-13.64.255.255", "40.112.0.1"}, []string(saved.IPRules))
	assert.NotEqual(t, uuid.Nil, saved.ID)

	events := emitter.all()
	assert.Len(t, events, 1)
	assert.Equal(t, domainTelemetry.EventTypeDispatch, events[0].Type)
	assert.True(t, events[0].Dispatch.Succeeded)
	assert.Equal(t, 2, events[0].Dispatch.RuleCount)
	assert.Equal(t, runID.String(), events[0].Dispatch.RunID)
}

func TestDispatcher_Dispatch_RemoteRejection(t *testing.T) {
	client := new(mockFirewallClient)
	auditRepo := new(auditMocks.Repository)
	emitter := &captureEmitter{}
	d := setupDispatcher(client, auditRepo, emitter)

	group := sampleGroup(changeset.ActionRemove)

	callErr := errors.New("firewall endpoint call failed: status 429")
	client.On("ApplyRules", mock.Anything, mock.AnythingOfType("firewall.MutationRequest")).
		Return(&firewall.MutationResult{StatusCode: 429, Body: `{"error":"throttled"}`}, callErr)

	var saved *audit.DispatchRecord
	auditRepo.On("Save", mock.Anything, mock.AnythingOfType("*audit.DispatchRecord")).
		Return(nil).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*audit.DispatchRecord)
		})

	err := d.Dispatch(context.Background(), nil, group)

	assert.ErrorIs(t, err, callErr)
	assert.NotNil(t, saved)
	assert.False(t, saved.Succeeded)
	// The remote body survives into the audit trail even on rejection.
	assert.Equal(t, `{"error":"throttled"}`, saved.Response)
	assert.Nil(t, saved.RunID)

	events := emitter.all()
	assert.Len(t, events, 1)
	assert.False(t, events[0].Dispatch.Succeeded)
	assert.Empty(t, events[0].Dispatch.RunID)
}

func TestDispatcher_Dispatch_TransportError(t *testing.T) {
	client := new(mockFirewallClient)
	auditRepo := new(auditMocks.Repository)
	emitter := &captureEmitter{}
	d := setupDispatcher(client, auditRepo, emitter)

	group := sampleGroup(changeset.ActionAdd)

	client.On("ApplyRules", mock.Anything, mock.AnythingOfType("firewall.MutationRequest")).
		Return(nil, errors.New("dial tcp: connection refused"))

	var saved *audit.DispatchRecord
	auditRepo.On("Save", mock.Anything, mock.AnythingOfType("*audit.DispatchRecord")).
		Return(nil).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*audit.DispatchRecord)
		})

	err := d.Dispatch(context.Background(), nil, group)

	assert.Error(t, err)
	assert.NotNil(t, saved)
	assert.False(t, saved.Succeeded)
	assert.Contains(t, saved.Response, "connection refused")
}

func TestDispatcher_Dispatch_AuditFailureDoesNotMaskResult(t *testing.T) {
	client := new(mockFirewallClient)
	auditRepo := new(auditMocks.Repository)
	emitter := &captureEmitter{}
	d := setupDispatcher(client, auditRepo, emitter)

	group := sampleGroup(changeset.ActionAdd)

	client.On("ApplyRules", mock.Anything, mock.AnythingOfType("firewall.MutationRequest")).
		Return(&firewall.MutationResult{StatusCode: 200, Body: "ok"}, nil)
	auditRepo.On("Save", mock.Anything, mock.AnythingOfType("*audit.DispatchRecord")).
		Return(errors.New("connection reset"))

	err := d.Dispatch(context.Background(), nil, group)

	assert.NoError(t, err)
	auditRepo.AssertExpectations(t)
}

func TestDispatcher_DispatchAll_IsolatesFailures(t *testing.T) {
	client := new(mockFirewallClient)
	auditRepo := new(auditMocks.Repository)
	emitter := &captureEmitter{}
	d := setupDispatcher(client, auditRepo, emitter)

	good := sampleGroup(changeset.ActionAdd)
	bad := changeset.New(
		changeset.Target{
			OfferingType:   subscription.OfferingStorage,
			OfferingName:   "archive",
			SubscriptionID: "99999999-8888-7777-6666-555555555555",
			ResourceGroup:  "prod-rg",
		},
		changeset.ActionAdd,
		good.Ranges,
	)

	client.On("ApplyRules", mock.Anything, mock.MatchedBy(func(req firewall.MutationRequest) bool {
		return req.ServiceType == "storage"
	})).Return(nil, errors.New("boom"))
	client.On("ApplyRules", mock.Anything, mock.MatchedBy(func(req firewall.MutationRequest) bool {
		return req.ServiceType == "sql"
	})).Return(&firewall.MutationResult{StatusCode: 200, Body: "ok"}, nil)
	auditRepo.On("Save", mock.Anything, mock.AnythingOfType("*audit.DispatchRecord")).Return(nil)

	failed := d.DispatchAll(context.Background(), nil, []changeset.ChangeGroup{good, bad, good})

	assert.Len(t, failed, 1)
	assert.Equal(t, subscription.OfferingStorage, failed[0].Target.OfferingType)
	client.AssertNumberOfCalls(t, "ApplyRules", 3)
	auditRepo.AssertNumberOfCalls(t, "Save", 3)
	assert.Len(t, emitter.all(), 3)
}

func TestDispatcher_DispatchAll_RespectsConcurrencyLimit(t *testing.T) {
	auditRepo := new(auditMocks.Repository)
	auditRepo.On("Save", mock.Anything, mock.AnythingOfType("*audit.DispatchRecord")).Return(nil)

	var inFlight, peak int32
	client := &countingClient{
		apply: func(ctx context.Context, req firewall.MutationRequest) (*firewall.MutationResult, error) {
			current := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if current <= old || atomic.CompareAndSwapInt32(&peak, old, current) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return &firewall.MutationResult{StatusCode: 200, Body: "ok"}, nil
		},
	}

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	d := NewDispatcher(logger, client, auditRepo, &captureEmitter{}, time.Second, 2)

	groups := make([]changeset.ChangeGroup, 8)
	for i := range groups {
		groups[i] = sampleGroup(changeset.ActionAdd)
	}

	failed := d.DispatchAll(context.Background(), nil, groups)

	assert.Empty(t, failed)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

type countingClient struct {
	apply func(ctx context.Context, req firewall.MutationRequest) (*firewall.MutationResult, error)
}

func (c *countingClient) ApplyRules(ctx context.Context, req firewall.MutationRequest) (*firewall.MutationResult, error) {
	return c.apply(ctx, req)
}
