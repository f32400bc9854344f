package whitelist

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	dispatchMocks "github.com/autoshield/autoshield/pkg/app/dispatch/mocks"
	"github.com/autoshield/autoshield/pkg/domain/changeset"
	"github.com/autoshield/autoshield/pkg/domain/iprange"
	iprangeMocks "github.com/autoshield/autoshield/pkg/domain/iprange/mocks"
	"github.com/autoshield/autoshield/pkg/domain/subscription"
)

func setupWhitelister(rangeRepo *iprangeMocks.Repository, dispatcher *dispatchMocks.Dispatcher) InitialWhitelister {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Reduce noise in tests
	return NewInitialWhitelister(logger, rangeRepo, dispatcher)
}

func sampleEntry(component, region string) subscription.Entry {
	return subscription.Entry{
		OfferingType:   subscription.OfferingSQL,
		OfferingName:   "orders-db",
		SubscriptionID: "sub-1",
		ResourceGroup:  "rg-1",
		Component:      component,
		Region:         region,
	}
}

func TestInitialWhitelister_DispatchesActiveRangesAsOneAddGroup(t *testing.T) {
	rangeRepo := new(iprangeMocks.Repository)
	dispatcher := new(dispatchMocks.Dispatcher)
	w := setupWhitelister(rangeRepo, dispatcher)

	rangeRepo.On("ListActiveByScope", mock.Anything, "AzureCloud", "westeurope").Return([]iprange.IPRange{
		{Component: "AzureCloud", Region: "westeurope", Address: "40.112.0.0/16", StartIP: "40.112.0.0", EndIP: "40.112.255.255"},
		{Component: "AzureCloud", Region: "westeurope", Address: "13.64.0.0/16", StartIP: "13.64.0.0", EndIP: "13.64.255.255"},
	}, nil)

	var dispatched changeset.ChangeGroup
	dispatcher.On("Dispatch", mock.Anything, mock.Anything, mock.AnythingOfType("changeset.ChangeGroup")).
		Run(func(args mock.Arguments) {
			dispatched = args.Get(2).(changeset.ChangeGroup)
		}).
		Return(nil)

	w.OnSubscriptionRegistered(context.Background(), []subscription.Entry{sampleEntry("AzureCloud", "westeurope")})

	dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
	assert.Equal(t, changeset.ActionAdd, dispatched.Action)
	assert.Equal(t, "orders-db", dispatched.Target.OfferingName)
	assert.Equal(t, []string{"13.64.0.0-13.64.255.255", "40.112.0.0-40.112.255.255"}, dispatched.IPRules())

	// Trigger dispatches carry no run id.
	runID := dispatcher.Calls[0].Arguments.Get(1)
	assert.Nil(t, runID)
}

func TestInitialWhitelister_EmptyScopeSkipsDispatch(t *testing.T) {
	rangeRepo := new(iprangeMocks.Repository)
	dispatcher := new(dispatchMocks.Dispatcher)
	w := setupWhitelister(rangeRepo, dispatcher)

	rangeRepo.On("ListActiveByScope", mock.Anything, "AzureCloud", "brazilsouth").Return([]iprange.IPRange{}, nil)

	w.OnSubscriptionRegistered(context.Background(), []subscription.Entry{sampleEntry("AzureCloud", "brazilsouth")})

	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitialWhitelister_RepositoryErrorIsTerminal(t *testing.T) {
	rangeRepo := new(iprangeMocks.Repository)
	dispatcher := new(dispatchMocks.Dispatcher)
	w := setupWhitelister(rangeRepo, dispatcher)

	rangeRepo.On("ListActiveByScope", mock.Anything, "AzureCloud", "westeurope").
		Return(nil, errors.New("connection refused"))

	w.OnSubscriptionRegistered(context.Background(), []subscription.Entry{sampleEntry("AzureCloud", "westeurope")})

	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitialWhitelister_DispatchFailureIsTerminal(t *testing.T) {
	rangeRepo := new(iprangeMocks.Repository)
	dispatcher := new(dispatchMocks.Dispatcher)
	w := setupWhitelister(rangeRepo, dispatcher)

	rangeRepo.On("ListActiveByScope", mock.Anything, "AzureCloud", "westeurope").Return([]iprange.IPRange{
		{Component: "AzureCloud", Region: "westeurope", Address: "13.64.0.0/16", StartIP: "13.64.0.0", EndIP: "13.64.255.255"},
	}, nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything, mock.AnythingOfType("changeset.ChangeGroup")).
		Return(errors.New("firewall endpoint call failed: status 500"))

	w.OnSubscriptionRegistered(context.Background(), []subscription.Entry{sampleEntry("AzureCloud", "westeurope")})

	// Exactly one attempt, no retry.
	dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestInitialWhitelister_EachEntryGetsItsOwnScope(t *testing.T) {
	rangeRepo := new(iprangeMocks.Repository)
	dispatcher := new(dispatchMocks.Dispatcher)
	w := setupWhitelister(rangeRepo, dispatcher)

	rangeRepo.On("ListActiveByScope", mock.Anything, "AzureCloud", "westeurope").Return([]iprange.IPRange{
		{Component: "AzureCloud", Region: "westeurope", Address: "13.64.0.0/16", StartIP: "13.64.0.0", EndIP: "13.64.255.255"},
	}, nil)
	rangeRepo.On("ListActiveByScope", mock.Anything, "AzureCloud", "northeurope").Return([]iprange.IPRange{
		{Component: "AzureCloud", Region: "northeurope", Address: "13.69.0.0/16", StartIP: "13.69.0.0", EndIP: "13.69.255.255"},
	}, nil)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything, mock.AnythingOfType("changeset.ChangeGroup")).Return(nil)

	w.OnSubscriptionRegistered(context.Background(), []subscription.Entry{
		sampleEntry("AzureCloud", "westeurope"),
		sampleEntry("AzureCloud", "northeurope"),
	})

	dispatcher.AssertNumberOfCalls(t, "Dispatch", 2)
	rangeRepo.AssertExpectations(t)
}
