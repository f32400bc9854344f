package whitelist

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/autoshield/autoshield/pkg/app/dispatch"
	"github.com/autoshield/autoshield/pkg/domain/changeset"
	"github.com/autoshield/autoshield/pkg/domain/iprange"
	"github.com/autoshield/autoshield/pkg/domain/subscription"
)

//go:generate mockery --name=InitialWhitelister --dir=. --output=./mocks --filename=initial_whitelister_mock.go --case=underscore --with-expecter

// InitialWhitelister pushes the currently active ranges of a scope to a
// firewall right after its subscription lands, so a new subscriber does
// not wait for the next scheduled run. One attempt per entry; the
// outcome never reaches the registration caller.
type InitialWhitelister interface {
	OnSubscriptionRegistered(ctx context.Context, entries []subscription.Entry)
}

type initialWhitelister struct {
	logger     *logrus.Logger
	rangeRepo  iprange.Repository
	dispatcher dispatch.Dispatcher
}

func NewInitialWhitelister(
	logger *logrus.Logger,
	rangeRepo iprange.Repository,
	dispatcher dispatch.Dispatcher,
) InitialWhitelister {
	return &initialWhitelister{
		logger:     logger,
		rangeRepo:  rangeRepo,
		dispatcher: dispatcher,
	}
}

func (w *initialWhitelister) OnSubscriptionRegistered(ctx context.Context, entries []subscription.Entry) {
	for _, entry := range entries {
		w.whitelist(ctx, entry)
	}
}

func (w *initialWhitelister) whitelist(ctx context.Context, entry subscription.Entry) {
	target := changeset.TargetOf(entry)

	ranges, err := w.rangeRepo.ListActiveByScope(ctx, entry.Component, entry.Region)
	if err != nil {
		w.logger.WithError(err).WithFields(logrus.Fields{
			"target":    target.String(),
			"component": entry.Component,
			"region":    entry.Region,
		}).Error("failed to load active ranges for initial whitelist")
		return
	}
	if len(ranges) == 0 {
		w.logger.WithFields(logrus.Fields{
			"target":    target.String(),
			"component": entry.Component,
			"region":    entry.Region,
		}).Info("scope has no active ranges, skipping initial whitelist")
		return
	}

	group := changeset.New(target, changeset.ActionAdd, ranges)
	if err := w.dispatcher.Dispatch(ctx, nil, group); err != nil {
		// One attempt only; the audit record already holds the failure.
		w.logger.WithError(err).WithField("target", target.String()).
			Error("initial whitelist dispatch failed")
	}
}
