package reconcile

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/autoshield/autoshield/pkg/cache"
	"github.com/autoshield/autoshield/pkg/common"
)

// LastRunStore keeps the most recent run summary where operators can
// reach it. Saving is best-effort; a failure never touches the run
// outcome.
type LastRunStore interface {
	Save(ctx context.Context, summary *RunSummary)
	Load(ctx context.Context) (*RunSummary, error)
}

type lastRunStore struct {
	logger *logrus.Logger
	cache  *cache.Cache
}

func NewLastRunStore(logger *logrus.Logger, cacheClient *cache.Cache) LastRunStore {
	return &lastRunStore{
		logger: logger,
		cache:  cacheClient,
	}
}

func (s *lastRunStore) Save(ctx context.Context, summary *RunSummary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		s.logger.WithError(err).Warn("failed to encode last run summary")
		return
	}
	if err := s.cache.Set(ctx, common.LastRunKey, string(payload), common.LastRunTTL); err != nil {
		s.logger.WithError(err).Warn("failed to store last run summary")
	}
}

func (s *lastRunStore) Load(ctx context.Context) (*RunSummary, error) {
	payload, err := s.cache.Get(ctx, common.LastRunKey)
	if err != nil {
		return nil, err
	}
	var summary RunSummary
	if err := json.Unmarshal([]byte(payload), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
