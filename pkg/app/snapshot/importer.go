package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/autoshield/autoshield/pkg/domain"
	domainSnapshot "github.com/autoshield/autoshield/pkg/domain/snapshot"
	"github.com/autoshield/autoshield/pkg/infra/prometheus"
	"github.com/autoshield/autoshield/pkg/infra/servicetags"
)

//go:generate mockery --name=Importer --dir=. --output=./mocks --filename=snapshot_importer_mock.go --case=underscore --with-expecter

// Importer refreshes the staged snapshot from the provider feed. The
// reconciler only ever reads the staging table, so external schedulers
// may load it through other means and skip this entirely.
type Importer interface {
	Import(ctx context.Context) (*ImportSummary, error)
}

type ImportSummary struct {
	Cloud        string `json:"cloud"`
	ChangeNumber int64  `json:"change_number"`
	Staged       int    `json:"staged"`
	SkippedIPv6  int    `json:"skipped_ipv6"`
}

type importer struct {
	logger          *logrus.Logger
	downloader      servicetags.Downloader
	repo            domainSnapshot.Repository
	downloadTimeout time.Duration
}

func NewImporter(
	logger *logrus.Logger,
	downloader servicetags.Downloader,
	repo domainSnapshot.Repository,
	downloadTimeout time.Duration,
) Importer {
	return &importer{
		logger:          logger,
		downloader:      downloader,
		repo:            repo,
		downloadTimeout: downloadTimeout,
	}
}

func (i *importer) Import(ctx context.Context) (*ImportSummary, error) {
	downloadCtx, cancel := context.WithTimeout(ctx, i.downloadTimeout)
	defer cancel()

	data, err := i.downloader.Download(downloadCtx)
	if err != nil {
		i.logger.WithError(err).Error("service tags download failed")
		return nil, err
	}

	feed, err := servicetags.Parse(data)
	if err != nil {
		i.logger.WithError(err).Error("service tags payload rejected")
		return nil, err
	}
	if len(feed.Rows) == 0 {
		return nil, fmt.Errorf("service tags feed produced no rows: %w", domain.ErrEmptySnapshot)
	}

	if err := i.repo.ReplaceAll(ctx, feed.Rows); err != nil {
		i.logger.WithError(err).Error("failed to replace staged snapshot")
		return nil, fmt.Errorf("failed to replace staged snapshot: %w", err)
	}
	prometheus.StagedRanges.Set(float64(len(feed.Rows)))

	summary := &ImportSummary{
		Cloud:        feed.Cloud,
		ChangeNumber: feed.ChangeNumber,
		Staged:       len(feed.Rows),
		SkippedIPv6:  feed.SkippedIPv6,
	}
	i.logger.WithFields(logrus.Fields{
		"cloud":         summary.Cloud,
		"change_number": summary.ChangeNumber,
		"staged":        summary.Staged,
		"skipped_ipv6":  summary.SkippedIPv6,
	}).Info("staged snapshot replaced")

	return summary, nil
}
