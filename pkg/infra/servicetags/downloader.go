package servicetags

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/autoshield/autoshield/pkg/infra/httpx"
)

// MaxFeedBytes caps how much of the feed is read. The public feed is
// around 40 MB today; the cap leaves generous room.
const MaxFeedBytes = 256 << 20

//go:generate mockery --name=Downloader --dir=. --output=./mocks --filename=downloader_mock.go --case=underscore --with-expecter
type Downloader interface {
	Download(ctx context.Context) ([]byte, error)
}

type httpDownloader struct {
	client httpx.Client
	url    string
	logger *logrus.Logger
}

func NewDownloader(client httpx.Client, url string, logger *logrus.Logger) Downloader {
	return &httpDownloader{
		client: client,
		url:    url,
		logger: logger,
	}
}

func (d *httpDownloader) Download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download service tags feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service tags feed returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read service tags feed: %w", err)
	}

	d.logger.WithField("bytes", len(data)).Debug("service tags feed downloaded")
	return data, nil
}
