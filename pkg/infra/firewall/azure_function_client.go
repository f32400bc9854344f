package firewall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/autoshield/autoshield/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const maxResponseBytes = 1 << 20

var ErrFailedFirewallCall = errors.New("firewall mutation call failed")

// AzureFunctionClient talks to the HTTP function that owns the actual
// provider firewall mutations. One ApplyRules call is one invocation;
// retries are the caller's decision, never the client's.
type AzureFunctionClient struct {
	client         httpx.Client
	logger         *logrus.Logger
	circuitBreaker httpx.CircuitBreaker
	functionURL    string
	functionKey    string
}

func NewAzureFunctionClient(
	functionURL string,
	logger *logrus.Logger,
	circuitBreaker httpx.CircuitBreaker,
	opts ...AzureFunctionClientOption,
) Client {
	c := &AzureFunctionClient{
		client:         &http.Client{},
		logger:         logger,
		circuitBreaker: circuitBreaker,
		functionURL:    functionURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *AzureFunctionClient) ApplyRules(ctx context.Context, request MutationRequest) (*MutationResult, error) {
	var result *MutationResult
	var err error

	breakerErr := c.circuitBreaker.Execute(func() error {
		result, err = c.executeMutationRequest(ctx, request)
		return err
	})
	if breakerErr != nil {
		if !errors.Is(breakerErr, context.Canceled) {
			c.logger.WithError(breakerErr).WithFields(logrus.Fields{
				"service_type": request.ServiceType,
				"service_name": request.ServiceName,
				"action":       request.Action,
			}).Error("firewall mutation failed")
		}
		return result, breakerErr
	}

	return result, nil
}

func (c *AzureFunctionClient) executeMutationRequest(ctx context.Context, request MutationRequest) (*MutationResult, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mutation request: %w", err)
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.functionURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mutation request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.functionKey != "" {
		req.Header.Set("x-functions-key", c.functionKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Error("failed to call firewall mutation endpoint")
		}
		return nil, fmt.Errorf("failed to call firewall mutation endpoint: %w", err)
	}
	defer resp.Body.Close()

	// The body is audit material either way, so read it before judging
	// the status.
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("mutation response read error: %w", err)
	}

	result := &MutationResult{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.WithField("status_code", resp.StatusCode).Error("firewall mutation endpoint returned non-2xx status")
		return result, fmt.Errorf("%w: status %d", ErrFailedFirewallCall, resp.StatusCode)
	}

	return result, nil
}
