package generator

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/ventureforge/planscope/internal/errors"
	"github.com/ventureforge/planscope/internal/monitoring"
)

// InstrumentedClient decorates a Client with external-API metrics and
// logging. Failures come back wrapped as external API errors so callers can
// tell a model outage apart from a bad response.
type InstrumentedClient struct {
	client  Client
	apiName string
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
}

// NewInstrumentedClient wraps client. metrics and logger may be nil.
func NewInstrumentedClient(client Client, apiName string, metrics *monitoring.Metrics, logger *monitoring.Logger) *InstrumentedClient {
	return &InstrumentedClient{
		client:  client,
		apiName: apiName,
		metrics: metrics,
		logger:  logger,
	}
}

// Complete delegates to the wrapped client and records the outcome.
func (ic *InstrumentedClient) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	raw, err := ic.client.Complete(ctx, prompt)
	success := err == nil

	if ic.metrics != nil {
		ic.metrics.RecordExternalAPIRequest(ic.apiName, success)
	}
	if ic.logger != nil {
		statusCode := http.StatusOK
		if !success {
			statusCode = 0
		}
		ic.logger.ExternalAPILogger(ic.apiName, http.MethodPost, "/v1/messages", statusCode, time.Since(start), success)
	}

	if err != nil {
		return "", apperrors.NewExternalAPIError(ic.apiName, err)
	}
	return raw, nil
}
