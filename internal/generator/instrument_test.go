package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ventureforge/planscope/internal/errors"
	"github.com/ventureforge/planscope/internal/monitoring"
	"github.com/ventureforge/planscope/internal/plan"
)

func TestInstrumentedClientPassesThrough(t *testing.T) {
	metrics := monitoring.NewMetrics()
	client := NewInstrumentedClient(&stubClient{response: "payload"}, "anthropic", metrics, monitoring.NewLogger())

	raw, err := client.Complete(context.Background(), "prompt")
	assert.NoError(t, err)
	assert.Equal(t, "payload", raw)

	stats := metrics.GetExternalAPIStats()
	api, ok := stats["anthropic"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, api["requests"])
	assert.EqualValues(t, 0, api["errors"])
}

func TestInstrumentedClientWrapsFailures(t *testing.T) {
	metrics := monitoring.NewMetrics()
	client := NewInstrumentedClient(&stubClient{err: fmt.Errorf("connection refused")}, "anthropic", metrics, nil)

	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CategoryExternalAPI, appErr.Category)
	assert.EqualError(t, appErr.Unwrap(), "connection refused")

	stats := metrics.GetExternalAPIStats()
	api, ok := stats["anthropic"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, api["requests"])
	assert.EqualValues(t, 1, api["errors"])
}

func TestGeneratorFallsBackOnInstrumentedFailure(t *testing.T) {
	metrics := monitoring.NewMetrics()
	g := New(NewInstrumentedClient(&stubClient{err: fmt.Errorf("boom")}, "anthropic", metrics, nil))

	p, source, err := g.Generate(context.Background(), plan.CategorySaaS, nil)
	assert.NoError(t, err)
	assert.Equal(t, SourceFallback, source)
	assert.NotEmpty(t, p.Title)
}
