package gateway

import (
	"bytes"
	"context"
	"testing"

	"github.com/angelmondragon/startupidea/pkg/logger"
	"github.com/angelmondragon/startupidea/pkg/metrics"
	"github.com/angelmondragon/startupidea/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	Gateway
	listErr error
}

func (s stubGateway) ListIdeas(context.Context) ([]models.Idea, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []models.Idea{{ID: "1"}}, nil
}

func (s stubGateway) DeleteIdea(context.Context, string) error {
	return &StorageError{Kind: StorageNotFound, Op: "delete_idea"}
}

func TestInstrumentRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewGatewayMetrics(reg)
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf})

	gw := Instrument(stubGateway{}, m, logg)
	ctx := context.Background()

	ideas, err := gw.ListIdeas(ctx)
	require.NoError(t, err)
	require.Len(t, ideas, 1)

	err = gw.DeleteIdea(ctx, "x")
	require.True(t, IsStorageKind(err, StorageNotFound), "errors pass through untouched")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	counters := map[string]float64{}
	for _, mf := range mfs {
		for _, metric := range mf.GetMetric() {
			if metric.GetCounter() != nil {
				counters[mf.GetName()] += metric.GetCounter().GetValue()
			}
		}
	}
	require.Equal(t, float64(1), counters["backend_call_success"])
	require.Equal(t, float64(1), counters["backend_call_failure"])
	require.Contains(t, buf.String(), `"op":"delete_idea"`)
	require.Contains(t, buf.String(), `"kind":"storage_not_found"`)
}

func TestInstrumentToleratesNilMetrics(t *testing.T) {
	gw := Instrument(stubGateway{}, nil, nil)
	_, err := gw.ListIdeas(context.Background())
	require.NoError(t, err)
}
