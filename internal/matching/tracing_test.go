package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"matching-workers/internal/engine"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestMatchContractors_SpanCreated(t *testing.T) {
	exporter := setupTestTracer(t)
	svc := newTestService(t, &stubContractors{pool: []engine.ServiceProvider{heatPumpProvider("c-1")}}, &stubSchemes{})

	_, err := svc.MatchContractors(context.Background(), contractorRequest())
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "matching.Service.MatchContractors", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)

	attrs := map[string]interface{}{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "req-1", attrs["request_id"])
	assert.Equal(t, int64(1), attrs["results"])
}

func TestMatchSubsidies_SpanRecordsError(t *testing.T) {
	exporter := setupTestTracer(t)
	svc := newTestService(t, &stubContractors{}, &stubSchemes{err: assert.AnError})

	_, err := svc.MatchSubsidies(context.Background(), subsidyRequest())
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "matching.Service.MatchSubsidies", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	require.NotEmpty(t, spans[0].Events)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}
