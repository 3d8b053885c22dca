package gateway

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"voteparty/internal/domain/entities"
)

func attr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRequest_RecordsSpans(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	var traceparent string
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		if r.URL.Path == "/api/parties/NOPE00" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "party not found"})
			return
		}
		writeJSON(w, http.StatusOK, entities.Party{ID: "p1", Code: "ABC123"})
	})

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	c := New(srv.URL, nil, WithTracerProvider(tp))

	_, err := c.GetPartyByCode(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.NotEmpty(t, traceparent)

	_, err = c.GetPartyByCode(context.Background(), "NOPE00")
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "gateway.request", ok.Name())
	path, _ := attr(ok, "url.path")
	assert.Equal(t, "/api/parties/ABC123", path.AsString())
	status, _ := attr(ok, "http.response.status_code")
	assert.Equal(t, int64(http.StatusOK), status.AsInt64())
	assert.Equal(t, codes.Unset, ok.Status().Code)

	failed := spans[1]
	status, _ = attr(failed, "http.response.status_code")
	assert.Equal(t, int64(http.StatusNotFound), status.AsInt64())
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Contains(t, failed.Status().Description, "party not found")
}
