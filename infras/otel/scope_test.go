package otel_test

import (
	"context"
	"errors"
	"taskpal/infras/otel"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func record(t *testing.T, fn func(scope otel.Scope)) trace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "span")
	scope := otel.NewScope(span)
	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func TestScope_SetAttributes(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{
			"booking.id":    "b-1",
			"booking.final": true,
			"booking.count": 3,
			"booking.roles": []string{"user", "provider"},
			"booking.price": 12.5,
			"booking.at":    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		})
	})

	attributes := attribute.NewSet(span.Attributes()...)

	for key, want := range map[attribute.Key]attribute.Value{
		"booking.id":    attribute.StringValue("b-1"),
		"booking.final": attribute.BoolValue(true),
		"booking.count": attribute.IntValue(3),
		"booking.roles": attribute.StringSliceValue([]string{"user", "provider"}),
		"booking.price": attribute.Float64Value(12.5),
		"booking.at":    attribute.StringValue("2026-03-01T09:00:00Z"),
	} {
		got, ok := attributes.Value(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestScope_TraceIfError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantEvents int
	}{
		{name: "nil error leaves status unset", err: nil, wantStatus: codes.Unset, wantEvents: 0},
		{name: "error is recorded", err: errors.New("boom"), wantStatus: codes.Error, wantEvents: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span := record(t, func(scope otel.Scope) {
				scope.TraceIfError(tt.err)
			})

			assert.Equal(t, tt.wantStatus, span.Status().Code)
			assert.Len(t, span.Events(), tt.wantEvents)
		})
	}
}
