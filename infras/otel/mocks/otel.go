package mocks

import (
	"context"
	"taskpal/infras/otel"
)

type otelImpl struct{}

// NewOtel returns an otel.Otel whose scopes record nothing. Services under test
// use it in place of a real tracer provider.
func NewOtel() otel.Otel {
	return otelImpl{}
}

func (otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}
