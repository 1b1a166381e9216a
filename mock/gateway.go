package mock

import (
	"context"

	"github.com/fwojciec/vsx"
)

var _ vsx.Gateway = (*Gateway)(nil)

// Gateway is a mock implementation of vsx.Gateway.
type Gateway struct {
	SubmitFn func(ctx context.Context, payload vsx.ImportPayload) (*vsx.ImportResult, error)
	StatusFn func(ctx context.Context) vsx.GatewayStatus
}

func (g *Gateway) Submit(ctx context.Context, payload vsx.ImportPayload) (*vsx.ImportResult, error) {
	return g.SubmitFn(ctx, payload)
}

func (g *Gateway) Status(ctx context.Context) vsx.GatewayStatus {
	return g.StatusFn(ctx)
}
