package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/vsx"
)

// Ensure LoggingGateway implements vsx.Gateway.
var _ vsx.Gateway = (*LoggingGateway)(nil)

// LoggingGateway wraps a Gateway with submission logging.
type LoggingGateway struct {
	next   vsx.Gateway
	logger *slog.Logger
}

// NewLoggingGateway creates a new LoggingGateway.
func NewLoggingGateway(next vsx.Gateway, logger *slog.Logger) *LoggingGateway {
	return &LoggingGateway{next: next, logger: logger}
}

// Submit delegates to the wrapped gateway and logs the operation.
func (g *LoggingGateway) Submit(ctx context.Context, payload vsx.ImportPayload) (result *vsx.ImportResult, err error) {
	defer func(begin time.Time) {
		g.logger.Info("bridge submit",
			"type", payload.Type,
			"bytes", len(payload.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Submit(ctx, payload)
}

// Status delegates to the wrapped gateway.
func (g *LoggingGateway) Status(ctx context.Context) vsx.GatewayStatus {
	return g.next.Status(ctx)
}
