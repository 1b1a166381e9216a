// Package slog provides logging decorators for vsx services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/vsx"
)

// Ensure LoggingExtractor implements vsx.Extractor.
var _ vsx.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with per-file logging.
type LoggingExtractor struct {
	next   vsx.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next vsx.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(ctx context.Context, path string) (shapes []*vsx.Shape, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract",
			"path", path,
			"shapes", len(shapes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, path)
}
