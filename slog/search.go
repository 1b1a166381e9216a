package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/vsx"
)

// Ensure LoggingSearchService implements vsx.SearchService.
var _ vsx.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with query logging.
type LoggingSearchService struct {
	next   vsx.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next vsx.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// SearchShapes delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) SearchShapes(ctx context.Context, q vsx.SearchQuery) (page *vsx.SearchPage, err error) {
	defer func(begin time.Time) {
		total := 0
		degraded := false
		if page != nil {
			total = page.Total
			degraded = page.Degraded
		}
		s.logger.Info("search",
			"term", q.Term,
			"page", q.Page,
			"total", total,
			"degraded", degraded,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SearchShapes(ctx, q)
}
