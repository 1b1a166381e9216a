package mock

import (
	"context"

	"github.com/fwojciec/vsx"
)

var _ vsx.HealthService = (*HealthService)(nil)

// HealthService is a mock implementation of vsx.HealthService.
type HealthService struct {
	AnalyzeFn func(ctx context.Context) (*vsx.HealthReport, error)
}

func (s *HealthService) Analyze(ctx context.Context) (*vsx.HealthReport, error) {
	return s.AnalyzeFn(ctx)
}
