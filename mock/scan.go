package mock

import (
	"context"

	"github.com/fwojciec/vsx"
)

var _ vsx.ScanService = (*ScanService)(nil)

// ScanService is a mock implementation of vsx.ScanService.
type ScanService struct {
	ScanFn   func(ctx context.Context, root string) (*vsx.ScanStatus, error)
	StatusFn func() (*vsx.ScanStatus, error)
}

func (s *ScanService) Scan(ctx context.Context, root string) (*vsx.ScanStatus, error) {
	return s.ScanFn(ctx, root)
}

func (s *ScanService) Status() (*vsx.ScanStatus, error) {
	return s.StatusFn()
}

var _ vsx.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of vsx.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, path string) ([]*vsx.Shape, error)
}

func (e *Extractor) Extract(ctx context.Context, path string) ([]*vsx.Shape, error) {
	return e.ExtractFn(ctx, path)
}
