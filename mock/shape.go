package mock

import (
	"context"

	"github.com/fwojciec/vsx"
)

var _ vsx.ShapeService = (*ShapeService)(nil)

// ShapeService is a mock implementation of vsx.ShapeService.
type ShapeService struct {
	FindShapeByIDFn       func(ctx context.Context, id int64) (*vsx.Shape, error)
	FindShapesByStencilFn func(ctx context.Context, stencilPath string) ([]*vsx.Shape, error)
}

func (s *ShapeService) FindShapeByID(ctx context.Context, id int64) (*vsx.Shape, error) {
	return s.FindShapeByIDFn(ctx, id)
}

func (s *ShapeService) FindShapesByStencil(ctx context.Context, stencilPath string) ([]*vsx.Shape, error) {
	return s.FindShapesByStencilFn(ctx, stencilPath)
}
