package mock

import (
	"context"

	"github.com/fwojciec/vsx"
)

var _ vsx.StencilService = (*StencilService)(nil)

// StencilService is a mock implementation of vsx.StencilService.
type StencilService struct {
	UpsertStencilFn     func(ctx context.Context, stencil *vsx.Stencil, shapes []*vsx.Shape) error
	FindStencilByPathFn func(ctx context.Context, path string) (*vsx.Stencil, error)
	FindStencilsFn      func(ctx context.Context, filter vsx.StencilFilter) ([]*vsx.Stencil, error)
	RemoveStencilFn     func(ctx context.Context, path string) error
	PruneStencilsFn     func(ctx context.Context, root string, seen map[string]struct{}) (int, error)
}

func (s *StencilService) UpsertStencil(ctx context.Context, stencil *vsx.Stencil, shapes []*vsx.Shape) error {
	return s.UpsertStencilFn(ctx, stencil, shapes)
}

func (s *StencilService) FindStencilByPath(ctx context.Context, path string) (*vsx.Stencil, error) {
	return s.FindStencilByPathFn(ctx, path)
}

func (s *StencilService) FindStencils(ctx context.Context, filter vsx.StencilFilter) ([]*vsx.Stencil, error) {
	return s.FindStencilsFn(ctx, filter)
}

func (s *StencilService) RemoveStencil(ctx context.Context, path string) error {
	return s.RemoveStencilFn(ctx, path)
}

func (s *StencilService) PruneStencils(ctx context.Context, root string, seen map[string]struct{}) (int, error) {
	return s.PruneStencilsFn(ctx, root, seen)
}
