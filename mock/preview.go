package mock

import (
	"context"

	"github.com/fwojciec/vsx"
)

var _ vsx.PreviewRenderer = (*PreviewRenderer)(nil)

// PreviewRenderer is a mock implementation of vsx.PreviewRenderer.
type PreviewRenderer struct {
	RenderFn func(ctx context.Context, shape *vsx.Shape) (*vsx.Preview, error)
}

func (r *PreviewRenderer) Render(ctx context.Context, shape *vsx.Shape) (*vsx.Preview, error) {
	return r.RenderFn(ctx, shape)
}
