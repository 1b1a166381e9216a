package svg

import (
	"context"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/vsx"
)

// Ensure CachingRenderer implements vsx.PreviewRenderer.
var _ vsx.PreviewRenderer = (*CachingRenderer)(nil)

// defaultCacheLimit bounds the number of cached previews before the cache
// resets.
const defaultCacheLimit = 4096

// CachingRenderer memoizes another renderer's output. Previews are keyed by
// (stencil path, shape id); re-extraction assigns fresh shape ids, so a
// changed stencil never serves a stale preview.
type CachingRenderer struct {
	renderer vsx.PreviewRenderer
	limit    int

	mu    sync.Mutex
	cache map[uint64]*vsx.Preview
}

// NewCachingRenderer wraps renderer with an in-memory preview cache.
func NewCachingRenderer(renderer vsx.PreviewRenderer) *CachingRenderer {
	return &CachingRenderer{
		renderer: renderer,
		limit:    defaultCacheLimit,
		cache:    make(map[uint64]*vsx.Preview),
	}
}

// Render returns the cached preview when available, delegating otherwise.
func (r *CachingRenderer) Render(ctx context.Context, shape *vsx.Shape) (*vsx.Preview, error) {
	if shape == nil {
		return nil, vsx.Errorf(vsx.EINVALID, "shape required")
	}

	key := cacheKey(shape)

	r.mu.Lock()
	if preview, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return preview, nil
	}
	r.mu.Unlock()

	preview, err := r.renderer.Render(ctx, shape)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if len(r.cache) >= r.limit {
		r.cache = make(map[uint64]*vsx.Preview)
	}
	r.cache[key] = preview
	r.mu.Unlock()

	return preview, nil
}

func cacheKey(shape *vsx.Shape) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(shape.StencilPath)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strconv.FormatInt(shape.ID, 10))
	return d.Sum64()
}
