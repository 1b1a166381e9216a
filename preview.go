package vsx

import "context"

// Preview is a rendered shape image.
type Preview struct {
	// SVG is the image document.
	SVG []byte `json:"svg"`

	// Placeholder is set when the render was synthesized from the shape
	// name because no geometry was available. Placeholder previews are
	// visually distinct from geometry-accurate ones.
	Placeholder bool `json:"placeholder"`
}

// PreviewRenderer renders shape previews.
//
// Previews are deterministic for a given shape, so implementations may
// cache keyed by (stencil fingerprint, shape ID); a re-scan changes the
// fingerprint and naturally invalidates stale entries.
type PreviewRenderer interface {
	Render(ctx context.Context, shape *Shape) (*Preview, error)
}
