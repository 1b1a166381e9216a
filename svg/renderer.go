// Package svg renders shape previews as SVG documents built with etree.
package svg

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/vsx"
)

// Ensure Renderer implements vsx.PreviewRenderer.
var _ vsx.PreviewRenderer = (*Renderer)(nil)

// Renderer draws shape geometry to scale inside an aspect-preserving
// viewport. Shapes without usable geometry get a placeholder keyed off the
// shape name, drawn with a dashed border so it cannot be mistaken for a
// geometry-accurate render.
type Renderer struct {
	// Size is the viewport edge length in pixels. Defaults to 128.
	Size int
}

// Render returns an SVG preview for the shape.
func (r *Renderer) Render(ctx context.Context, shape *vsx.Shape) (*vsx.Preview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if shape == nil {
		return nil, vsx.Errorf(vsx.EINVALID, "shape required")
	}

	size := r.Size
	if size <= 0 {
		size = 128
	}

	if path, ok := geometryPath(shape.Geometry, size); ok {
		svg, err := renderGeometry(path, size)
		if err != nil {
			return nil, err
		}
		return &vsx.Preview{SVG: svg}, nil
	}

	svg, err := renderPlaceholder(shape.Name, size)
	if err != nil {
		return nil, err
	}
	return &vsx.Preview{SVG: svg, Placeholder: true}, nil
}

// geometryPath converts segments into an SVG path description scaled into a
// size x size viewport. Returns false when the geometry cannot produce a
// visible drawing.
func geometryPath(segments []vsx.Segment, size int) (string, bool) {
	if len(segments) < 2 {
		return "", false
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, seg := range segments {
		minX = math.Min(minX, seg.X)
		minY = math.Min(minY, seg.Y)
		maxX = math.Max(maxX, seg.X)
		maxY = math.Max(maxY, seg.Y)
	}

	width := maxX - minX
	height := maxY - minY
	if width <= 0 && height <= 0 {
		return "", false
	}

	// Uniform scale with a small margin, so aspect ratio is preserved.
	margin := float64(size) * 0.1
	scale := (float64(size) - 2*margin) / math.Max(width, height)

	// The drawing's Y axis points up; SVG's points down.
	tx := func(x float64) float64 { return margin + (x-minX)*scale }
	ty := func(y float64) float64 { return float64(size) - margin - (y-minY)*scale }

	var b strings.Builder
	prevX, prevY := 0.0, 0.0
	for i, seg := range segments {
		x, y := tx(seg.X), ty(seg.Y)
		switch seg.Op {
		case vsx.SegMoveTo:
			fmt.Fprintf(&b, "M %.2f %.2f ", x, y)
		case vsx.SegLineTo:
			fmt.Fprintf(&b, "L %.2f %.2f ", x, y)
		case vsx.SegArcTo:
			cx, cy := arcControl(prevX, prevY, x, y, seg.Bow*scale)
			fmt.Fprintf(&b, "Q %.2f %.2f %.2f %.2f ", cx, cy, x, y)
		default:
			if i == 0 {
				fmt.Fprintf(&b, "M %.2f %.2f ", x, y)
			} else {
				fmt.Fprintf(&b, "L %.2f %.2f ", x, y)
			}
		}
		prevX, prevY = x, y
	}

	return strings.TrimSpace(b.String()), true
}

// arcControl places a quadratic control point so the curve bows away from
// the chord by the given distance at its midpoint.
func arcControl(x0, y0, x1, y1, bow float64) (float64, float64) {
	mx, my := (x0+x1)/2, (y0+y1)/2
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return mx, my
	}
	// A quadratic Bezier passes through the point halfway between the chord
	// midpoint and the control point, so the control sits at twice the bow.
	return mx + (dy/length)*2*bow, my - (dx/length)*2*bow
}

// renderGeometry builds the SVG document for a geometry path.
func renderGeometry(path string, size int) ([]byte, error) {
	doc, root := newSVG(size)

	p := root.CreateElement("path")
	p.CreateAttr("d", path)
	p.CreateAttr("fill", "none")
	p.CreateAttr("stroke", "#1f2937")
	p.CreateAttr("stroke-width", "2")
	p.CreateAttr("stroke-linejoin", "round")

	return doc.WriteToBytes()
}

// renderPlaceholder builds a labeled dashed box for shapes without
// geometry.
func renderPlaceholder(name string, size int) ([]byte, error) {
	doc, root := newSVG(size)

	margin := float64(size) * 0.1
	rect := root.CreateElement("rect")
	rect.CreateAttr("x", fmt.Sprintf("%.2f", margin))
	rect.CreateAttr("y", fmt.Sprintf("%.2f", margin))
	rect.CreateAttr("width", fmt.Sprintf("%.2f", float64(size)-2*margin))
	rect.CreateAttr("height", fmt.Sprintf("%.2f", float64(size)-2*margin))
	rect.CreateAttr("fill", "#f3f4f6")
	rect.CreateAttr("stroke", "#9ca3af")
	rect.CreateAttr("stroke-dasharray", "6 3")

	// Truncate on runes so multi-byte names are never split mid-character.
	label := name
	if runes := []rune(label); len(runes) > 16 {
		label = string(runes[:15]) + "…"
	}
	text := root.CreateElement("text")
	text.CreateAttr("x", fmt.Sprintf("%d", size/2))
	text.CreateAttr("y", fmt.Sprintf("%d", size/2))
	text.CreateAttr("text-anchor", "middle")
	text.CreateAttr("dominant-baseline", "middle")
	text.CreateAttr("font-family", "sans-serif")
	text.CreateAttr("font-size", fmt.Sprintf("%d", size/8))
	text.CreateAttr("fill", "#6b7280")
	text.SetText(label)

	return doc.WriteToBytes()
}

func newSVG(size int) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("svg")
	root.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	root.CreateAttr("viewBox", fmt.Sprintf("0 0 %d %d", size, size))
	root.CreateAttr("width", fmt.Sprintf("%d", size))
	root.CreateAttr("height", fmt.Sprintf("%d", size))

	return doc, root
}
