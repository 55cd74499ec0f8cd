package render

import (
	"github.com/matzehuels/textuml/pkg/geometry"
	"github.com/matzehuels/textuml/pkg/layout"
	"github.com/matzehuels/textuml/pkg/model"
)

// Box metrics. The anchor offset in [geometry] is the centre of the header.
const (
	BoxWidth           = 200.0
	BoxHeight          = 170.0
	HeaderHeight       = 40.0
	AttributeRowHeight = 20.0
	BoxPadding         = 10.0

	// MaxAttributes is the number of attribute rows drawn per box.
	MaxAttributes = 5

	// CanvasMargin pads the right and bottom of the scene.
	CanvasMargin = 50.0
	// EmptyCanvas is the width and height of a scene without boxes.
	EmptyCanvas = 100.0

	// LabelBaseline shifts label text below the plate centre.
	LabelBaseline = 5.0
)

// Option configures [Render].
type Option func(*renderer)

type renderer struct {
	grid layout.Grid
}

// WithGrid replaces the default grid.
func WithGrid(g layout.Grid) Option { return func(r *renderer) { r.grid = g } }

// Render builds the scene for d. It never fails: a nil or empty diagram
// yields an empty scene, and relationships with a missing endpoint are
// dropped and counted.
func Render(d *model.Diagram, opts ...Option) *Scene {
	r := renderer{grid: layout.NewGrid()}
	for _, opt := range opts {
		opt(&r)
	}

	s := &Scene{Boxes: []Box{}, Edges: []Edge{}}
	if d == nil {
		s.Width, s.Height = EmptyCanvas, EmptyCanvas
		return s
	}

	l := r.grid.Place(d.Classes)
	for _, name := range l.Order {
		s.Boxes = append(s.Boxes, buildBox(name, l.Positions[name], d.AttributesOf(name)))
	}

	for _, rel := range d.Relationships {
		src, okS := l.Positions[rel.Source]
		dst, okT := l.Positions[rel.Target]
		if !okS || !okT {
			s.Dropped++
			continue
		}
		s.Edges = append(s.Edges, buildEdge(rel.WithDefaults(), src, dst))
	}

	s.Width, s.Height = canvasSize(s.Boxes)
	return s
}

func buildBox(name string, pos model.Position, attrs []string) Box {
	shown := attrs
	if len(shown) > MaxAttributes {
		shown = shown[:MaxAttributes]
	}
	return Box{
		Name:       name,
		Rect:       geometry.Rect{X: pos.X, Y: pos.Y, W: BoxWidth, H: BoxHeight},
		Attributes: append([]string{}, shown...),
		Truncated:  len(attrs) - len(shown),
	}
}

func buildEdge(rel model.Relationship, src, dst model.Position) Edge {
	line := geometry.Segment{
		From: geometry.Anchor(geometry.Point{X: src.X, Y: src.Y}),
		To:   geometry.Anchor(geometry.Point{X: dst.X, Y: dst.Y}),
	}
	mid := line.Midpoint()
	return Edge{
		Source:     rel.Source,
		Target:     rel.Target,
		Kind:       rel.Kind,
		Color:      rel.Color,
		Label:      rel.Label,
		Line:       line,
		Dashed:     rel.Kind.Dashed(),
		Arrow:      geometry.Arrowhead(line.To, line.Angle()),
		LabelPlate: geometry.LabelPlate(mid),
		LabelAt:    geometry.Point{X: mid.X, Y: mid.Y + LabelBaseline},
	}
}

func canvasSize(boxes []Box) (w, h float64) {
	if len(boxes) == 0 {
		return EmptyCanvas, EmptyCanvas
	}
	for _, b := range boxes {
		w = max(w, b.Rect.Right())
		h = max(h, b.Rect.Bottom())
	}
	return w + CanvasMargin, h + CanvasMargin
}
