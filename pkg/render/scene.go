package render

import (
	"github.com/matzehuels/textuml/pkg/geometry"
	"github.com/matzehuels/textuml/pkg/model"
)

// Scene is the output of one render pass. It is replaced wholesale on every
// pass and never patched.
type Scene struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Boxes   []Box   `json:"boxes"`
	Edges   []Edge  `json:"edges"`
	Dropped int     `json:"dropped"` // relationships skipped for a missing endpoint
}

// Box is the visual for one entity.
type Box struct {
	Name       string        `json:"name"`
	Rect       geometry.Rect `json:"rect"`
	Attributes []string      `json:"attributes"`          // at most MaxAttributes
	Truncated  int           `json:"truncated,omitempty"` // attributes not shown
}

// Header returns the rectangle of the name band at the top of the box.
func (b Box) Header() geometry.Rect {
	return geometry.Rect{X: b.Rect.X, Y: b.Rect.Y, W: b.Rect.W, H: HeaderHeight}
}

// AttributeAt returns the baseline origin of the i-th attribute row.
func (b Box) AttributeAt(i int) geometry.Point {
	return geometry.Point{
		X: b.Rect.X + BoxPadding,
		Y: b.Rect.Y + HeaderHeight + float64(i+1)*AttributeRowHeight,
	}
}

// Edge is the visual for one relationship: a line between the two anchors,
// an arrowhead at the target and a label plate at the midpoint.
type Edge struct {
	Source     string            `json:"source"`
	Target     string            `json:"target"`
	Kind       model.Kind        `json:"type"`
	Color      string            `json:"color"`
	Label      string            `json:"label"`
	Line       geometry.Segment  `json:"line"`
	Dashed     bool              `json:"dashed"`
	Arrow      geometry.Triangle `json:"arrow"`
	LabelPlate geometry.Rect     `json:"label_plate"`
	LabelAt    geometry.Point    `json:"label_at"`
}

// Box returns the box named name.
func (s *Scene) Box(name string) (Box, bool) {
	for _, b := range s.Boxes {
		if b.Name == name {
			return b, true
		}
	}
	return Box{}, false
}

// Empty reports whether the scene has no boxes.
func (s *Scene) Empty() bool { return s == nil || len(s.Boxes) == 0 }
