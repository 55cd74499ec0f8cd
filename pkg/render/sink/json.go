package sink

import (
	"encoding/json"

	"github.com/matzehuels/textuml/pkg/render"
)

type jsonOutput struct {
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Boxes   []render.Box  `json:"boxes"`
	Edges   []render.Edge `json:"edges"`
	Dropped int           `json:"dropped,omitempty"`
}

// RenderJSON exports the scene geometry as pretty-printed JSON. Edge colours
// are kept as the CSS strings the relationships carry.
func RenderJSON(s *render.Scene) ([]byte, error) {
	if s == nil {
		s = render.Render(nil)
	}
	out := jsonOutput{
		Width:   s.Width,
		Height:  s.Height,
		Boxes:   s.Boxes,
		Edges:   s.Edges,
		Dropped: s.Dropped,
	}
	if out.Edges == nil {
		out.Edges = []render.Edge{}
	}
	return json.MarshalIndent(out, "", "  ")
}
