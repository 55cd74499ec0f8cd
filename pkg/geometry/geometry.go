// Package geometry holds the pure coordinate math used to draw class diagrams:
// box anchors, edge angles, arrowhead triangles, and label plates.
//
// All functions are stateless. Coordinates follow screen convention: x grows
// to the right, y grows downward, and angles are measured in radians from the
// positive x axis toward the positive y axis.
package geometry

import "math"

// Fixed metrics shared by every renderer.
const (
	// AnchorOffsetX and AnchorOffsetY locate an edge endpoint relative to a
	// box's top-left corner (the centre of the box header).
	AnchorOffsetX = 100.0
	AnchorOffsetY = 20.0

	// ArrowLength is the distance from the arrow tip to each base vertex.
	ArrowLength = 15.0
	// ArrowSpread is the half-angle between the edge and each arrowhead side.
	ArrowSpread = math.Pi / 6

	// LabelWidth and LabelHeight size the plate behind a relationship label.
	LabelWidth  = 60.0
	LabelHeight = 20.0
)

// Point is a 2-D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p multiplied by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Rotate rotates p about the origin by angle radians.
func (p Point) Rotate(angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// Segment is a straight line between two points.
type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Angle returns the direction of s, atan2(Δy, Δx).
// A zero-length segment has angle 0.
func (s Segment) Angle() float64 { return Angle(s.From, s.To) }

// Midpoint returns the point halfway along s.
func (s Segment) Midpoint() Point { return Midpoint(s.From, s.To) }

// Length returns the Euclidean length of s.
func (s Segment) Length() float64 { return math.Hypot(s.To.X-s.From.X, s.To.Y-s.From.Y) }

// Triangle is a filled arrowhead: Tip plus two base vertices.
type Triangle struct {
	Tip   Point `json:"tip"`
	Left  Point `json:"left"`
	Right Point `json:"right"`
}

// Points returns the vertices in drawing order.
func (t Triangle) Points() []Point { return []Point{t.Tip, t.Left, t.Right} }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the centre point of r.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Anchor returns the edge endpoint for a box whose top-left corner is topLeft.
func Anchor(topLeft Point) Point {
	return Point{topLeft.X + AnchorOffsetX, topLeft.Y + AnchorOffsetY}
}

// Angle returns atan2(to.Y-from.Y, to.X-from.X).
func Angle(from, to Point) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Arrowhead returns the triangle whose tip sits at tip and which points along
// angle, using [ArrowLength] and [ArrowSpread].
func Arrowhead(tip Point, angle float64) Triangle {
	return ArrowheadSized(tip, angle, ArrowLength, ArrowSpread)
}

// ArrowheadSized is [Arrowhead] with explicit side length and half-angle.
// Each base vertex is tip minus a vector of the given length rotated by
// angle∓spread.
func ArrowheadSized(tip Point, angle, length, spread float64) Triangle {
	side := Point{X: length}
	return Triangle{
		Tip:   tip,
		Left:  tip.Sub(side.Rotate(angle - spread)),
		Right: tip.Sub(side.Rotate(angle + spread)),
	}
}

// LabelPlate returns the [LabelWidth]×[LabelHeight] rectangle centred on c.
func LabelPlate(c Point) Rect {
	return Rect{
		X: c.X - LabelWidth/2,
		Y: c.Y - LabelHeight/2,
		W: LabelWidth,
		H: LabelHeight,
	}
}
