// Package layout places entity boxes on a fixed-column grid.
//
// The grid is deterministic: the position of an entity depends only on its
// index in the input order and on the number of entities. With the default
// settings entity i lands at
//
//	column = i mod min(3, n)
//	row    = i div min(3, n)
//	x      = 50 + column*250
//	y      = 50 + row*220
//
// No overlap avoidance or automatic graph layout is attempted; large diagrams
// simply grow downward.
package layout

import "github.com/matzehuels/textuml/pkg/model"

// Default grid metrics.
const (
	DefaultMaxColumns    = 3
	DefaultMargin        = 50.0
	DefaultColumnSpacing = 250.0
	DefaultRowSpacing    = 220.0
)

// Grid holds the grid metrics. The zero value is not useful; use [NewGrid].
type Grid struct {
	MaxColumns    int
	Margin        float64
	ColumnSpacing float64
	RowSpacing    float64
}

// Option configures a [Grid].
type Option func(*Grid)

// WithMaxColumns caps the number of columns. Values below 1 are ignored.
func WithMaxColumns(n int) Option {
	return func(g *Grid) {
		if n > 0 {
			g.MaxColumns = n
		}
	}
}

// WithMargin sets the offset of the first row and column from the origin.
func WithMargin(m float64) Option { return func(g *Grid) { g.Margin = m } }

// WithSpacing sets the distance between column origins and row origins.
func WithSpacing(column, row float64) Option {
	return func(g *Grid) { g.ColumnSpacing, g.RowSpacing = column, row }
}

// NewGrid returns a grid with the default metrics, adjusted by opts.
func NewGrid(opts ...Option) Grid {
	g := Grid{
		MaxColumns:    DefaultMaxColumns,
		Margin:        DefaultMargin,
		ColumnSpacing: DefaultColumnSpacing,
		RowSpacing:    DefaultRowSpacing,
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

// Layout is the result of one placement pass.
type Layout struct {
	Columns   int                       // number of columns used
	Rows      int                       // number of rows used
	Order     []string                  // placed names in input order
	Positions map[string]model.Position // top-left corner per name
}

// Position returns the top-left corner of name.
func (l Layout) Position(name string) (model.Position, bool) {
	p, ok := l.Positions[name]
	return p, ok
}

// Columns returns the column count used for n entities: min(MaxColumns, n).
func (g Grid) Columns(n int) int {
	return max(0, min(g.MaxColumns, n))
}

// Place assigns a position to every name. A repeated name keeps the position
// of its first occurrence and does not consume a grid cell, so no two names
// ever share a position. An empty input yields an empty layout.
func (g Grid) Place(names []string) Layout {
	order := unique(names)
	cols := g.Columns(len(order))

	l := Layout{
		Columns:   cols,
		Order:     order,
		Positions: make(map[string]model.Position, len(order)),
	}
	if cols == 0 {
		return l
	}

	for i, name := range order {
		col, row := i%cols, i/cols
		l.Positions[name] = model.Position{
			X: g.Margin + float64(col)*g.ColumnSpacing,
			Y: g.Margin + float64(row)*g.RowSpacing,
		}
	}
	l.Rows = (len(order) + cols - 1) / cols
	return l
}

// Positions places names on the default grid and returns the name→position map.
func Positions(names []string) map[string]model.Position {
	return NewGrid().Place(names).Positions
}

func unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
