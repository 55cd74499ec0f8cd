// Package nodelink renders a [render.Scene] through Graphviz.
//
// # Overview
//
// [ToDOT] converts a scene into DOT source in which every entity is a UML
// record node ("Name | attribute..."), pinned at its grid position with
// pos="x,y!". [RenderSVG] and [RenderPNG] lay the graph out with the neato
// engine, which honours pinned positions, so Graphviz only routes the edges
// and draws the shapes; the grid stays exactly as [layout] placed it.
//
//	dot := nodelink.ToDOT(scene, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Coordinates
//
// Scene coordinates are in pixels with y growing downward. DOT positions are
// in inches with y growing upward, so positions are divided by 72 and the y
// axis is flipped. Node centres are used, not top-left corners.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly. No system installation is required.
//
// [render.Scene]: github.com/matzehuels/textuml/pkg/render.Scene
// [layout]: github.com/matzehuels/textuml/pkg/layout
package nodelink
