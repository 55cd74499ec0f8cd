// Package render turns a [model.Diagram] into a [Scene]: the complete set of
// visual elements for one render pass.
//
// # Overview
//
// Rendering is a pure function. [Render] lays the entities out on the grid
// from [layout], emits one [Box] per entity and one [Edge] per relationship
// whose endpoints both exist, and returns the result. Nothing is drawn here;
// the sinks in the [sink] and [nodelink] subpackages turn a Scene into SVG,
// PNG, JSON or Graphviz output.
//
//	scene := render.Render(diagram)
//	svg := sink.RenderSVG(scene)
//
// # Leniency
//
// Two rules keep noisy extraction results usable:
//
//   - A relationship whose source or target is not one of the diagram's
//     classes produces no edge. It is counted in [Scene.Dropped] and otherwise
//     ignored.
//   - A box lists at most [MaxAttributes] attribute names. The remainder is
//     counted in [Box.Truncated]; the diagram itself is never modified.
//
// # Surface
//
// A [Surface] holds the scene currently on display. Callers that render
// asynchronously take a [Ticket] with [Surface.Begin] before starting work
// and hand the result to [Surface.Commit]; a result whose ticket is older
// than the last committed one is discarded, so a slow request can never
// overwrite the output of a newer one.
//
// [sink]: github.com/matzehuels/textuml/pkg/render/sink
// [nodelink]: github.com/matzehuels/textuml/pkg/render/nodelink
package render
