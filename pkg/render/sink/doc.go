// Package sink writes a [render.Scene] to an output format.
//
// # Formats
//
//   - [RenderSVG]: vector output. Boxes are drawn first and the relationship
//     layer (lines, arrowheads, label plates) on top of them.
//   - [RenderPNG]: the same drawing rasterised with fogleman/gg, at a scale
//     factor (default 2) and optionally fitted to a maximum width.
//   - [RenderJSON]: a pretty-printed dump of the scene geometry.
//
// All sinks are pure: they read the scene and never modify it, so a scene can
// be written to several formats concurrently.
//
// # Colours
//
// Relationship colours come from extraction and are CSS-style strings. The
// SVG and JSON sinks write them unchanged. PNG needs concrete RGB, so it goes
// through [RGBA], which accepts hex, rgb()/rgba(), hsl()/hsla(), colour names
// and transparent. Anything else falls back to [model.DefaultColor] so a bad
// colour never breaks a raster render.
//
// [render.Scene]: github.com/matzehuels/textuml/pkg/render.Scene
// [model.DefaultColor]: github.com/matzehuels/textuml/pkg/model.DefaultColor
package sink
