// Package pkg provides the core libraries for textuml.
//
// # Overview
//
// textuml turns a plain-language description ("Student inherits from
// Person. Student has name and age.") into a UML class diagram. The pkg
// directory is organized into four areas:
//
//  1. Domain: [model], [geometry], [layout], [render], [summary]
//  2. Input: [extract] (extraction service client and built-in extractor), [io]
//  3. Infrastructure: [cache], [observability], [errors], [buildinfo]
//  4. Orchestration: [pipeline], [server]
//
// # Architecture
//
// The typical data flow through textuml:
//
//	Free text
//	    ↓
//	[extract] (classes, attributes, relationships)
//	    ↓
//	[layout] (three-column grid positions)
//	    ↓
//	[render] (scene: boxes, edge lines, arrowheads, label plates)
//	    ↓
//	[render/sink] SVG/PNG/JSON, [render/nodelink] Graphviz
//
// [summary] counts the same diagram for display. Data flows one way; no
// stage reads back from a later one.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/textuml/pkg/extract"
//	    "github.com/matzehuels/textuml/pkg/render"
//	    "github.com/matzehuels/textuml/pkg/render/sink"
//	)
//
//	d, err := extract.Heuristic{}.Extract(ctx, "Car consists of Engine. Car has color.")
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(render.Render(d))
//
// For caching, stats and multi-format output use [pipeline.Runner].
//
// [model]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/model
// [geometry]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/geometry
// [layout]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/render/nodelink
// [summary]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/summary
// [extract]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/extract
// [io]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/buildinfo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/pipeline#Runner
// [server]: https://pkg.go.dev/github.com/matzehuels/textuml/pkg/server
package pkg
