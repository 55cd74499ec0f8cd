// Package pipeline provides the text-to-diagram pipeline for textuml.
//
// This package implements the complete extract → layout → render pipeline
// shared by the CLI and the HTTP API, so both entry points cache, log and
// fail the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Extract: turn free text into a diagram via an [extract.Extractor]
//  2. Layout: place the entities on the grid and build the scene
//  3. Render: write the scene in each requested format (SVG, PNG, JSON)
//
// A declarative diagram (read from JSON, YAML or TOML) skips stage 1.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, extractor, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Text:    "Student inherits from Person.",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Extraction results and artifacts are cached independently, so re-rendering
// the same text in another format does not call the extractor again.
//
// [extract.Extractor]: github.com/matzehuels/textuml/pkg/extract.Extractor
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/textuml/pkg/cache"
	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/model"
	"github.com/matzehuels/textuml/pkg/render"
	"github.com/matzehuels/textuml/pkg/render/sink"
	"github.com/matzehuels/textuml/pkg/summary"
)

// Visualization types.
const (
	VizTypeUML      = "uml"
	VizTypeNodelink = "nodelink"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = VizTypeUML

	// DefaultScale is the default PNG scale factor.
	DefaultScale = sink.DefaultScale

	// DefaultTTL is how long cache entries live when the runner has no TTL.
	DefaultTTL = 24 * time.Hour
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeUML:      true,
	VizTypeNodelink: true,
}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input: free text, or a ready diagram that skips extraction.
	Text    string         `json:"text,omitempty"`
	Diagram *model.Diagram `json:"diagram,omitempty"`
	Refresh bool           `json:"refresh,omitempty"`

	// Render options
	VizType  string   `json:"viz_type,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	MaxWidth int      `json:"max_width,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the extracted (or supplied) diagram.
	Diagram *model.Diagram

	// DiagramHash is the content hash of the diagram.
	DiagramHash string

	// Scene is the rendered scene.
	Scene *render.Scene

	// Summary holds the entity, attribute and relationship counts.
	Summary summary.Summary

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entities      int
	Relationships int
	Dropped       int // relationships without both endpoints
	ExtractTime   time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ExtractHit bool // Whether the diagram came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: uml, nodelink)", vizType)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// ValidateAndSetDefaults checks the input and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Diagram == nil {
		if err := errors.ValidateText(o.Text); err != nil {
			return err
		}
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if o.MaxWidth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_width must not be negative")
	}
	return ValidateFormats(o.Formats)
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{VizType: o.VizType, Format: format}
	if format == FormatPNG {
		k.Scale, k.MaxWidth = o.Scale, o.MaxWidth
	}
	return k
}
