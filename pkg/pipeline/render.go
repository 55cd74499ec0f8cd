package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/render"
	"github.com/matzehuels/textuml/pkg/render/nodelink"
	"github.com/matzehuels/textuml/pkg/render/sink"
)

// RenderArtifacts writes the scene in every requested format. Formats are
// rendered concurrently; the scene is only read.
func RenderArtifacts(ctx context.Context, s *render.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, s, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, s *render.Scene, format string, opts Options) ([]byte, error) {
	if format == FormatJSON {
		return sink.RenderJSON(s)
	}

	if opts.IsNodelink() {
		dot := nodelink.ToDOT(s, nodelink.Options{})
		switch format {
		case FormatSVG:
			return nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			return nodelink.RenderPNG(ctx, dot)
		}
	} else {
		switch format {
		case FormatSVG:
			return sink.RenderSVG(s), nil
		case FormatPNG:
			return sink.RenderPNG(s, sink.WithScale(opts.Scale), sink.WithMaxWidth(opts.MaxWidth))
		}
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported %s format: %s", opts.VizType, format)
}
