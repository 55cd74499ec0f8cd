package cli

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	diagramio "github.com/matzehuels/textuml/pkg/io"
	"github.com/matzehuels/textuml/pkg/pipeline"
	"github.com/matzehuels/textuml/pkg/render"
)

// watchDebounce collapses the burst of events editors emit on save.
const watchDebounce = 150 * time.Millisecond

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string
	formats string
	watch   bool
	render  pipeline.Options
}

// renderCommand creates the render command for declarative descriptions.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{render: pipeline.Options{VizType: pipeline.DefaultVizType, Scale: pipeline.DefaultScale}}

	cmd := &cobra.Command{
		Use:   "render <diagram.{json,yaml,toml}>",
		Short: "Render a diagram description",
		Long: `Render a diagram description without calling the extractor.

The description lists classes, attributes and relationships (see
'textuml extract -o'). With --watch the file is re-rendered on every change;
a render that finishes after a newer one started is discarded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.render.Formats = pipeline.ParseFormats(opts.formats)
			if err := opts.render.ValidateForRender(); err != nil {
				return c.fail(err)
			}
			if _, err := diagramio.FormatFromPath(args[0]); err != nil {
				return c.fail(err)
			}
			if opts.watch {
				return c.runWatch(cmd.Context(), args[0], opts)
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output format(s): svg, png, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.render.VizType, "type", "t", opts.render.VizType, "visualization type: uml, nodelink")
	cmd.Flags().Float64Var(&opts.render.Scale, "scale", opts.render.Scale, "PNG scale factor")
	cmd.Flags().IntVar(&opts.render.MaxWidth, "max-width", 0, "maximum PNG width in pixels (0 = unlimited)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the file changes")
	addCacheFlags(cmd)

	return cmd
}

// renderFile reads and renders one description.
func renderFile(ctx context.Context, runner *pipeline.Runner, input string, opts renderOpts) (*pipeline.Result, error) {
	d, err := diagramio.ReadFile(input)
	if err != nil {
		return nil, err
	}
	return runner.Render(ctx, d, opts.render)
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return c.fail(err)
	}
	defer runner.Close()

	res, err := renderFile(ctx, runner, input, opts)
	if err != nil {
		return c.fail(err)
	}
	paths, err := writeArtifacts(res.Artifacts, opts.render.Formats, opts.output, input)
	if err != nil {
		return c.fail(err)
	}
	if opts.output == stdoutPath {
		return nil
	}
	printSuccess("Rendered %s", filepath.Base(input))
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats, res.CacheInfo)
	return nil
}

// watcher re-renders a description on change. Renders run concurrently;
// the surface keeps only the newest result and writes happen for it alone.
type watcher struct {
	cli     *CLI
	runner  *pipeline.Runner
	input   string
	opts    renderOpts
	surface *render.Surface

	writeMu sync.Mutex
	wg      sync.WaitGroup
}

func (c *CLI) runWatch(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return c.fail(err)
	}
	defer runner.Close()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return c.fail(err)
	}
	defer fw.Close()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	abs, err := filepath.Abs(input)
	if err != nil {
		return c.fail(err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return c.fail(err)
	}

	w := &watcher{cli: c, runner: runner, input: input, opts: opts}
	w.surface = render.NewSurface(func(s *render.Scene) {
		logger.Debug("scene installed", "boxes", len(s.Boxes), "edges", len(s.Edges))
	})
	defer w.wg.Wait()

	printInfo("Watching %s (Ctrl+C to stop)", input)
	w.trigger(ctx)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			debounce = time.After(watchDebounce)
		case <-debounce:
			debounce = nil
			w.trigger(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// trigger starts a render for the current file contents.
func (w *watcher) trigger(ctx context.Context) {
	t := w.surface.Begin()
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.renderTicket(ctx, t)
	}()
}

func (w *watcher) renderTicket(ctx context.Context, t render.Ticket) {
	logger := loggerFromContext(ctx).With("ticket", t.Seq)

	res, err := renderFile(ctx, w.runner, w.input, w.opts)
	if err != nil {
		if ctx.Err() == nil {
			printError("%s", userMessage(err, w.cli.endpoint()))
		}
		return
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	if w.surface.Stale(t) || !w.surface.Commit(t, res.Scene) {
		logger.Debug("discarding stale render")
		return
	}
	paths, err := writeArtifacts(res.Artifacts, w.opts.render.Formats, w.opts.output, w.input)
	if err != nil {
		printError("%v", err)
		return
	}
	printSuccess("Rendered %s (%d classes, %d dropped)", filepath.Base(w.input), res.Stats.Entities, res.Stats.Dropped)
	for _, p := range paths {
		printFile(p)
	}
}
