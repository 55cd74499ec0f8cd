package cli

import (
	"context"

	"github.com/spf13/cobra"

	diagramio "github.com/matzehuels/textuml/pkg/io"
	"github.com/matzehuels/textuml/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	file     string
	example  int
	output   string
	formats  string
	save     string // also write the extracted description here
	render   pipeline.Options
	noRender bool
}

// generateCommand creates the generate command: extract, render, summarize.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{render: pipeline.Options{VizType: pipeline.DefaultVizType, Scale: pipeline.DefaultScale}}

	cmd := &cobra.Command{
		Use:   "generate [text|-]",
		Short: "Generate a UML class diagram from free text",
		Long: `Generate a UML class diagram from free text.

The text is sent to the extraction service (or the built-in extractor with
--local), the classes are placed on a three-column grid and the diagram is
written in each requested format. A summary of classes, attributes and
relationships is printed at the end.

Examples:
  textuml generate "Student inherits from Person. Student has name and age."
  textuml generate --example 1 -f svg,png
  echo "Car consists of Engine." | textuml generate - --local -o car.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.render.Formats = pipeline.ParseFormats(opts.formats)
			if err := pipeline.ValidateFormats(opts.render.Formats); err != nil {
				return c.fail(err)
			}
			in, err := readText(args, opts.file, opts.example)
			if err != nil {
				return c.fail(err)
			}
			return c.runGenerate(cmd.Context(), in, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "read the description from a file")
	cmd.Flags().IntVarP(&opts.example, "example", "e", 0, "use built-in example N (see 'textuml examples')")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output format(s): svg, png, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.render.VizType, "type", "t", opts.render.VizType, "visualization type: uml, nodelink")
	cmd.Flags().Float64Var(&opts.render.Scale, "scale", opts.render.Scale, "PNG scale factor")
	cmd.Flags().IntVar(&opts.render.MaxWidth, "max-width", 0, "maximum PNG width in pixels (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.render.Refresh, "refresh", false, "bypass cached extraction results")
	cmd.Flags().StringVar(&opts.save, "save", "", "save the extracted description (.json, .yaml, .toml)")
	cmd.Flags().BoolVar(&opts.noRender, "summary-only", false, "print the summary without writing files")
	addExtractorFlags(cmd)
	addCacheFlags(cmd)

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, in textInput, opts generateOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return c.fail(err)
	}
	defer runner.Close()

	ro := opts.render
	ro.Text = in.text
	ro.Logger = logger

	spin := newSpinner(ctx, "Extracting from "+c.endpoint())
	spin.Start()
	prog := newProgress(logger)
	res, err := runner.Execute(ctx, ro)
	spin.Stop()
	if err != nil {
		return c.fail(err)
	}
	prog.done("generated diagram", "viz", ro.VizType, "classes", res.Stats.Entities)

	if opts.save != "" {
		if err := diagramio.WriteFile(opts.save, res.Diagram); err != nil {
			return c.fail(err)
		}
		printSuccess("Saved description")
		printFile(opts.save)
	}

	if !opts.noRender {
		paths, err := writeArtifacts(res.Artifacts, ro.Formats, opts.output, in.name)
		if err != nil {
			return c.fail(err)
		}
		if opts.output != stdoutPath {
			printSuccess("Rendered %s", in.name)
			for _, p := range paths {
				printFile(p)
			}
		}
	}

	if opts.output == stdoutPath {
		return nil
	}
	printStats(res.Stats, res.CacheInfo)
	printSummary(res.Summary)
	if opts.save != "" {
		printNextStep("Edit and re-render", "textuml render "+opts.save)
	}
	return nil
}
