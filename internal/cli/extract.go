package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/textuml/pkg/extract"
	diagramio "github.com/matzehuels/textuml/pkg/io"
)

// extractCommand creates the extract command, which prints the extraction
// result without rendering.
func (c *CLI) extractCommand() *cobra.Command {
	var (
		file    string
		example int
		output  string
		format  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "extract [text|-]",
		Short: "Extract classes and relationships from free text",
		Long: `Extract classes and relationships from free text.

Without -o the extraction result is printed in the service's wire format
(or as YAML/TOML with --format). With -o it is saved as a description file
that 'textuml render' accepts, the format chosen by the file extension.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readText(args, file, example)
			if err != nil {
				return c.fail(err)
			}
			return c.runExtract(cmd.Context(), in.text, output, diagramio.Format(format), refresh)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "read the description from a file")
	cmd.Flags().IntVarP(&example, "example", "e", 0, "use built-in example N")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write a description file (.json, .yaml, .toml)")
	cmd.Flags().StringVar(&format, "format", string(diagramio.FormatJSON), "stdout format: json, yaml, toml")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached extraction results")
	addExtractorFlags(cmd)
	addCacheFlags(cmd)

	return cmd
}

func (c *CLI) runExtract(ctx context.Context, text, output string, format diagramio.Format, refresh bool) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return c.fail(err)
	}
	defer runner.Close()

	d, hit, err := runner.ExtractWithCacheInfo(ctx, text, refresh)
	if err != nil {
		return c.fail(err)
	}
	loggerFromContext(ctx).Debug("extracted", "classes", len(d.Classes), "cached", hit)

	if output != "" && output != stdoutPath {
		if err := diagramio.WriteFile(output, d); err != nil {
			return c.fail(err)
		}
		printSuccess("Extracted %d classes", len(d.Classes))
		printFile(output)
		return nil
	}

	if format == diagramio.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(extract.NewResponse(d, nil))
	}
	if err := diagramio.Write(out, d, format); err != nil {
		return c.fail(err)
	}
	return nil
}
