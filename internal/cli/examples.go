package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/textuml/pkg/extract"
	"github.com/matzehuels/textuml/pkg/pipeline"
)

// examplesCommand lists the built-in examples, or lets the user pick one and
// generates it.
func (c *CLI) examplesCommand() *cobra.Command {
	var pick bool
	opts := generateOpts{}

	cmd := &cobra.Command{
		Use:   "examples",
		Short: "List the built-in example descriptions",
		Long: `List the built-in example descriptions.

Use an example with 'textuml generate --example N'. With --pick an
interactive list opens and the chosen example is generated right away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !pick {
				printExamples()
				return nil
			}
			n, err := pickExample()
			if err != nil {
				return c.fail(err)
			}
			if n == 0 {
				return nil
			}
			return c.generateExample(cmd.Context(), n, opts)
		},
	}

	cmd.Flags().BoolVarP(&pick, "pick", "p", false, "pick an example interactively and generate it")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file for the picked example")
	addExtractorFlags(cmd)
	addCacheFlags(cmd)

	return cmd
}

func (c *CLI) generateExample(ctx context.Context, n int, opts generateOpts) error {
	in, err := readText(nil, "", n)
	if err != nil {
		return c.fail(err)
	}
	opts.render = pipeline.Options{Formats: []string{pipeline.FormatSVG}}
	return c.runGenerate(ctx, in, opts)
}

func printExamples() {
	for i, ex := range extract.Examples {
		fmt.Fprintln(out, StyleTitle.Render(fmt.Sprintf("%d. %s", i+1, ex.Name)))
		for _, line := range strings.Split(ex.Text, "\n") {
			printDetail("%s", line)
		}
	}
	fmt.Fprintln(out)
	printNextStep("Generate one", "textuml generate --example 1")
}
