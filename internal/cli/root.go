package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/textuml/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "textuml turns plain-language descriptions into UML class diagrams",
		Long: `textuml extracts classes, attributes and relationships from free text and
draws them as a UML class diagram on a fixed grid.

Extraction runs against an HTTP service (see --extractor-url) or the built-in
rule-based extractor (--local). Results are cached locally.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: textuml.{yaml,toml,json} in ~/.config/textuml or .)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.examplesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// addExtractorFlags registers the flags that select the extraction service.
func addExtractorFlags(cmd *cobra.Command) {
	cmd.Flags().String("extractor-url", "", "extraction service endpoint")
	cmd.Flags().Duration("timeout", 0, "extraction request timeout")
	cmd.Flags().Bool("local", false, "use the built-in rule-based extractor")
}

// addCacheFlags registers the flags that select the cache back-end.
func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-cache", false, "disable caching")
	cmd.Flags().String("cache-dir", "", "cache directory")
	cmd.Flags().String("redis", "", "redis address for a shared cache")
}
