package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/textuml/pkg/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  GET  /              service banner
  GET  /api/health    health check
  POST /api/generate  {"text": "..."} → classes, attributes, relationships
  POST /api/render    {"text": "..."} or {"diagram": {...}}, ?format=svg|png|json

By default the server extracts with the built-in rule-based extractor, so it
can stand in for the extraction service itself. Pass --local=false with
--extractor-url to proxy another service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f := cmd.Flags().Lookup("local"); f != nil && !f.Changed {
				c.settings().Extractor.Local = true
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :5000)")
	addExtractorFlags(cmd)
	addCacheFlags(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return c.fail(err)
	}
	defer runner.Close()

	cfg := c.settings().Server
	srv := server.New(runner, c.Logger, server.WithReadTimeout(cfg.ReadTimeout))

	printInfo("Serving on %s", StyleLink.Render("http://localhost"+displayPort(cfg.Addr)))
	printDetail("extractor: %s", c.endpoint())
	if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
		return c.fail(err)
	}
	return nil
}

// displayPort returns the ":port" suffix of a listen address.
func displayPort(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i:]
		}
	}
	return ":" + addr
}
