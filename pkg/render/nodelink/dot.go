package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/textuml/pkg/render"
	"github.com/matzehuels/textuml/pkg/render/sink"
)

const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Compact omits attributes and shows only entity names.
	Compact bool
}

// ToDOT converts a scene to Graphviz DOT source with pinned node positions.
func ToDOT(s *render.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [penwidth=3, arrowhead=normal, fontsize=10];\n")
	buf.WriteString("\n")

	if s == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	for _, b := range s.Boxes {
		c := b.Rect.Center()
		fmt.Fprintf(&buf, "  %s [label=%s, pos=\"%s,%s!\", width=%s, height=%s, fixedsize=true];\n",
			quote(b.Name), quoteLabel(fmtLabel(b, opts.Compact)),
			inches(c.X), inches(-c.Y), inches(b.Rect.W), inches(b.Rect.H))
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		attrs := []string{
			"color=" + quote(sink.HexColor(e.Color)),
			"fontcolor=" + quote(sink.HexColor(e.Color)),
			"label=" + quote(e.Label),
		}
		if e.Dashed {
			attrs = append(attrs, "style=dashed")
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quote(e.Source), quote(e.Target), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(b render.Box, compact bool) string {
	name := recordEscape(b.Name)
	if compact {
		return name
	}
	var rows strings.Builder
	for _, a := range b.Attributes {
		rows.WriteString("- " + recordEscape(a) + `\l`)
	}
	if b.Truncated > 0 {
		fmt.Fprintf(&rows, `… +%d more\l`, b.Truncated)
	}
	return "{" + name + "|" + rows.String() + "}"
}

var recordSpecial = strings.NewReplacer(
	`\`, `\\`, "{", `\{`, "}", `\}`, "|", `\|`, "<", `\<`, ">", `\>`,
)

func recordEscape(s string) string { return recordSpecial.Replace(s) }

var quoteSpecial = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote returns s as a DOT double-quoted string with backslashes and quotes
// escaped, so names and labels never form Graphviz escape sequences.
func quote(s string) string {
	return `"` + quoteSpecial.Replace(s) + `"`
}

// quoteLabel quotes a record label built by fmtLabel. Its backslashes are
// already escaped or intentional (\l), so only quotes are escaped.
func quoteLabel(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

// RenderSVG lays out a DOT graph with neato and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG lays out a DOT graph with neato and returns PNG bytes.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel viewBox so the output scales like the native SVG sink.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
