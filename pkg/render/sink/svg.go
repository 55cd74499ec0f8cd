package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/textuml/pkg/render"
)

const (
	defaultFont        = "Arial, Helvetica, sans-serif"
	defaultHeaderColor = "#3F51B5"
	defaultBoxStroke   = "#333333"
	labelFontSize      = 10
	nameFontSize       = 14
	attrFontSize       = 12
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	font        string
	headerColor string
	background  string
	title       string
}

// WithFont sets the CSS font-family used for all text.
func WithFont(family string) SVGOption { return func(r *svgRenderer) { r.font = family } }

// WithHeaderColor sets the fill of the box header band.
func WithHeaderColor(c string) SVGOption { return func(r *svgRenderer) { r.headerColor = c } }

// WithBackground fills the canvas with c. The default is transparent.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithTitle adds a <title> element.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// RenderSVG writes s as a standalone SVG document.
func RenderSVG(s *render.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{font: defaultFont, headerColor: defaultHeaderColor}
	for _, opt := range opts {
		opt(&r)
	}
	if s == nil {
		s = render.Render(nil)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", EscapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>text { font-family: %s; }</style>\n", EscapeXML(r.font))
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", HexColor(r.background))
	}

	buf.WriteString(`  <g class="entities">` + "\n")
	for _, b := range s.Boxes {
		r.renderBox(&buf, b)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="relationships">` + "\n")
	for _, e := range s.Edges {
		renderEdge(&buf, e)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderBox(buf *bytes.Buffer, b render.Box) {
	rect, head := b.Rect, b.Header()
	fmt.Fprintf(buf, `    <g class="entity" id="entity-%s">`+"\n", EscapeXML(b.Name))
	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="8" fill="white" stroke="%s" stroke-width="2"/>`+"\n",
		rect.X, rect.Y, rect.W, rect.H, defaultBoxStroke)
	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="8" fill="%s"/>`+"\n",
		head.X, head.Y, head.W, head.H, HexColor(r.headerColor))
	c := head.Center()
	fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" text-anchor="middle" font-size="%d" font-weight="bold" fill="white">%s</text>`+"\n",
		c.X, c.Y+5, nameFontSize, EscapeXML(b.Name))

	for i, a := range b.Attributes {
		p := b.AttributeAt(i)
		fmt.Fprintf(buf, `      <text class="attribute" x="%.2f" y="%.2f" font-size="%d" fill="#333333">- %s</text>`+"\n",
			p.X, p.Y, attrFontSize, EscapeXML(a))
	}
	if b.Truncated > 0 {
		p := b.AttributeAt(len(b.Attributes))
		fmt.Fprintf(buf, `      <text class="more" x="%.2f" y="%.2f" font-size="%d" fill="#888888">… +%d more</text>`+"\n",
			p.X, p.Y, attrFontSize, b.Truncated)
	}
	buf.WriteString("    </g>\n")
}

func renderEdge(buf *bytes.Buffer, e render.Edge) {
	// Edge colours are CSS and go through as given.
	color := EscapeXML(e.Color)
	dash := ""
	if e.Dashed {
		dash = ` stroke-dasharray="5,5"`
	}

	fmt.Fprintf(buf, `    <g class="relationship" data-type="%s" data-source="%s" data-target="%s">`+"\n",
		EscapeXML(string(e.Kind)), EscapeXML(e.Source), EscapeXML(e.Target))
	fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="3"%s/>`+"\n",
		e.Line.From.X, e.Line.From.Y, e.Line.To.X, e.Line.To.Y, color, dash)

	pts := make([]string, 0, 3)
	for _, p := range e.Arrow.Points() {
		pts = append(pts, fmt.Sprintf("%.2f,%.2f", p.X, p.Y))
	}
	fmt.Fprintf(buf, `      <polygon points="%s" fill="%s"/>`+"\n", strings.Join(pts, " "), color)

	pl := e.LabelPlate
	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="5" fill="white" stroke="%s"/>`+"\n",
		pl.X, pl.Y, pl.W, pl.H, color)
	fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" text-anchor="middle" font-size="%d" fill="%s">%s</text>`+"\n",
		e.LabelAt.X, e.LabelAt.Y, labelFontSize, color, EscapeXML(e.Label))
	buf.WriteString("    </g>\n")
}
