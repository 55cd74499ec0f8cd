package sink

import (
	"bytes"
	"encoding/xml"
	"image/color"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/textuml/pkg/model"
)

// ParseColor converts a CSS-style colour string to a colour: #rgb and
// #rrggbb hex, rgb()/rgba(), hsl()/hsla(), named colours and transparent.
// Alpha is dropped; use [RGBA] to keep it. The second result is false when s
// was not understood and the default colour was used.
func ParseColor(s string) (colorful.Color, bool) {
	c, _, ok := parseCSSColor(s)
	return c, ok
}

// RGBA converts a CSS-style colour string to a color.Color that keeps its
// alpha. Unknown strings yield the opaque default colour.
func RGBA(s string) color.Color {
	c, alpha, _ := parseCSSColor(s)
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(alpha * 255))}
}

// HexColor returns s normalised to #rrggbb. Sinks that pass CSS through
// (SVG, JSON) do not need it; DOT and raster output do.
func HexColor(s string) string {
	c, _ := ParseColor(s)
	return c.Hex()
}

func parseCSSColor(s string) (colorful.Color, float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, err := colorful.Hex(s); err == nil {
		return c, 1, true
	}
	if s == "transparent" {
		return colorful.Color{}, 0, true
	}
	if rgba, ok := colornames.Map[s]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, 1, true
	}
	if c, alpha, ok := parseColorFunc(s); ok {
		return c, alpha, true
	}
	c, _ := colorful.Hex(model.DefaultColor)
	return c, 1, false
}

// parseColorFunc handles rgb(), rgba(), hsl() and hsla() in both the comma
// and the space/slash syntax.
func parseColorFunc(s string) (colorful.Color, float64, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return colorful.Color{}, 0, false
	}
	name := strings.TrimSpace(s[:open])
	args := strings.FieldsFunc(s[open+1:len(s)-1], func(r rune) bool {
		return r == ',' || r == '/' || unicode.IsSpace(r)
	})
	if len(args) != 3 && len(args) != 4 {
		return colorful.Color{}, 0, false
	}

	alpha := 1.0
	if len(args) == 4 {
		a, ok := parseComponent(args[3], 1)
		if !ok {
			return colorful.Color{}, 0, false
		}
		alpha = clamp01(a)
	}

	switch name {
	case "rgb", "rgba":
		var v [3]float64
		for i := range v {
			x, ok := parseComponent(args[i], 255)
			if !ok {
				return colorful.Color{}, 0, false
			}
			v[i] = clamp01(x / 255)
		}
		return colorful.Color{R: v[0], G: v[1], B: v[2]}, alpha, true
	case "hsl", "hsla":
		h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		sat, ok1 := parsePercent(args[1])
		light, ok2 := parsePercent(args[2])
		if !ok1 || !ok2 {
			return colorful.Color{}, 0, false
		}
		h = math.Mod(h, 360)
		if h < 0 {
			h += 360
		}
		return colorful.Hsl(h, clamp01(sat), clamp01(light)).Clamped(), alpha, true
	}
	return colorful.Color{}, 0, false
}

// parseComponent reads a number, or a percentage of full.
func parseComponent(s string, full float64) (float64, bool) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		return v / 100 * full, err == nil
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// parsePercent reads an hsl saturation or lightness as a fraction. Bare
// numbers are treated as percentages.
func parsePercent(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	return v / 100, err == nil
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
