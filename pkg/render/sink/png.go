package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/textuml/pkg/render"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// PNGOption configures [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale       float64
	maxWidth    int
	headerColor string
	background  string
}

// WithScale sets the PNG scale factor. Values ≤ 0 are ignored.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithMaxWidth downsizes the image, keeping its aspect ratio, when it is
// wider than w pixels. Zero disables the limit.
func WithMaxWidth(w int) PNGOption { return func(r *pngRenderer) { r.maxWidth = w } }

// WithPNGHeaderColor sets the fill of the box header band.
func WithPNGHeaderColor(c string) PNGOption { return func(r *pngRenderer) { r.headerColor = c } }

// WithPNGBackground sets the canvas colour. The default is white.
func WithPNGBackground(c string) PNGOption { return func(r *pngRenderer) { r.background = c } }

var loadRegular = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

var loadBold = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(gobold.TTF)
})

// RenderPNG rasterises s.
func RenderPNG(s *render.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: DefaultScale, headerColor: defaultHeaderColor, background: "white"}
	for _, opt := range opts {
		opt(&r)
	}
	if s == nil {
		s = render.Render(nil)
	}

	regular, err := loadRegular()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	bold, err := loadBold()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	k := r.scale
	dc := gg.NewContext(int(s.Width*k+0.5), int(s.Height*k+0.5))
	dc.SetColor(pngColor(r.background))
	dc.Clear()

	face := func(f *truetype.Font, size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{Size: size * k, Hinting: font.HintingFull})
	}
	nameFace := face(bold, nameFontSize)
	attrFace := face(regular, attrFontSize)
	labelFace := face(regular, labelFontSize)

	for _, b := range s.Boxes {
		rect, head := b.Rect, b.Header()
		dc.DrawRoundedRectangle(rect.X*k, rect.Y*k, rect.W*k, rect.H*k, 8*k)
		dc.SetColor(color.White)
		dc.FillPreserve()
		dc.SetColor(pngColor(defaultBoxStroke))
		dc.SetLineWidth(2 * k)
		dc.Stroke()

		dc.DrawRoundedRectangle(head.X*k, head.Y*k, head.W*k, head.H*k, 8*k)
		dc.SetColor(pngColor(r.headerColor))
		dc.Fill()

		c := head.Center()
		dc.SetFontFace(nameFace)
		dc.SetColor(color.White)
		dc.DrawStringAnchored(b.Name, c.X*k, c.Y*k, 0.5, 0.35)

		dc.SetFontFace(attrFace)
		dc.SetColor(pngColor(defaultBoxStroke))
		for i, a := range b.Attributes {
			p := b.AttributeAt(i)
			dc.DrawString("- "+a, p.X*k, p.Y*k)
		}
		if b.Truncated > 0 {
			p := b.AttributeAt(len(b.Attributes))
			dc.SetColor(pngColor("#888888"))
			dc.DrawString(fmt.Sprintf("… +%d more", b.Truncated), p.X*k, p.Y*k)
		}
	}

	dc.SetFontFace(labelFace)
	for _, e := range s.Edges {
		c := pngColor(e.Color)

		dc.SetColor(c)
		dc.SetLineWidth(3 * k)
		if e.Dashed {
			dc.SetDash(5*k, 5*k)
		}
		dc.DrawLine(e.Line.From.X*k, e.Line.From.Y*k, e.Line.To.X*k, e.Line.To.Y*k)
		dc.Stroke()
		dc.SetDash()

		dc.MoveTo(e.Arrow.Tip.X*k, e.Arrow.Tip.Y*k)
		dc.LineTo(e.Arrow.Left.X*k, e.Arrow.Left.Y*k)
		dc.LineTo(e.Arrow.Right.X*k, e.Arrow.Right.Y*k)
		dc.ClosePath()
		dc.Fill()

		pl := e.LabelPlate
		dc.DrawRoundedRectangle(pl.X*k, pl.Y*k, pl.W*k, pl.H*k, 5*k)
		dc.SetColor(color.White)
		dc.FillPreserve()
		dc.SetColor(c)
		dc.SetLineWidth(1 * k)
		dc.Stroke()

		mid := pl.Center()
		dc.DrawStringAnchored(e.Label, mid.X*k, mid.Y*k, 0.5, 0.35)
	}

	img := dc.Image()
	if r.maxWidth > 0 && img.Bounds().Dx() > r.maxWidth {
		img = imaging.Resize(img, r.maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func pngColor(s string) color.Color { return RGBA(s) }
