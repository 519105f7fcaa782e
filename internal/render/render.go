package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
)

// QuietZone is the margin, in modules, added when IncludeMargin is set.
const QuietZone = 4

// ErrEmptyPayload is returned when there is nothing to encode.
var ErrEmptyPayload = errors.New("payload is empty")

// Code is a fully laid out symbol: margin applied, logo area excavated.
type Code struct {
	Modules Matrix // includes the quiet zone when requested
	Size    int    // output edge in pixels
	Fg, Bg  color.RGBA

	logo     image.Image
	logoURI  string
	logoRect image.Rectangle // in pixels
}

// Renderer lays out payloads with a given Encoder.
type Renderer struct {
	enc Encoder
}

func NewRenderer(enc Encoder) *Renderer {
	if enc == nil {
		enc = Skip2Encoder{}
	}
	return &Renderer{enc: enc}
}

// Encoder returns the underlying encoder.
func (r *Renderer) Encoder() Encoder { return r.enc }

// Render encodes text and applies style. Unparseable colors fall back to
// black on white; out of range sizes are clamped.
func (r *Renderer) Render(text string, style domain.StyleOptions) (*Code, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyPayload
	}

	bare, err := r.enc.Encode(text, style.Level)
	if err != nil {
		return nil, err
	}

	code := &Code{
		Modules: withMargin(bare, style.IncludeMargin),
		Size:    clampSize(style.Size),
		Fg:      parseColor(style.FgColor, color.RGBA{A: 0xff}),
		Bg:      parseColor(style.BgColor, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
	}

	if style.LogoImage != "" {
		logo, err := DecodeDataURI(style.LogoImage)
		if err != nil {
			return nil, fmt.Errorf("failed to decode logo: %w", err)
		}
		code.logo = logo
		code.logoURI = style.LogoImage
		code.excavate(
			domain.ClampLogoExtent(style.LogoWidth),
			domain.ClampLogoExtent(style.LogoHeight),
		)
	}

	return code, nil
}

// Image rasterizes the code at its pixel size.
func (c *Code) Image() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, c.Size, c.Size))
	n := c.Modules.Len()

	for py := 0; py < c.Size; py++ {
		row := c.Modules[py*n/c.Size]
		for px := 0; px < c.Size; px++ {
			if row[px*n/c.Size] {
				img.SetRGBA(px, py, c.Fg)
			} else {
				img.SetRGBA(px, py, c.Bg)
			}
		}
	}

	if c.logo != nil {
		xdraw.CatmullRom.Scale(img, c.logoRect, c.logo, c.logo.Bounds(), xdraw.Over, nil)
	}
	return img
}

// excavate clears every module the centered w x h pixel box touches.
func (c *Code) excavate(w, h int) {
	n := c.Modules.Len()
	scale := float64(n) / float64(c.Size)

	mw, mh := float64(w)*scale, float64(h)*scale
	mx, my := (float64(n)-mw)/2, (float64(n)-mh)/2

	x0, y0 := int(math.Floor(mx)), int(math.Floor(my))
	x1, y1 := int(math.Ceil(mx+mw)), int(math.Ceil(my+mh))

	c.Modules = c.Modules.clone()
	for y := max(y0, 0); y < min(y1, n); y++ {
		for x := max(x0, 0); x < min(x1, n); x++ {
			c.Modules[y][x] = false
		}
	}

	px, py := (c.Size-w)/2, (c.Size-h)/2
	c.logoRect = image.Rect(px, py, px+w, py+h)
}

func withMargin(m Matrix, include bool) Matrix {
	if !include {
		return m
	}
	n := m.Len() + 2*QuietZone
	out := make(Matrix, n)
	for y := range out {
		out[y] = make([]bool, n)
		if y < QuietZone || y >= n-QuietZone {
			continue
		}
		copy(out[y][QuietZone:], m[y-QuietZone])
	}
	return out
}

func clampSize(s int) int {
	switch {
	case s < domain.MinSize:
		return domain.MinSize
	case s > domain.MaxSize:
		return domain.MaxSize
	}
	return s
}

func parseColor(hex string, fallback color.RGBA) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
