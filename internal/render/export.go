package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
)

// Format is an export file format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatSVG  Format = "svg"
)

// ErrUnknownFormat is returned for anything but png, jpeg or svg.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts the format names case-insensitively, plus "jpg".
// An empty string means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "svg":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext is the file extension without the dot.
func (f Format) Ext() string { return string(f) }

func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// Export serializes c in the requested format.
func Export(c *Code, f Format) ([]byte, error) {
	var buf bytes.Buffer

	switch f {
	case FormatPNG:
		if err := png.Encode(&buf, c.Image()); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	case FormatJPEG:
		if err := jpeg.Encode(&buf, c.Image(), &jpeg.Options{Quality: 92}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	case FormatSVG:
		writeSVG(&buf, c)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	return buf.Bytes(), nil
}

// Export renders text with style and serializes it in one step.
func (r *Renderer) Export(text string, style domain.StyleOptions, f Format) ([]byte, error) {
	code, err := r.Render(text, style)
	if err != nil {
		return nil, err
	}
	return Export(code, f)
}

// writeSVG draws in module units and lets the viewBox scale to pixels.
// Horizontal runs of dark modules become one path segment each.
func writeSVG(buf *bytes.Buffer, c *Code) {
	n := c.Modules.Len()

	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		c.Size, c.Size, n, n)
	fmt.Fprintf(buf, `<path fill="%s" d="M0,0 h%d v%d H0z"/>`, hexColor(c.Bg), n, n)

	buf.WriteString(`<path fill="` + hexColor(c.Fg) + `" d="`)
	for y, row := range c.Modules {
		for x := 0; x < n; {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < n && row[x] {
				x++
			}
			fmt.Fprintf(buf, "M%d %dh%dv1H%dz", start, y, x-start, start)
		}
	}
	buf.WriteString(`"/>`)

	if c.logoURI != "" {
		scale := float64(n) / float64(c.Size)
		r := c.logoRect
		fmt.Fprintf(buf, `<image href="%s" x="%.4f" y="%.4f" width="%.4f" height="%.4f" preserveAspectRatio="none"/>`,
			c.logoURI,
			float64(r.Min.X)*scale, float64(r.Min.Y)*scale,
			float64(r.Dx())*scale, float64(r.Dy())*scale)
	}

	buf.WriteString(`</svg>`)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
