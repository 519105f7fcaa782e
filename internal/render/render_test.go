package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestNewEncoder(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", EncoderSkip2, false},
		{"skip2", EncoderSkip2, false},
		{"boombuler", EncoderBoombuler, false},
		{"zxing", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewEncoder(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEncoder(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && enc.Name() != tt.want {
				t.Errorf("NewEncoder(%q).Name() = %q, want %q", tt.name, enc.Name(), tt.want)
			}
		})
	}
}

func TestEncodersProduceVersionOneSymbol(t *testing.T) {
	for _, enc := range []Encoder{Skip2Encoder{}, BoombulerEncoder{}} {
		for _, level := range []domain.Level{domain.LevelLow, domain.LevelHigh} {
			t.Run(enc.Name()+"/"+string(level), func(t *testing.T) {
				m, err := enc.Encode("hello", level)
				if err != nil {
					t.Fatalf("Encode() error = %v", err)
				}
				if m.Len() != 21 {
					t.Fatalf("matrix size = %d, want 21", m.Len())
				}
				// Finder pattern: solid outer ring, light inner ring.
				for i := 0; i < 7; i++ {
					if !m[0][i] || !m[i][0] {
						t.Errorf("finder outer ring broken at %d", i)
					}
				}
				if m[1][1] {
					t.Error("finder inner ring should be light")
				}
				if !m[3][3] {
					t.Error("finder center should be dark")
				}
			})
		}
	}
}

func TestRenderRejectsEmptyPayload(t *testing.T) {
	r := NewRenderer(nil)
	if _, err := r.Render("  ", domain.DefaultStyleOptions()); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("Render(blank) error = %v, want ErrEmptyPayload", err)
	}
}

func TestRenderMarginAndColors(t *testing.T) {
	r := NewRenderer(Skip2Encoder{})

	style := domain.DefaultStyleOptions()
	style.Level = domain.LevelLow
	style.FgColor = "#1976D2"
	style.BgColor = "#FAFAFA"

	bare, err := r.Render("hello", style)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if bare.Modules.Len() != 21 {
		t.Errorf("modules without margin = %d, want 21", bare.Modules.Len())
	}
	img := bare.Image()
	if got := img.At(0, 0); got != (color.RGBA{R: 0x19, G: 0x76, B: 0xd2, A: 0xff}) {
		t.Errorf("corner pixel = %v, want foreground", got)
	}

	style.IncludeMargin = true
	margined, err := r.Render("hello", style)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if margined.Modules.Len() != 21+2*QuietZone {
		t.Errorf("modules with margin = %d, want %d", margined.Modules.Len(), 21+2*QuietZone)
	}
	if got := margined.Image().At(0, 0); got != (color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}) {
		t.Errorf("corner pixel = %v, want background", got)
	}
}

func TestRenderClampsSizeAndFallsBackOnBadColor(t *testing.T) {
	style := domain.DefaultStyleOptions()
	style.Size = 9000
	style.FgColor = "tomato"

	code, err := NewRenderer(nil).Render("hello", style)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if code.Size != domain.MaxSize {
		t.Errorf("Size = %d, want %d", code.Size, domain.MaxSize)
	}
	if code.Fg != (color.RGBA{A: 0xff}) {
		t.Errorf("Fg = %v, want black fallback", code.Fg)
	}
}

func TestRenderExcavatesLogoArea(t *testing.T) {
	logo, err := ProcessLogo("image/png", solidPNG(t, 40, 40, color.RGBA{R: 0xff, A: 0xff}), 0)
	if err != nil {
		t.Fatalf("ProcessLogo() error = %v", err)
	}

	style := domain.DefaultStyleOptions()
	style.IncludeMargin = true
	style.LogoImage = logo.DataURI
	style.LogoWidth = logo.Width
	style.LogoHeight = logo.Height

	code, err := NewRenderer(nil).Render("https://example.com/some/long/path", style)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	n := code.Modules.Len()
	if code.Modules[n/2][n/2] {
		t.Error("center module should be excavated")
	}

	r, g, _, _ := code.Image().At(style.Size/2, style.Size/2).RGBA()
	if r>>8 < 200 || g>>8 > 50 {
		t.Errorf("center pixel should come from the logo, got r=%d g=%d", r>>8, g>>8)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{"jpg", FormatJPEG, false},
		{"jpeg", FormatJPEG, false},
		{"svg", FormatSVG, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestExportFormats(t *testing.T) {
	style := domain.DefaultStyleOptions()
	style.IncludeMargin = true
	code, err := NewRenderer(nil).Render("hello", style)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	t.Run("png", func(t *testing.T) {
		data, err := Export(code, FormatPNG)
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("png.Decode() error = %v", err)
		}
		if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
			t.Errorf("bounds = %v, want 256x256", b)
		}
	})

	t.Run("jpeg", func(t *testing.T) {
		data, err := Export(code, FormatJPEG)
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if !bytes.HasPrefix(data, []byte{0xff, 0xd8}) {
			t.Error("missing JPEG SOI marker")
		}
	})

	t.Run("svg", func(t *testing.T) {
		data, err := Export(code, FormatSVG)
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		svg := string(data)
		if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
			t.Errorf("not an svg document: %.60s", svg)
		}
		if !strings.Contains(svg, `viewBox="0 0 29 29"`) {
			t.Error("viewBox should cover the symbol plus quiet zone")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := Export(code, Format("bmp")); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Export(bmp) error = %v", err)
		}
	})
}
