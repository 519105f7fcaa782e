// Package render turns payload text into a QR symbol and serializes it.
package render

import (
	"fmt"
	"image/color"

	"github.com/boombuler/barcode/qr"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
)

// Matrix holds the dark/light state of every module, indexed [row][col].
type Matrix [][]bool

// Len is the width (and height) of the matrix in modules.
func (m Matrix) Len() int { return len(m) }

func (m Matrix) clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]bool(nil), row...)
	}
	return out
}

// Encoder computes the bare module matrix (no quiet zone) for text.
type Encoder interface {
	Encode(text string, level domain.Level) (Matrix, error)
	Name() string
}

const (
	EncoderSkip2     = "skip2"
	EncoderBoombuler = "boombuler"
)

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string) (Encoder, error) {
	switch name {
	case "", EncoderSkip2:
		return Skip2Encoder{}, nil
	case EncoderBoombuler:
		return BoombulerEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown encoder %q", name)
	}
}

// Skip2Encoder uses github.com/skip2/go-qrcode.
type Skip2Encoder struct{}

func (Skip2Encoder) Name() string { return EncoderSkip2 }

func (Skip2Encoder) Encode(text string, level domain.Level) (Matrix, error) {
	q, err := qrcode.New(text, skip2Level(level))
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	q.DisableBorder = true
	return Matrix(q.Bitmap()), nil
}

func skip2Level(l domain.Level) qrcode.RecoveryLevel {
	switch l {
	case domain.LevelLow:
		return qrcode.Low
	case domain.LevelMedium:
		return qrcode.Medium
	case domain.LevelQuartile:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}

// BoombulerEncoder uses github.com/boombuler/barcode/qr.
type BoombulerEncoder struct{}

func (BoombulerEncoder) Name() string { return EncoderBoombuler }

func (BoombulerEncoder) Encode(text string, level domain.Level) (Matrix, error) {
	code, err := qr.Encode(text, boombulerLevel(level), qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	b := code.Bounds()
	m := make(Matrix, b.Dy())
	for y := 0; y < b.Dy(); y++ {
		m[y] = make([]bool, b.Dx())
		for x := 0; x < b.Dx(); x++ {
			m[y][x] = isDark(code.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return m, nil
}

func boombulerLevel(l domain.Level) qr.ErrorCorrectionLevel {
	switch l {
	case domain.LevelLow:
		return qr.L
	case domain.LevelMedium:
		return qr.M
	case domain.LevelQuartile:
		return qr.Q
	default:
		return qr.H
	}
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0x8000
}
