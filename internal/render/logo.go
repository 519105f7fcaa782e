package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
)

const (
	// DefaultMaxLogoBytes is the upload limit when none is configured.
	DefaultMaxLogoBytes = 2 << 20
	// LogoMaxEdge is the longest edge of a stored logo, in pixels.
	LogoMaxEdge = 96
)

var (
	ErrLogoType     = errors.New("logo must be an image file")
	ErrLogoTooLarge = errors.New("logo file is too large")
	ErrLogoDecode   = errors.New("failed to process logo image")
)

// Logo is an uploaded image after normalization.
type Logo struct {
	DataURI string
	Width   int
	Height  int
}

// ProcessLogo validates an upload, scales it down to LogoMaxEdge keeping
// the aspect ratio and re-encodes it as a PNG data URI. Width and Height are
// the scaled dimensions clamped to the accepted logo extent.
func ProcessLogo(contentType string, data []byte, maxBytes int64) (Logo, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return Logo{}, fmt.Errorf("%w: got %q", ErrLogoType, contentType)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxLogoBytes
	}
	if int64(len(data)) > maxBytes {
		return Logo{}, fmt.Errorf("%w: %d bytes", ErrLogoTooLarge, len(data))
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Logo{}, fmt.Errorf("%w: %v", ErrLogoDecode, err)
	}

	w, h := fitWithin(src.Bounds().Dx(), src.Bounds().Dy(), LogoMaxEdge)
	if w == 0 || h == 0 {
		return Logo{}, fmt.Errorf("%w: empty image", ErrLogoDecode)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return Logo{}, fmt.Errorf("%w: %v", ErrLogoDecode, err)
	}

	return Logo{
		DataURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:   domain.ClampLogoExtent(w),
		Height:  domain.ClampLogoExtent(h),
	}, nil
}

// LoadLogoFile reads an image from disk and runs it through ProcessLogo.
func LoadLogoFile(path string, maxBytes int64) (Logo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Logo{}, fmt.Errorf("failed to read logo file: %w", err)
	}
	return ProcessLogo(http.DetectContentType(data), data, maxBytes)
}

// DecodeDataURI decodes a base64 image data URI.
func DecodeDataURI(uri string) (image.Image, error) {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, "data:image/") || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("not a base64 image data URI")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func fitWithin(w, h, edge int) (int, int) {
	switch {
	case w >= h && w > edge:
		return edge, max(1, h*edge/w)
	case h > w && h > edge:
		return max(1, w*edge/h), edge
	}
	return w, h
}
