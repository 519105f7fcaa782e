package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Level is the error-correction strength of the symbol.
type Level string

const (
	LevelLow      Level = "L" // ~7% recovery
	LevelMedium   Level = "M" // ~15%
	LevelQuartile Level = "Q" // ~25%
	LevelHigh     Level = "H" // ~30%
)

// Valid reports whether l is one of the four levels.
func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelQuartile, LevelHigh:
		return true
	}
	return false
}

const (
	MinSize       = 125
	MaxSize       = 400
	MinLogoExtent = 50
	MaxLogoExtent = 100
)

// StyleOptions controls how the symbol is drawn.
//
// LogoImage is a data URI (data:image/png;base64,...) so the whole struct is a
// plain value: copying it never shares mutable state.
type StyleOptions struct {
	FgColor       string `json:"fgColor" yaml:"fgColor"`
	BgColor       string `json:"bgColor" yaml:"bgColor"`
	Size          int    `json:"size" yaml:"size"`
	Level         Level  `json:"level" yaml:"level"`
	IncludeMargin bool   `json:"includeMargin" yaml:"includeMargin"`
	LogoImage     string `json:"logoImage,omitempty" yaml:"logoImage,omitempty"`
	LogoWidth     int    `json:"logoWidth" yaml:"logoWidth"`
	LogoHeight    int    `json:"logoHeight" yaml:"logoHeight"`
}

// DefaultStyleOptions is black on white, 256px, high error correction.
func DefaultStyleOptions() StyleOptions {
	return StyleOptions{
		FgColor:    "#000000",
		BgColor:    "#FFFFFF",
		Size:       256,
		Level:      LevelHigh,
		LogoWidth:  90,
		LogoHeight: 50,
	}
}

func (s StyleOptions) withFallback(def StyleOptions) StyleOptions {
	if s.FgColor == "" {
		s.FgColor = def.FgColor
	}
	if s.BgColor == "" {
		s.BgColor = def.BgColor
	}
	if s.Size == 0 {
		s.Size = def.Size
	}
	if s.Level == "" {
		s.Level = def.Level
	}
	if s.LogoWidth == 0 {
		s.LogoWidth = def.LogoWidth
	}
	if s.LogoHeight == 0 {
		s.LogoHeight = def.LogoHeight
	}
	if s.LogoImage == "" {
		s.LogoImage = def.LogoImage
	}
	return s
}

// StylePatch is a partial update; nil fields are left untouched.
type StylePatch struct {
	FgColor       *string `json:"fgColor,omitempty"`
	BgColor       *string `json:"bgColor,omitempty"`
	Size          *int    `json:"size,omitempty"`
	Level         *Level  `json:"level,omitempty"`
	IncludeMargin *bool   `json:"includeMargin,omitempty"`
	LogoWidth     *int    `json:"logoWidth,omitempty"`
	LogoHeight    *int    `json:"logoHeight,omitempty"`
}

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// MergeStyle applies p on top of s. Fields that fail validation are reported
// in the returned FieldErrors and keep their previous value; the remaining
// fields of the patch are still applied.
func MergeStyle(s StyleOptions, p StylePatch) (StyleOptions, FieldErrors) {
	errs := FieldErrors{}

	if p.FgColor != nil {
		if c := strings.TrimSpace(*p.FgColor); hexColorRe.MatchString(c) {
			s.FgColor = c
		} else {
			errs["fgColor"] = "Please choose a valid hex color"
		}
	}
	if p.BgColor != nil {
		if c := strings.TrimSpace(*p.BgColor); hexColorRe.MatchString(c) {
			s.BgColor = c
		} else {
			errs["bgColor"] = "Please choose a valid hex color"
		}
	}
	if p.Size != nil {
		if *p.Size >= MinSize && *p.Size <= MaxSize {
			s.Size = *p.Size
		} else {
			errs["size"] = fmt.Sprintf("Size must be between %d and %d", MinSize, MaxSize)
		}
	}
	if p.Level != nil {
		if p.Level.Valid() {
			s.Level = *p.Level
		} else {
			errs["level"] = "Error correction level must be one of L, M, Q, H"
		}
	}
	if p.IncludeMargin != nil {
		s.IncludeMargin = *p.IncludeMargin
	}
	if p.LogoWidth != nil {
		if inLogoBounds(*p.LogoWidth) {
			s.LogoWidth = *p.LogoWidth
		} else {
			errs["logoWidth"] = fmt.Sprintf("Logo width must be between %d and %d", MinLogoExtent, MaxLogoExtent)
		}
	}
	if p.LogoHeight != nil {
		if inLogoBounds(*p.LogoHeight) {
			s.LogoHeight = *p.LogoHeight
		} else {
			errs["logoHeight"] = fmt.Sprintf("Logo height must be between %d and %d", MinLogoExtent, MaxLogoExtent)
		}
	}

	return s, errs
}

// ClampLogoExtent forces v into the accepted logo dimension range.
func ClampLogoExtent(v int) int {
	if v < MinLogoExtent {
		return MinLogoExtent
	}
	if v > MaxLogoExtent {
		return MaxLogoExtent
	}
	return v
}

func inLogoBounds(v int) bool {
	return v >= MinLogoExtent && v <= MaxLogoExtent
}
