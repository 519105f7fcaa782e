package presets

import "github.com/MrSnakeDoc/qrgen/internal/domain"

// Config is the top-level structure of the presets file. Every section is
// optional; a missing section leaves that variant blank.
type Config struct {
	URL      *domain.URLForm      `yaml:"url,omitempty"`
	Text     *domain.TextForm     `yaml:"text,omitempty"`
	Contact  *domain.ContactForm  `yaml:"contact,omitempty"`
	AppLinks *domain.AppLinksForm `yaml:"app,omitempty"`
	Wifi     *domain.WifiForm     `yaml:"wifi,omitempty"`
	Event    *domain.EventForm    `yaml:"event,omitempty"`
	Style    *StyleProps          `yaml:"style,omitempty"`
}

// StyleProps mirrors domain.StylePatch with a logo file path instead of
// inline image data.
type StyleProps struct {
	FgColor       *string       `yaml:"fgColor,omitempty"`
	BgColor       *string       `yaml:"bgColor,omitempty"`
	Size          *int          `yaml:"size,omitempty"`
	Level         *domain.Level `yaml:"level,omitempty"`
	IncludeMargin *bool         `yaml:"includeMargin,omitempty"`
	Logo          string        `yaml:"logo,omitempty"`
	LogoWidth     *int          `yaml:"logoWidth,omitempty"`
	LogoHeight    *int          `yaml:"logoHeight,omitempty"`
}
