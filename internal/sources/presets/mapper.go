package presets

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/render"
)

// Mapper converts a presets Config into domain.Defaults
type Mapper struct {
	baseDir      string
	maxLogoBytes int64
}

// NewMapper creates a new mapper. Relative logo paths resolve against baseDir.
func NewMapper(baseDir string, maxLogoBytes int64) *Mapper {
	return &Mapper{
		baseDir:      baseDir,
		maxLogoBytes: maxLogoBytes,
	}
}

// MapDefaults validates cfg and converts it. Any invalid field rejects the
// whole file so a typo never half-applies.
func (m *Mapper) MapDefaults(cfg Config) (domain.Defaults, error) {
	var d domain.Defaults
	problems := domain.FieldErrors{}

	if cfg.URL != nil {
		d.URL = cfg.URL.Clone().(domain.URLForm)
		for i, u := range d.URL.URLs {
			if u = strings.TrimSpace(u); u != "" && !domain.IsAbsoluteURL(u) {
				problems[fmt.Sprintf("url.urls.%d", i)] = "not an absolute URL"
			}
		}
	}
	if cfg.Text != nil {
		d.Text = *cfg.Text
	}
	if cfg.Contact != nil {
		d.Contact = *cfg.Contact
		if e := strings.TrimSpace(d.Contact.Email); e != "" && !domain.ValidEmail(e) {
			problems["contact.email"] = "not a valid email address"
		}
	}
	if cfg.AppLinks != nil {
		d.AppLinks = *cfg.AppLinks
	}
	if cfg.Wifi != nil {
		d.Wifi = *cfg.Wifi
		if d.Wifi.Encryption != "" && !d.Wifi.Encryption.Valid() {
			problems["wifi.encryption"] = fmt.Sprintf("unknown encryption %q", d.Wifi.Encryption)
		}
	}
	if cfg.Event != nil {
		d.Event = *cfg.Event
	}

	d.Style = domain.DefaultStyleOptions()
	if cfg.Style != nil {
		style, errs := domain.MergeStyle(d.Style, domain.StylePatch{
			FgColor:       cfg.Style.FgColor,
			BgColor:       cfg.Style.BgColor,
			Size:          cfg.Style.Size,
			Level:         cfg.Style.Level,
			IncludeMargin: cfg.Style.IncludeMargin,
			LogoWidth:     cfg.Style.LogoWidth,
			LogoHeight:    cfg.Style.LogoHeight,
		})
		for field, msg := range errs {
			problems["style."+field] = msg
		}
		d.Style = style

		if cfg.Style.Logo != "" {
			logo, err := render.LoadLogoFile(m.resolve(cfg.Style.Logo), m.maxLogoBytes)
			if err != nil {
				problems["style.logo"] = err.Error()
			} else {
				d.Style.LogoImage = logo.DataURI
				if cfg.Style.LogoWidth == nil {
					d.Style.LogoWidth = logo.Width
				}
				if cfg.Style.LogoHeight == nil {
					d.Style.LogoHeight = logo.Height
				}
			}
		}
	}

	if !problems.Empty() {
		return domain.Defaults{}, fmt.Errorf("invalid presets: %s", describe(problems))
	}
	return d, nil
}

func (m *Mapper) resolve(path string) string {
	if filepath.IsAbs(path) || m.baseDir == "" {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

func describe(fe domain.FieldErrors) string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fe[k]
	}
	return strings.Join(parts, "; ")
}
