package domain

import (
	"net/url"
	"strings"
	"time"
)

// Payload is the exact text handed to the symbol encoder together with the
// flag gating encode and export.
type Payload struct {
	Text  string `json:"text"`
	Valid bool   `json:"valid"`
}

// BuildPayload maps a form to the text it encodes. It never fails: bad input
// yields Valid == false. loc is the zone naive timestamps are read in; nil
// means UTC.
func BuildPayload(form FormValue, loc *time.Location) Payload {
	switch f := form.(type) {
	case URLForm:
		return buildURLs(f)
	case TextForm:
		return Payload{Text: f.Text, Valid: !isBlank(f.Text)}
	case ContactForm:
		return buildVCard(f)
	case AppLinksForm:
		return buildAppLinks(f)
	case WifiForm:
		return buildWifi(f)
	case EventForm:
		return buildEvent(f, loc)
	}
	return Payload{}
}

func buildURLs(f URLForm) Payload {
	lines := make([]string, 0, len(f.URLs))
	valid := true
	for _, raw := range f.URLs {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		if !IsAbsoluteURL(u) {
			valid = false
		}
		lines = append(lines, u)
	}
	return Payload{
		Text:  strings.Join(lines, "\n"),
		Valid: valid && len(lines) > 0,
	}
}

// IsAbsoluteURL reports whether s has both a scheme and an authority.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func buildVCard(f ContactForm) Payload {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\nVERSION:3.0\n")
	b.WriteString("N:" + strings.TrimSpace(f.LastName) + ";" + strings.TrimSpace(f.FirstName) + "\n")
	b.WriteString("ORG:" + strings.TrimSpace(f.Organization) + "\n")
	b.WriteString("TITLE:" + strings.TrimSpace(f.Title) + "\n")

	optional := []struct {
		prefix string
		value  string
	}{
		{"EMAIL;TYPE=INTERNET:", f.Email},
		{"TEL;TYPE=CELL:", f.Phone},
		{"TEL;TYPE=WORK,VOICE:", f.WorkPhone},
	}
	for _, o := range optional {
		if v := strings.TrimSpace(o.value); v != "" {
			b.WriteString(o.prefix + v + "\n")
		}
	}
	if addr := strings.TrimSpace(f.Address); addr != "" {
		b.WriteString("ADR;TYPE=WORK:;;" + addr + ";;;" + strings.TrimSpace(f.Country) + ";\n")
	}
	if site := strings.TrimSpace(f.Website); site != "" {
		b.WriteString("URL;TYPE=WORK:" + site + "\n")
	}
	b.WriteString("END:VCARD")

	valid := !isBlank(f.FirstName) || !isBlank(f.LastName) || !isBlank(f.Email) || !isBlank(f.Phone)
	return Payload{Text: b.String(), Valid: valid}
}

func buildAppLinks(f AppLinksForm) Payload {
	platforms := []struct {
		label string
		link  string
	}{
		{"Google Play", f.GooglePlay},
		{"App Store", f.AppStore},
		{"Huawei AppGallery", f.HuaweiGallery},
	}

	var b strings.Builder
	valid := false
	for _, p := range platforms {
		link := strings.TrimSpace(p.link)
		if link == "" {
			continue
		}
		valid = true
		b.WriteString(p.label + ": " + link + "\n")
	}
	return Payload{Text: strings.TrimSpace(b.String()), Valid: valid}
}

var wifiEscaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `,`, `\,`, `:`, `\:`, `"`, `\"`)

func buildWifi(f WifiForm) Payload {
	enc := f.Encryption
	if !enc.Valid() {
		enc = EncryptionWPA
	}

	var b strings.Builder
	b.WriteString("WIFI:S:" + wifiEscaper.Replace(f.SSID) + ";")
	b.WriteString("T:" + string(enc) + ";")
	if enc != EncryptionNone && !isBlank(f.Password) {
		b.WriteString("P:" + wifiEscaper.Replace(f.Password) + ";")
	}
	if f.Hidden {
		b.WriteString("H:true;")
	}
	b.WriteString(";")

	return Payload{Text: b.String(), Valid: !isBlank(f.SSID)}
}

const icsTimeLayout = "20060102T150405Z"

func buildEvent(f EventForm, loc *time.Location) Payload {
	if isBlank(f.Start) {
		return Payload{}
	}
	start, err := ParseTimestamp(f.Start, loc)
	if err != nil {
		return Payload{}
	}
	end := start
	if !isBlank(f.End) {
		if t, err := ParseTimestamp(f.End, loc); err == nil {
			end = t
		}
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"SUMMARY:" + f.Title,
		"DESCRIPTION:" + f.Description,
		"LOCATION:" + f.Location,
		"DTSTART:" + formatICS(start),
		"DTEND:" + formatICS(end),
		"ORGANIZER;CN=" + f.Organizer + ":mailto:" + f.OrganizerEmail,
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return Payload{
		Text:  strings.Join(lines, "\n"),
		Valid: !isBlank(f.Title),
	}
}

func formatICS(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(icsTimeLayout)
}

// timestampLayouts are tried in order. Layouts without an offset are read in
// the caller's location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and the datetime-local forms browsers send.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
