package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FieldErrors maps a form field to the inline message shown next to it.
type FieldErrors map[string]string

// Empty reports whether no field failed.
func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

const (
	msgInvalidURL   = "Please enter a valid URL (include http:// or https://)"
	msgInvalidEmail = "Please enter a valid email address"
	msgInvalidPhone = "Please enter a valid phone number"
	msgInvalidDate  = "Please enter a valid date and time"

	// TextSoftLimit is the length past which dense symbols become hard to scan.
	TextSoftLimit = 500
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
)

// ValidEmail mirrors the contact form's email check.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidPhone accepts an empty string or at least ten digits, spaces, dashes
// or parentheses with an optional leading plus.
func ValidPhone(s string) bool { return s == "" || phoneRe.MatchString(s) }

// Validate returns the per-field messages for form. It is stricter than
// BuildPayload: it enforces the form-layer rules (required contact names,
// Wi-Fi password when encrypted) that do not affect the payload itself.
func Validate(form FormValue, loc *time.Location) FieldErrors {
	errs := FieldErrors{}
	switch f := form.(type) {
	case URLForm:
		for i, raw := range f.URLs {
			u := strings.TrimSpace(raw)
			if u != "" && !IsAbsoluteURL(u) {
				errs["urls."+strconv.Itoa(i)] = msgInvalidURL
			}
		}
	case TextForm:
		if isBlank(f.Text) {
			errs["text"] = "Text is required"
		}
	case ContactForm:
		required := []struct {
			field, label, value string
		}{
			{"firstName", "First name", f.FirstName},
			{"lastName", "Last name", f.LastName},
			{"organization", "Organization", f.Organization},
			{"title", "Title", f.Title},
		}
		for _, r := range required {
			if isBlank(r.value) {
				errs[r.field] = r.label + " is required"
			}
		}
		if e := strings.TrimSpace(f.Email); e != "" && !ValidEmail(e) {
			errs["email"] = msgInvalidEmail
		}
		if !ValidPhone(strings.TrimSpace(f.Phone)) {
			errs["phone"] = msgInvalidPhone
		}
		if !ValidPhone(strings.TrimSpace(f.WorkPhone)) {
			errs["workPhone"] = msgInvalidPhone
		}
		if w := strings.TrimSpace(f.Website); w != "" && !IsAbsoluteURL(w) {
			errs["website"] = msgInvalidURL
		}
	case AppLinksForm:
		links := map[string]string{
			"googlePlay":    f.GooglePlay,
			"appStore":      f.AppStore,
			"huaweiGallery": f.HuaweiGallery,
		}
		for field, link := range links {
			if l := strings.TrimSpace(link); l != "" && !IsAbsoluteURL(l) {
				errs[field] = msgInvalidURL
			}
		}
	case WifiForm:
		if isBlank(f.SSID) {
			errs["ssid"] = "Network name is required"
		}
		if f.Encryption != EncryptionNone && isBlank(f.Password) {
			errs["password"] = "Password is required"
		}
		if !f.Encryption.Valid() {
			errs["encryption"] = "Encryption must be WPA, WEP or nopass"
		}
	case EventForm:
		if isBlank(f.Title) {
			errs["title"] = "Event title is required"
		}
		if isBlank(f.Start) {
			errs["start"] = "Start time is required"
		} else if _, err := ParseTimestamp(f.Start, loc); err != nil {
			errs["start"] = msgInvalidDate
		}
		if !isBlank(f.End) {
			if _, err := ParseTimestamp(f.End, loc); err != nil {
				errs["end"] = msgInvalidDate
			}
		}
		if e := strings.TrimSpace(f.OrganizerEmail); e != "" && !ValidEmail(e) {
			errs["organizerEmail"] = msgInvalidEmail
		}
	}
	return errs
}
