package domain

import "fmt"

// Kind identifies one of the supported form variants.
type Kind string

const (
	KindURL      Kind = "url"
	KindText     Kind = "text"
	KindContact  Kind = "contact"
	KindAppLinks Kind = "app"
	KindWifi     Kind = "wifi"
	KindEvent    Kind = "event"
)

// Kinds lists every variant in tab order.
var Kinds = []Kind{KindURL, KindText, KindContact, KindAppLinks, KindWifi, KindEvent}

// ParseKind validates a raw variant tag.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown form type: %q", s)
}

// FormValue is the closed set of form variants. Exactly one is active at a
// time; the unexported marker keeps other packages from adding variants.
type FormValue interface {
	Kind() Kind
	// Clone returns a copy sharing no mutable state with the receiver.
	Clone() FormValue
	isFormValue()
}

// URLForm holds one or more links encoded one per line.
type URLForm struct {
	URLs []string `json:"urls" yaml:"urls"`
}

// TextForm holds free text encoded verbatim.
type TextForm struct {
	Text string `json:"text" yaml:"text"`
}

// ContactForm is encoded as a vCard.
type ContactForm struct {
	FirstName    string `json:"firstName" yaml:"firstName"`
	LastName     string `json:"lastName" yaml:"lastName"`
	Organization string `json:"organization" yaml:"organization"`
	Title        string `json:"title" yaml:"title"`
	Email        string `json:"email" yaml:"email"`
	Phone        string `json:"phone" yaml:"phone"`
	WorkPhone    string `json:"workPhone" yaml:"workPhone"`
	Address      string `json:"address" yaml:"address"`
	Country      string `json:"country" yaml:"country"`
	Website      string `json:"website" yaml:"website"`
}

// AppLinksForm lists store pages for a mobile app.
type AppLinksForm struct {
	GooglePlay    string `json:"googlePlay" yaml:"googlePlay"`
	AppStore      string `json:"appStore" yaml:"appStore"`
	HuaweiGallery string `json:"huaweiGallery" yaml:"huaweiGallery"`
}

// Encryption is the Wi-Fi authentication type.
type Encryption string

const (
	EncryptionWPA  Encryption = "WPA"
	EncryptionWEP  Encryption = "WEP"
	EncryptionNone Encryption = "nopass"
)

// Valid reports whether e is one of the known encryption types.
func (e Encryption) Valid() bool {
	switch e {
	case EncryptionWPA, EncryptionWEP, EncryptionNone:
		return true
	}
	return false
}

// WifiForm describes network credentials.
type WifiForm struct {
	SSID       string     `json:"ssid" yaml:"ssid"`
	Password   string     `json:"password" yaml:"password"`
	Encryption Encryption `json:"encryption" yaml:"encryption"`
	Hidden     bool       `json:"hidden" yaml:"hidden"`
}

// EventForm is encoded as an iCalendar event.
//
// Start and End keep the raw user input so that an unparseable value can be
// reported instead of silently dropped. A blank string means "absent".
type EventForm struct {
	Title          string `json:"title" yaml:"title"`
	Description    string `json:"description" yaml:"description"`
	Location       string `json:"location" yaml:"location"`
	Organizer      string `json:"organizer" yaml:"organizer"`
	OrganizerEmail string `json:"organizerEmail" yaml:"organizerEmail"`
	Start          string `json:"start" yaml:"start"`
	End            string `json:"end" yaml:"end"`
}

func (URLForm) Kind() Kind      { return KindURL }
func (TextForm) Kind() Kind     { return KindText }
func (ContactForm) Kind() Kind  { return KindContact }
func (AppLinksForm) Kind() Kind { return KindAppLinks }
func (WifiForm) Kind() Kind     { return KindWifi }
func (EventForm) Kind() Kind    { return KindEvent }

func (f URLForm) Clone() FormValue {
	urls := make([]string, len(f.URLs))
	copy(urls, f.URLs)
	return URLForm{URLs: urls}
}
func (f TextForm) Clone() FormValue     { return f }
func (f ContactForm) Clone() FormValue  { return f }
func (f AppLinksForm) Clone() FormValue { return f }
func (f WifiForm) Clone() FormValue     { return f }
func (f EventForm) Clone() FormValue    { return f }

func (URLForm) isFormValue()      {}
func (TextForm) isFormValue()     {}
func (ContactForm) isFormValue()  {}
func (AppLinksForm) isFormValue() {}
func (WifiForm) isFormValue()     {}
func (EventForm) isFormValue()    {}

// Defaults carries the blank value each variant is reset to on a switch.
// The zero value yields fully blank forms (WPA for Wi-Fi, one empty URL row).
type Defaults struct {
	URL      URLForm
	Text     TextForm
	Contact  ContactForm
	AppLinks AppLinksForm
	Wifi     WifiForm
	Event    EventForm
	Style    StyleOptions
}

// BlankForm returns the default value of kind k.
func (d Defaults) BlankForm(k Kind) FormValue {
	switch k {
	case KindURL:
		f := d.URL.Clone().(URLForm)
		if len(f.URLs) == 0 {
			f.URLs = []string{""}
		}
		return f
	case KindText:
		return d.Text
	case KindContact:
		return d.Contact
	case KindAppLinks:
		return d.AppLinks
	case KindWifi:
		f := d.Wifi
		if !f.Encryption.Valid() {
			f.Encryption = EncryptionWPA
		}
		return f
	case KindEvent:
		return d.Event
	}
	return d.BlankForm(KindURL)
}

// DefaultStyle returns the configured default style, falling back to
// DefaultStyleOptions for unset fields.
func (d Defaults) DefaultStyle() StyleOptions {
	return d.Style.withFallback(DefaultStyleOptions())
}
