package domain

import (
	"fmt"
	"time"
)

// FormRecord is the serialized shape of a FormValue: a type tag plus the one
// populated variant. It is shared by the HTTP API and the history backends.
type FormRecord struct {
	Type     Kind          `json:"type" yaml:"type"`
	URL      *URLForm      `json:"url,omitempty" yaml:"url,omitempty"`
	Text     *TextForm     `json:"text,omitempty" yaml:"text,omitempty"`
	Contact  *ContactForm  `json:"contact,omitempty" yaml:"contact,omitempty"`
	AppLinks *AppLinksForm `json:"app,omitempty" yaml:"app,omitempty"`
	Wifi     *WifiForm     `json:"wifi,omitempty" yaml:"wifi,omitempty"`
	Event    *EventForm    `json:"event,omitempty" yaml:"event,omitempty"`
}

// EncodeForm wraps form into its tagged record.
func EncodeForm(form FormValue) FormRecord {
	switch f := form.Clone().(type) {
	case URLForm:
		return FormRecord{Type: KindURL, URL: &f}
	case TextForm:
		return FormRecord{Type: KindText, Text: &f}
	case ContactForm:
		return FormRecord{Type: KindContact, Contact: &f}
	case AppLinksForm:
		return FormRecord{Type: KindAppLinks, AppLinks: &f}
	case WifiForm:
		return FormRecord{Type: KindWifi, Wifi: &f}
	case EventForm:
		return FormRecord{Type: KindEvent, Event: &f}
	}
	return FormRecord{}
}

// Decode returns the variant named by Type. A missing body decodes to the
// variant's zero value.
func (r FormRecord) Decode() (FormValue, error) {
	switch r.Type {
	case KindURL:
		if r.URL == nil {
			return URLForm{URLs: []string{""}}, nil
		}
		return r.URL.Clone(), nil
	case KindText:
		if r.Text == nil {
			return TextForm{}, nil
		}
		return *r.Text, nil
	case KindContact:
		if r.Contact == nil {
			return ContactForm{}, nil
		}
		return *r.Contact, nil
	case KindAppLinks:
		if r.AppLinks == nil {
			return AppLinksForm{}, nil
		}
		return *r.AppLinks, nil
	case KindWifi:
		if r.Wifi == nil {
			return WifiForm{Encryption: EncryptionWPA}, nil
		}
		return *r.Wifi, nil
	case KindEvent:
		if r.Event == nil {
			return EventForm{}, nil
		}
		return *r.Event, nil
	}
	return nil, fmt.Errorf("unknown form type: %q", r.Type)
}

// HistoryRecord is the persisted shape of a HistoryEntry.
type HistoryRecord struct {
	ID        string       `json:"id" yaml:"id"`
	Form      FormRecord   `json:"form" yaml:"form"`
	Style     StyleOptions `json:"style" yaml:"style"`
	CreatedAt time.Time    `json:"createdAt" yaml:"createdAt"`
}

// ToRecord flattens e for storage.
func (e HistoryEntry) ToRecord() HistoryRecord {
	return HistoryRecord{
		ID:        e.id,
		Form:      EncodeForm(e.form),
		Style:     e.style,
		CreatedAt: e.createdAt,
	}
}

// Entry rebuilds the immutable entry.
func (r HistoryRecord) Entry() (HistoryEntry, error) {
	form, err := r.Form.Decode()
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("failed to decode history entry %s: %w", r.ID, err)
	}
	return RestoreHistoryEntry(r.ID, form, r.Style, r.CreatedAt)
}
