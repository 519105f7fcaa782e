package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is an immutable snapshot of one successful export.
//
// Fields are unexported so that a stored entry cannot be mutated through a
// value handed out by the history store; accessors return copies.
type HistoryEntry struct {
	id        string
	form      FormValue
	style     StyleOptions
	createdAt time.Time
}

// NewHistoryEntry snapshots form and style. The id is a UUIDv7, so ids sort
// in creation order.
func NewHistoryEntry(form FormValue, style StyleOptions, now time.Time) (HistoryEntry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("failed to generate history id: %w", err)
	}
	return RestoreHistoryEntry(id.String(), form, style, now)
}

// RestoreHistoryEntry rebuilds an entry read back from storage.
func RestoreHistoryEntry(id string, form FormValue, style StyleOptions, createdAt time.Time) (HistoryEntry, error) {
	if id == "" {
		return HistoryEntry{}, fmt.Errorf("history entry has no id")
	}
	if form == nil {
		return HistoryEntry{}, fmt.Errorf("history entry %s has no form", id)
	}
	return HistoryEntry{
		id:        id,
		form:      form.Clone(),
		style:     style,
		createdAt: createdAt,
	}, nil
}

func (e HistoryEntry) ID() string           { return e.id }
func (e HistoryEntry) Kind() Kind           { return e.form.Kind() }
func (e HistoryEntry) Form() FormValue      { return e.form.Clone() }
func (e HistoryEntry) Style() StyleOptions  { return e.style }
func (e HistoryEntry) CreatedAt() time.Time { return e.createdAt }
func (e HistoryEntry) IsZero() bool         { return e.id == "" }

// Newer orders entries most-recent-first, breaking timestamp ties by id.
func (e HistoryEntry) Newer(o HistoryEntry) bool {
	if !e.createdAt.Equal(o.createdAt) {
		return e.createdAt.After(o.createdAt)
	}
	return e.id > o.id
}

// Label is the short variant name shown in the history list.
func (e HistoryEntry) Label() string {
	switch e.Kind() {
	case KindURL:
		return "URL"
	case KindText:
		return "Text"
	case KindContact:
		return "Contact"
	case KindAppLinks:
		return "App"
	case KindWifi:
		return "Wi-Fi"
	case KindEvent:
		return "Event"
	}
	return "QR Code"
}

const descriptionLimit = 30

// Description summarizes the entry's content in a single line.
func (e HistoryEntry) Description() string {
	switch f := e.form.(type) {
	case URLForm:
		if len(f.URLs) > 0 && f.URLs[0] != "" {
			return truncate(f.URLs[0], descriptionLimit)
		}
		return "URL QR Code"
	case TextForm:
		if f.Text != "" {
			return truncate(f.Text, descriptionLimit)
		}
		return "Text QR Code"
	case ContactForm:
		return f.FirstName + " " + f.LastName
	case AppLinksForm:
		return "App Store Links"
	case WifiForm:
		return "Wi-Fi: " + f.SSID
	case EventForm:
		return "Event: " + f.Title
	}
	return "QR Code"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
