// Package session holds the single user session: the active form, its style
// and the derived payload. State transitions are pure functions; Controller
// serializes them and talks to history and rendering.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
)

var (
	ErrInvalidPayload  = errors.New("current form does not produce a valid payload")
	ErrLocked          = errors.New("form is locked to the deep-linked URL")
	ErrVariantMismatch = errors.New("form type does not match the active variant")
)

// Env is what transitions need besides the state itself.
type Env struct {
	Defaults domain.Defaults
	Location *time.Location
	// Locked restricts the session to a read-only Url form fed by a deep link.
	Locked bool
}

func (e Env) location() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

// State is one immutable snapshot of the session.
type State struct {
	Kind    domain.Kind
	Form    domain.FormValue
	Style   domain.StyleOptions
	Payload domain.Payload
	// Valid gates preview overlays and export.
	Valid  bool
	Errors domain.FieldErrors

	Locked          bool
	DeepLinkMissing bool

	// TextLength counts runes of the Text variant.
	TextLength  int
	TextTooLong bool
}

// Initial is the state a fresh session starts in: an empty Url form.
func Initial(env Env) State {
	s := State{
		Kind:            domain.KindURL,
		Form:            env.Defaults.BlankForm(domain.KindURL),
		Style:           env.Defaults.DefaultStyle(),
		Locked:          env.Locked,
		DeepLinkMissing: env.Locked,
	}
	return evaluate(s, env)
}

// SwitchVariant resets the form to the default of kind.
func SwitchVariant(s State, kind domain.Kind, env Env) (State, error) {
	if env.Locked {
		if kind == domain.KindURL {
			return s, nil
		}
		return s, ErrLocked
	}

	s.Kind = kind
	s.Form = env.Defaults.BlankForm(kind)
	return evaluate(s, env), nil
}

// EditForm replaces the form of the active variant.
func EditForm(s State, form domain.FormValue, env Env) (State, error) {
	if env.Locked {
		return s, ErrLocked
	}
	if form == nil || form.Kind() != s.Kind {
		return s, fmt.Errorf("%w: active %s", ErrVariantMismatch, s.Kind)
	}

	s.Form = form.Clone()
	return evaluate(s, env), nil
}

// MergeStyle applies patch. Rejected fields keep their old value.
func MergeStyle(s State, patch domain.StylePatch) (State, domain.FieldErrors) {
	style, errs := domain.MergeStyle(s.Style, patch)
	s.Style = style
	return s, errs
}

// Restore replaces variant, form and style with a copy of entry's snapshot.
func Restore(s State, entry domain.HistoryEntry, env Env) (State, error) {
	if env.Locked {
		return s, ErrLocked
	}

	s.Kind = entry.Kind()
	s.Form = entry.Form()
	s.Style = entry.Style()
	return evaluate(s, env), nil
}

// ApplyDeepLink loads a single prefilled URL. A missing, blank or malformed
// value only flags the state; it never fails.
func ApplyDeepLink(s State, value string, present bool, env Env) State {
	value = strings.TrimSpace(value)
	if !present || !domain.IsAbsoluteURL(value) {
		s.DeepLinkMissing = true
		return evaluate(s, env)
	}

	s.Kind = domain.KindURL
	s.Form = domain.URLForm{URLs: []string{value}}
	s.DeepLinkMissing = false
	return evaluate(s, env)
}

// evaluate recomputes everything derived from the form.
func evaluate(s State, env Env) State {
	loc := env.location()

	s.Locked = env.Locked
	s.Payload = domain.BuildPayload(s.Form, loc)
	s.Errors = domain.Validate(s.Form, loc)
	s.Valid = s.Payload.Valid && !(env.Locked && s.DeepLinkMissing)

	s.TextLength, s.TextTooLong = 0, false
	if t, ok := s.Form.(domain.TextForm); ok {
		s.TextLength = utf8.RuneCountInString(t.Text)
		s.TextTooLong = s.TextLength > domain.TextSoftLimit
	}

	return s
}
