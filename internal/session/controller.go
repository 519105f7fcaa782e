package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
	"github.com/MrSnakeDoc/qrgen/internal/render"
)

// HistoryStore is the part of history.Store the controller uses.
type HistoryStore interface {
	Load(ctx context.Context) ([]domain.HistoryEntry, error)
	Add(ctx context.Context, entry domain.HistoryEntry) error
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Get(id string) (domain.HistoryEntry, error)
}

// Exporter renders payload text to bytes.
type Exporter interface {
	Export(text string, style domain.StyleOptions, f render.Format) ([]byte, error)
}

// Options configures a Controller.
type Options struct {
	Defaults     domain.Defaults
	Location     *time.Location
	Locked       bool
	MaxLogoBytes int64
	// Now defaults to time.Now.
	Now func() time.Time
}

// ExportResult is a successful export.
type ExportResult struct {
	Data        []byte
	Format      render.Format
	ContentType string
	Filename    string
	Entry       domain.HistoryEntry
	// Notice is set when the file was produced but not recorded in history.
	Notice string
}

// Controller owns the session state. Every method runs to completion under
// one lock, so actions never interleave.
type Controller struct {
	mu       sync.Mutex
	state    State
	env      Env
	history  HistoryStore
	exporter Exporter
	log      logger.Logger

	maxLogoBytes int64
	now          func() time.Time
}

func NewController(hist HistoryStore, exp Exporter, log logger.Logger, opts Options) *Controller {
	env := Env{
		Defaults: opts.Defaults,
		Location: opts.Location,
		Locked:   opts.Locked,
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Controller{
		state:        Initial(env),
		env:          env,
		history:      hist,
		exporter:     exp,
		log:          log,
		maxLogoBytes: opts.MaxLogoBytes,
		now:          now,
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.Form = s.Form.Clone()
	return s
}

func (c *Controller) SwitchVariant(kind domain.Kind) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := SwitchVariant(c.state, kind, c.env)
	if err != nil {
		return c.snapshotLocked(), err
	}
	c.state = next
	return c.snapshotLocked(), nil
}

func (c *Controller) EditForm(form domain.FormValue) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := EditForm(c.state, form, c.env)
	if err != nil {
		return c.snapshotLocked(), err
	}
	c.state = next
	return c.snapshotLocked(), nil
}

// UpdateStyle merges patch; the returned errors name rejected fields.
func (c *Controller) UpdateStyle(patch domain.StylePatch) (State, domain.FieldErrors) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, errs := MergeStyle(c.state, patch)
	c.state = next
	return c.snapshotLocked(), errs
}

// SetLogo processes an uploaded image and embeds it in the style. On failure
// the style is left as it was.
func (c *Controller) SetLogo(contentType string, data []byte) (State, error) {
	logo, err := render.ProcessLogo(contentType, data, c.maxLogoBytes)
	if err != nil {
		c.log.Warn("logo rejected", logger.String("content_type", contentType), logger.Error(err))
		return c.Snapshot(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Style.LogoImage = logo.DataURI
	c.state.Style.LogoWidth = logo.Width
	c.state.Style.LogoHeight = logo.Height
	return c.snapshotLocked(), nil
}

func (c *Controller) ClearLogo() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Style.LogoImage = ""
	return c.snapshotLocked()
}

func (c *Controller) ApplyDeepLink(value string, present bool) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = ApplyDeepLink(c.state, value, present, c.env)
	return c.snapshotLocked()
}

// Preview renders the current payload without recording anything. Invalid
// but non-empty payloads still render.
func (c *Controller) Preview(_ context.Context, f render.Format) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Payload.Text == "" {
		return nil, ErrInvalidPayload
	}
	return c.exporter.Export(c.state.Payload.Text, c.state.Style, f)
}

// Export renders the current payload and records it in history. A history
// failure does not fail the export; it is reported through Notice.
func (c *Controller) Export(ctx context.Context, f render.Format) (ExportResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Valid {
		return ExportResult{}, ErrInvalidPayload
	}

	data, err := c.exporter.Export(c.state.Payload.Text, c.state.Style, f)
	if err != nil {
		c.log.Error("export failed", logger.String("format", string(f)), logger.Error(err))
		return ExportResult{}, fmt.Errorf("failed to export %s: %w", f, err)
	}

	now := c.now()
	res := ExportResult{
		Data:        data,
		Format:      f,
		ContentType: f.ContentType(),
		Filename:    fmt.Sprintf("qrcode-%d.%s", now.UnixMilli(), f.Ext()),
	}

	entry, err := domain.NewHistoryEntry(c.state.Form, c.state.Style, now)
	if err == nil {
		err = c.history.Add(ctx, entry)
	}
	if err != nil {
		c.log.Warn("export not recorded in history", logger.Error(err))
		res.Notice = "QR code downloaded, but it could not be saved to history"
		return res, nil
	}

	res.Entry = entry
	c.log.Info("export recorded",
		logger.String("id", entry.ID()),
		logger.String("type", string(entry.Kind())),
		logger.String("format", string(f)))
	return res, nil
}

// History reloads and returns the most recent entries.
func (c *Controller) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.history.Load(ctx)
	if err != nil {
		c.log.Warn("failed to load history", logger.Error(err))
		return entries, err
	}
	return entries, nil
}

func (c *Controller) RemoveHistory(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.history.Remove(ctx, id); err != nil {
		c.log.Warn("failed to remove history entry", logger.String("id", id), logger.Error(err))
		return err
	}
	return nil
}

func (c *Controller) ClearHistory(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.history.Clear(ctx); err != nil {
		c.log.Warn("failed to clear history", logger.Error(err))
		return err
	}
	return nil
}

// SelectHistory restores the form and style recorded in entry id.
func (c *Controller) SelectHistory(id string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, err := c.history.Get(id)
	if err != nil {
		return c.snapshotLocked(), err
	}

	next, err := Restore(c.state, entry, c.env)
	if err != nil {
		return c.snapshotLocked(), err
	}
	c.state = next
	return c.snapshotLocked(), nil
}

// SetDefaults swaps the variant defaults used by later resets.
func (c *Controller) SetDefaults(d domain.Defaults) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.env.Defaults = d
}

// Defaults returns the variant defaults in use.
func (c *Controller) Defaults() domain.Defaults {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.env.Defaults
}
