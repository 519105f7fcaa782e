package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
	"github.com/MrSnakeDoc/qrgen/internal/sources/presets"
)

// DefaultsTarget receives freshly loaded variant defaults.
type DefaultsTarget interface {
	SetDefaults(d domain.Defaults)
}

// PresetsReloader handles periodic reloading of the presets file
type PresetsReloader struct {
	loader        *presets.Loader
	mapper        *presets.Mapper
	target        DefaultsTarget
	base          domain.Defaults
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewPresetsReloader creates a new presets reloader. base supplies the style
// used when the file has no style section (e.g. the startup default logo).
func NewPresetsReloader(
	presetsFile string,
	maxLogoBytes int64,
	target DefaultsTarget,
	base domain.Defaults,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *PresetsReloader {
	return &PresetsReloader{
		loader:        presets.NewLoader(presetsFile),
		mapper:        presets.NewMapper(filepath.Dir(presetsFile), maxLogoBytes),
		target:        target,
		base:          base,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the presets once and then keeps them fresh
func (pr *PresetsReloader) Start(ctx context.Context) error {
	if err := pr.Reload(ctx); err != nil {
		return fmt.Errorf("initial presets load failed: %w", err)
	}

	// A non-positive interval leaves only the manual trigger.
	var tick <-chan time.Time
	var ticker *time.Ticker
	if pr.interval > 0 {
		ticker = time.NewTicker(pr.interval)
		tick = ticker.C
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload presets",
						logger.Error(err))
				}
			case <-pr.manualTrigger:
				pr.logger.Info("manual reload triggered")
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload presets",
						logger.Error(err))
				}
			case <-pr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (pr *PresetsReloader) Stop() {
	close(pr.stopCh)
}

// Reload reads the presets file and hands the result to the target. A bad
// file keeps the previous defaults in place.
func (pr *PresetsReloader) Reload(_ context.Context) error {
	pr.logger.Info("reloading presets", logger.String("file", pr.loader.Path()))

	cfg, err := pr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	defaults, err := pr.mapper.MapDefaults(cfg)
	if err != nil {
		return fmt.Errorf("failed to map presets: %w", err)
	}
	if cfg.Style == nil {
		defaults.Style = pr.base.Style
	} else if defaults.Style.LogoImage == "" {
		defaults.Style.LogoImage = pr.base.Style.LogoImage
	}

	pr.target.SetDefaults(defaults)
	pr.logger.Info("presets applied")

	return nil
}
