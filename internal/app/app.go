package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/qrgen/internal/config"
	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/history"
	"github.com/MrSnakeDoc/qrgen/internal/httpserver"
	"github.com/MrSnakeDoc/qrgen/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
	"github.com/MrSnakeDoc/qrgen/internal/redis"
	"github.com/MrSnakeDoc/qrgen/internal/render"
	"github.com/MrSnakeDoc/qrgen/internal/scheduler"
	"github.com/MrSnakeDoc/qrgen/internal/session"
	filestore "github.com/MrSnakeDoc/qrgen/internal/store/file"
	"github.com/MrSnakeDoc/qrgen/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/qrgen/internal/store/redis"
	"github.com/MrSnakeDoc/qrgen/internal/utils"
	"github.com/MrSnakeDoc/qrgen/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.PresetsReloader
	compactor   *scheduler.HistoryCompactor
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	backend, redisClient, ping := openBackend(cfg, loggerClient)
	hist := history.NewStore(backend, cfg.HistoryLimit)

	// Warm the view so the first /api/history call is served from memory.
	syncer := scheduler.NewHistorySyncer(hist, loggerClient)
	if err := syncer.Sync(context.Background()); err != nil {
		loggerClient.Warn("failed to load history on startup, starting empty",
			logger.Error(err))
	}

	encoder, err := render.NewEncoder(cfg.Encoder)
	if err != nil {
		loggerClient.Errorf("Invalid encoder: %v", err)
		os.Exit(1)
	}
	renderer := render.NewRenderer(encoder)

	defaults := domain.Defaults{Style: domain.DefaultStyleOptions()}
	if cfg.DefaultLogo != "" {
		logo, err := render.LoadLogoFile(cfg.DefaultLogo, cfg.MaxLogoBytes)
		if err != nil {
			loggerClient.Errorf("Failed to load default logo %s: %v", cfg.DefaultLogo, err)
			os.Exit(1)
		}
		defaults.Style.LogoImage = logo.DataURI
		defaults.Style.LogoWidth = logo.Width
		defaults.Style.LogoHeight = logo.Height
	}

	controller := session.NewController(hist, renderer, loggerClient, session.Options{
		Defaults:     defaults,
		Location:     cfg.Location,
		Locked:       cfg.LockedURL,
		MaxLogoBytes: cfg.MaxLogoBytes,
	})

	// Presets are optional; without a file there is nothing to reload.
	var reloader *scheduler.PresetsReloader
	var reloadTrigger chan struct{}
	if cfg.PresetsFile != "" {
		loggerClient.Info("presets file configured, initializing presets reloader",
			logger.String("file", cfg.PresetsFile))
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewPresetsReloader(
			cfg.PresetsFile,
			cfg.MaxLogoBytes,
			controller,
			defaults,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("presets file not configured, using built-in defaults")
	}

	compactor := scheduler.NewHistoryCompactor(
		hist,
		loggerClient,
		cfg.CompactInterval,
		cfg.HistoryRetention,
	)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		Controller:     controller,
		HistoryBackend: cfg.HistoryBackend,
		HistoryPing:    ping,
		ReloadTrigger:  reloadTrigger,
		ExportBurst:    cfg.ExportBurst,
		ExportPerMin:   cfg.ExportPerMin,
		MaxLogoBytes:   cfg.MaxLogoBytes,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		reloader:    reloader,
		compactor:   compactor,
	}
}

// openBackend picks the history backend. Redis is dialed eagerly so a bad
// address fails at startup rather than on the first export.
func openBackend(cfg *config.Config, log logger.Logger) (history.Backend, *goredis.Client, func(context.Context) error) {
	switch cfg.HistoryBackend {
	case config.BackendRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			log.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Info("Redis initialized successfully")
		ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return redisstore.NewStore(client, log), client, ping

	case config.BackendMemory:
		log.Warn("history backend is in-memory, entries are lost on restart")
		return memory.NewStore(), nil, nil

	default:
		log.Info("history stored on disk", logger.String("file", cfg.HistoryFile))
		return filestore.NewStore(cfg.HistoryFile, log), nil, nil
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting qrgen v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("qrgen %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start presets reloader: %w", err)
		}
		a.logger.Info("presets reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	if err := a.compactor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start history compactor: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}
	a.compactor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, a.logger, "redis")
	}

	a.logger.Info("✅ qrgen stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
