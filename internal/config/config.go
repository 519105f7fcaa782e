package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: "127.0.0.1:8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// History
	HistoryBackend   string        // "file" | "redis" | "memory"
	HistoryFile      string        // YAML document used by the file backend
	HistoryLimit     int           // entries shown in the history panel
	HistoryRetention int           // entries kept in storage, 0 = unbounded
	CompactInterval  time.Duration // how often storage is trimmed to HistoryRetention

	// Rendering and session
	Encoder        string         // "skip2" | "boombuler"
	Location       *time.Location // event timestamps without offset are read in this zone
	MaxLogoBytes   int64          // upload limit for logos
	DefaultLogo    string         // optional image embedded in new sessions
	PresetsFile    string         // optional YAML with variant defaults
	ReloadInterval time.Duration  // interval to reload PresetsFile
	LockedURL      bool           // read-only Url form fed by ?urlPage=

	// Export rate limit
	ExportBurst  int
	ExportPerMin int

	// Redis (only with HistoryBackend=redis)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("QRGEN_LISTEN_PORT", "127.0.0.1:8080"),
		ShutdownTimeout: mustDuration("QRGEN_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("QRGEN_LOG_LEVEL", "info"),
		PrettyLog: mustBool("QRGEN_PRETTY_LOG", true),

		// History
		HistoryBackend:   mustChoice("QRGEN_HISTORY_BACKEND", BackendFile, BackendFile, BackendRedis, BackendMemory),
		HistoryFile:      getenv("QRGEN_HISTORY_FILE", "qrgen-history.yaml"),
		HistoryLimit:     getenvInt("QRGEN_HISTORY_LIMIT", 10),
		HistoryRetention: getenvInt("QRGEN_HISTORY_RETENTION", 0),
		CompactInterval:  mustDuration("QRGEN_COMPACT_INTERVAL", 24*time.Hour),

		// Rendering and session
		Encoder:        mustChoice("QRGEN_ENCODER", "skip2", "skip2", "boombuler"),
		Location:       mustLocation("QRGEN_TIMEZONE", time.Local),
		MaxLogoBytes:   int64(getenvInt("QRGEN_MAX_LOGO_BYTES", 2<<20)),
		DefaultLogo:    getenv("QRGEN_DEFAULT_LOGO", ""),
		PresetsFile:    getenv("QRGEN_PRESETS_FILE", ""), // Optional, empty = blank defaults
		ReloadInterval: mustDuration("QRGEN_RELOAD_INTERVAL", time.Hour),
		LockedURL:      mustBool("QRGEN_LOCKED_URL", false),

		ExportBurst:  getenvInt("QRGEN_EXPORT_BURST", 10),
		ExportPerMin: getenvInt("QRGEN_EXPORT_PER_MIN", 30),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("QRGEN_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("QRGEN_TRUST_PROXY", false),
	}

	if cfg.HistoryBackend == BackendRedis {
		cfg.RedisAddr = requireEnv("QRGEN_REDIS_ADDR")
		cfg.RedisUser = getenv("QRGEN_REDIS_USERNAME", "default")
		cfg.RedisPasswordRequired = mustBool("QRGEN_REDIS_PASSWORD_REQUIRED", false)
		cfg.RedisPassword = getenv("QRGEN_REDIS_PASSWORD", "")
		cfg.RedisDB = getenvInt("QRGEN_REDIS_DB", 0)
		cfg.RedisDT = mustDuration("QRGEN_REDIS_DIAL_TIMEOUT", 5*time.Second)
		cfg.RedisRT = mustDuration("QRGEN_REDIS_READ_TIMEOUT", 3*time.Second)
		cfg.RedisWT = mustDuration("QRGEN_REDIS_WRITE_TIMEOUT", 3*time.Second)
		cfg.RedisMaxWait = mustDuration("QRGEN_REDIS_MAX_WAIT", 10*time.Second)
		cfg.RedisPingTimeout = mustDuration("QRGEN_REDIS_PING_TIMEOUT", 5*time.Second)
		cfg.RedisPoolSize = getenvInt("QRGEN_REDIS_POOL_SIZE", 10)
		cfg.RedisConnectTimeout = mustDuration("QRGEN_REDIS_CONNECT_TIMEOUT", 30*time.Second)
		cfg.RedisRetryInterval = mustDuration("QRGEN_REDIS_RETRY_INTERVAL", 2*time.Second)
		cfg.RedisWarnThreshold = getenvInt("QRGEN_REDIS_WARN_THRESHOLD", 3)

		// Validate Redis password configuration
		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: QRGEN_REDIS_PASSWORD is required when QRGEN_REDIS_PASSWORD_REQUIRED=true")
		}
	}

	if cfg.HistoryLimit <= 0 {
		panic(fmt.Sprintf("❌ FATAL: QRGEN_HISTORY_LIMIT must be positive, got %d", cfg.HistoryLimit))
	}
	if cfg.HistoryRetention > 0 && cfg.HistoryRetention < cfg.HistoryLimit {
		panic(fmt.Sprintf("❌ FATAL: QRGEN_HISTORY_RETENTION (%d) must not be below QRGEN_HISTORY_LIMIT (%d)",
			cfg.HistoryRetention, cfg.HistoryLimit))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// mustChoice returns the lower-cased value of key, which must be one of allowed.
func mustChoice(key, def string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(getenv(key, def)))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	panic(fmt.Sprintf("❌ FATAL: Invalid value for %s: %q (allowed: %s)", key, v, strings.Join(allowed, ", ")))
}

func mustLocation(key string, def *time.Location) *time.Location {
	v := os.Getenv(key)
	if v == "" || v == "Local" {
		return def
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid time zone for %s: %s", key, v))
	}
	return loc
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
