package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/qrgen/internal/logger"
	"github.com/MrSnakeDoc/qrgen/internal/session"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time            // for testing, defaults to time.Now
	AllowedCIDRS   []string                    // IPs allowed to reach the API
	TrustProxy     bool                        // true if running behind a trusted reverse proxy
	Controller     *session.Controller         // the single user session
	HistoryBackend string                      // "file" | "redis" | "memory", reported by readyz
	HistoryPing    func(context.Context) error // nil when the backend needs no health check
	ReloadTrigger  chan struct{}               // Channel to trigger a presets reload (nil if no presets file)
	ExportBurst    int                         // export rate limit bucket size
	ExportPerMin   int                         // export rate limit refill per minute
	MaxLogoBytes   int64                       // upload cap for logo images
}
