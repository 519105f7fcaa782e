package config

import (
	"os"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustChoice(t *testing.T) {
	t.Setenv("TEST_CHOICE", " Redis ")
	if got := mustChoice("TEST_CHOICE", "file", "file", "redis"); got != "redis" {
		t.Errorf("mustChoice() = %q, want redis", got)
	}

	if got := mustChoice("TEST_CHOICE_MISSING", "file", "file", "redis"); got != "file" {
		t.Errorf("mustChoice() default = %q, want file", got)
	}

	t.Setenv("TEST_CHOICE_BAD", "sqlite")
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("mustChoice() should have panicked")
		}
	}()
	mustChoice("TEST_CHOICE_BAD", "file", "file", "redis")
}

func TestMustLocation(t *testing.T) {
	t.Setenv("TEST_TZ", "UTC")
	if got := mustLocation("TEST_TZ", time.Local); got != time.UTC {
		t.Errorf("mustLocation() = %v, want UTC", got)
	}

	t.Setenv("TEST_TZ_LOCAL", "Local")
	if got := mustLocation("TEST_TZ_LOCAL", time.Local); got != time.Local {
		t.Errorf("mustLocation(Local) = %v, want Local", got)
	}

	t.Setenv("TEST_TZ_BAD", "Mars/Olympus_Mons")
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("mustLocation() should have panicked")
		}
	}()
	mustLocation("TEST_TZ_BAD", time.Local)
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenPort != "127.0.0.1:8080" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if cfg.HistoryBackend != BackendFile || cfg.HistoryLimit != 10 || cfg.HistoryRetention != 0 {
		t.Errorf("history = %s/%d/%d", cfg.HistoryBackend, cfg.HistoryLimit, cfg.HistoryRetention)
	}
	if cfg.Encoder != "skip2" || cfg.MaxLogoBytes != 2<<20 {
		t.Errorf("encoder = %s, max logo = %d", cfg.Encoder, cfg.MaxLogoBytes)
	}
	if cfg.RedisAddr != "" {
		t.Error("redis settings should stay empty unless the redis backend is selected")
	}
}

func TestLoadRedisBackendRequiresAddr(t *testing.T) {
	t.Setenv("QRGEN_HISTORY_BACKEND", "redis")
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without QRGEN_REDIS_ADDR")
		}
	}()
	Load()
}

func TestLoadRedisBackend(t *testing.T) {
	t.Setenv("QRGEN_HISTORY_BACKEND", "redis")
	t.Setenv("QRGEN_REDIS_ADDR", "localhost:6379")
	t.Setenv("QRGEN_REDIS_DB", "2")

	cfg := Load()
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 || cfg.RedisConnectTimeout != 30*time.Second {
		t.Errorf("redis cfg = %s db=%d connect=%v", cfg.RedisAddr, cfg.RedisDB, cfg.RedisConnectTimeout)
	}
}

func TestLoadRejectsRetentionBelowLimit(t *testing.T) {
	t.Setenv("QRGEN_HISTORY_RETENTION", "5")
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked")
		}
	}()
	Load()
}

func TestParseAllowedIPs(t *testing.T) {
	got := parseAllowedIPs(`"10.0.0.0/8", 192.168.1.10 ,,`)
	if len(got) != 2 || got[0] != "10.0.0.0/8" || got[1] != "192.168.1.10" {
		t.Errorf("parseAllowedIPs() = %v", got)
	}
	if parseAllowedIPs("") != nil {
		t.Error("parseAllowedIPs(\"\") should be nil")
	}
}
