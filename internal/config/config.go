package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8990"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SyncConfigFile     string        // path to the sync config yaml (projectId/apiKey)
	PollInterval       time.Duration // how often to reconcile against the remote store (default: 2s)
	DirtyWindowGrace   time.Duration // echo suppression after a local write (default: 3s)
	StreamErrorBackoff time.Duration // reconnect delay after a stream failure (default: 5s)
	StreamEndBackoff   time.Duration // reconnect delay after a clean stream end (default: 3s)

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisPassword       string        // optional, empty for a local instance
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedOrigins []string // browser origins allowed to reach the API and event socket
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("DRAFTSYNC_LISTEN_PORT", "127.0.0.1:8990"),
		ShutdownTimeout: mustDuration("DRAFTSYNC_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("DRAFTSYNC_LOG_LEVEL", "info"),
		PrettyLog: mustBool("DRAFTSYNC_PRETTY_LOG", true),

		// Sync engine
		SyncConfigFile:     getenv("DRAFTSYNC_SYNC_CONFIG_FILE", "sync-config.yaml"),
		PollInterval:       mustDuration("DRAFTSYNC_POLL_INTERVAL", 2*time.Second),
		DirtyWindowGrace:   mustDuration("DRAFTSYNC_DIRTY_WINDOW_GRACE", 3*time.Second),
		StreamErrorBackoff: mustDuration("DRAFTSYNC_STREAM_ERROR_BACKOFF", 5*time.Second),
		StreamEndBackoff:   mustDuration("DRAFTSYNC_STREAM_END_BACKOFF", 3*time.Second),

		// Redis settings
		RedisAddr:           getenv("DRAFTSYNC_REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getenv("DRAFTSYNC_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("DRAFTSYNC_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedOrigins: splitAndTrim(getenv("DRAFTSYNC_ALLOWED_ORIGINS", "")),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
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
