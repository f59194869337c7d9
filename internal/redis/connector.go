package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glitchdraft/draftsync/internal/logger"
)

// ConnectOptions defines how the local cache connection is established
// and retried. The daemon is useless without its cache, so New blocks
// until the connection is up or the total timeout expires.
type ConnectOptions struct {
	Addr           string        // Redis address (ex: "localhost:6379")
	Password       string        // Optional password
	DB             int           // Redis DB number
	DialTimeout    time.Duration // Per-dial timeout
	PoolSize       int           // Connection pool size
	ConnectTimeout time.Duration // Total time allowed for connection attempts
	RetryInterval  time.Duration // Initial wait between retries, grows exponentially
	MaxWait        time.Duration // Cap on the wait between retries
	PingTimeout    time.Duration // Timeout for each ping attempt
	WarnThreshold  int           // Log at error level past this many attempts
}

// New connects to the cache, retrying with exponential backoff until
// ConnectTimeout is exhausted.
func New(opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if opts.ConnectTimeout <= 0 {
		return nil, fmt.Errorf("ConnectTimeout must be > 0, got %v", opts.ConnectTimeout)
	}
	if opts.RetryInterval <= 0 {
		return nil, fmt.Errorf("RetryInterval must be > 0, got %v", opts.RetryInterval)
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
		PoolSize:    opts.PoolSize,
	})

	deadline := time.Now().Add(opts.ConnectTimeout)
	wait := opts.RetryInterval
	attempt := 0

	for {
		attempt++
		pingCtx, cancel := context.WithTimeout(context.Background(), opts.PingTimeout)
		err := client.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("connected to redis after retry",
					logger.String("addr", opts.Addr),
					logger.Int("attempts", attempt))
			} else {
				log.Info("connected to redis",
					logger.String("addr", opts.Addr))
			}
			return client, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			_ = client.Close()
			log.Error("redis unavailable - failed to connect after timeout",
				logger.String("addr", opts.Addr),
				logger.Int("attempts", attempt),
				logger.Error(err))
			return nil, fmt.Errorf("failed to connect to redis at %s after %d attempts: %w", opts.Addr, attempt, err)
		}

		if attempt <= opts.WarnThreshold {
			log.Warn("redis connection failed, retrying",
				logger.String("addr", opts.Addr),
				logger.Int("attempt", attempt),
				logger.Duration("next_retry_in", wait),
				logger.Error(err))
		} else {
			log.Error("redis still unavailable - connection attempts failing",
				logger.String("addr", opts.Addr),
				logger.Int("attempt", attempt),
				logger.Duration("next_retry_in", wait),
				logger.Error(err))
		}

		if wait > remaining {
			wait = remaining
		}
		time.Sleep(wait)

		wait *= 2
		if opts.MaxWait > 0 && wait > opts.MaxWait {
			wait = opts.MaxWait
		}
	}
}
