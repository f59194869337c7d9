package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glitchdraft/draftsync/internal/engine"
	"github.com/glitchdraft/draftsync/internal/hub"
	"github.com/glitchdraft/draftsync/internal/logger"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	Engine         *engine.Engine // sync engine behind every API operation
	Hub            *hub.Hub       // websocket fan-out for overlay events
	RedisClient    *redis.Client  // local mirror connection, for readiness checks
	AllowedOrigins []string       // browser origins allowed to call us, empty = allow any
}
