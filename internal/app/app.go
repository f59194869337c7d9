package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/glitchdraft/draftsync/internal/config"
	"github.com/glitchdraft/draftsync/internal/engine"
	"github.com/glitchdraft/draftsync/internal/httpserver"
	"github.com/glitchdraft/draftsync/internal/httpserver/deps"
	"github.com/glitchdraft/draftsync/internal/hub"
	"github.com/glitchdraft/draftsync/internal/logger"
	"github.com/glitchdraft/draftsync/internal/redis"
	"github.com/glitchdraft/draftsync/internal/remote"
	"github.com/glitchdraft/draftsync/internal/scheduler"
	redisstore "github.com/glitchdraft/draftsync/internal/store/redis"
	"github.com/glitchdraft/draftsync/internal/syncconfig"
	"github.com/glitchdraft/draftsync/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	manager     *syncconfig.Manager
	watcher     *syncconfig.Watcher
	eventHub    *hub.Hub
	engine      *engine.Engine
	poller      *scheduler.Poller
	stream      *scheduler.StreamWatcher
	syncTrigger chan struct{}
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Local mirror over Redis
	store := redisstore.NewStore(redisClient)

	// Remote store configuration: file first, mirror as fallback, kept
	// fresh by the file watcher.
	manager := syncconfig.NewManager(cfg.SyncConfigFile, store, loggerClient)
	watcher := syncconfig.NewWatcher(manager, loggerClient)

	// Identifies this daemon's writes in lastModifiedBy.
	clientID := uuid.NewString()

	remoteClient := remote.NewClient(manager, clientID, loggerClient)

	eventHub := hub.NewHub(loggerClient)

	eng := engine.New(engine.Options{
		Remote:     remoteClient,
		Cache:      store,
		Events:     eventHub,
		Config:     manager,
		Logger:     loggerClient,
		ClientID:   clientID,
		DirtyGrace: cfg.DirtyWindowGrace,
	})

	// Manual sync trigger channel
	syncTrigger := make(chan struct{}, 1)

	poller := scheduler.NewPoller(eng, loggerClient, cfg.PollInterval, syncTrigger)
	stream := scheduler.NewStreamWatcher(
		remoteClient,
		eng,
		loggerClient,
		cfg.StreamErrorBackoff,
		cfg.StreamEndBackoff,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		Engine:         eng,
		Hub:            eventHub,
		RedisClient:    redisClient,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		manager:     manager,
		watcher:     watcher,
		eventHub:    eventHub,
		engine:      eng,
		poller:      poller,
		stream:      stream,
		syncTrigger: syncTrigger,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting draftsync v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("draftsync %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the sync config; the daemon runs unconfigured if there is
	// none yet, serving the local mirror until credentials show up.
	if err := a.manager.Load(ctx); err != nil {
		a.logger.Warn("failed to load sync config, starting unconfigured",
			logger.Error(err))
	}

	if err := a.watcher.Start(ctx); err != nil {
		a.logger.Warn("config file watcher unavailable, edits need a restart",
			logger.Error(err))
	}

	go a.eventHub.Run()
	go a.watchConfigChanges(ctx)

	if err := a.poller.Start(ctx); err != nil {
		return fmt.Errorf("failed to start poller: %w", err)
	}
	a.logger.Info("sync poller started",
		logger.Duration("interval", a.cfg.PollInterval))

	if err := a.stream.Start(ctx); err != nil {
		return fmt.Errorf("failed to start stream watcher: %w", err)
	}
	a.logger.Info("settings stream watcher started")

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

	a.poller.Stop()
	a.stream.Stop()
	a.watcher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ draftsync stopped cleanly")
	return nil
}

// watchConfigChanges reacts to a reloaded sync config: the engine's
// observation baselines are stale against the new backend, the stream
// holds a connection to the old one, and the overlay should re-render
// its status section.
func (a *App) watchConfigChanges(ctx context.Context) {
	for {
		select {
		case <-a.manager.Changes():
			a.logger.Info("sync configuration applied")
			a.engine.Reset()
			a.stream.Restart()
			select {
			case a.syncTrigger <- struct{}{}:
			default:
			}
			a.eventHub.Publish(hub.Event{
				Type:    hub.StatusChanged,
				Message: "Sync configuration updated",
			})
		case <-ctx.Done():
			return
		}
	}
}
