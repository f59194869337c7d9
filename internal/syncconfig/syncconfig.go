package syncconfig

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/glitchdraft/draftsync/internal/logger"
)

// DefaultEndpoint is the document store's REST base URL. Overridable for
// self-hosted emulators and tests.
const DefaultEndpoint = "https://firestore.googleapis.com/v1"

// Config is the user-supplied connection descriptor for the remote
// document store. Without it the daemon runs local-only and every remote
// operation reports "not configured".
type Config struct {
	ProjectID string `yaml:"projectId" json:"projectId"`
	APIKey    string `yaml:"apiKey" json:"apiKey"`
	Endpoint  string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
}

// Validate checks the fields the wire client cannot work without.
func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("syncconfig: projectId is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("syncconfig: apiKey is required")
	}
	return nil
}

// BaseURL returns the document root for this project.
func (c *Config) BaseURL() string {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return fmt.Sprintf("%s/projects/%s/databases/(default)/documents", endpoint, c.ProjectID)
}

// Mirror persists the last good config so the daemon can start in
// configured mode even when the file is temporarily missing.
type Mirror interface {
	GetSyncConfig(ctx context.Context) (*Config, bool, error)
	SetSyncConfig(ctx context.Context, cfg *Config) error
}

// Manager owns the current config: loads it from the YAML file, mirrors
// it, and hands out the in-memory copy to the remote client.
type Manager struct {
	path   string
	mirror Mirror
	logger logger.Logger

	mu      sync.RWMutex
	current *Config

	changes chan struct{}
}

func NewManager(path string, mirror Mirror, log logger.Logger) *Manager {
	return &Manager{
		path:    path,
		mirror:  mirror,
		logger:  log,
		changes: make(chan struct{}, 1),
	}
}

// Load reads the config file. A missing file is not an error: the daemon
// degrades to local-only mode, falling back to the mirrored copy if one
// exists.
func (m *Manager) Load(ctx context.Context) error {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		m.logger.Info("sync config file not found, checking cache mirror",
			logger.String("path", m.path))
		return m.loadFromMirror(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to read sync config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse sync config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.setCurrent(&cfg)

	if m.mirror != nil {
		if err := m.mirror.SetSyncConfig(ctx, &cfg); err != nil {
			m.logger.Warn("failed to mirror sync config to cache",
				logger.Error(err))
		}
	}

	m.logger.Info("sync config loaded",
		logger.String("projectId", cfg.ProjectID))
	return nil
}

func (m *Manager) loadFromMirror(ctx context.Context) error {
	if m.mirror == nil {
		return nil
	}
	cfg, ok, err := m.mirror.GetSyncConfig(ctx)
	if err != nil {
		m.logger.Warn("failed to read sync config from cache mirror",
			logger.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		m.logger.Warn("mirrored sync config is invalid, ignoring",
			logger.Error(err))
		return nil
	}
	m.setCurrent(cfg)
	m.logger.Info("sync config restored from cache mirror",
		logger.String("projectId", cfg.ProjectID))
	return nil
}

func (m *Manager) setCurrent(cfg *Config) {
	m.mu.Lock()
	m.current = cfg
	m.mu.Unlock()

	select {
	case m.changes <- struct{}{}:
	default:
	}
}

// Current returns the in-memory config, or false when not configured.
func (m *Manager) Current() (*Config, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, false
	}
	cfg := *m.current
	return &cfg, true
}

// Changes signals whenever a new config has been applied. Buffered with
// depth 1: consumers coalesce bursts.
func (m *Manager) Changes() <-chan struct{} {
	return m.changes
}
