package syncconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glitchdraft/draftsync/internal/logger"
)

type memMirror struct {
	cfg    *Config
	getErr error
}

func (m *memMirror) GetSyncConfig(context.Context) (*Config, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	return m.cfg, m.cfg != nil, nil
}

func (m *memMirror) SetSyncConfig(_ context.Context, cfg *Config) error {
	m.cfg = cfg
	return nil
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sync-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, "projectId: my-project\napiKey: secret\n")
	mirror := &memMirror{}
	m := NewManager(path, mirror, logger.Nop())

	require.NoError(t, m.Load(context.Background()))

	cfg, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "my-project", cfg.ProjectID)
	assert.Equal(t, "secret", cfg.APIKey)

	// The loaded config was mirrored for the next cold start.
	require.NotNil(t, mirror.cfg)
	assert.Equal(t, "my-project", mirror.cfg.ProjectID)

	select {
	case <-m.Changes():
	default:
		t.Fatal("Load must signal a change")
	}
}

func TestLoadMissingFileFallsBackToMirror(t *testing.T) {
	mirror := &memMirror{cfg: &Config{ProjectID: "mirrored", APIKey: "k"}}
	m := NewManager(filepath.Join(t.TempDir(), "nope.yaml"), mirror, logger.Nop())

	require.NoError(t, m.Load(context.Background()))

	cfg, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "mirrored", cfg.ProjectID)
}

func TestLoadMissingFileNoMirrorStaysUnconfigured(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "nope.yaml"), &memMirror{}, logger.Nop())

	require.NoError(t, m.Load(context.Background()))

	_, ok := m.Current()
	assert.False(t, ok)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad yaml", content: ":\n  not yaml {"},
		{name: "missing projectId", content: "apiKey: secret\n"},
		{name: "missing apiKey", content: "projectId: p\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(writeConfigFile(t, tt.content), &memMirror{}, logger.Nop())
			require.Error(t, m.Load(context.Background()))

			_, ok := m.Current()
			assert.False(t, ok)
		})
	}
}

func TestBaseURL(t *testing.T) {
	cfg := &Config{ProjectID: "p"}
	assert.Equal(t,
		"https://firestore.googleapis.com/v1/projects/p/databases/(default)/documents",
		cfg.BaseURL())

	cfg.Endpoint = "http://localhost:9099/v1"
	assert.Equal(t,
		"http://localhost:9099/v1/projects/p/databases/(default)/documents",
		cfg.BaseURL())
}
