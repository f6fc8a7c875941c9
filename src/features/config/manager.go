package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Manager holds the application configuration and provides thread-safe access to it.
type Manager struct {
	mu     sync.RWMutex
	config *Config
}

// NewManager creates a new Manager.
func NewManager(config *Config) *Manager {
	return &Manager{config: config}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Update replaces the configuration.
func (m *Manager) Update(config *Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldConfig := m.config
	m.config = config

	if oldConfig != nil {
		slog.Debug("Configuration updated",
			"data_path_changed", oldConfig.DataPath != config.DataPath,
			"logger_level_changed", oldConfig.Logger.Level != config.Logger.Level,
			"telegram_enabled_changed", oldConfig.Telegram.Enabled != config.Telegram.Enabled,
		)
	}
}

// CoversPath returns the root directory for stored cover images.
func (m *Manager) CoversPath() string {
	return filepath.Join(m.Get().DataPath, "covers")
}

// MusicPath returns the root directory for stored audio files.
func (m *Manager) MusicPath() string {
	return filepath.Join(m.Get().DataPath, "music")
}

// EnsureDirectories creates the covers and music directories if they don't exist.
func (m *Manager) EnsureDirectories() error {
	for _, dir := range []string{m.CoversPath(), m.MusicPath()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	slog.Info("Required directories created/verified", "covers", m.CoversPath(), "music", m.MusicPath())
	return nil
}
