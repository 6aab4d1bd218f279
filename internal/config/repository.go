package config

import (
	"fmt"
	"os"

	"task-manager/internal/reminder"
	"task-manager/internal/repository/sqlite"
	"task-manager/internal/settings"
	"task-manager/internal/storage/bolt"
)

// CreateRepository creates a repository instance using the configuration system
func CreateRepository(config *Config) (sqlite.Repository, error) {
	if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	repo, err := sqlite.New(config.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqlite.Repository, error) {
	repo, err := sqlite.New(sqlite.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}

// OpenStateStore opens the BoltDB file holding settings and reminder jobs.
func OpenStateStore(config *Config) (*bolt.Store, error) {
	store, err := bolt.Open(config.GetStatePath(), settings.Bucket, reminder.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return store, nil
}

// CreateSettingsStore returns the settings store selected by the
// configuration. state may be nil when settings are not persisted.
func CreateSettingsStore(config *Config, state *bolt.Store) settings.Store {
	if config.Settings.Persist && state != nil {
		return settings.NewBoltStore(state)
	}
	return settings.NewMemoryStore()
}
