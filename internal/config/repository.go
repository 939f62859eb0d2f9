package config

import (
	"context"
	"fmt"
	"os"

	"singletask/internal/repository/sqlite"
	"singletask/internal/snapshot"
)

// CreateRepository opens the database named by the configuration, creating the
// storage directory if needed
func CreateRepository(ctx context.Context, config *Config) (*sqlite.SQLiteRepository, error) {
	if err := os.MkdirAll(config.Storage.Dir, config.GetDirPermissions()); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	repo, err := sqlite.New(ctx, config.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateSnapshotStore returns the snapshot store named by the configuration
func CreateSnapshotStore(config *Config) *snapshot.Store {
	return snapshot.New(config.GetSnapshotPath(), config.GetDirPermissions())
}
