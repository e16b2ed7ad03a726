package main

import (
	"context"
	"fmt"

	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/fraudsight/fraudsight/internal/config"
	"github.com/fraudsight/fraudsight/internal/storage"
	"github.com/spf13/viper"
)

// initStore opens the artifact database and brings its schema up to date.
func initStore(ctx context.Context) (*storage.Store, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// dataPath resolves the configured raw dataset location.
func dataPath() (string, error) {
	path := config.ExpandPath(viper.GetString("data.path"))
	if path == "" {
		return "", fmt.Errorf("%w: data.path", common.ErrMissingConfig)
	}
	return path, nil
}
