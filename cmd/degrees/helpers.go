package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/Veraticus/six-degrees/internal/common"
	"github.com/Veraticus/six-degrees/internal/config"
	"github.com/Veraticus/six-degrees/internal/gmail"
	"github.com/Veraticus/six-degrees/internal/service"
	"github.com/Veraticus/six-degrees/internal/storage"
)

// initStorage opens the configured database and brings its schema current.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// gmailOAuthConfig builds the OAuth2 settings from config. Client id and
// secret must be present; there is no interactive fallback for those.
func gmailOAuthConfig() (gmail.OAuth2Config, error) {
	cfg := gmail.OAuth2Config{
		ClientID:     viper.GetString("gmail.client_id"),
		ClientSecret: viper.GetString("gmail.client_secret"),
		TokenFile:    config.ExpandPath(viper.GetString("gmail.token_file")),
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return cfg, fmt.Errorf("%w: gmail.client_id and gmail.client_secret must be set", common.ErrMissingConfig)
	}
	return cfg, nil
}
