package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"specter/internal/api"
	"specter/internal/colormode"
	"specter/internal/models"
	"specter/internal/storage"
)

func tokenStore() *models.TokenStore {
	return models.NewTokenStore(globalDir)
}

// localStorage is the key/value file shared with the dashboard
func localStorage() *storage.Store {
	return storage.Open(filepath.Join(globalDir, "storage.json"))
}

func themeStore() *colormode.Store {
	return colormode.Open(localStorage())
}

// authedClient builds an API client from the saved session
func authedClient(ctx context.Context) (*api.Client, error) {
	if err := globalConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	token, err := tokenStore().GetToken()
	if errors.Is(err, models.ErrNotLoggedIn) {
		return nil, fmt.Errorf("%w: run 'specter login' first", err)
	}
	if err != nil {
		return nil, err
	}

	return api.NewBearerClient(ctx, globalConfig.BackendURL(), token, api.WithLogger(logger)), nil
}
