package api

import (
	"context"
	"fmt"
	"net/http"

	"specter/internal/models"
)

// CreateConfiguration adds a configuration to a project
func (c *Client) CreateConfiguration(ctx context.Context, projectID int64, contextText string) (*models.Configuration, error) {
	var cfg models.Configuration
	body := map[string]string{"context": contextText}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/configs/%d", projectID), body, &cfg); err != nil {
		return nil, fmt.Errorf("configuration creation failed: %w", err)
	}
	return &cfg, nil
}

// ListProjectConfigurations retrieves the configurations of one project
func (c *Client) ListProjectConfigurations(ctx context.Context, projectID int64) ([]models.Configuration, error) {
	var configs []models.Configuration
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/configs/project/%d", projectID), nil, &configs); err != nil {
		return nil, fmt.Errorf("failed to list configurations: %w", err)
	}
	return configs, nil
}

// UpdateConfiguration replaces the context text of a configuration
func (c *Client) UpdateConfiguration(ctx context.Context, configID int64, contextText string) (*models.Configuration, error) {
	var cfg models.Configuration
	body := map[string]string{"context": contextText}
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/configs/%d", configID), body, &cfg); err != nil {
		return nil, fmt.Errorf("configuration update failed: %w", err)
	}
	return &cfg, nil
}

// DeleteConfiguration deletes a configuration
func (c *Client) DeleteConfiguration(ctx context.Context, configID int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/configs/%d", configID), nil, nil); err != nil {
		return fmt.Errorf("configuration deletion failed: %w", err)
	}
	return nil
}
