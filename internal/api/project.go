package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"specter/internal/models"
)

// ListProjects retrieves all projects the current user belongs to
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// CreateProject creates a new project owned by the current user
func (c *Client) CreateProject(ctx context.Context, title string) (*models.Project, error) {
	var project models.Project
	body := map[string]string{"title": title}
	if err := c.doJSON(ctx, http.MethodPost, "/api/projects", body, &project); err != nil {
		return nil, fmt.Errorf("project creation failed: %w", err)
	}
	return &project, nil
}

// GetProject retrieves a project with its user roster
func (c *Client) GetProject(ctx context.Context, projectID int64) (*models.Project, error) {
	var project models.Project
	if err := c.doJSON(ctx, http.MethodGet, projectPath(projectID), nil, &project); err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", projectID, err)
	}
	return &project, nil
}

// UpdateProject renames a project
func (c *Client) UpdateProject(ctx context.Context, projectID int64, title string) (*models.Project, error) {
	var project models.Project
	body := map[string]string{"title": title}
	if err := c.doJSON(ctx, http.MethodPut, projectPath(projectID), body, &project); err != nil {
		return nil, fmt.Errorf("project update failed: %w", err)
	}
	return &project, nil
}

// DeleteProject deletes a project
func (c *Client) DeleteProject(ctx context.Context, projectID int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, projectPath(projectID), nil, nil); err != nil {
		return fmt.Errorf("project deletion failed: %w", err)
	}
	return nil
}

// AddUserToProject attaches a user and returns the updated project
func (c *Client) AddUserToProject(ctx context.Context, projectID int64, userID string) (*models.Project, error) {
	var project models.Project
	body := models.AddUserRequest{UserID: userID}
	if err := c.doJSON(ctx, http.MethodPost, projectPath(projectID)+"/users", body, &project); err != nil {
		return nil, fmt.Errorf("failed to add user to project: %w", err)
	}
	return &project, nil
}

// RemoveUserFromProject detaches a user and returns the updated project
func (c *Client) RemoveUserFromProject(ctx context.Context, projectID int64, userID string) (*models.Project, error) {
	var project models.Project
	path := fmt.Sprintf("%s/users/%s", projectPath(projectID), url.PathEscape(userID))
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &project); err != nil {
		return nil, fmt.Errorf("failed to remove user from project: %w", err)
	}
	return &project, nil
}

func projectPath(projectID int64) string {
	return fmt.Sprintf("/api/projects/%d", projectID)
}
