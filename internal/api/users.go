package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"specter/internal/models"
)

// MinSearchLength is the shortest query sent to the user search endpoint
const MinSearchLength = 2

// WhoAmI fetches the signed-in user, syncing them into the backend's
// user table on first call
func (c *Client) WhoAmI(ctx context.Context) (*models.WhoAmI, error) {
	var me models.WhoAmI
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/whoami", nil, &me); err != nil {
		return nil, fmt.Errorf("failed to fetch user details: %w", err)
	}
	return &me, nil
}

// SearchUsers finds users by email or username. Queries shorter than
// MinSearchLength are rejected without a request.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < MinSearchLength {
		return nil, models.ErrQueryTooShort
	}

	var users []models.User
	path := "/api/users/search?q=" + url.QueryEscape(query)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}
