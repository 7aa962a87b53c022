package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"specter/internal/logging"
	"specter/internal/models"
)

// Login polling defaults
const (
	DefaultPollInterval = 2 * time.Second
	DefaultLoginTimeout = 5 * time.Minute
)

// AuthClient talks to the unauthenticated one-time-code login endpoints
type AuthClient struct {
	api *Client
}

// NewAuthClient creates an auth client. A nil httpClient uses
// http.DefaultClient.
func NewAuthClient(baseURL string, httpClient AuthorizedHTTPClient, logger *slog.Logger) *AuthClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuthClient{api: NewClient(baseURL, httpClient, WithLogger(logger))}
}

// RequestCode asks the backend to email a one-time code to the address
func (a *AuthClient) RequestCode(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := a.api.doJSON(ctx, http.MethodPost, "/api/auth/magic-link", body, nil); err != nil {
		return fmt.Errorf("could not trigger login code: %w", err)
	}
	return nil
}

// PollLogin reports the current state of a pending login
func (a *AuthClient) PollLogin(ctx context.Context, email string) (*models.LoginStatus, error) {
	var status models.LoginStatus
	path := "/api/auth/poll?email=" + url.QueryEscape(email)
	if err := a.api.doJSON(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, fmt.Errorf("error polling login status: %w", err)
	}
	return &status, nil
}

// VerifyOTP submits the emailed code, completing the pending login
func (a *AuthClient) VerifyOTP(ctx context.Context, email, otp string) error {
	body := map[string]string{"email": email, "otp": strings.TrimSpace(otp)}
	if err := a.api.doJSON(ctx, http.MethodPost, "/api/auth/verify-otp", body, nil); err != nil {
		return fmt.Errorf("code verification failed: %w", err)
	}
	return nil
}

// WaitForLogin polls until the login completes, the timeout passes or ctx
// is done. Transient poll errors are logged and retried on the next tick.
func (a *AuthClient) WaitForLogin(ctx context.Context, email string, interval, timeout time.Duration) (*models.LoginStatus, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultLoginTimeout
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, models.ErrLoginTimeout
		case <-ticker.C:
			status, err := a.PollLogin(ctx, email)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				a.api.logger.Warn("login poll failed", "email", email, "error", err)
				continue
			}
			if status.Status == models.LoginCompleted && status.Token != "" {
				return status, nil
			}
		}
	}
}
