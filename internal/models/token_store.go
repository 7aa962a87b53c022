package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type TokenStore struct {
	TokenFile string
}

func NewTokenStore(configDir string) *TokenStore {
	return &TokenStore{
		TokenFile: filepath.Join(configDir, "auth.json"),
	}
}

// SaveSession writes a session that expires SessionLifetime from now
func (ts *TokenStore) SaveSession(token string, userID string, now time.Time) (*Session, error) {
	session := &Session{
		AccessToken: token,
		UserID:      userID,
		Expiry:      now.Add(SessionLifetime).Unix(),
	}

	if err := os.MkdirAll(filepath.Dir(ts.TokenFile), 0700); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(ts.TokenFile, data, 0600); err != nil { // Restricted permissions
		return nil, err
	}
	return session, nil
}

// GetSession loads the saved session. Missing files yield ErrNotLoggedIn.
func (ts *TokenStore) GetSession() (*Session, error) {
	data, err := os.ReadFile(ts.TokenFile)
	if os.IsNotExist(err) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", ts.TokenFile, err)
	}
	if strings.TrimSpace(session.AccessToken) == "" {
		return nil, ErrNotLoggedIn
	}
	return &session, nil
}

// GetToken returns the access token of a saved, unexpired session
func (ts *TokenStore) GetToken() (string, error) {
	session, err := ts.GetSession()
	if err != nil {
		return "", err
	}
	if session.Expired(time.Now()) {
		return "", ErrSessionExpired
	}
	return session.AccessToken, nil
}

func (ts *TokenStore) ClearToken() error {
	if _, err := os.Stat(ts.TokenFile); os.IsNotExist(err) {
		return nil // File doesn't exist, nothing to clear
	}
	return os.Remove(ts.TokenFile)
}
