package models

import "time"

// Session holds the credentials saved after a successful login
type Session struct {
	AccessToken string `json:"access_token"`
	Expiry      int64  `json:"expiry"`
	UserID      string `json:"user_id"`
}

// Expired reports whether the session is past its expiry at the given time.
// A zero expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	if s.Expiry == 0 {
		return false
	}
	return now.Unix() >= s.Expiry
}

// LoginStatus is the response of the login poll endpoint
type LoginStatus struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	ID     string `json:"id"`
}

// Login poll states reported by the backend
const (
	LoginPending   = "pending"
	LoginCompleted = "completed"
	LoginNotFound  = "not_found"
)

// SessionLifetime is how long a saved session is considered valid
const SessionLifetime = 24 * time.Hour
