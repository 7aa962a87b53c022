package models

// User is a read-only reference to an account known to the backend
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// WhoAmI is the backend's view of the signed-in user
type WhoAmI struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	InternalDB string `json:"internal_db,omitempty"`
}

// DisplayName returns the username, falling back to the email
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
