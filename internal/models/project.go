package models

// Project is the top-level grouping entity. It owns configurations and a
// roster of users.
type Project struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Users []User `json:"users,omitempty"`
}

// AddUserRequest is the body for attaching a user to a project
type AddUserRequest struct {
	UserID string `json:"user_id"`
}
