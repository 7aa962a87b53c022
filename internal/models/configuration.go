package models

// Configuration is a free-text context record scoped to one project
type Configuration struct {
	ID      int64   `json:"id"`
	Context string  `json:"context"`
	User    User    `json:"user"`
	Project Project `json:"project"`
}
