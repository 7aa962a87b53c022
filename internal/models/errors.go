package models

import (
	"errors"
)

// Session-related errors
var (
	// ErrNotLoggedIn is returned when no saved session exists
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrSessionExpired is returned when the saved session is past its expiry
	ErrSessionExpired = errors.New("session expired, please log in again")

	// ErrLoginTimeout is returned when the login poll gives up
	ErrLoginTimeout = errors.New("login timed out")
)

// Input validation errors
var (
	// ErrEmptyTitle is returned when a project title is blank
	ErrEmptyTitle = errors.New("project title is required")

	// ErrEmptyContext is returned when a configuration context is blank
	ErrEmptyContext = errors.New("configuration context is required")

	// ErrQueryTooShort is returned for user searches under the minimum length
	ErrQueryTooShort = errors.New("search query must be at least 2 characters")
)
