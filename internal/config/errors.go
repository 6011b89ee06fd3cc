package config

import "errors"

var (
	// ErrNoSites is returned when no sites are configured
	ErrNoSites = errors.New("no sites configured")
	// ErrNoPages is returned when a site has no pages configured
	ErrNoPages = errors.New("site has no pages configured")
	// ErrInvalidBaseURL is returned when a site's base_url lacks a scheme or host
	ErrInvalidBaseURL = errors.New("base_url must include scheme and host")
	// ErrInvalidTimeout is returned when a timeout is not greater than 0
	ErrInvalidTimeout = errors.New("timeouts must be greater than 0")
	// ErrEmptyDatabasePath is returned when database path is empty
	ErrEmptyDatabasePath = errors.New("database_path cannot be empty")
)
