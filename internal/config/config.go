// Package config provides configuration management for the metrics collector.
// It defines configuration structures and default values for collection runs.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Site describes one monitored site and the pages to measure on it.
type Site struct {
	Name    string   `mapstructure:"name" yaml:"name"`         // Display name, stored alongside the site row
	BaseURL string   `mapstructure:"base_url" yaml:"base_url"` // Site origin, natural unique key (scheme + host)
	Pages   []string `mapstructure:"pages" yaml:"pages"`       // Page paths, absolute or relative to base_url
}

// Config holds the full collector configuration. It is constructed at
// startup and passed by reference into each component; nothing reads
// configuration from ambient globals.
type Config struct {
	Sites          []Site        `mapstructure:"sites" yaml:"sites"`                     // Sites and pages to measure
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`           // HTTP User-Agent header
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"` // Page fetch timeout
	TLSTimeout     time.Duration `mapstructure:"tls_timeout" yaml:"tls_timeout"`         // Certificate inspection dial timeout
	RequestDelay   float64       `mapstructure:"request_delay" yaml:"request_delay"`     // Delay between fetches in seconds
	DatabasePath   string        `mapstructure:"database_path" yaml:"database_path"`     // Path to SQLite database file
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`             // debug, info, warn, error
	LogFile        string        `mapstructure:"log_file" yaml:"log_file"`               // Optional log file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		UserAgent:      "PagePulse/1.0",
		RequestTimeout: 30 * time.Second,
		TLSTimeout:     5 * time.Second,
		RequestDelay:   0.1,
		DatabasePath:   "./pagepulse.db",
		LogLevel:       "info",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return ErrNoSites
	}

	for _, site := range c.Sites {
		u, err := url.Parse(site.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %q (site %q)", ErrInvalidBaseURL, site.BaseURL, site.Name)
		}
		if len(site.Pages) == 0 {
			return fmt.Errorf("%w: site %q", ErrNoPages, site.Name)
		}
	}

	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.TLSTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.DatabasePath == "" {
		return ErrEmptyDatabasePath
	}

	return nil
}

// PageCount returns the total number of configured pages across all sites.
func (c *Config) PageCount() int {
	n := 0
	for _, site := range c.Sites {
		n += len(site.Pages)
	}
	return n
}
