package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// CountriesConfig configures the REST Countries client and its cache.
type CountriesConfig struct {
	APIURL   string `toml:"api_url"`
	Timeout  string `toml:"timeout"`
	CacheTTL string `toml:"cache_ttl"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *CountriesConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *CountriesConfig) Merge(overlay *CountriesConfig) {
	if overlay.APIURL != "" {
		c.APIURL = overlay.APIURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
}

// TimeoutDuration parses the client timeout.
func (c *CountriesConfig) TimeoutDuration() time.Duration { return mustDuration(c.Timeout) }

// CacheTTLDuration parses the cache TTL.
func (c *CountriesConfig) CacheTTLDuration() time.Duration { return mustDuration(c.CacheTTL) }

func (c *CountriesConfig) loadDefaults() {
	if c.APIURL == "" {
		c.APIURL = "https://restcountries.com/v3.1"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "1h"
	}
}

func (c *CountriesConfig) loadEnv() {
	if v := os.Getenv("COUNTRIES_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("COUNTRIES_CACHE_TTL"); v != "" {
		c.CacheTTL = v
	}
}

func (c *CountriesConfig) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q", c.APIURL)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache_ttl: %w", err)
	}
	return nil
}
