// Package starvector talks to a hosted image-to-SVG inference model. It is a
// best-effort capability: callers must be prepared for Generate to fail after
// bounded retries and fall back to parametric synthesis.
package starvector

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

type Config struct {
	// Required.
	BaseURL  string
	APIToken string

	RequestTimeout time.Duration // per-call budget, default 60s
	MaxRetries     int           // attempts beyond the first, default 2
	BaseBackoff    time.Duration // first backoff interval, default 500ms

	MaxIdleConns        int // default 100
	MaxIdleConnsPerHost int // default 100

	// Custom HTTP client, mainly for tests.
	HTTPClient *http.Client
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BaseURL is required")
	}
	if c.APIToken == "" {
		return errors.New("APIToken is required")
	}
	return nil
}

// WithDefaults returns a copy of Config with defaults applied.
func (c *Config) WithDefaults() Config {
	cfg := *c

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 500 * time.Millisecond
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = 100
	}

	return cfg
}

func defaultTransport(cfg Config) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
