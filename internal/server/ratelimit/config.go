package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused client bucket is kept.
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns an enabled configuration with the default endpoint tiers.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    300,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig reads RATE_LIMIT_* variables over DefaultConfig.
func LoadConfig(getenv func(string) string) *Config {
	cfg := DefaultConfig()
	cfg.Enabled = envBool(getenv, "RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}

	cfg.DefaultLimit = envInt(getenv, "RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = envDuration(getenv, "RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = envDuration(getenv, "RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Whitelist = parseIPList(getenv("RATE_LIMIT_WHITELIST"))
	cfg.Blacklist = parseIPList(getenv("RATE_LIMIT_BLACKLIST"))
	return cfg
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: calls that hit a generation provider
		{Path: "/api/quiz/submit", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/api/career-path", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/api/career-path/regenerate", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/api/career-path", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},

		// Tier 2: credential endpoints
		{Path: "/api/auth/register", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 3},

		// Tier 3: everything else uses the default limit; /health is unlimited
	}
}

func envInt(getenv func(string) string, key string, fallback int) int {
	if v, err := strconv.Atoi(getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envBool(getenv func(string) string, key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(getenv func(string) string, key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getenv(key)); err == nil {
		return v
	}
	return fallback
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
