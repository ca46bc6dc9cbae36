// Package config loads proxy configuration from file and environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the spotify-proxy configuration.
type Config struct {
	// AccessToken is the OAuth bearer token the proxy forwards requests with.
	AccessToken string

	// Scopes is the space-separated scope list the token was granted.
	Scopes string

	// User identifies the token owner for cache partitioning.
	User string

	// BaseURL overrides the Web API root (for testing).
	BaseURL string

	// UserAgent identifies the proxy to the service.
	UserAgent string

	// RedisURL enables caching and shared rate limit state when set.
	RedisURL string

	// Port is the HTTP listen port.
	Port int

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string
}

// Load reads configuration from file and environment. Environment
// variables use the SPOTIFY_ prefix (SPOTIFY_ACCESS_TOKEN, SPOTIFY_PORT,
// ...) and win over file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/spotify-proxy")
	v.AddConfigPath(".")

	v.SetDefault("base_url", "https://api.spotify.com/v1")
	v.SetDefault("user_agent", "spotify-proxy/1.0")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")

	// Config file is optional
	_ = v.ReadInConfig()

	v.SetEnvPrefix("SPOTIFY")
	v.AutomaticEnv()

	cfg := &Config{
		AccessToken: v.GetString("access_token"),
		Scopes:      v.GetString("scopes"),
		User:        v.GetString("user"),
		BaseURL:     v.GetString("base_url"),
		UserAgent:   v.GetString("user_agent"),
		RedisURL:    v.GetString("redis_url"),
		Port:        v.GetInt("port"),
		LogLevel:    v.GetString("log_level"),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	return cfg, nil
}
