// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, TokenCodec) via constructors.
  - Zero Hidden State: No global variables are used to store config.

A missing JWT_SECRET fails Load, so the process never starts without a signing key.
*/
package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the signon API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis), used for OAuth state values
	RedisURL string `env:"REDIS_URL,required"`

	// Session token signing
	JWTSecret     string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"3600"`
	JWTIssuer     string        `env:"JWT_ISSUER"     envDefault:"signon"`

	// OAuthStateTTL bounds the time between redirect and callback.
	OAuthStateTTL time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`

	// OAuth providers; a provider is enabled when its client id is set.
	Discord OAuthClient `envPrefix:"DISCORD_"`
	Google  OAuthClient `envPrefix:"GOOGLE_"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// OAuthClient holds the registration of this application at one provider.
type OAuthClient struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	CallbackURL  string `env:"CALLBACK_URL"`
}

// Enabled reports whether the provider has been configured.
func (c OAuthClient) Enabled() bool {
	return c.ClientID != ""
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given key/value set instead of the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(options env.Options) (*Config, error) {
	options.FuncMap = map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(time.Duration(0)): parseDuration,
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.JWTExpiration <= 0 {
		return nil, fmt.Errorf("config: JWT_EXPIRATION must be positive, got %s", cfg.JWTExpiration)
	}

	for name, client := range map[string]OAuthClient{"DISCORD": cfg.Discord, "GOOGLE": cfg.Google} {
		if client.Enabled() && (client.ClientSecret == "" || client.CallbackURL == "") {
			return nil, fmt.Errorf("config: %s_CLIENT_SECRET and %s_CALLBACK_URL are required when %s_CLIENT_ID is set", name, name, name)
		}
	}

	return cfg, nil
}

/*
parseDuration reads a duration setting.

Description: Accepts a bare integer as seconds ("3600"), an integer number
of days ("7d"), or any [time.ParseDuration] form ("15m", "1h30m").
*/
func parseDuration(value string) (interface{}, error) {
	value = strings.TrimSpace(value)

	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}

	if days, found := strings.CutSuffix(value, "d"); found {
		count, err := strconv.ParseInt(days, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid day count %q", value)
		}
		return time.Duration(count) * 24 * time.Hour, nil
	}

	return time.ParseDuration(value)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the comma-separated EXTRA_ORIGINS as a list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
