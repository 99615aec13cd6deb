// Copyright (c) 2026 Meshly. All rights reserved.
// Author: khoa.dang.dev@gmail.com

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
  - DI-Friendly: Passed to core components (DB, Redis, Cipher) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Meshly API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// RSA keypair for the reversible credential cipher. The public key
	// encrypts stored passwords, the private key decrypts them for the
	// "verify current password" flow. Loaded once at startup, immutable after.
	CredentialPublicKeyPath  string `env:"CREDENTIAL_PUBLIC_KEY_PATH,required"`
	CredentialPrivateKeyPath string `env:"CREDENTIAL_PRIVATE_KEY_PATH,required"`

	// RSA keypair for RS256 access-token signing (distinct from the
	// credential cipher keys).
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// RequireEmailVerification gates the "active member" classification:
	// when true, members with an unverified email are excluded from the
	// active/mostly-active listings and from mutual-connection results.
	RequireEmailVerification bool `env:"REQUIRE_EMAIL_VERIFICATION" envDefault:"false"`

	// Feed composition tunables.
	FeedTargetSize    int `env:"FEED_TARGET_SIZE"    envDefault:"10"`
	FeedPersonalLimit int `env:"FEED_PERSONAL_LIMIT" envDefault:"25"`
	FeedGlobalCap     int `env:"FEED_GLOBAL_CAP"     envDefault:"50"`

	// MutualPageSize is the default page size for mutual-contact and
	// directory listings when the request does not specify a limit.
	MutualPageSize int `env:"MUTUAL_PAGE_SIZE" envDefault:"20"`

	// RememberTokenTTL is how long a "remember me" token stays valid.
	// Default is 2 years, matching the long-lived session policy.
	RememberTokenTTL time.Duration `env:"REMEMBER_TOKEN_TTL" envDefault:"17520h"`

	// ExtraOrigins is a comma-separated list of additional origins allowed
	// by CORS beyond the platform's own domains (e.g. a staging frontend).
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedExtraOrigins returns the parsed EXTRA_ORIGINS entries, trimmed and
// with empty segments dropped.
func (c *Config) AllowedExtraOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	parts := strings.Split(c.ExtraOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
