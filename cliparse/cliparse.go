// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminSecret  string
	IGDBClientID string
	IGDBSecret   string
	FrontendURL  string
}

// ParseFlags reads configuration from CLI flags, falling back to
// environment variables, falling back to defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("gameladder", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or file path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.FrontendURL, "frontend", "", "Frontend origin for CORS")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminSecret, "admin-secret", "", "Admin secret (prefer env)")
	fs.StringVar(&cfg.IGDBClientID, "igdb-client", "", "IGDB/Twitch client id (prefer env)")
	fs.StringVar(&cfg.IGDBSecret, "igdb-secret", "", "IGDB/Twitch client secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3001 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "data/ladder.db"
	}

	// Secrets are all optional. No admin secret means admin routes are
	// open (development); no IGDB credentials means catalog features
	// are unavailable but voting still works.
	if cfg.AdminSecret == "" {
		cfg.AdminSecret = os.Getenv("ADMIN_SECRET")
	}
	if cfg.IGDBClientID == "" {
		cfg.IGDBClientID = os.Getenv("IGDB_CLIENT_ID")
	}
	if cfg.IGDBSecret == "" {
		cfg.IGDBSecret = os.Getenv("IGDB_CLIENT_SECRET")
	}

	if cfg.FrontendURL == "" {
		cfg.FrontendURL = os.Getenv("FRONTEND_URL")
		if cfg.FrontendURL == "" {
			cfg.FrontendURL = "http://localhost:3000"
		}
	}

	return cfg, nil
}
