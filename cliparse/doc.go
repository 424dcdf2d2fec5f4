// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3001)
  - DatabaseURL: SQLite file path or PostgreSQL connection string
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminSecret: Shared secret for admin routes (optional)
  - IGDBClientID / IGDBSecret: Twitch credentials for the game catalog (optional)
  - FrontendURL: Allowed CORS origin (default: http://localhost:3000)

# CLI Flags

	-p             Server port
	-d             Database URL or file path
	-t             Database type (sqlite or postgres)
	-frontend      Frontend origin for CORS
	-admin-secret  Admin secret
	-igdb-client   IGDB/Twitch client id
	-igdb-secret   IGDB/Twitch client secret

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	FRONTEND_URL       → -frontend
	ADMIN_SECRET       → -admin-secret
	IGDB_CLIENT_ID     → -igdb-client
	IGDB_CLIENT_SECRET → -igdb-secret

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error when the database type is not sqlite or
postgres, or when postgres is selected without a connection string.
SQLite needs no URL; it defaults to data/ladder.db. All secrets are
optional: without ADMIN_SECRET the admin routes are open, and without
IGDB credentials the catalog endpoints fail but voting works.
*/
package cliparse
