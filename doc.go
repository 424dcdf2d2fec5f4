// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Game Ladder API server.

Game Ladder runs guild-scoped game tournaments: members nominate games
during an open nominations phase, then the top nominees are seeded into
a single-elimination bracket and voted through round by round until a
champion emerges. Nominations can be constrained by genre, release
year, game mode, and platform, validated against the IGDB game catalog.

# Starting the Server

The server runs self-contained on SQLite by default:

	go run main.go

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run main.go

A .env file in the working directory is loaded automatically.

# Configuration

Optional settings (flags override environment variables):

  - PORT (-p): Server port (default: 3001)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_SECRET (--admin-secret): Secret for ladder admin operations
  - IGDB_CLIENT_ID (--igdb-client): Twitch/IGDB client ID
  - IGDB_CLIENT_SECRET (--igdb-secret): Twitch/IGDB client secret
  - FRONTEND_URL (--frontend): Allowed CORS origin (default: http://localhost:3000)

Without IGDB credentials the server still runs, but catalog lookups and
constrained ladders report the catalog as unavailable.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (votes, ladder, games, filters, guilds)
  - ladder: Tournament engine (phases, seeding, round resolution, constraints)
  - igdb: IGDB API client with OAuth2 client-credentials auth
  - store: Vote and bracket persistence (SQLite, PostgreSQL, in-memory)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Admin secret validation
  - db: Schema creation for both SQL dialects
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
