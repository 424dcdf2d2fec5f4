// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// Supported dialects
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	var schema string
	switch dialect {
	case DialectSQLite:
		schema = schemaSQLite
	case DialectPostgres:
		schema = schemaPostgres
	default:
		return fmt.Errorf("unknown dialect %q", dialect)
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schemaSQLite = `
-- Guilds (tenants)
CREATE TABLE IF NOT EXISTS guilds (
    guild_id TEXT PRIMARY KEY,
    guild_name TEXT,
    bracket_size INTEGER NOT NULL DEFAULT 16,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Ladders (one tournament run; at most one non-complete ladder per guild)
CREATE TABLE IF NOT EXISTS ladders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    guild_id TEXT NOT NULL REFERENCES guilds(guild_id),
    phase TEXT NOT NULL CHECK (phase IN ('nominations', 'bracket', 'complete')),
    bracket_size INTEGER NOT NULL DEFAULT 16,
    constraints TEXT,
    constraints_display TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    nominations_closed_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_ladders_guild ON ladders(guild_id);

-- Nomination votes (one row per guild+game+user+platform; upsert updates category)
CREATE TABLE IF NOT EXISTS nomination_votes (
    guild_id TEXT NOT NULL REFERENCES guilds(guild_id),
    game_id INTEGER NOT NULL,
    game_name TEXT NOT NULL,
    user_id TEXT NOT NULL,
    platform TEXT NOT NULL CHECK (platform IN ('web', 'discord')),
    category TEXT,
    timestamp TEXT NOT NULL,
    PRIMARY KEY (guild_id, game_id, user_id, platform)
);

CREATE INDEX IF NOT EXISTS idx_nomination_votes_guild ON nomination_votes(guild_id);

-- Per-guild catalog detail cache
CREATE TABLE IF NOT EXISTS game_cache (
    guild_id TEXT NOT NULL,
    game_id INTEGER NOT NULL,
    game_data TEXT,
    PRIMARY KEY (guild_id, game_id)
);

-- Bracket matchups (game_b nullable = bye; winner set exactly once)
CREATE TABLE IF NOT EXISTS bracket_matchups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    guild_id TEXT NOT NULL REFERENCES guilds(guild_id),
    ladder_id INTEGER NOT NULL REFERENCES ladders(id),
    round INTEGER NOT NULL,
    game_a_id INTEGER NOT NULL,
    game_b_id INTEGER,
    game_a_name TEXT NOT NULL,
    game_b_name TEXT,
    winner_game_id INTEGER
);

CREATE INDEX IF NOT EXISTS idx_matchups_guild_ladder ON bracket_matchups(guild_id, ladder_id);

-- Matchup votes (one row per guild+matchup+user+platform; upsert changes choice)
CREATE TABLE IF NOT EXISTS matchup_votes (
    guild_id TEXT NOT NULL REFERENCES guilds(guild_id),
    matchup_id INTEGER NOT NULL REFERENCES bracket_matchups(id),
    user_id TEXT NOT NULL,
    platform TEXT NOT NULL CHECK (platform IN ('web', 'discord')),
    voted_game_id INTEGER NOT NULL,
    timestamp TEXT NOT NULL,
    PRIMARY KEY (guild_id, matchup_id, user_id, platform)
);
`

const schemaPostgres = `
-- Guilds (tenants)
CREATE TABLE IF NOT EXISTS guilds (
    guild_id TEXT PRIMARY KEY,
    guild_name TEXT,
    bracket_size INTEGER NOT NULL DEFAULT 16,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Ladders (one tournament run; at most one non-complete ladder per guild)
CREATE TABLE IF NOT EXISTS ladders (
    id BIGSERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL REFERENCES guilds(guild_id),
    phase TEXT NOT NULL CHECK (phase IN ('nominations', 'bracket', 'complete')),
    bracket_size INTEGER NOT NULL DEFAULT 16,
    constraints TEXT,
    constraints_display TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    nominations_closed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_ladders_guild ON ladders(guild_id);

-- Nomination votes (one row per guild+game+user+platform; upsert updates category)
CREATE TABLE IF NOT EXISTS nomination_votes (
    guild_id TEXT NOT NULL REFERENCES guilds(guild_id),
    game_id BIGINT NOT NULL,
    game_name TEXT NOT NULL,
    user_id TEXT NOT NULL,
    platform TEXT NOT NULL CHECK (platform IN ('web', 'discord')),
    category TEXT,
    timestamp TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (guild_id, game_id, user_id, platform)
);

CREATE INDEX IF NOT EXISTS idx_nomination_votes_guild ON nomination_votes(guild_id);

-- Per-guild catalog detail cache
CREATE TABLE IF NOT EXISTS game_cache (
    guild_id TEXT NOT NULL,
    game_id BIGINT NOT NULL,
    game_data TEXT,
    PRIMARY KEY (guild_id, game_id)
);

-- Bracket matchups (game_b nullable = bye; winner set exactly once)
CREATE TABLE IF NOT EXISTS bracket_matchups (
    id BIGSERIAL PRIMARY KEY,
    guild_id TEXT NOT NULL REFERENCES guilds(guild_id),
    ladder_id BIGINT NOT NULL REFERENCES ladders(id),
    round INTEGER NOT NULL,
    game_a_id BIGINT NOT NULL,
    game_b_id BIGINT,
    game_a_name TEXT NOT NULL,
    game_b_name TEXT,
    winner_game_id BIGINT
);

CREATE INDEX IF NOT EXISTS idx_matchups_guild_ladder ON bracket_matchups(guild_id, ladder_id);

-- Matchup votes (one row per guild+matchup+user+platform; upsert changes choice)
CREATE TABLE IF NOT EXISTS matchup_votes (
    guild_id TEXT NOT NULL REFERENCES guilds(guild_id),
    matchup_id BIGINT NOT NULL REFERENCES bracket_matchups(id),
    user_id TEXT NOT NULL,
    platform TEXT NOT NULL CHECK (platform IN ('web', 'discord')),
    voted_game_id BIGINT NOT NULL,
    timestamp TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (guild_id, matchup_id, user_id, platform)
);
`
