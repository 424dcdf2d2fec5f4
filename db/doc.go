// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables for the chosen dialect:

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - guilds: tenant metadata and configured bracket size
  - ladders: tournament runs with phase and constraints
  - nomination_votes: one vote per guild+game+user+platform
  - game_cache: per-guild cached catalog records
  - bracket_matchups: bracket pairings per round
  - matchup_votes: one vote per guild+matchup+user+platform

# Relationships

	guilds 1──* ladders
	guilds 1──* nomination_votes
	ladders 1──* bracket_matchups
	bracket_matchups 1──* matchup_votes

# Upsert Keys

Vote tables use composite primary keys so that re-voting updates the
existing row instead of inserting a second one:

	nomination_votes: (guild_id, game_id, user_id, platform)
	matchup_votes:    (guild_id, matchup_id, user_id, platform)
*/
package db
