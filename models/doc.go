// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - NominationRequest: guildId, gameId, gameName, category, userId, platform
  - StartLadderRequest: bracketSize plus optional named filters
  - CloseNominationsRequest: optional bracketSize override
  - MatchupVoteRequest: matchupId, votedGameId, userId, platform

# Response Types

Types for JSON responses:

  - VoteRecordedResponse: success, message, totals
  - TopGamesResponse: ranked games plus totals
  - StatsResponse: vote counts and top ten
  - GameVotesResponse: per-game voters and cached detail
  - GuildsResponse: known guilds
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Guild: tenant with a configured bracket size
  - Ladder: one tournament run with phase and constraints
  - Constraints: structured nomination filter (genres, modes, platforms, release year)
  - NominationVote / MatchupVote: upserted vote rows
  - Matchup: one bracket pairing (game B absent = bye)
  - LadderState: full projection returned to callers
  - Game / NamedRef: IGDB catalog records

# Constants

Phase values:

	PhaseNominations = "nominations"
	PhaseBracket     = "bracket"
	PhaseComplete    = "complete"

Vote origins:

	PlatformWeb     = "web"
	PlatformDiscord = "discord"
*/
package models
