// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Game Ladder API.

# Handler Types

Each handler is a struct holding its dependencies:

  - VotesHandler: Nomination votes (submit, top, stats, per-game detail, clear)
  - LadderHandler: Tournament lifecycle (state, start, close-nominations, matchup votes, close-round)
  - GamesHandler: Game catalog lookups (search, by ID with guild cache, by category)
  - FiltersHandler: Reference lists for ladder constraints (genres, game modes, platforms)
  - GuildsHandler: Known guild listing

Handlers are created via constructor functions:

	votesHandler := handlers.NewVotesHandler(engine, cfg)
	gamesHandler := handlers.NewGamesHandler(catalog, store)

VotesHandler and LadderHandler delegate to *ladder.Engine; GamesHandler
and FiltersHandler talk to the game catalog through the GameCatalog
interface so tests can substitute a fake.

# Tournament Lifecycle

Each guild's ladder progresses through three phases:
nominations → bracket → complete

	POST /api/votes                                  → Submit (nomination)
	POST /api/guilds/{guildId}/ladder/start          → Start (admin)
	POST /api/guilds/{guildId}/ladder/close-nominations → CloseNominations (admin)
	POST /api/guilds/{guildId}/ladder/matchup-vote   → MatchupVote
	POST /api/guilds/{guildId}/ladder/close-round    → CloseRound (admin)
	GET  /api/guilds/{guildId}/ladder                → State

Admin operations accept the secret via the X-Admin-Secret header or an
adminSecret body field; the header wins when both are present.

# Error Mapping

writeEngineError translates engine and catalog errors to HTTP statuses:

  - ErrWrongPhase, ErrMatchupClosed,
    ErrNoOpenMatchups                     → 409 Conflict
  - ErrInsufficientEntries, ErrInvalidChoice,
    ErrInvalidBracketSize                 → 400 Bad Request
  - ErrMatchupNotFound                    → 404 Not Found
  - auth.ErrInvalidSecret                 → 403 Forbidden
  - *ladder.ConstraintViolationError      → 400 with per-clause failures
  - *igdb.UnknownFilterError              → 400 Bad Request
  - *igdb.LookupError                     → 502 Bad Gateway

Anything else is a 500 with a generic message; details go to the log.
*/
package handlers
