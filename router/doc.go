// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Game Ladder API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(engine, store, catalog, cfg)

# Endpoints

Health:

	GET /health

Nomination voting (public, except clear):

	POST   /api/votes               - Submit/replace a nomination vote
	GET    /api/votes/top           - Ranked nominations for a guild
	GET    /api/votes/stats         - Vote and game totals
	GET    /api/votes/game/{gameId} - Per-voter detail for one game
	DELETE /api/votes/clear         - Wipe a guild's votes (admin)

Ladder lifecycle:

	GET  /api/guilds/{guildId}/ladder                    - Full state projection
	POST /api/guilds/{guildId}/ladder/start              - Open nominations (admin)
	POST /api/guilds/{guildId}/ladder/close-nominations  - Seed the bracket (admin)
	POST /api/guilds/{guildId}/ladder/close-round        - Resolve a round (admin)
	POST /api/guilds/{guildId}/ladder/matchup-vote       - Vote in a matchup

Guilds:

	GET /api/guilds - All known guilds

Game catalog (proxied to IGDB):

	GET /api/games/search                - Free-text search
	GET /api/games/{gameId}              - Game detail, cached per guild
	GET /api/games/category/{categoryId} - Popular games in a genre
	GET /api/igdb/genres                 - Genre reference list
	GET /api/igdb/game-modes             - Game mode reference list
	GET /api/igdb/platforms              - Platform reference list

# Handler Initialization

The router creates handler instances with dependency injection:

	votesHandler := handlers.NewVotesHandler(engine, cfg)
	ladderHandler := handlers.NewLadderHandler(engine, cfg)
	gamesHandler := handlers.NewGamesHandler(catalog, st)
	filtersHandler := handlers.NewFiltersHandler(catalog)
	guildsHandler := handlers.NewGuildsHandler(st)

Admin routes check the secret inside the handler rather than in a
wrapping middleware, because the secret may arrive in the body.
*/
package router
