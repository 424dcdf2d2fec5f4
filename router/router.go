// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/gameladder/server/cliparse"
	"github.com/gameladder/server/handlers"
	"github.com/gameladder/server/ladder"
	"github.com/gameladder/server/middleware"
	"github.com/gameladder/server/store"
)

func NewRouter(engine *ladder.Engine, st store.Store, catalog handlers.GameCatalog, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votesHandler := handlers.NewVotesHandler(engine, cfg)
	ladderHandler := handlers.NewLadderHandler(engine, cfg)
	gamesHandler := handlers.NewGamesHandler(catalog, st)
	filtersHandler := handlers.NewFiltersHandler(catalog)
	guildsHandler := handlers.NewGuildsHandler(st)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Nomination voting
	mux.HandleFunc("POST /api/votes", middleware.WithLogging(votesHandler.Submit))
	mux.HandleFunc("GET /api/votes/top", middleware.WithLogging(votesHandler.Top))
	mux.HandleFunc("GET /api/votes/stats", middleware.WithLogging(votesHandler.Stats))
	mux.HandleFunc("GET /api/votes/game/{gameId}", middleware.WithLogging(votesHandler.GameVotes))
	mux.HandleFunc("DELETE /api/votes/clear", middleware.WithLogging(votesHandler.Clear))

	// Ladder lifecycle (admin operations plus public state and voting)
	mux.HandleFunc("GET /api/guilds/{guildId}/ladder", middleware.WithLogging(ladderHandler.State))
	mux.HandleFunc("POST /api/guilds/{guildId}/ladder/start", middleware.WithLogging(ladderHandler.Start))
	mux.HandleFunc("POST /api/guilds/{guildId}/ladder/close-nominations", middleware.WithLogging(ladderHandler.CloseNominations))
	mux.HandleFunc("POST /api/guilds/{guildId}/ladder/close-round", middleware.WithLogging(ladderHandler.CloseRound))
	mux.HandleFunc("POST /api/guilds/{guildId}/ladder/matchup-vote", middleware.WithLogging(ladderHandler.MatchupVote))

	// Guild listing
	mux.HandleFunc("GET /api/guilds", middleware.WithLogging(guildsHandler.List))

	// Game catalog browsing
	mux.HandleFunc("GET /api/games/search", middleware.WithLogging(gamesHandler.Search))
	mux.HandleFunc("GET /api/games/category/{categoryId}", middleware.WithLogging(gamesHandler.Category))
	mux.HandleFunc("GET /api/games/{gameId}", middleware.WithLogging(gamesHandler.ByID))

	// Constraint reference lists
	mux.HandleFunc("GET /api/igdb/genres", middleware.WithLogging(filtersHandler.Genres))
	mux.HandleFunc("GET /api/igdb/game-modes", middleware.WithLogging(filtersHandler.GameModes))
	mux.HandleFunc("GET /api/igdb/platforms", middleware.WithLogging(filtersHandler.Platforms))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("game-ladder API v1"))
	})

	return mux
}
