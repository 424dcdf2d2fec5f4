// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gameladder/server/middleware"
	"github.com/gameladder/server/models"
	"github.com/gameladder/server/store"
)

// GameCatalog is the catalog surface the browse endpoints need. The
// igdb package provides the real implementation; tests substitute a
// fake.
type GameCatalog interface {
	GameByID(ctx context.Context, gameID int64) (*models.Game, error)
	SearchGames(ctx context.Context, term string, limit int) ([]models.Game, error)
	GamesByCategory(ctx context.Context, genreID int64, limit int) ([]models.Game, error)
	Genres(ctx context.Context) ([]models.NamedRef, error)
	GameModes(ctx context.Context) ([]models.NamedRef, error)
	Platforms(ctx context.Context) ([]models.NamedRef, error)
}

type GamesHandler struct {
	catalog GameCatalog
	store   store.Store
}

func NewGamesHandler(catalog GameCatalog, st store.Store) *GamesHandler {
	return &GamesHandler{catalog: catalog, store: st}
}

// Search handles GET /api/games/search
func (h *GamesHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := queryLimit(r, 10)

	games, err := h.catalog.SearchGames(r.Context(), term, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]any{"games": games})
}

// ByID handles GET /api/games/{gameId}
//
// When a guildId query parameter is present the result is served from
// and written to that guild's cache, so repeated detail views during a
// tournament don't hammer the catalog.
func (h *GamesHandler) ByID(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(r.PathValue("gameId"), 10, 64)
	if err != nil || gameID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid game id")
		return
	}
	guildID := r.URL.Query().Get("guildId")

	if guildID != "" {
		cached, err := h.store.GameFromCache(guildID, gameID)
		if err != nil {
			slog.Error("game cache read failed", "error", err, "game_id", gameID)
		} else if cached != nil {
			middleware.JSONResponse(w, http.StatusOK, cached)
			return
		}
	}

	game, err := h.catalog.GameByID(r.Context(), gameID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if game == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Game not found")
		return
	}

	if guildID != "" {
		if err := h.store.CacheGame(guildID, gameID, game); err != nil {
			slog.Error("game cache write failed", "error", err, "game_id", gameID)
		}
	}
	middleware.JSONResponse(w, http.StatusOK, game)
}

// Category handles GET /api/games/category/{categoryId}
func (h *GamesHandler) Category(w http.ResponseWriter, r *http.Request) {
	genreID, err := strconv.ParseInt(r.PathValue("categoryId"), 10, 64)
	if err != nil || genreID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid category id")
		return
	}
	limit := queryLimit(r, 20)

	games, err := h.catalog.GamesByCategory(r.Context(), genreID, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]any{"games": games})
}

// queryLimit reads the limit parameter, clamped to [1, 50].
func queryLimit(r *http.Request, def int) int {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return def
	}
	n, err := strconv.Atoi(limitStr)
	if err != nil || n <= 0 {
		return def
	}
	if n > 50 {
		return 50
	}
	return n
}
