// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/gameladder/server/middleware"
)

// FiltersHandler serves the catalog reference lists admins pick ladder
// constraints from.
type FiltersHandler struct {
	catalog GameCatalog
}

func NewFiltersHandler(catalog GameCatalog) *FiltersHandler {
	return &FiltersHandler{catalog: catalog}
}

// Genres handles GET /api/igdb/genres
func (h *FiltersHandler) Genres(w http.ResponseWriter, r *http.Request) {
	refs, err := h.catalog.Genres(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]any{"genres": refs})
}

// GameModes handles GET /api/igdb/game-modes
func (h *FiltersHandler) GameModes(w http.ResponseWriter, r *http.Request) {
	refs, err := h.catalog.GameModes(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]any{"gameModes": refs})
}

// Platforms handles GET /api/igdb/platforms
func (h *FiltersHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	refs, err := h.catalog.Platforms(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]any{"platforms": refs})
}
