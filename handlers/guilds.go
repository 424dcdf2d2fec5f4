// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/gameladder/server/middleware"
	"github.com/gameladder/server/models"
	"github.com/gameladder/server/store"
)

type GuildsHandler struct {
	store store.Store
}

func NewGuildsHandler(st store.Store) *GuildsHandler {
	return &GuildsHandler{store: st}
}

// List handles GET /api/guilds
func (h *GuildsHandler) List(w http.ResponseWriter, r *http.Request) {
	guilds, err := h.store.ListGuilds()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.GuildsResponse{Guilds: guilds})
}
