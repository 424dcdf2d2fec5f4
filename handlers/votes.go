// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gameladder/server/auth"
	"github.com/gameladder/server/cliparse"
	"github.com/gameladder/server/ladder"
	"github.com/gameladder/server/middleware"
	"github.com/gameladder/server/models"
)

type VotesHandler struct {
	engine *ladder.Engine
	cfg    cliparse.Config
}

func NewVotesHandler(engine *ladder.Engine, cfg cliparse.Config) *VotesHandler {
	return &VotesHandler{engine: engine, cfg: cfg}
}

// Submit handles POST /api/votes
func (h *VotesHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.NominationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.GuildID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guildId is required")
		return
	}
	if req.GameID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "gameId is required")
		return
	}
	if req.GameName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "gameName is required")
		return
	}
	if req.UserID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId is required")
		return
	}
	if req.Platform == "" {
		req.Platform = models.PlatformWeb
	}
	if !validPlatform(req.Platform) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "platform must be web or discord")
		return
	}

	resp, err := h.engine.SubmitNomination(r.Context(), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	slog.Info("nomination recorded",
		"guild_id", req.GuildID,
		"game_id", req.GameID,
		"user_id", req.UserID,
		"platform", req.Platform,
	)
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Top handles GET /api/votes/top
func (h *VotesHandler) Top(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guildId")
	if guildID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guildId is required")
		return
	}

	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	resp, err := h.engine.TopNominations(guildID, limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Stats handles GET /api/votes/stats
func (h *VotesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guildId")
	if guildID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guildId is required")
		return
	}

	resp, err := h.engine.Stats(guildID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GameVotes handles GET /api/votes/game/{gameId}
func (h *VotesHandler) GameVotes(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guildId")
	if guildID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guildId is required")
		return
	}
	gameID, err := strconv.ParseInt(r.PathValue("gameId"), 10, 64)
	if err != nil || gameID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid game id")
		return
	}

	resp, err := h.engine.GameVotes(r.Context(), guildID, gameID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Clear handles DELETE /api/votes/clear (admin)
func (h *VotesHandler) Clear(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guildId")
	if guildID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guildId is required")
		return
	}
	if err := auth.RequireAdmin(r, h.cfg.AdminSecret, ""); err != nil {
		writeEngineError(w, err)
		return
	}

	if err := h.engine.ClearNominations(guildID); err != nil {
		writeEngineError(w, err)
		return
	}

	slog.Info("nomination votes cleared", "guild_id", guildID)
	middleware.JSONResponse(w, http.StatusOK, models.ClearVotesResponse{
		Success: true,
		Message: "All nomination votes cleared",
	})
}
