// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gameladder/server/auth"
	"github.com/gameladder/server/cliparse"
	"github.com/gameladder/server/ladder"
	"github.com/gameladder/server/middleware"
	"github.com/gameladder/server/models"
)

type LadderHandler struct {
	engine *ladder.Engine
	cfg    cliparse.Config
}

func NewLadderHandler(engine *ladder.Engine, cfg cliparse.Config) *LadderHandler {
	return &LadderHandler{engine: engine, cfg: cfg}
}

// State handles GET /api/guilds/{guildId}/ladder
func (h *LadderHandler) State(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildId")
	if guildID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guildId is required")
		return
	}

	state, err := h.engine.State(guildID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// Start handles POST /api/guilds/{guildId}/ladder/start (admin)
func (h *LadderHandler) Start(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildId")
	if guildID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guildId is required")
		return
	}

	var req models.StartLadderRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := auth.RequireAdmin(r, h.cfg.AdminSecret, req.AdminSecret); err != nil {
		writeEngineError(w, err)
		return
	}

	state, err := h.engine.StartLadder(r.Context(), guildID, req)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	slog.Info("ladder started",
		"guild_id", guildID,
		"bracket_size", state.BracketSize,
		"constraints", state.ConstraintsDisplay,
	)
	middleware.JSONResponse(w, http.StatusOK, state)
}

// CloseNominations handles POST /api/guilds/{guildId}/ladder/close-nominations (admin)
func (h *LadderHandler) CloseNominations(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildId")
	if guildID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guildId is required")
		return
	}

	var req models.CloseNominationsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := auth.RequireAdmin(r, h.cfg.AdminSecret, req.AdminSecret); err != nil {
		writeEngineError(w, err)
		return
	}

	state, err := h.engine.CloseNominations(guildID, req)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	slog.Info("nominations closed",
		"guild_id", guildID,
		"matchups", len(state.Matchups),
	)
	middleware.JSONResponse(w, http.StatusOK, state)
}

// CloseRound handles POST /api/guilds/{guildId}/ladder/close-round (admin)
func (h *LadderHandler) CloseRound(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildId")
	if guildID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guildId is required")
		return
	}

	var req models.CloseRoundRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := auth.RequireAdmin(r, h.cfg.AdminSecret, req.AdminSecret); err != nil {
		writeEngineError(w, err)
		return
	}

	state, err := h.engine.CloseRound(guildID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	slog.Info("round closed",
		"guild_id", guildID,
		"phase", state.Phase,
		"round", state.CurrentRound,
	)
	middleware.JSONResponse(w, http.StatusOK, state)
}

// MatchupVote handles POST /api/guilds/{guildId}/ladder/matchup-vote
func (h *LadderHandler) MatchupVote(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("guildId")
	if guildID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guildId is required")
		return
	}

	var req models.MatchupVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.MatchupID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "matchupId is required")
		return
	}
	if req.VotedGameID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "votedGameId is required")
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

	view, err := h.engine.CastMatchupVote(guildID, req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}
