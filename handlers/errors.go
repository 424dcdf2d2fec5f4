// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gameladder/server/auth"
	"github.com/gameladder/server/igdb"
	"github.com/gameladder/server/ladder"
	"github.com/gameladder/server/middleware"
)

// writeEngineError maps engine and catalog errors to HTTP responses.
// Conflicts (wrong phase, closed matchup) are 409, bad input is 400,
// missing things are 404, auth failures are 403, and a broken catalog
// is 502. Anything unrecognized is logged and reported as 500.
func writeEngineError(w http.ResponseWriter, err error) {
	var (
		cv *ladder.ConstraintViolationError
		uf *igdb.UnknownFilterError
		le *igdb.LookupError
	)

	switch {
	case errors.Is(err, ladder.ErrWrongPhase),
		errors.Is(err, ladder.ErrMatchupClosed),
		errors.Is(err, ladder.ErrNoOpenMatchups):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())

	case errors.As(err, &cv),
		errors.As(err, &uf),
		errors.Is(err, ladder.ErrInsufficientEntries),
		errors.Is(err, ladder.ErrInvalidChoice),
		errors.Is(err, ladder.ErrInvalidBracketSize):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, ladder.ErrMatchupNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())

	case errors.Is(err, auth.ErrInvalidSecret):
		middleware.ErrorResponse(w, http.StatusForbidden, "invalid admin secret")

	case errors.As(err, &le):
		slog.Error("game catalog lookup failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "game catalog unavailable")

	default:
		slog.Error("internal error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// validPlatform reports whether p names a known vote origin.
func validPlatform(p string) bool {
	return p == "web" || p == "discord"
}
