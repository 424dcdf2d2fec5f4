// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ladder

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the engine. Handlers map these to HTTP
// status codes with errors.Is.
var (
	// ErrWrongPhase means the operation is not valid in the ladder's
	// current phase (e.g. nominating during the bracket).
	ErrWrongPhase = errors.New("operation not valid in current ladder phase")

	// ErrInsufficientEntries means nominations closed with fewer than two
	// distinct games, so no bracket can be built.
	ErrInsufficientEntries = errors.New("not enough nominated games to build a bracket")

	// ErrNoOpenMatchups means a round close found nothing to resolve.
	ErrNoOpenMatchups = errors.New("no open matchups in the current round")

	// ErrMatchupClosed means a vote arrived for a matchup whose winner is
	// already decided.
	ErrMatchupClosed = errors.New("matchup already resolved")

	// ErrMatchupNotFound means the matchup id does not exist in this guild.
	ErrMatchupNotFound = errors.New("matchup not found")

	// ErrInvalidChoice means the voted game is not one of the matchup's
	// two contenders.
	ErrInvalidChoice = errors.New("voted game is not in this matchup")

	// ErrInvalidBracketSize means a requested size is not 8, 16, or 32.
	ErrInvalidBracketSize = errors.New("bracket size must be 8, 16, or 32")
)

// ConstraintViolationError reports a nomination rejected by the active
// ladder's filters, listing every clause the game failed.
type ConstraintViolationError struct {
	GameName string
	Failures []string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("%s does not meet the ladder constraints: %s",
		e.GameName, strings.Join(e.Failures, "; "))
}
