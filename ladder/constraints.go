// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ladder

import (
	"fmt"
	"strings"
	"time"

	"github.com/gameladder/server/models"
)

// CheckConstraints verifies game against the ladder's filters. A nil or
// empty constraint set accepts everything. On rejection the returned
// error lists every clause the game failed, not just the first.
func CheckConstraints(game *models.Game, c *models.Constraints) error {
	if c.Empty() {
		return nil
	}
	failures := failedClauses(game, c)
	if len(failures) == 0 {
		return nil
	}
	return &ConstraintViolationError{GameName: game.Name, Failures: failures}
}

func failedClauses(game *models.Game, c *models.Constraints) []string {
	var failures []string

	if len(c.GenreIDs) > 0 && !anyRefMatches(game.Genres, c.GenreIDs) {
		failures = append(failures, "not in the required genres")
	}

	if c.ReleaseYear != nil || c.ReleaseYearMin != nil || c.ReleaseYearMax != nil {
		if msg, ok := yearFailure(game.FirstReleaseDate, c); !ok {
			failures = append(failures, msg)
		}
	}

	if len(c.GameModeIDs) > 0 && !anyRefMatches(game.GameModes, c.GameModeIDs) {
		failures = append(failures, "does not support the required game modes")
	}

	if len(c.PlatformIDs) > 0 && !anyRefMatches(game.Platforms, c.PlatformIDs) {
		failures = append(failures, "not available on the required platforms")
	}

	return failures
}

// anyRefMatches reports whether any of the game's reference entries is
// in the allowed id set.
func anyRefMatches(refs []models.NamedRef, allowed []int64) bool {
	for _, r := range refs {
		for _, id := range allowed {
			if r.ID == id {
				return true
			}
		}
	}
	return false
}

// yearFailure checks the release year clauses. A game with no recorded
// release date fails any year constraint.
func yearFailure(releaseTS int64, c *models.Constraints) (string, bool) {
	if releaseTS == 0 {
		return "has no recorded release date", false
	}
	year := time.Unix(releaseTS, 0).UTC().Year()

	if c.ReleaseYear != nil && year != *c.ReleaseYear {
		return fmt.Sprintf("released in %d, not %d", year, *c.ReleaseYear), false
	}
	if c.ReleaseYearMin != nil && year < *c.ReleaseYearMin {
		return fmt.Sprintf("released in %d, before %d", year, *c.ReleaseYearMin), false
	}
	if c.ReleaseYearMax != nil && year > *c.ReleaseYearMax {
		return fmt.Sprintf("released in %d, after %d", year, *c.ReleaseYearMax), false
	}
	return "", true
}

// DisplayConstraints renders resolved filters as a human summary for
// clients, e.g. "Genre: Adventure, Indie · Year: 2015–2020 · Platform:
// Nintendo Switch".
func DisplayConstraints(c *models.Constraints, genres, modes, platforms []models.NamedRef) string {
	if c.Empty() {
		return ""
	}
	var parts []string

	if len(genres) > 0 {
		parts = append(parts, "Genre: "+joinNames(genres))
	}
	if span := yearSpan(c); span != "" {
		parts = append(parts, "Year: "+span)
	}
	if len(modes) > 0 {
		parts = append(parts, "Mode: "+joinNames(modes))
	}
	if len(platforms) > 0 {
		parts = append(parts, "Platform: "+joinNames(platforms))
	}
	return strings.Join(parts, " · ")
}

// yearSpan renders an exact year as-is and a range with an en dash,
// using "?" for an open end: "2015–?", "?–2020".
func yearSpan(c *models.Constraints) string {
	if c.ReleaseYear != nil {
		return fmt.Sprintf("%d", *c.ReleaseYear)
	}
	if c.ReleaseYearMin == nil && c.ReleaseYearMax == nil {
		return ""
	}
	min, max := "?", "?"
	if c.ReleaseYearMin != nil {
		min = fmt.Sprintf("%d", *c.ReleaseYearMin)
	}
	if c.ReleaseYearMax != nil {
		max = fmt.Sprintf("%d", *c.ReleaseYearMax)
	}
	return min + "–" + max
}

func joinNames(refs []models.NamedRef) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}
