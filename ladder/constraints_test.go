// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ladder

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gameladder/server/models"
)

func intPtr(v int) *int { return &v }

// releaseTS is midnight UTC on Jan 1 of year, as a unix timestamp.
func releaseTS(year int) int64 {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
}

func testGame() *models.Game {
	return &models.Game{
		ID:   100,
		Name: "Hades",
		Genres: []models.NamedRef{
			{ID: 12, Name: "Role-playing (RPG)"},
			{ID: 32, Name: "Indie"},
		},
		GameModes: []models.NamedRef{
			{ID: 1, Name: "Single player"},
		},
		Platforms: []models.NamedRef{
			{ID: 6, Name: "PC (Microsoft Windows)"},
			{ID: 130, Name: "Nintendo Switch"},
		},
		FirstReleaseDate: releaseTS(2020),
	}
}

func TestCheckConstraintsAccepts(t *testing.T) {
	game := testGame()

	tests := []struct {
		name string
		cons *models.Constraints
	}{
		{"nil constraints", nil},
		{"empty constraints", &models.Constraints{}},
		{"matching genre", &models.Constraints{GenreIDs: []int64{12}}},
		{"one of several genres", &models.Constraints{GenreIDs: []int64{4, 12, 99}}},
		{"exact year", &models.Constraints{ReleaseYear: intPtr(2020)}},
		{"year range", &models.Constraints{ReleaseYearMin: intPtr(2018), ReleaseYearMax: intPtr(2022)}},
		{"matching mode", &models.Constraints{GameModeIDs: []int64{1}}},
		{"matching platform", &models.Constraints{PlatformIDs: []int64{130}}},
		{"everything at once", &models.Constraints{
			GenreIDs:       []int64{32},
			ReleaseYearMin: intPtr(2020),
			GameModeIDs:    []int64{1},
			PlatformIDs:    []int64{6},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckConstraints(game, tt.cons); err != nil {
				t.Errorf("CheckConstraints: %v", err)
			}
		})
	}
}

func TestCheckConstraintsRejects(t *testing.T) {
	game := testGame()

	tests := []struct {
		name    string
		cons    *models.Constraints
		wantMsg string
	}{
		{"wrong genre", &models.Constraints{GenreIDs: []int64{4}}, "genres"},
		{"wrong year", &models.Constraints{ReleaseYear: intPtr(2015)}, "released in 2020"},
		{"too early", &models.Constraints{ReleaseYearMin: intPtr(2021)}, "before 2021"},
		{"too late", &models.Constraints{ReleaseYearMax: intPtr(2019)}, "after 2019"},
		{"wrong mode", &models.Constraints{GameModeIDs: []int64{2}}, "game modes"},
		{"wrong platform", &models.Constraints{PlatformIDs: []int64{48}}, "platforms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConstraints(game, tt.cons)
			var cv *ConstraintViolationError
			if !errors.As(err, &cv) {
				t.Fatalf("error = %v (%T), want *ConstraintViolationError", err, err)
			}
			if cv.GameName != "Hades" {
				t.Errorf("game name = %q", cv.GameName)
			}
			if !strings.Contains(cv.Error(), tt.wantMsg) {
				t.Errorf("message %q missing %q", cv.Error(), tt.wantMsg)
			}
		})
	}
}

func TestCheckConstraintsReportsAllFailures(t *testing.T) {
	game := testGame()
	cons := &models.Constraints{
		GenreIDs:    []int64{4},
		ReleaseYear: intPtr(2015),
		PlatformIDs: []int64{48},
	}
	err := CheckConstraints(game, cons)
	var cv *ConstraintViolationError
	if !errors.As(err, &cv) {
		t.Fatalf("error = %v, want *ConstraintViolationError", err)
	}
	if len(cv.Failures) != 3 {
		t.Errorf("failures = %v, want 3 entries", cv.Failures)
	}
}

func TestCheckConstraintsNoReleaseDate(t *testing.T) {
	game := testGame()
	game.FirstReleaseDate = 0

	err := CheckConstraints(game, &models.Constraints{ReleaseYearMin: intPtr(2000)})
	var cv *ConstraintViolationError
	if !errors.As(err, &cv) {
		t.Fatalf("error = %v, want *ConstraintViolationError", err)
	}
	if !strings.Contains(cv.Error(), "no recorded release date") {
		t.Errorf("message = %q", cv.Error())
	}

	// Without a year clause the missing date is irrelevant.
	if err := CheckConstraints(game, &models.Constraints{GenreIDs: []int64{12}}); err != nil {
		t.Errorf("CheckConstraints: %v", err)
	}
}

func TestDisplayConstraints(t *testing.T) {
	genres := []models.NamedRef{{ID: 12, Name: "Role-playing (RPG)"}, {ID: 32, Name: "Indie"}}
	platforms := []models.NamedRef{{ID: 130, Name: "Nintendo Switch"}}

	tests := []struct {
		name string
		cons *models.Constraints
		g, m, p []models.NamedRef
		want string
	}{
		{
			name: "empty",
			cons: &models.Constraints{},
			want: "",
		},
		{
			name: "genres and exact year",
			cons: &models.Constraints{GenreIDs: []int64{12, 32}, ReleaseYear: intPtr(2020)},
			g:    genres,
			want: "Genre: Role-playing (RPG), Indie · Year: 2020",
		},
		{
			name: "year range and platform",
			cons: &models.Constraints{ReleaseYearMin: intPtr(2015), ReleaseYearMax: intPtr(2020), PlatformIDs: []int64{130}},
			p:    platforms,
			want: "Year: 2015–2020 · Platform: Nintendo Switch",
		},
		{
			name: "open-ended year",
			cons: &models.Constraints{ReleaseYearMin: intPtr(2018)},
			want: "Year: 2018–?",
		},
		{
			name: "open-ended year below",
			cons: &models.Constraints{ReleaseYearMax: intPtr(1999)},
			want: "Year: ?–1999",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayConstraints(tt.cons, tt.g, tt.m, tt.p)
			if got != tt.want {
				t.Errorf("DisplayConstraints = %q, want %q", got, tt.want)
			}
		})
	}
}
