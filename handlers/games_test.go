// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gameladder/server/models"
	"github.com/gameladder/server/testutil"
)

func catalogWithGames() *testutil.FakeCatalog {
	return &testutil.FakeCatalog{
		Games: map[int64]*models.Game{
			100: {
				ID: 100, Name: "Hades",
				Genres: []models.NamedRef{{ID: 12, Name: "Role-playing (RPG)"}},
			},
			200: {
				ID: 200, Name: "Hades II",
				Genres: []models.NamedRef{{ID: 12, Name: "Role-playing (RPG)"}},
			},
		},
		GenreRefs:    []models.NamedRef{{ID: 12, Name: "Role-playing (RPG)", Slug: "role-playing-rpg"}},
		ModeRefs:     []models.NamedRef{{ID: 2, Name: "Multiplayer", Slug: "multiplayer"}},
		PlatformRefs: []models.NamedRef{{ID: 130, Name: "Nintendo Switch", Slug: "switch"}},
	}
}

func TestGameSearch(t *testing.T) {
	env := setupEnv(t)
	env.catalog.Games = catalogWithGames().Games
	h := NewGamesHandler(env.catalog, env.store)

	rec := testutil.MakeRequest(t, http.HandlerFunc(h.Search), "GET", "/api/games/search?q=hades", nil)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var resp struct {
		Games []models.Game `json:"games"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Games) != 2 {
		t.Errorf("games = %+v", resp.Games)
	}

	// Missing query term.
	rec = testutil.MakeRequest(t, http.HandlerFunc(h.Search), "GET", "/api/games/search", nil)
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestGameByIDCachesPerGuild(t *testing.T) {
	env := setupEnv(t)
	env.catalog.Games = catalogWithGames().Games
	h := NewGamesHandler(env.catalog, env.store)

	get := func(path, gameID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.SetPathValue("gameId", gameID)
		w := httptest.NewRecorder()
		h.ByID(w, req)
		return w
	}

	w := get("/api/games/100?guildId=g1", "100")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var game models.Game
	testutil.DecodeJSON(t, w, &game)
	if game.Name != "Hades" {
		t.Errorf("game = %+v", game)
	}

	// The catalog goes away; the cached copy still serves the guild.
	env.catalog.Err = errors.New("down")
	w = get("/api/games/100?guildId=g1", "100")
	if w.Code != http.StatusOK {
		t.Fatalf("cached status = %d: %s", w.Code, w.Body.String())
	}

	// A different guild has no cache entry and sees the failure.
	w = get("/api/games/100?guildId=g2", "100")
	if w.Code == http.StatusOK {
		t.Error("uncached guild should not be served")
	}
}

func TestGameByIDNotFound(t *testing.T) {
	env := setupEnv(t)
	h := NewGamesHandler(env.catalog, env.store)

	req := httptest.NewRequest("GET", "/api/games/999", nil)
	req.SetPathValue("gameId", "999")
	w := httptest.NewRecorder()
	h.ByID(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/games/banana", nil)
	req.SetPathValue("gameId", "banana")
	w = httptest.NewRecorder()
	h.ByID(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGamesByCategory(t *testing.T) {
	env := setupEnv(t)
	env.catalog.Games = catalogWithGames().Games
	h := NewGamesHandler(env.catalog, env.store)

	req := httptest.NewRequest("GET", "/api/games/category/12", nil)
	req.SetPathValue("categoryId", "12")
	w := httptest.NewRecorder()
	h.Category(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Games []models.Game `json:"games"`
	}
	testutil.DecodeJSON(t, w, &resp)
	if len(resp.Games) != 2 {
		t.Errorf("games = %+v", resp.Games)
	}
}

func TestFilterReferenceLists(t *testing.T) {
	env := setupEnv(t)
	full := catalogWithGames()
	env.catalog.GenreRefs = full.GenreRefs
	env.catalog.ModeRefs = full.ModeRefs
	env.catalog.PlatformRefs = full.PlatformRefs
	h := NewFiltersHandler(env.catalog)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		key     string
	}{
		{"genres", h.Genres, "genres"},
		{"game modes", h.GameModes, "gameModes"},
		{"platforms", h.Platforms, "platforms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.MakeRequest(t, tt.handler, "GET", "/api/igdb/"+tt.key, nil)
			testutil.AssertStatus(t, rec, http.StatusOK)

			var resp map[string][]models.NamedRef
			testutil.DecodeJSON(t, rec, &resp)
			if len(resp[tt.key]) != 1 {
				t.Errorf("response = %v, want one %s entry", resp, tt.key)
			}
		})
	}
}

func TestGuildsList(t *testing.T) {
	env := setupEnv(t)
	votes := NewVotesHandler(env.engine, env.cfg)
	h := NewGuildsHandler(env.store)

	rec := testutil.MakeRequest(t, http.HandlerFunc(h.List), "GET", "/api/guilds", nil)
	testutil.AssertStatus(t, rec, http.StatusOK)
	var resp models.GuildsResponse
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Guilds) != 0 {
		t.Errorf("guilds = %+v, want none", resp.Guilds)
	}

	// A nomination implicitly registers the guild.
	rec = testutil.MakeRequest(t, http.HandlerFunc(votes.Submit), "POST", "/api/votes",
		nominationBody("g1", 100, "Hades", "u1"))
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = testutil.MakeRequest(t, http.HandlerFunc(h.List), "GET", "/api/guilds", nil)
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Guilds) != 1 || resp.Guilds[0].GuildID != "g1" {
		t.Errorf("guilds = %+v", resp.Guilds)
	}
}
