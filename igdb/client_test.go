// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package igdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gameladder/server/models"
)

// newTestClient spins up a fake Twitch token endpoint plus a fake IGDB
// API and returns a Client pointed at both.
func newTestClient(t *testing.T, api http.HandlerFunc) *Client {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"bearer","expires_in":3600}`)
	}))
	t.Cleanup(tokenSrv.Close)

	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	return NewClient(Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		TokenURL:     tokenSrv.URL,
		APIURL:       apiSrv.URL,
	})
}

func TestGameByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games" {
			t.Errorf("path = %q, want /games", r.URL.Path)
		}
		if got := r.Header.Get("Client-ID"); got != "test-client" {
			t.Errorf("Client-ID = %q", got)
		}
		if got := r.Header.Get("Authorization"); !strings.Contains(got, "test-token") {
			t.Errorf("Authorization = %q, want bearer test-token", got)
		}
		fmt.Fprint(w, `[{"id":1942,"name":"The Witcher 3","first_release_date":1431993600,"genres":[{"id":12,"name":"Role-playing (RPG)","slug":"role-playing-rpg"}]}]`)
	})

	g, err := c.GameByID(context.Background(), 1942)
	if err != nil {
		t.Fatalf("GameByID: %v", err)
	}
	if g == nil || g.Name != "The Witcher 3" {
		t.Fatalf("game = %+v", g)
	}
	if len(g.Genres) != 1 || g.Genres[0].Slug != "role-playing-rpg" {
		t.Errorf("genres = %+v", g.Genres)
	}
}

func TestGameByIDNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	g, err := c.GameByID(context.Background(), 999999)
	if err != nil {
		t.Fatalf("GameByID: %v", err)
	}
	if g != nil {
		t.Fatalf("expected nil game, got %+v", g)
	}
}

func TestQueryErrorIsLookupError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := c.GameByID(context.Background(), 1942)
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v (%T), want *LookupError", err, err)
	}
	if le.Op != "games" {
		t.Errorf("op = %q, want games", le.Op)
	}
}

func TestSearchGamesSendsSearchClause(t *testing.T) {
	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		body = string(buf)
		fmt.Fprint(w, `[{"id":1,"name":"Hades"}]`)
	})

	games, err := c.SearchGames(context.Background(), "hades", 5)
	if err != nil {
		t.Fatalf("SearchGames: %v", err)
	}
	if len(games) != 1 || games[0].Name != "Hades" {
		t.Fatalf("games = %+v", games)
	}
	if !strings.Contains(body, `search "hades";`) {
		t.Errorf("body missing search clause: %q", body)
	}
	if !strings.Contains(body, "limit 5;") {
		t.Errorf("body missing limit clause: %q", body)
	}
}

func TestReferenceLists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/genres":
			fmt.Fprint(w, `[{"id":12,"name":"Role-playing (RPG)","slug":"role-playing-rpg"}]`)
		case "/game_modes":
			fmt.Fprint(w, `[{"id":2,"name":"Multiplayer","slug":"multiplayer"}]`)
		case "/platforms":
			fmt.Fprint(w, `[{"id":130,"name":"Nintendo Switch","slug":"switch"}]`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	})

	ctx := context.Background()
	genres, err := c.Genres(ctx)
	if err != nil || len(genres) != 1 {
		t.Fatalf("Genres: %v %v", genres, err)
	}
	modes, err := c.GameModes(ctx)
	if err != nil || len(modes) != 1 {
		t.Fatalf("GameModes: %v %v", modes, err)
	}
	platforms, err := c.Platforms(ctx)
	if err != nil || len(platforms) != 1 {
		t.Fatalf("Platforms: %v %v", platforms, err)
	}
}

func TestResolveGenreNames(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id":12,"name":"Role-playing (RPG)","slug":"role-playing-rpg"},
			{"id":31,"name":"Adventure","slug":"adventure"},
			{"id":32,"name":"Indie","slug":"indie"}
		]`)
	})

	refs, err := c.ResolveGenreNames(context.Background(), []string{"rpg", "Adventure", "ADVENTURE"})
	if err != nil {
		t.Fatalf("ResolveGenreNames: %v", err)
	}
	// "rpg" matches by substring, "Adventure" exactly, the duplicate drops.
	if len(refs) != 2 {
		t.Fatalf("refs = %+v, want 2 entries", refs)
	}
	if refs[0].ID != 12 || refs[1].ID != 31 {
		t.Errorf("refs = %+v, want ids 12, 31", refs)
	}
}

func TestResolveUnknownName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":31,"name":"Adventure","slug":"adventure"}]`)
	})

	_, err := c.ResolveGenreNames(context.Background(), []string{"polka"})
	var ue *UnknownFilterError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v (%T), want *UnknownFilterError", err, err)
	}
	if ue.Category != "genre" || ue.Name != "polka" {
		t.Errorf("unknown filter = %+v", ue)
	}
}

func TestMatchNameOrSlug(t *testing.T) {
	refs := []models.NamedRef{
		{ID: 1, Name: "Shooter", Slug: "shooter"},
		{ID: 2, Name: "Role-playing (RPG)", Slug: "role-playing-rpg"},
		{ID: 3, Name: "RPG Maker", Slug: "rpg-maker"},
	}

	tests := []struct {
		query  string
		wantID int64
		wantOK bool
	}{
		{"shooter", 1, true},
		{"Shooter", 1, true},
		{"role-playing-rpg", 2, true},
		{"rpg", 2, true}, // substring, first listed wins
		{"  shooter  ", 1, true},
		{"", 0, false},
		{"simulation", 0, false},
	}
	for _, tt := range tests {
		got, ok := matchNameOrSlug(refs, tt.query)
		if ok != tt.wantOK {
			t.Errorf("matchNameOrSlug(%q) ok = %v, want %v", tt.query, ok, tt.wantOK)
			continue
		}
		if ok && got.ID != tt.wantID {
			t.Errorf("matchNameOrSlug(%q) = id %d, want %d", tt.query, got.ID, tt.wantID)
		}
	}
}
