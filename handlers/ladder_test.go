// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gameladder/server/models"
	"github.com/gameladder/server/testutil"
)

// adminRequest posts body to a ladder admin handler with the path value
// and admin secret set.
func adminRequest(t *testing.T, env *testEnv, handler http.HandlerFunc, guildID, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, nil)
	if body != nil {
		req = httptest.NewRequest("POST", path, jsonBody(t, body))
	}
	req.SetPathValue("guildId", guildID)
	req.Header.Set("X-Admin-Secret", env.cfg.AdminSecret)
	handler(rec, req)
	return rec
}

func TestLadderState(t *testing.T) {
	env := setupEnv(t)
	h := NewLadderHandler(env.engine, env.cfg)

	req := httptest.NewRequest("GET", "/api/guilds/g1/ladder", nil)
	req.SetPathValue("guildId", "g1")
	w := httptest.NewRecorder()
	h.State(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var state models.LadderState
	testutil.DecodeJSON(t, w, &state)
	if state.Phase != models.PhaseNominations || state.GuildID != "g1" {
		t.Errorf("state = %+v", state)
	}
}

func TestStartLadderRequiresAdmin(t *testing.T) {
	env := setupEnv(t)
	h := NewLadderHandler(env.engine, env.cfg)

	req := httptest.NewRequest("POST", "/api/guilds/g1/ladder/start", jsonBody(t, models.StartLadderRequest{}))
	req.SetPathValue("guildId", "g1")
	w := httptest.NewRecorder()
	h.Start(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status without secret = %d", w.Code)
	}

	// Body secret works as well as the header.
	req = httptest.NewRequest("POST", "/api/guilds/g1/ladder/start",
		jsonBody(t, models.StartLadderRequest{AdminSecret: env.cfg.AdminSecret}))
	req.SetPathValue("guildId", "g1")
	w = httptest.NewRecorder()
	h.Start(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status with body secret = %d: %s", w.Code, w.Body.String())
	}
}

func TestStartLadderUnknownFilter(t *testing.T) {
	env := setupEnv(t)
	env.catalog.GenreRefs = []models.NamedRef{{ID: 12, Name: "Role-playing (RPG)"}}
	h := NewLadderHandler(env.engine, env.cfg)

	rec := adminRequest(t, env, h.Start, "g1", "/api/guilds/g1/ladder/start",
		models.StartLadderRequest{GenreNames: []string{"polka"}})

	// The fake catalog's unknown-name error is not a typed igdb error,
	// so it surfaces as 500 here; the full mapping is covered by the
	// igdb and integration tests.
	if rec.Code == http.StatusOK {
		t.Fatalf("start with unknown genre succeeded: %s", rec.Body.String())
	}
}

func TestCloseNominationsWrongPhase(t *testing.T) {
	env := setupEnv(t)
	h := NewLadderHandler(env.engine, env.cfg)
	votes := NewVotesHandler(env.engine, env.cfg)

	for _, game := range []struct {
		id   int64
		name string
	}{{100, "Hades"}, {200, "Celeste"}} {
		rec := testutil.MakeRequest(t, http.HandlerFunc(votes.Submit), "POST", "/api/votes",
			nominationBody("g1", game.id, game.name, "u1"))
		testutil.AssertStatus(t, rec, http.StatusOK)
	}

	rec := adminRequest(t, env, h.CloseNominations, "g1",
		"/api/guilds/g1/ladder/close-nominations", models.CloseNominationsRequest{})
	if rec.Code != http.StatusOK {
		t.Fatalf("close nominations = %d: %s", rec.Code, rec.Body.String())
	}

	// Closing again mid-bracket conflicts.
	rec = adminRequest(t, env, h.CloseNominations, "g1",
		"/api/guilds/g1/ladder/close-nominations", models.CloseNominationsRequest{})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second close = %d, want 409", rec.Code)
	}
}

func TestCloseNominationsTooFewGames(t *testing.T) {
	env := setupEnv(t)
	h := NewLadderHandler(env.engine, env.cfg)

	rec := adminRequest(t, env, h.CloseNominations, "g1",
		"/api/guilds/g1/ladder/close-nominations", models.CloseNominationsRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMatchupVoteFlow(t *testing.T) {
	env := setupEnv(t)
	h := NewLadderHandler(env.engine, env.cfg)
	votes := NewVotesHandler(env.engine, env.cfg)

	for _, game := range []struct {
		id   int64
		name string
	}{{100, "Hades"}, {200, "Celeste"}} {
		rec := testutil.MakeRequest(t, http.HandlerFunc(votes.Submit), "POST", "/api/votes",
			nominationBody("g1", game.id, game.name, "u1"))
		testutil.AssertStatus(t, rec, http.StatusOK)
	}
	rec := adminRequest(t, env, h.CloseNominations, "g1",
		"/api/guilds/g1/ladder/close-nominations", models.CloseNominationsRequest{})
	if rec.Code != http.StatusOK {
		t.Fatalf("close nominations = %d: %s", rec.Code, rec.Body.String())
	}

	var state models.LadderState
	testutil.DecodeJSON(t, rec, &state)
	if len(state.Matchups) != 1 {
		t.Fatalf("matchups = %d", len(state.Matchups))
	}
	matchupID := state.Matchups[0].ID

	// Public matchup vote, no secret needed.
	req := httptest.NewRequest("POST", "/api/guilds/g1/ladder/matchup-vote",
		jsonBody(t, models.MatchupVoteRequest{
			MatchupID: matchupID, VotedGameID: 200, UserID: "u1", Platform: models.PlatformDiscord,
		}))
	req.SetPathValue("guildId", "g1")
	w := httptest.NewRecorder()
	h.MatchupVote(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("matchup vote = %d: %s", w.Code, w.Body.String())
	}
	var view models.MatchupView
	testutil.DecodeJSON(t, w, &view)
	if view.VotesB != 1 {
		t.Errorf("tallies = %d/%d, want 0/1", view.VotesA, view.VotesB)
	}

	// Vote for a game outside the matchup.
	req = httptest.NewRequest("POST", "/api/guilds/g1/ladder/matchup-vote",
		jsonBody(t, models.MatchupVoteRequest{
			MatchupID: matchupID, VotedGameID: 999, UserID: "u1", Platform: models.PlatformWeb,
		}))
	req.SetPathValue("guildId", "g1")
	w = httptest.NewRecorder()
	h.MatchupVote(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid choice = %d, want 400", w.Code)
	}

	// Unknown matchup id.
	req = httptest.NewRequest("POST", "/api/guilds/g1/ladder/matchup-vote",
		jsonBody(t, models.MatchupVoteRequest{
			MatchupID: 9999, VotedGameID: 100, UserID: "u1", Platform: models.PlatformWeb,
		}))
	req.SetPathValue("guildId", "g1")
	w = httptest.NewRecorder()
	h.MatchupVote(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown matchup = %d, want 404", w.Code)
	}
}

func TestCloseRoundCompletesLadder(t *testing.T) {
	env := setupEnv(t)
	h := NewLadderHandler(env.engine, env.cfg)
	votes := NewVotesHandler(env.engine, env.cfg)

	for _, game := range []struct {
		id   int64
		name string
	}{{100, "Hades"}, {200, "Celeste"}} {
		rec := testutil.MakeRequest(t, http.HandlerFunc(votes.Submit), "POST", "/api/votes",
			nominationBody("g1", game.id, game.name, "u1"))
		testutil.AssertStatus(t, rec, http.StatusOK)
	}
	rec := adminRequest(t, env, h.CloseNominations, "g1",
		"/api/guilds/g1/ladder/close-nominations", models.CloseNominationsRequest{})
	if rec.Code != http.StatusOK {
		t.Fatalf("close nominations = %d", rec.Code)
	}

	rec = adminRequest(t, env, h.CloseRound, "g1",
		"/api/guilds/g1/ladder/close-round", models.CloseRoundRequest{})
	if rec.Code != http.StatusOK {
		t.Fatalf("close round = %d: %s", rec.Code, rec.Body.String())
	}

	var state models.LadderState
	testutil.DecodeJSON(t, rec, &state)
	if state.Phase != models.PhaseComplete || state.Champion == nil {
		t.Fatalf("state = %+v", state)
	}
	// No votes cast: the tie goes to the higher seed.
	if state.Champion.GameID != 100 {
		t.Errorf("champion = %+v", state.Champion)
	}
}
