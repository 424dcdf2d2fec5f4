// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil holds helpers shared by tests across packages: an
// in-memory SQLite store, a canned catalog, and small HTTP assertion
// helpers.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gameladder/server/cliparse"
	"github.com/gameladder/server/models"
	"github.com/gameladder/server/store"
)

// NewStore returns a SQLite store backed by an in-memory database,
// closed automatically when the test ends.
func NewStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// FakeCatalog satisfies the catalog dependencies of the engine and the
// browse handlers with canned data. Err, when set, is returned from
// every call, simulating an unreachable catalog.
type FakeCatalog struct {
	Games        map[int64]*models.Game
	GenreRefs    []models.NamedRef
	ModeRefs     []models.NamedRef
	PlatformRefs []models.NamedRef
	Err          error
}

func (f *FakeCatalog) GameByID(ctx context.Context, gameID int64) (*models.Game, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Games[gameID], nil
}

func (f *FakeCatalog) SearchGames(ctx context.Context, term string, limit int) ([]models.Game, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := []models.Game{}
	for _, g := range f.Games {
		if strings.Contains(strings.ToLower(g.Name), strings.ToLower(term)) {
			out = append(out, *g)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *FakeCatalog) GamesByCategory(ctx context.Context, genreID int64, limit int) ([]models.Game, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := []models.Game{}
	for _, g := range f.Games {
		for _, ref := range g.Genres {
			if ref.ID == genreID {
				out = append(out, *g)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *FakeCatalog) Genres(ctx context.Context) ([]models.NamedRef, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.GenreRefs, nil
}

func (f *FakeCatalog) GameModes(ctx context.Context) ([]models.NamedRef, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.ModeRefs, nil
}

func (f *FakeCatalog) Platforms(ctx context.Context) ([]models.NamedRef, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.PlatformRefs, nil
}

func (f *FakeCatalog) ResolveGenreNames(ctx context.Context, names []string) ([]models.NamedRef, error) {
	return f.resolve(f.GenreRefs, names)
}

func (f *FakeCatalog) ResolveGameModeNames(ctx context.Context, names []string) ([]models.NamedRef, error) {
	return f.resolve(f.ModeRefs, names)
}

func (f *FakeCatalog) ResolvePlatformNames(ctx context.Context, names []string) ([]models.NamedRef, error) {
	return f.resolve(f.PlatformRefs, names)
}

func (f *FakeCatalog) resolve(refs []models.NamedRef, names []string) ([]models.NamedRef, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := []models.NamedRef{}
	for _, name := range names {
		found := false
		for _, r := range refs {
			if strings.EqualFold(r.Name, name) || strings.EqualFold(r.Slug, name) {
				out = append(out, r)
				found = true
				break
			}
		}
		if !found {
			return nil, &unknownNameError{name: name}
		}
	}
	return out, nil
}

type unknownNameError struct{ name string }

func (e *unknownNameError) Error() string { return "unknown name " + e.name }

// GetTestConfig returns a config suitable for handler tests: fixed
// admin secret, no catalog credentials.
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3001,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		AdminSecret:  "test-admin-secret",
		FrontendURL:  "http://localhost:3000",
	}
}

// MakeRequest performs an HTTP request against handler and returns the
// recorder. A non-nil body is JSON-encoded.
func MakeRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// AssertStatus fails the test when the recorded status differs.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

// DecodeJSON unmarshals the recorded body into out.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}
