// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gameladder/server/models"
)

func TestWithLoggingSetsRequestID(t *testing.T) {
	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/test", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	// Two requests must get distinct ids.
	rec2 := httptest.NewRecorder()
	handler(rec2, httptest.NewRequest("GET", "/test", nil))
	if rec.Header().Get("X-Request-ID") == rec2.Header().Get("X-Request-ID") {
		t.Error("request ids are not unique")
	}
}

func TestJSONResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONResponse(rec, http.StatusCreated, map[string]string{"hello": "world"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("body = %v", body)
	}
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(rec, http.StatusConflict, "nominations are closed")

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Error != "Conflict" || resp.Message != "nominations are closed" {
		t.Errorf("response = %+v", resp)
	}
}

func TestParseJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"guildId":"g1","gameId":100}`))
	var req models.NominationRequest
	if err := ParseJSONBody(r, &req); err != nil {
		t.Fatalf("ParseJSONBody: %v", err)
	}
	if req.GuildID != "g1" || req.GameID != 100 {
		t.Errorf("parsed = %+v", req)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader("not json"))
	if err := ParseJSONBody(r, &req); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS(next, "http://localhost:3000")

	t.Run("allowed origin", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/votes/top", nil)
		r.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("allow-origin = %q", got)
		}
		if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("credentials not allowed")
		}
	})

	t.Run("other origin gets no allow header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/votes/top", nil)
		r.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("allow-origin = %q, want empty", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		r := httptest.NewRequest("OPTIONS", "/api/votes", nil)
		r.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		if rec.Code != http.StatusOK {
			t.Errorf("preflight status = %d", rec.Code)
		}
		if !strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), "X-Admin-Secret") {
			t.Error("admin secret header not allowed in preflight")
		}
	})
}
