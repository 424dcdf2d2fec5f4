// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/gameladder/server/models"
)

const (
	defaultAPIURL   = "https://api.igdb.com/v4"
	defaultTokenURL = "https://id.twitch.tv/oauth2/token"
)

// gameFields is the projection requested for every game query.
const gameFields = `fields id, name, summary, cover.url, rating, rating_count, first_release_date, genres.id, genres.name, genres.slug, platforms.id, platforms.name, platforms.slug, game_modes.id, game_modes.name, game_modes.slug;`

// LookupError wraps a catalog failure so callers can distinguish "the
// catalog is down" from "the catalog has no such record".
type LookupError struct {
	Op  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("igdb %s: %v", e.Op, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// UnknownFilterError reports a filter name that matched nothing in the
// catalog's reference lists.
type UnknownFilterError struct {
	Category string
	Name     string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Category, e.Name)
}

// Config carries IGDB credentials and endpoint overrides. TokenURL and
// APIURL default to the live Twitch/IGDB endpoints; tests point them at
// an httptest server.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIURL       string
}

// Client talks to the IGDB v4 API. Authentication uses the Twitch OAuth2
// client-credentials flow; the oauth2 transport caches and refreshes the
// app access token automatically.
type Client struct {
	apiURL   string
	clientID string
	http     *http.Client
}

// NewClient builds a Client from cfg. The returned client is safe for
// concurrent use.
func NewClient(cfg Config) *Client {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = 15 * time.Second

	return &Client{
		apiURL:   strings.TrimRight(apiURL, "/"),
		clientID: cfg.ClientID,
		http:     httpClient,
	}
}

// query posts an Apicalypse body to endpoint and decodes the JSON array
// response into out.
func (c *Client) query(ctx context.Context, endpoint, body string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/"+endpoint, strings.NewReader(body))
	if err != nil {
		return &LookupError{Op: endpoint, Err: err}
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &LookupError{Op: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &LookupError{
			Op:  endpoint,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &LookupError{Op: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// GameByID fetches one game. Returns (nil, nil) when the catalog has no
// record for the id.
func (c *Client) GameByID(ctx context.Context, gameID int64) (*models.Game, error) {
	body := fmt.Sprintf("%s where id = %d; limit 1;", gameFields, gameID)
	var games []models.Game
	if err := c.query(ctx, "games", body, &games); err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, nil
	}
	return &games[0], nil
}

// SearchGames runs a free-text search, filtered to titles with at least
// some community rating data so junk entries stay out of results.
func (c *Client) SearchGames(ctx context.Context, term string, limit int) ([]models.Game, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	body := fmt.Sprintf("%s search %q; where rating_count > 0; limit %d;", gameFields, term, limit)
	var games []models.Game
	if err := c.query(ctx, "games", body, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GamesByCategory lists popular games in a genre, highest rated first.
func (c *Client) GamesByCategory(ctx context.Context, genreID int64, limit int) ([]models.Game, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	body := fmt.Sprintf("%s where genres = %d & rating_count > 5; sort rating desc; limit %d;",
		gameFields, genreID, limit)
	var games []models.Game
	if err := c.query(ctx, "games", body, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// Reference lists. IGDB's genre, game mode, and platform tables are small
// and effectively static, so each call fetches the full list.

func (c *Client) Genres(ctx context.Context) ([]models.NamedRef, error) {
	return c.referenceList(ctx, "genres")
}

func (c *Client) GameModes(ctx context.Context) ([]models.NamedRef, error) {
	return c.referenceList(ctx, "game_modes")
}

func (c *Client) Platforms(ctx context.Context) ([]models.NamedRef, error) {
	return c.referenceList(ctx, "platforms")
}

func (c *Client) referenceList(ctx context.Context, endpoint string) ([]models.NamedRef, error) {
	var refs []models.NamedRef
	err := c.query(ctx, endpoint, "fields id, name, slug; sort name asc; limit 500;", &refs)
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// Filter name resolution. Admins start a ladder with human names
// ("RPG", "co-op", "switch"); these resolve each to a catalog id.

func (c *Client) ResolveGenreNames(ctx context.Context, names []string) ([]models.NamedRef, error) {
	refs, err := c.Genres(ctx)
	if err != nil {
		return nil, err
	}
	return resolveNames("genre", refs, names)
}

func (c *Client) ResolveGameModeNames(ctx context.Context, names []string) ([]models.NamedRef, error) {
	refs, err := c.GameModes(ctx)
	if err != nil {
		return nil, err
	}
	return resolveNames("game mode", refs, names)
}

func (c *Client) ResolvePlatformNames(ctx context.Context, names []string) ([]models.NamedRef, error) {
	refs, err := c.Platforms(ctx)
	if err != nil {
		return nil, err
	}
	return resolveNames("platform", refs, names)
}

// resolveNames maps each requested name to a reference entry and
// deduplicates by id. An unmatched name fails the whole resolution.
func resolveNames(category string, refs []models.NamedRef, names []string) ([]models.NamedRef, error) {
	resolved := []models.NamedRef{}
	seen := map[int64]bool{}
	for _, name := range names {
		ref, ok := matchNameOrSlug(refs, name)
		if !ok {
			return nil, &UnknownFilterError{Category: category, Name: name}
		}
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		resolved = append(resolved, ref)
	}
	return resolved, nil
}

// matchNameOrSlug finds the first reference whose name or slug matches
// the query, case-insensitively. Exact matches win over substring
// matches so "RPG" picks "Role-playing (RPG)" only when nothing is
// named exactly "RPG".
func matchNameOrSlug(refs []models.NamedRef, query string) (models.NamedRef, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return models.NamedRef{}, false
	}
	for _, r := range refs {
		if strings.ToLower(r.Name) == q || strings.ToLower(r.Slug) == q {
			return r, true
		}
	}
	for _, r := range refs {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Slug), q) {
			return r, true
		}
	}
	return models.NamedRef{}, false
}
