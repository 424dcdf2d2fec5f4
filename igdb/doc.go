// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package igdb is a thin client for the IGDB v4 game catalog.
//
// IGDB authenticates through Twitch: an app access token obtained with
// the OAuth2 client-credentials grant, sent alongside a Client-ID header.
// The client delegates token acquisition and refresh to
// golang.org/x/oauth2/clientcredentials, so callers never see tokens.
//
// Queries use IGDB's Apicalypse syntax, posted as plain text:
//
//	fields id, name; where id = 1942; limit 1;
//
// The package exposes exactly what the rest of the server needs: game
// lookup by id, free-text search, genre browsing, the three reference
// lists (genres, game modes, platforms), and resolution of human filter
// names ("RPG", "co-op") to catalog ids.
//
// Two error types matter to callers. A *LookupError means the catalog
// could not be reached or answered abnormally; handlers translate it to
// 502. An *UnknownFilterError means an admin named a genre, mode, or
// platform the catalog has never heard of; handlers translate it to 400.
// A lookup that succeeds but finds nothing returns (nil, nil).
package igdb
