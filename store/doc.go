// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store provides persistence for guilds, ladders, votes, and
// bracket matchups behind a single Store interface.
//
// Three backends implement the interface:
//
//   - SQLiteStore (modernc.org/sqlite) is the default. It runs without any
//     external service and is what tests use, via an in-memory database.
//   - PostgresStore (github.com/lib/pq) serves multi-instance deployments.
//   - MemoryStore keeps everything in process maps; it backs unit tests
//     that want a store without SQL at all.
//
// The store is deliberately dumb. It answers questions ("what is the
// active ladder", "who are the top nominations") and records facts
// ("this user voted for this game"), but it never enforces phase rules
// or tournament structure. That logic lives in the ladder package, which
// is the store's only writer.
//
// Conventions shared by all backends:
//
//   - Lookups that find nothing return (nil, nil), never an error.
//   - Vote writes are upserts keyed by (guild, subject, user, platform);
//     a repeat vote replaces the earlier row instead of adding one.
//   - TopNominations orders by vote count descending, then game id
//     ascending, so rankings are stable under ties.
package store
