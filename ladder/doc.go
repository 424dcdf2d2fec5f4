// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ladder implements the tournament rules.
//
// A ladder moves through three phases:
//
//	nominations -> bracket -> complete
//
// During nominations, users vote for the games they want in the
// tournament; one vote per user per game, repeat votes replace. An
// admin may attach constraints when opening the phase (genre, release
// year, game mode, platform), and every nomination is then checked
// against the catalog before it counts.
//
// Closing nominations freezes the ranking and seeds a single-
// elimination bracket: highest seed against lowest, second against
// second-lowest, inward. An odd field gives the middle seed a bye.
// Users then vote within each matchup; closing a round resolves every
// open matchup (most votes wins, ties and byes go to side A, the
// higher seed) and pairs the winners. When the final matchup resolves,
// the ladder is complete and the winner is the champion.
//
// All rules live in the Engine. It serializes mutations per guild, so
// concurrent admin calls and votes cannot corrupt the bracket, and it
// treats the store as dumb storage. The State projection is safe to
// call at any time and reports whatever phase the guild is in,
// including a synthetic open-nominations state for guilds that have
// never started a ladder.
package ladder
