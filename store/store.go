// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"time"

	"github.com/gameladder/server/models"
)

// Store is the persistence contract consumed by the ladder engine. It is a
// dumb CRUD layer: phase rules, seeding, and winner resolution live in the
// engine, never here. Lookups that miss return (nil, nil), not an error.
type Store interface {
	// Guilds
	EnsureGuild(guildID string) error
	SetGuildBracketSize(guildID string, size int) error
	ListGuilds() ([]models.Guild, error)

	// Ladders. ActiveLadder returns the most recent non-complete ladder for
	// the guild, or nil when none exists.
	ActiveLadder(guildID string) (*models.Ladder, error)
	CreateLadder(guildID string, bracketSize int, constraints *models.Constraints, display string) (*models.Ladder, error)
	SetLadderPhase(ladderID int64, phase string) error
	CloseLadderNominations(ladderID int64, closedAt time.Time) error

	// Nomination votes
	UpsertNominationVote(v models.NominationVote) error
	TopNominations(guildID string, limit int) ([]models.GameVoteCount, error)
	NominationVoteCount(guildID string) (int, error)
	NominationGameCount(guildID string) (int, error)
	VotesForGame(guildID string, gameID int64) ([]models.VoteDetail, error)
	ClearNominationVotes(guildID string) error

	// Catalog detail cache
	GameFromCache(guildID string, gameID int64) (*models.Game, error)
	CacheGame(guildID string, gameID int64, game *models.Game) error

	// Matchups
	CreateMatchup(m models.Matchup) (int64, error)
	Matchup(guildID string, matchupID int64) (*models.Matchup, error)
	Matchups(guildID string, ladderID int64) ([]models.Matchup, error)
	OpenMatchups(guildID string, ladderID int64) ([]models.Matchup, error)
	RoundMatchups(guildID string, ladderID int64, round int) ([]models.Matchup, error)
	MaxRound(guildID string, ladderID int64) (int, error)
	SetMatchupWinner(matchupID int64, winnerGameID int64) error

	// Matchup votes
	UpsertMatchupVote(v models.MatchupVote) error
	MatchupVoteCounts(guildID string, matchupID int64) (map[int64]int, error)

	Close() error
}
