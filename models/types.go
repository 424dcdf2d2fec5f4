// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Ladder phase constants
const (
	PhaseNominations = "nominations"
	PhaseBracket     = "bracket"
	PhaseComplete    = "complete"
)

// Vote origin constants
const (
	PlatformWeb     = "web"
	PlatformDiscord = "discord"
)

// BracketSizeDefault is used when a guild has never chosen a size.
const BracketSizeDefault = 16

// Request types

type NominationRequest struct {
	GuildID  string `json:"guildId"`
	GameID   int64  `json:"gameId"`
	GameName string `json:"gameName"`
	Category string `json:"category"`
	UserID   string `json:"userId"`
	Platform string `json:"platform"`
}

type StartLadderRequest struct {
	BracketSize    int      `json:"bracketSize,omitempty"`
	GenreNames     []string `json:"genreNames,omitempty"`
	ReleaseYear    *int     `json:"releaseYear,omitempty"`
	ReleaseYearMin *int     `json:"releaseYearMin,omitempty"`
	ReleaseYearMax *int     `json:"releaseYearMax,omitempty"`
	GameModeNames  []string `json:"gameModeNames,omitempty"`
	PlatformNames  []string `json:"platformNames,omitempty"`
	AdminSecret    string   `json:"adminSecret,omitempty"`
}

type CloseNominationsRequest struct {
	BracketSize *int   `json:"bracketSize,omitempty"`
	AdminSecret string `json:"adminSecret,omitempty"`
}

type CloseRoundRequest struct {
	AdminSecret string `json:"adminSecret,omitempty"`
}

type MatchupVoteRequest struct {
	MatchupID   int64  `json:"matchupId"`
	VotedGameID int64  `json:"votedGameId"`
	UserID      string `json:"userId"`
	Platform    string `json:"platform"`
}

// Response types

type VoteRecordedResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	TotalVotes int    `json:"totalVotes"`
	TotalGames int    `json:"totalGames"`
}

type TopGamesResponse struct {
	Games      []GameVoteCount `json:"games"`
	Total      int             `json:"total"`
	TotalVotes int             `json:"totalVotes"`
	TotalGames int             `json:"totalGames"`
}

type StatsResponse struct {
	TotalVotes int             `json:"totalVotes"`
	TotalGames int             `json:"totalGames"`
	TopGames   []GameVoteCount `json:"topGames"`
}

type GameVotesResponse struct {
	GameID      int64        `json:"gameId"`
	GameData    *Game        `json:"gameData"`
	Votes       int          `json:"votes"`
	VoteDetails []VoteDetail `json:"voteDetails"`
}

type GuildsResponse struct {
	Guilds []Guild `json:"guilds"`
}

type ClearVotesResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Guild struct {
	GuildID     string `json:"guildId"`
	GuildName   string `json:"guildName,omitempty"`
	BracketSize int    `json:"bracketSize"`
}

// Constraints is the structured nomination filter stored on a ladder.
// All fields are optional; an empty set imposes no restriction.
type Constraints struct {
	GenreIDs       []int64 `json:"genreIds,omitempty"`
	ReleaseYear    *int    `json:"releaseYear,omitempty"`
	ReleaseYearMin *int    `json:"releaseYearMin,omitempty"`
	ReleaseYearMax *int    `json:"releaseYearMax,omitempty"`
	GameModeIDs    []int64 `json:"gameModeIds,omitempty"`
	PlatformIDs    []int64 `json:"platformIds,omitempty"`
}

// Empty reports whether no clause is present.
func (c *Constraints) Empty() bool {
	if c == nil {
		return true
	}
	return len(c.GenreIDs) == 0 &&
		len(c.GameModeIDs) == 0 &&
		len(c.PlatformIDs) == 0 &&
		c.ReleaseYear == nil &&
		c.ReleaseYearMin == nil &&
		c.ReleaseYearMax == nil
}

type Ladder struct {
	ID                 int64        `json:"ladderId"`
	GuildID            string       `json:"guildId"`
	Phase              string       `json:"phase"`
	BracketSize        int          `json:"bracketSize"`
	Constraints        *Constraints `json:"constraints,omitempty"`
	ConstraintsDisplay string       `json:"constraintsDisplay,omitempty"`
}

type NominationVote struct {
	GuildID   string    `json:"guildId"`
	GameID    int64     `json:"gameId"`
	GameName  string    `json:"gameName"`
	Category  string    `json:"category"`
	UserID    string    `json:"userId"`
	Platform  string    `json:"platform"`
	Timestamp time.Time `json:"timestamp"`
}

type VoteDetail struct {
	UserID    string    `json:"userId"`
	Platform  string    `json:"platform"`
	Timestamp time.Time `json:"timestamp"`
}

type GameVoteCount struct {
	GameID   int64  `json:"gameId"`
	GameName string `json:"gameName"`
	Votes    int    `json:"votes"`
}

// Matchup is one bracket pairing. GameBID is nil for a bye; a bye always
// resolves as a win for game A.
type Matchup struct {
	ID           int64   `json:"id"`
	GuildID      string  `json:"-"`
	LadderID     int64   `json:"-"`
	Round        int     `json:"round"`
	GameAID      int64   `json:"gameAId"`
	GameBID      *int64  `json:"gameBId"`
	GameAName    string  `json:"gameAName"`
	GameBName    *string `json:"gameBName"`
	WinnerGameID *int64  `json:"winnerGameId"`
}

// MatchupView is a Matchup enriched with per-side vote tallies for display.
type MatchupView struct {
	Matchup
	VotesA int `json:"votesA"`
	VotesB int `json:"votesB"`
}

type MatchupVote struct {
	GuildID     string    `json:"guildId"`
	MatchupID   int64     `json:"matchupId"`
	UserID      string    `json:"userId"`
	Platform    string    `json:"platform"`
	VotedGameID int64     `json:"votedGameId"`
	Timestamp   time.Time `json:"timestamp"`
}

type Champion struct {
	GameID   int64  `json:"gameId"`
	GameName string `json:"gameName"`
}

// LadderState is the full projection returned to callers. Fields are
// populated per phase: TopGames during nominations, Matchups and
// CurrentRound during the bracket, Champion once complete.
type LadderState struct {
	GuildID            string          `json:"guildId"`
	Phase              string          `json:"phase"`
	BracketSize        int             `json:"bracketSize"`
	LadderID           int64           `json:"ladderId"`
	Constraints        *Constraints    `json:"constraints,omitempty"`
	ConstraintsDisplay string          `json:"constraintsDisplay,omitempty"`
	TopGames           []GameVoteCount `json:"topGames,omitempty"`
	CurrentRound       int             `json:"currentRound,omitempty"`
	Matchups           []MatchupView   `json:"matchups,omitempty"`
	Champion           *Champion       `json:"champion,omitempty"`
}

// Catalog types (IGDB records)

// NamedRef is a catalog reference entry (genre, game mode, platform).
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

type GameCover struct {
	URL string `json:"url,omitempty"`
}

// Game is a catalog record as returned by IGDB. FirstReleaseDate is a unix
// timestamp in seconds; zero means no release date recorded.
type Game struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Summary          string     `json:"summary,omitempty"`
	Cover            *GameCover `json:"cover,omitempty"`
	Rating           float64    `json:"rating,omitempty"`
	RatingCount      int        `json:"rating_count,omitempty"`
	Genres           []NamedRef `json:"genres,omitempty"`
	Platforms        []NamedRef `json:"platforms,omitempty"`
	GameModes        []NamedRef `json:"game_modes,omitempty"`
	FirstReleaseDate int64      `json:"first_release_date,omitempty"`
}
