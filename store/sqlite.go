// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gameladder/server/db"
	"github.com/gameladder/server/models"
)

// SQLiteStore persists ladder state in a SQLite database file. It is the
// default backend; the server runs self-contained with no external services.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and ensures the schema
// exists. Use ":memory:" for an ephemeral database in tests.
func NewSQLite(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// An in-memory database exists per connection; pin the pool to one so
	// every query sees the same database.
	if strings.Contains(path, ":memory:") {
		conn.SetMaxOpenConns(1)
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		conn.Close()
		return nil, err
	}

	return &SQLiteStore{db: conn}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteTime round-trips timestamps as RFC 3339 text.
func sqliteTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseSQLiteTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Guilds

func (s *SQLiteStore) EnsureGuild(guildID string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO guilds (guild_id, bracket_size, created_at)
		VALUES (?, ?, ?)
	`, guildID, models.BracketSizeDefault, sqliteTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to ensure guild: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetGuildBracketSize(guildID string, size int) error {
	_, err := s.db.Exec(`UPDATE guilds SET bracket_size = ? WHERE guild_id = ?`, size, guildID)
	if err != nil {
		return fmt.Errorf("failed to set guild bracket size: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListGuilds() ([]models.Guild, error) {
	rows, err := s.db.Query(`
		SELECT guild_id, COALESCE(guild_name, ''), bracket_size
		FROM guilds
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list guilds: %w", err)
	}
	defer rows.Close()

	guilds := []models.Guild{}
	for rows.Next() {
		var g models.Guild
		if err := rows.Scan(&g.GuildID, &g.GuildName, &g.BracketSize); err != nil {
			return nil, fmt.Errorf("failed to scan guild: %w", err)
		}
		guilds = append(guilds, g)
	}
	return guilds, rows.Err()
}

// Ladders

func marshalConstraints(c *models.Constraints) (sql.NullString, error) {
	if c.Empty() {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal constraints: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func unmarshalConstraints(raw sql.NullString) *models.Constraints {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return nil
	}
	var c models.Constraints
	if err := json.Unmarshal([]byte(raw.String), &c); err != nil {
		return nil
	}
	if c.Empty() {
		return nil
	}
	return &c
}

func (s *SQLiteStore) ActiveLadder(guildID string) (*models.Ladder, error) {
	var (
		l       models.Ladder
		rawCons sql.NullString
		display sql.NullString
	)
	err := s.db.QueryRow(`
		SELECT id, guild_id, phase, bracket_size, constraints, constraints_display
		FROM ladders
		WHERE guild_id = ? AND phase != 'complete'
		ORDER BY id DESC
		LIMIT 1
	`, guildID).Scan(&l.ID, &l.GuildID, &l.Phase, &l.BracketSize, &rawCons, &display)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query active ladder: %w", err)
	}
	l.Constraints = unmarshalConstraints(rawCons)
	l.ConstraintsDisplay = display.String
	return &l, nil
}

func (s *SQLiteStore) CreateLadder(guildID string, bracketSize int, constraints *models.Constraints, display string) (*models.Ladder, error) {
	rawCons, err := marshalConstraints(constraints)
	if err != nil {
		return nil, err
	}
	res, err := s.db.Exec(`
		INSERT INTO ladders (guild_id, phase, bracket_size, constraints, constraints_display, created_at)
		VALUES (?, 'nominations', ?, ?, ?, ?)
	`, guildID, bracketSize, rawCons, nullString(display), sqliteTime(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to insert ladder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read ladder id: %w", err)
	}
	return &models.Ladder{
		ID:                 id,
		GuildID:            guildID,
		Phase:              models.PhaseNominations,
		BracketSize:        bracketSize,
		Constraints:        unmarshalConstraints(rawCons),
		ConstraintsDisplay: display,
	}, nil
}

func (s *SQLiteStore) SetLadderPhase(ladderID int64, phase string) error {
	_, err := s.db.Exec(`UPDATE ladders SET phase = ? WHERE id = ?`, phase, ladderID)
	if err != nil {
		return fmt.Errorf("failed to set ladder phase: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CloseLadderNominations(ladderID int64, closedAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE ladders SET phase = 'bracket', nominations_closed_at = ? WHERE id = ?
	`, sqliteTime(closedAt), ladderID)
	if err != nil {
		return fmt.Errorf("failed to close nominations: %w", err)
	}
	return nil
}

// Nomination votes

func (s *SQLiteStore) UpsertNominationVote(v models.NominationVote) error {
	_, err := s.db.Exec(`
		INSERT INTO nomination_votes (guild_id, game_id, game_name, user_id, platform, category, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(guild_id, game_id, user_id, platform) DO UPDATE SET
			category = excluded.category,
			timestamp = excluded.timestamp
	`, v.GuildID, v.GameID, v.GameName, v.UserID, v.Platform, v.Category, sqliteTime(v.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to upsert nomination vote: %w", err)
	}
	return nil
}

func (s *SQLiteStore) TopNominations(guildID string, limit int) ([]models.GameVoteCount, error) {
	rows, err := s.db.Query(`
		SELECT game_id, MIN(game_name), COUNT(*) AS votes
		FROM nomination_votes
		WHERE guild_id = ?
		GROUP BY game_id
		ORDER BY votes DESC, game_id ASC
		LIMIT ?
	`, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top nominations: %w", err)
	}
	defer rows.Close()

	top := []models.GameVoteCount{}
	for rows.Next() {
		var g models.GameVoteCount
		if err := rows.Scan(&g.GameID, &g.GameName, &g.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan nomination count: %w", err)
		}
		top = append(top, g)
	}
	return top, rows.Err()
}

func (s *SQLiteStore) NominationVoteCount(guildID string) (int, error) {
	var c int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM nomination_votes WHERE guild_id = ?`, guildID).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("failed to count nomination votes: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) NominationGameCount(guildID string) (int, error) {
	var c int
	err := s.db.QueryRow(`SELECT COUNT(DISTINCT game_id) FROM nomination_votes WHERE guild_id = ?`, guildID).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("failed to count nominated games: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) VotesForGame(guildID string, gameID int64) ([]models.VoteDetail, error) {
	rows, err := s.db.Query(`
		SELECT user_id, platform, timestamp
		FROM nomination_votes
		WHERE guild_id = ? AND game_id = ?
	`, guildID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game votes: %w", err)
	}
	defer rows.Close()

	details := []models.VoteDetail{}
	for rows.Next() {
		var (
			d  models.VoteDetail
			ts string
		)
		if err := rows.Scan(&d.UserID, &d.Platform, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan game vote: %w", err)
		}
		d.Timestamp = parseSQLiteTime(ts)
		details = append(details, d)
	}
	return details, rows.Err()
}

func (s *SQLiteStore) ClearNominationVotes(guildID string) error {
	_, err := s.db.Exec(`DELETE FROM nomination_votes WHERE guild_id = ?`, guildID)
	if err != nil {
		return fmt.Errorf("failed to clear nomination votes: %w", err)
	}
	return nil
}

// Catalog detail cache

func (s *SQLiteStore) GameFromCache(guildID string, gameID int64) (*models.Game, error) {
	var raw sql.NullString
	err := s.db.QueryRow(`
		SELECT game_data FROM game_cache WHERE guild_id = ? AND game_id = ?
	`, guildID, gameID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query game cache: %w", err)
	}
	if !raw.Valid {
		return nil, nil
	}
	var g models.Game
	if err := json.Unmarshal([]byte(raw.String), &g); err != nil {
		return nil, fmt.Errorf("failed to decode cached game: %w", err)
	}
	return &g, nil
}

func (s *SQLiteStore) CacheGame(guildID string, gameID int64, game *models.Game) error {
	raw, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to encode game: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO game_cache (guild_id, game_id, game_data) VALUES (?, ?, ?)
		ON CONFLICT(guild_id, game_id) DO UPDATE SET game_data = excluded.game_data
	`, guildID, gameID, string(raw))
	if err != nil {
		return fmt.Errorf("failed to cache game: %w", err)
	}
	return nil
}

// Matchups

func (s *SQLiteStore) CreateMatchup(m models.Matchup) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO bracket_matchups (guild_id, ladder_id, round, game_a_id, game_b_id, game_a_name, game_b_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.GuildID, m.LadderID, m.Round, m.GameAID, m.GameBID, m.GameAName, m.GameBName)
	if err != nil {
		return 0, fmt.Errorf("failed to insert matchup: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read matchup id: %w", err)
	}
	return id, nil
}

func scanMatchups(rows *sql.Rows) ([]models.Matchup, error) {
	matchups := []models.Matchup{}
	for rows.Next() {
		var m models.Matchup
		if err := rows.Scan(&m.ID, &m.GuildID, &m.LadderID, &m.Round,
			&m.GameAID, &m.GameBID, &m.GameAName, &m.GameBName, &m.WinnerGameID); err != nil {
			return nil, fmt.Errorf("failed to scan matchup: %w", err)
		}
		matchups = append(matchups, m)
	}
	return matchups, rows.Err()
}

const matchupColumns = `id, guild_id, ladder_id, round, game_a_id, game_b_id, game_a_name, game_b_name, winner_game_id`

func (s *SQLiteStore) Matchup(guildID string, matchupID int64) (*models.Matchup, error) {
	var m models.Matchup
	err := s.db.QueryRow(`
		SELECT `+matchupColumns+` FROM bracket_matchups WHERE id = ? AND guild_id = ?
	`, matchupID, guildID).Scan(&m.ID, &m.GuildID, &m.LadderID, &m.Round,
		&m.GameAID, &m.GameBID, &m.GameAName, &m.GameBName, &m.WinnerGameID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query matchup: %w", err)
	}
	return &m, nil
}

func (s *SQLiteStore) Matchups(guildID string, ladderID int64) ([]models.Matchup, error) {
	rows, err := s.db.Query(`
		SELECT `+matchupColumns+` FROM bracket_matchups
		WHERE guild_id = ? AND ladder_id = ?
		ORDER BY round, id
	`, guildID, ladderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchups: %w", err)
	}
	defer rows.Close()
	return scanMatchups(rows)
}

func (s *SQLiteStore) OpenMatchups(guildID string, ladderID int64) ([]models.Matchup, error) {
	rows, err := s.db.Query(`
		SELECT `+matchupColumns+` FROM bracket_matchups
		WHERE guild_id = ? AND ladder_id = ? AND winner_game_id IS NULL
		ORDER BY round, id
	`, guildID, ladderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open matchups: %w", err)
	}
	defer rows.Close()
	return scanMatchups(rows)
}

func (s *SQLiteStore) RoundMatchups(guildID string, ladderID int64, round int) ([]models.Matchup, error) {
	rows, err := s.db.Query(`
		SELECT `+matchupColumns+` FROM bracket_matchups
		WHERE guild_id = ? AND ladder_id = ? AND round = ?
		ORDER BY id
	`, guildID, ladderID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to query round matchups: %w", err)
	}
	defer rows.Close()
	return scanMatchups(rows)
}

func (s *SQLiteStore) MaxRound(guildID string, ladderID int64) (int, error) {
	var round sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MAX(round) FROM bracket_matchups WHERE guild_id = ? AND ladder_id = ?
	`, guildID, ladderID).Scan(&round)
	if err != nil {
		return 0, fmt.Errorf("failed to query max round: %w", err)
	}
	return int(round.Int64), nil
}

func (s *SQLiteStore) SetMatchupWinner(matchupID int64, winnerGameID int64) error {
	_, err := s.db.Exec(`UPDATE bracket_matchups SET winner_game_id = ? WHERE id = ?`, winnerGameID, matchupID)
	if err != nil {
		return fmt.Errorf("failed to set matchup winner: %w", err)
	}
	return nil
}

// Matchup votes

func (s *SQLiteStore) UpsertMatchupVote(v models.MatchupVote) error {
	_, err := s.db.Exec(`
		INSERT INTO matchup_votes (guild_id, matchup_id, user_id, platform, voted_game_id, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(guild_id, matchup_id, user_id, platform) DO UPDATE SET
			voted_game_id = excluded.voted_game_id,
			timestamp = excluded.timestamp
	`, v.GuildID, v.MatchupID, v.UserID, v.Platform, v.VotedGameID, sqliteTime(v.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to upsert matchup vote: %w", err)
	}
	return nil
}

func (s *SQLiteStore) MatchupVoteCounts(guildID string, matchupID int64) (map[int64]int, error) {
	rows, err := s.db.Query(`
		SELECT voted_game_id, COUNT(*)
		FROM matchup_votes
		WHERE matchup_id = ? AND guild_id = ?
		GROUP BY voted_game_id
	`, matchupID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchup votes: %w", err)
	}
	defer rows.Close()

	counts := map[int64]int{}
	for rows.Next() {
		var (
			gameID int64
			c      int
		)
		if err := rows.Scan(&gameID, &c); err != nil {
			return nil, fmt.Errorf("failed to scan matchup vote count: %w", err)
		}
		counts[gameID] = c
	}
	return counts, rows.Err()
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
