// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/gameladder/server/db"
	"github.com/gameladder/server/models"
)

// PostgresStore persists ladder state in PostgreSQL. Query semantics match
// SQLiteStore exactly; only placeholders, id generation, and timestamp
// handling differ.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres connects to the database at connString, verifies the
// connection, and ensures the schema exists.
func NewPostgres(connString string) (*PostgresStore, error) {
	conn, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	if err := db.CreateSchema(conn, db.DialectPostgres); err != nil {
		conn.Close()
		return nil, err
	}

	return &PostgresStore{db: conn}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Guilds

func (s *PostgresStore) EnsureGuild(guildID string) error {
	_, err := s.db.Exec(`
		INSERT INTO guilds (guild_id, bracket_size)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO NOTHING
	`, guildID, models.BracketSizeDefault)
	if err != nil {
		return fmt.Errorf("failed to ensure guild: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetGuildBracketSize(guildID string, size int) error {
	_, err := s.db.Exec(`UPDATE guilds SET bracket_size = $1 WHERE guild_id = $2`, size, guildID)
	if err != nil {
		return fmt.Errorf("failed to set guild bracket size: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListGuilds() ([]models.Guild, error) {
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

func (s *PostgresStore) ActiveLadder(guildID string) (*models.Ladder, error) {
	var (
		l       models.Ladder
		rawCons sql.NullString
		display sql.NullString
	)
	err := s.db.QueryRow(`
		SELECT id, guild_id, phase, bracket_size, constraints, constraints_display
		FROM ladders
		WHERE guild_id = $1 AND phase != 'complete'
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

func (s *PostgresStore) CreateLadder(guildID string, bracketSize int, constraints *models.Constraints, display string) (*models.Ladder, error) {
	rawCons, err := marshalConstraints(constraints)
	if err != nil {
		return nil, err
	}
	var id int64
	err = s.db.QueryRow(`
		INSERT INTO ladders (guild_id, phase, bracket_size, constraints, constraints_display)
		VALUES ($1, 'nominations', $2, $3, $4)
		RETURNING id
	`, guildID, bracketSize, rawCons, nullString(display)).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ladder: %w", err)
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

func (s *PostgresStore) SetLadderPhase(ladderID int64, phase string) error {
	_, err := s.db.Exec(`UPDATE ladders SET phase = $1 WHERE id = $2`, phase, ladderID)
	if err != nil {
		return fmt.Errorf("failed to set ladder phase: %w", err)
	}
	return nil
}

func (s *PostgresStore) CloseLadderNominations(ladderID int64, closedAt time.Time) error {
	_, err := s.db.Exec(`
		UPDATE ladders SET phase = 'bracket', nominations_closed_at = $1 WHERE id = $2
	`, closedAt, ladderID)
	if err != nil {
		return fmt.Errorf("failed to close nominations: %w", err)
	}
	return nil
}

// Nomination votes

func (s *PostgresStore) UpsertNominationVote(v models.NominationVote) error {
	_, err := s.db.Exec(`
		INSERT INTO nomination_votes (guild_id, game_id, game_name, user_id, platform, category, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (guild_id, game_id, user_id, platform) DO UPDATE SET
			category = excluded.category,
			timestamp = excluded.timestamp
	`, v.GuildID, v.GameID, v.GameName, v.UserID, v.Platform, v.Category, v.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to upsert nomination vote: %w", err)
	}
	return nil
}

func (s *PostgresStore) TopNominations(guildID string, limit int) ([]models.GameVoteCount, error) {
	rows, err := s.db.Query(`
		SELECT game_id, MIN(game_name), COUNT(*) AS votes
		FROM nomination_votes
		WHERE guild_id = $1
		GROUP BY game_id
		ORDER BY votes DESC, game_id ASC
		LIMIT $2
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

func (s *PostgresStore) NominationVoteCount(guildID string) (int, error) {
	var c int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM nomination_votes WHERE guild_id = $1`, guildID).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("failed to count nomination votes: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) NominationGameCount(guildID string) (int, error) {
	var c int
	err := s.db.QueryRow(`SELECT COUNT(DISTINCT game_id) FROM nomination_votes WHERE guild_id = $1`, guildID).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("failed to count nominated games: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) VotesForGame(guildID string, gameID int64) ([]models.VoteDetail, error) {
	rows, err := s.db.Query(`
		SELECT user_id, platform, timestamp
		FROM nomination_votes
		WHERE guild_id = $1 AND game_id = $2
	`, guildID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game votes: %w", err)
	}
	defer rows.Close()

	details := []models.VoteDetail{}
	for rows.Next() {
		var d models.VoteDetail
		if err := rows.Scan(&d.UserID, &d.Platform, &d.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan game vote: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (s *PostgresStore) ClearNominationVotes(guildID string) error {
	_, err := s.db.Exec(`DELETE FROM nomination_votes WHERE guild_id = $1`, guildID)
	if err != nil {
		return fmt.Errorf("failed to clear nomination votes: %w", err)
	}
	return nil
}

// Catalog detail cache

func (s *PostgresStore) GameFromCache(guildID string, gameID int64) (*models.Game, error) {
	var raw sql.NullString
	err := s.db.QueryRow(`
		SELECT game_data FROM game_cache WHERE guild_id = $1 AND game_id = $2
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

func (s *PostgresStore) CacheGame(guildID string, gameID int64, game *models.Game) error {
	raw, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to encode game: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO game_cache (guild_id, game_id, game_data) VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, game_id) DO UPDATE SET game_data = excluded.game_data
	`, guildID, gameID, string(raw))
	if err != nil {
		return fmt.Errorf("failed to cache game: %w", err)
	}
	return nil
}

// Matchups

func (s *PostgresStore) CreateMatchup(m models.Matchup) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO bracket_matchups (guild_id, ladder_id, round, game_a_id, game_b_id, game_a_name, game_b_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, m.GuildID, m.LadderID, m.Round, m.GameAID, m.GameBID, m.GameAName, m.GameBName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert matchup: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Matchup(guildID string, matchupID int64) (*models.Matchup, error) {
	var m models.Matchup
	err := s.db.QueryRow(`
		SELECT `+matchupColumns+` FROM bracket_matchups WHERE id = $1 AND guild_id = $2
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

func (s *PostgresStore) Matchups(guildID string, ladderID int64) ([]models.Matchup, error) {
	rows, err := s.db.Query(`
		SELECT `+matchupColumns+` FROM bracket_matchups
		WHERE guild_id = $1 AND ladder_id = $2
		ORDER BY round, id
	`, guildID, ladderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchups: %w", err)
	}
	defer rows.Close()
	return scanMatchups(rows)
}

func (s *PostgresStore) OpenMatchups(guildID string, ladderID int64) ([]models.Matchup, error) {
	rows, err := s.db.Query(`
		SELECT `+matchupColumns+` FROM bracket_matchups
		WHERE guild_id = $1 AND ladder_id = $2 AND winner_game_id IS NULL
		ORDER BY round, id
	`, guildID, ladderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open matchups: %w", err)
	}
	defer rows.Close()
	return scanMatchups(rows)
}

func (s *PostgresStore) RoundMatchups(guildID string, ladderID int64, round int) ([]models.Matchup, error) {
	rows, err := s.db.Query(`
		SELECT `+matchupColumns+` FROM bracket_matchups
		WHERE guild_id = $1 AND ladder_id = $2 AND round = $3
		ORDER BY id
	`, guildID, ladderID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to query round matchups: %w", err)
	}
	defer rows.Close()
	return scanMatchups(rows)
}

func (s *PostgresStore) MaxRound(guildID string, ladderID int64) (int, error) {
	var round sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MAX(round) FROM bracket_matchups WHERE guild_id = $1 AND ladder_id = $2
	`, guildID, ladderID).Scan(&round)
	if err != nil {
		return 0, fmt.Errorf("failed to query max round: %w", err)
	}
	return int(round.Int64), nil
}

func (s *PostgresStore) SetMatchupWinner(matchupID int64, winnerGameID int64) error {
	_, err := s.db.Exec(`UPDATE bracket_matchups SET winner_game_id = $1 WHERE id = $2`, winnerGameID, matchupID)
	if err != nil {
		return fmt.Errorf("failed to set matchup winner: %w", err)
	}
	return nil
}

// Matchup votes

func (s *PostgresStore) UpsertMatchupVote(v models.MatchupVote) error {
	_, err := s.db.Exec(`
		INSERT INTO matchup_votes (guild_id, matchup_id, user_id, platform, voted_game_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (guild_id, matchup_id, user_id, platform) DO UPDATE SET
			voted_game_id = excluded.voted_game_id,
			timestamp = excluded.timestamp
	`, v.GuildID, v.MatchupID, v.UserID, v.Platform, v.VotedGameID, v.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to upsert matchup vote: %w", err)
	}
	return nil
}

func (s *PostgresStore) MatchupVoteCounts(guildID string, matchupID int64) (map[int64]int, error) {
	rows, err := s.db.Query(`
		SELECT voted_game_id, COUNT(*)
		FROM matchup_votes
		WHERE matchup_id = $1 AND guild_id = $2
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
