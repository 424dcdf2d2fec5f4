// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"sort"
	"sync"
	"time"

	"github.com/gameladder/server/models"
)

// MemoryStore keeps everything in process memory. It exists for tests and
// for running the server without any database at all; semantics mirror the
// SQL backends, including upsert keys and the nomination ranking order.
type MemoryStore struct {
	mu sync.RWMutex

	guilds     map[string]*models.Guild
	guildOrder []string

	ladders      map[int64]*models.Ladder
	nextLadderID int64

	// keyed guild -> game -> user -> platform
	nominations map[string]map[int64]map[string]map[string]models.NominationVote
	gameNames   map[string]map[int64]string

	gameCache map[string]map[int64]*models.Game

	matchups      map[int64]*models.Matchup
	nextMatchupID int64

	// keyed guild -> matchup -> user -> platform
	matchupVotes map[string]map[int64]map[string]map[string]models.MatchupVote
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		guilds:       map[string]*models.Guild{},
		ladders:      map[int64]*models.Ladder{},
		nominations:  map[string]map[int64]map[string]map[string]models.NominationVote{},
		gameNames:    map[string]map[int64]string{},
		gameCache:    map[string]map[int64]*models.Game{},
		matchups:     map[int64]*models.Matchup{},
		matchupVotes: map[string]map[int64]map[string]map[string]models.MatchupVote{},
	}
}

func (s *MemoryStore) Close() error { return nil }

// Guilds

func (s *MemoryStore) EnsureGuild(guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.guilds[guildID]; ok {
		return nil
	}
	s.guilds[guildID] = &models.Guild{GuildID: guildID, BracketSize: models.BracketSizeDefault}
	s.guildOrder = append(s.guildOrder, guildID)
	return nil
}

func (s *MemoryStore) SetGuildBracketSize(guildID string, size int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.guilds[guildID]; ok {
		g.BracketSize = size
	}
	return nil
}

func (s *MemoryStore) ListGuilds() ([]models.Guild, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Newest first, matching the SQL ORDER BY created_at DESC.
	guilds := make([]models.Guild, 0, len(s.guildOrder))
	for i := len(s.guildOrder) - 1; i >= 0; i-- {
		guilds = append(guilds, *s.guilds[s.guildOrder[i]])
	}
	return guilds, nil
}

// Ladders

func (s *MemoryStore) ActiveLadder(guildID string) (*models.Ladder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *models.Ladder
	for _, l := range s.ladders {
		if l.GuildID != guildID || l.Phase == models.PhaseComplete {
			continue
		}
		if best == nil || l.ID > best.ID {
			best = l
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (s *MemoryStore) CreateLadder(guildID string, bracketSize int, constraints *models.Constraints, display string) (*models.Ladder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLadderID++
	if constraints != nil && constraints.Empty() {
		constraints = nil
	}
	l := &models.Ladder{
		ID:                 s.nextLadderID,
		GuildID:            guildID,
		Phase:              models.PhaseNominations,
		BracketSize:        bracketSize,
		Constraints:        constraints,
		ConstraintsDisplay: display,
	}
	s.ladders[l.ID] = l
	cp := *l
	return &cp, nil
}

func (s *MemoryStore) SetLadderPhase(ladderID int64, phase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.ladders[ladderID]; ok {
		l.Phase = phase
	}
	return nil
}

func (s *MemoryStore) CloseLadderNominations(ladderID int64, closedAt time.Time) error {
	return s.SetLadderPhase(ladderID, models.PhaseBracket)
}

// Nomination votes

func (s *MemoryStore) UpsertNominationVote(v models.NominationVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byGame, ok := s.nominations[v.GuildID]
	if !ok {
		byGame = map[int64]map[string]map[string]models.NominationVote{}
		s.nominations[v.GuildID] = byGame
	}
	byUser, ok := byGame[v.GameID]
	if !ok {
		byUser = map[string]map[string]models.NominationVote{}
		byGame[v.GameID] = byUser
	}
	byPlatform, ok := byUser[v.UserID]
	if !ok {
		byPlatform = map[string]models.NominationVote{}
		byUser[v.UserID] = byPlatform
	}
	byPlatform[v.Platform] = v

	names, ok := s.gameNames[v.GuildID]
	if !ok {
		names = map[int64]string{}
		s.gameNames[v.GuildID] = names
	}
	if _, ok := names[v.GameID]; !ok {
		names[v.GameID] = v.GameName
	}
	return nil
}

func (s *MemoryStore) TopNominations(guildID string, limit int) ([]models.GameVoteCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := []models.GameVoteCount{}
	for gameID, byUser := range s.nominations[guildID] {
		n := 0
		for _, byPlatform := range byUser {
			n += len(byPlatform)
		}
		counts = append(counts, models.GameVoteCount{
			GameID:   gameID,
			GameName: s.gameNames[guildID][gameID],
			Votes:    n,
		})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Votes != counts[j].Votes {
			return counts[i].Votes > counts[j].Votes
		}
		return counts[i].GameID < counts[j].GameID
	})
	if limit < len(counts) {
		counts = counts[:limit]
	}
	return counts, nil
}

func (s *MemoryStore) NominationVoteCount(guildID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, byUser := range s.nominations[guildID] {
		for _, byPlatform := range byUser {
			n += len(byPlatform)
		}
	}
	return n, nil
}

func (s *MemoryStore) NominationGameCount(guildID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nominations[guildID]), nil
}

func (s *MemoryStore) VotesForGame(guildID string, gameID int64) ([]models.VoteDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	details := []models.VoteDetail{}
	for _, byPlatform := range s.nominations[guildID][gameID] {
		for _, v := range byPlatform {
			details = append(details, models.VoteDetail{
				UserID:    v.UserID,
				Platform:  v.Platform,
				Timestamp: v.Timestamp,
			})
		}
	}
	return details, nil
}

func (s *MemoryStore) ClearNominationVotes(guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nominations, guildID)
	delete(s.gameNames, guildID)
	return nil
}

// Catalog detail cache

func (s *MemoryStore) GameFromCache(guildID string, gameID int64) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gameCache[guildID][gameID]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (s *MemoryStore) CacheGame(guildID string, gameID int64, game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byGame, ok := s.gameCache[guildID]
	if !ok {
		byGame = map[int64]*models.Game{}
		s.gameCache[guildID] = byGame
	}
	cp := *game
	byGame[gameID] = &cp
	return nil
}

// Matchups

func (s *MemoryStore) CreateMatchup(m models.Matchup) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMatchupID++
	m.ID = s.nextMatchupID
	s.matchups[m.ID] = &m
	return m.ID, nil
}

func (s *MemoryStore) Matchup(guildID string, matchupID int64) (*models.Matchup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matchups[matchupID]
	if !ok || m.GuildID != guildID {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryStore) selectMatchups(guildID string, ladderID int64, keep func(*models.Matchup) bool) []models.Matchup {
	out := []models.Matchup{}
	for _, m := range s.matchups {
		if m.GuildID != guildID || m.LadderID != ladderID {
			continue
		}
		if keep != nil && !keep(m) {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) Matchups(guildID string, ladderID int64) ([]models.Matchup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectMatchups(guildID, ladderID, nil), nil
}

func (s *MemoryStore) OpenMatchups(guildID string, ladderID int64) ([]models.Matchup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectMatchups(guildID, ladderID, func(m *models.Matchup) bool {
		return m.WinnerGameID == nil
	}), nil
}

func (s *MemoryStore) RoundMatchups(guildID string, ladderID int64, round int) ([]models.Matchup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectMatchups(guildID, ladderID, func(m *models.Matchup) bool {
		return m.Round == round
	}), nil
}

func (s *MemoryStore) MaxRound(guildID string, ladderID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := 0
	for _, m := range s.matchups {
		if m.GuildID == guildID && m.LadderID == ladderID && m.Round > max {
			max = m.Round
		}
	}
	return max, nil
}

func (s *MemoryStore) SetMatchupWinner(matchupID int64, winnerGameID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.matchups[matchupID]; ok {
		w := winnerGameID
		m.WinnerGameID = &w
	}
	return nil
}

// Matchup votes

func (s *MemoryStore) UpsertMatchupVote(v models.MatchupVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byMatchup, ok := s.matchupVotes[v.GuildID]
	if !ok {
		byMatchup = map[int64]map[string]map[string]models.MatchupVote{}
		s.matchupVotes[v.GuildID] = byMatchup
	}
	byUser, ok := byMatchup[v.MatchupID]
	if !ok {
		byUser = map[string]map[string]models.MatchupVote{}
		byMatchup[v.MatchupID] = byUser
	}
	byPlatform, ok := byUser[v.UserID]
	if !ok {
		byPlatform = map[string]models.MatchupVote{}
		byUser[v.UserID] = byPlatform
	}
	byPlatform[v.Platform] = v
	return nil
}

func (s *MemoryStore) MatchupVoteCounts(guildID string, matchupID int64) (map[int64]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[int64]int{}
	for _, byPlatform := range s.matchupVotes[guildID][matchupID] {
		for _, v := range byPlatform {
			counts[v.VotedGameID]++
		}
	}
	return counts, nil
}
