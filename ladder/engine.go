// Copyright (c) 2026 Game Ladder contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ladder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gameladder/server/models"
	"github.com/gameladder/server/store"
)

// Catalog is the slice of the game catalog the engine needs: detail
// lookup for constraint checks and name resolution for filters. The
// igdb package provides the real implementation.
type Catalog interface {
	GameByID(ctx context.Context, gameID int64) (*models.Game, error)
	ResolveGenreNames(ctx context.Context, names []string) ([]models.NamedRef, error)
	ResolveGameModeNames(ctx context.Context, names []string) ([]models.NamedRef, error)
	ResolvePlatformNames(ctx context.Context, names []string) ([]models.NamedRef, error)
}

// Engine owns all tournament rules: phase transitions, constraint
// enforcement, bracket seeding, and winner resolution. The store beneath
// it is plain CRUD; nothing mutates ladder state except through here.
//
// Mutations for a guild are serialized on a per-guild mutex, so two
// concurrent close-nominations calls cannot both seed a bracket, and a
// vote cannot land between a matchup's resolution and the next round's
// creation.
type Engine struct {
	store   store.Store
	catalog Catalog

	mu      sync.Mutex
	guildMu map[string]*sync.Mutex
}

func NewEngine(st store.Store, catalog Catalog) *Engine {
	return &Engine{
		store:   st,
		catalog: catalog,
		guildMu: map[string]*sync.Mutex{},
	}
}

// lockGuild serializes mutations for one guild. Returns the unlock func.
func (e *Engine) lockGuild(guildID string) func() {
	e.mu.Lock()
	m, ok := e.guildMu[guildID]
	if !ok {
		m = &sync.Mutex{}
		e.guildMu[guildID] = m
	}
	e.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// activeLadderLocked returns the guild's active ladder, creating a
// fresh nominations-phase ladder with default settings when none
// exists. Caller must hold the guild lock.
func (e *Engine) activeLadderLocked(guildID string) (*models.Ladder, error) {
	if err := e.store.EnsureGuild(guildID); err != nil {
		return nil, err
	}
	l, err := e.store.ActiveLadder(guildID)
	if err != nil {
		return nil, err
	}
	if l != nil {
		return l, nil
	}
	return e.store.CreateLadder(guildID, models.BracketSizeDefault, nil, "")
}

// SubmitNomination records one user's nomination vote. Repeat votes by
// the same user for the same game replace the earlier vote. When the
// active ladder carries constraints, the game is checked against them
// first, which requires a catalog lookup.
func (e *Engine) SubmitNomination(ctx context.Context, req models.NominationRequest) (*models.VoteRecordedResponse, error) {
	unlock := e.lockGuild(req.GuildID)
	defer unlock()

	l, err := e.activeLadderLocked(req.GuildID)
	if err != nil {
		return nil, err
	}
	if l.Phase != models.PhaseNominations {
		return nil, fmt.Errorf("%w: nominations are closed", ErrWrongPhase)
	}

	if !l.Constraints.Empty() {
		game, err := e.gameDetails(ctx, req.GuildID, req.GameID)
		if err != nil {
			return nil, err
		}
		if game == nil {
			return nil, &ConstraintViolationError{
				GameName: req.GameName,
				Failures: []string{"has no catalog record to check against the ladder constraints"},
			}
		}
		if err := CheckConstraints(game, l.Constraints); err != nil {
			return nil, err
		}
	}

	err = e.store.UpsertNominationVote(models.NominationVote{
		GuildID:   req.GuildID,
		GameID:    req.GameID,
		GameName:  req.GameName,
		Category:  req.Category,
		UserID:    req.UserID,
		Platform:  req.Platform,
		Timestamp: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	totalVotes, err := e.store.NominationVoteCount(req.GuildID)
	if err != nil {
		return nil, err
	}
	totalGames, err := e.store.NominationGameCount(req.GuildID)
	if err != nil {
		return nil, err
	}

	return &models.VoteRecordedResponse{
		Success:    true,
		Message:    fmt.Sprintf("Vote recorded for %s", req.GameName),
		TotalVotes: totalVotes,
		TotalGames: totalGames,
	}, nil
}

// gameDetails fetches a game through the per-guild cache, falling back
// to the catalog and caching the result.
func (e *Engine) gameDetails(ctx context.Context, guildID string, gameID int64) (*models.Game, error) {
	cached, err := e.store.GameFromCache(guildID, gameID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	game, err := e.catalog.GameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, nil
	}
	if err := e.store.CacheGame(guildID, gameID, game); err != nil {
		return nil, err
	}
	return game, nil
}

// TopNominations lists the guild's nomination ranking.
func (e *Engine) TopNominations(guildID string, limit int) (*models.TopGamesResponse, error) {
	top, err := e.store.TopNominations(guildID, limit)
	if err != nil {
		return nil, err
	}
	totalVotes, err := e.store.NominationVoteCount(guildID)
	if err != nil {
		return nil, err
	}
	totalGames, err := e.store.NominationGameCount(guildID)
	if err != nil {
		return nil, err
	}
	return &models.TopGamesResponse{
		Games:      top,
		Total:      len(top),
		TotalVotes: totalVotes,
		TotalGames: totalGames,
	}, nil
}

// Stats summarizes nomination activity for a guild.
func (e *Engine) Stats(guildID string) (*models.StatsResponse, error) {
	top, err := e.store.TopNominations(guildID, 10)
	if err != nil {
		return nil, err
	}
	totalVotes, err := e.store.NominationVoteCount(guildID)
	if err != nil {
		return nil, err
	}
	totalGames, err := e.store.NominationGameCount(guildID)
	if err != nil {
		return nil, err
	}
	return &models.StatsResponse{
		TotalVotes: totalVotes,
		TotalGames: totalGames,
		TopGames:   top,
	}, nil
}

// GameVotes returns per-voter detail for one nominated game, enriched
// with catalog data when available. Catalog failures do not fail the
// call; the vote detail is the point here.
func (e *Engine) GameVotes(ctx context.Context, guildID string, gameID int64) (*models.GameVotesResponse, error) {
	details, err := e.store.VotesForGame(guildID, gameID)
	if err != nil {
		return nil, err
	}

	game, err := e.gameDetails(ctx, guildID, gameID)
	if err != nil {
		game = nil
	}

	return &models.GameVotesResponse{
		GameID:      gameID,
		GameData:    game,
		Votes:       len(details),
		VoteDetails: details,
	}, nil
}

// ClearNominations wipes the guild's nomination votes. Admin only.
func (e *Engine) ClearNominations(guildID string) error {
	unlock := e.lockGuild(guildID)
	defer unlock()
	return e.store.ClearNominationVotes(guildID)
}

func validBracketSize(n int) bool {
	return n == 8 || n == 16 || n == 32
}

// StartLadder opens a new nominations phase with optional constraints.
// Calling it while any ladder is still active, in nominations or
// mid-bracket, is a no-op that returns the current state.
func (e *Engine) StartLadder(ctx context.Context, guildID string, req models.StartLadderRequest) (*models.LadderState, error) {
	unlock := e.lockGuild(guildID)
	defer unlock()

	if err := e.store.EnsureGuild(guildID); err != nil {
		return nil, err
	}
	existing, err := e.store.ActiveLadder(guildID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return e.stateLocked(guildID, existing)
	}

	size := req.BracketSize
	if size == 0 {
		size = models.BracketSizeDefault
	}
	if !validBracketSize(size) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBracketSize, size)
	}

	cons := &models.Constraints{
		ReleaseYear:    req.ReleaseYear,
		ReleaseYearMin: req.ReleaseYearMin,
		ReleaseYearMax: req.ReleaseYearMax,
	}
	var genres, modes, platforms []models.NamedRef
	if len(req.GenreNames) > 0 {
		if genres, err = e.catalog.ResolveGenreNames(ctx, req.GenreNames); err != nil {
			return nil, err
		}
		cons.GenreIDs = refIDs(genres)
	}
	if len(req.GameModeNames) > 0 {
		if modes, err = e.catalog.ResolveGameModeNames(ctx, req.GameModeNames); err != nil {
			return nil, err
		}
		cons.GameModeIDs = refIDs(modes)
	}
	if len(req.PlatformNames) > 0 {
		if platforms, err = e.catalog.ResolvePlatformNames(ctx, req.PlatformNames); err != nil {
			return nil, err
		}
		cons.PlatformIDs = refIDs(platforms)
	}
	display := DisplayConstraints(cons, genres, modes, platforms)

	if err := e.store.SetGuildBracketSize(guildID, size); err != nil {
		return nil, err
	}
	l, err := e.store.CreateLadder(guildID, size, cons, display)
	if err != nil {
		return nil, err
	}
	return e.stateLocked(guildID, l)
}

func refIDs(refs []models.NamedRef) []int64 {
	ids := make([]int64, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}

// CloseNominations freezes the nomination ranking and seeds round one.
// Seeding pairs the strongest entry against the weakest, second against
// second-weakest, and so on. With an odd field the middle seed gets a
// bye, which resolves as an automatic win when the round closes.
func (e *Engine) CloseNominations(guildID string, req models.CloseNominationsRequest) (*models.LadderState, error) {
	unlock := e.lockGuild(guildID)
	defer unlock()

	l, err := e.activeLadderLocked(guildID)
	if err != nil {
		return nil, err
	}
	if l.Phase != models.PhaseNominations {
		return nil, fmt.Errorf("%w: nominations are not open", ErrWrongPhase)
	}

	size := l.BracketSize
	if req.BracketSize != nil {
		if !validBracketSize(*req.BracketSize) {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidBracketSize, *req.BracketSize)
		}
		size = *req.BracketSize
	}

	seeds, err := e.store.TopNominations(guildID, size)
	if err != nil {
		return nil, err
	}
	if len(seeds) < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrInsufficientEntries, len(seeds))
	}

	for _, m := range seedRound(guildID, l.ID, seeds) {
		if _, err := e.store.CreateMatchup(m); err != nil {
			return nil, err
		}
	}

	if err := e.store.CloseLadderNominations(l.ID, time.Now()); err != nil {
		return nil, err
	}
	l.Phase = models.PhaseBracket
	return e.stateLocked(guildID, l)
}

// seedRound builds the round-one pairings from a ranked field: first
// vs last, second vs second-last, inward. An odd field leaves the
// middle seed unpaired; it becomes a bye matchup, appended last.
func seedRound(guildID string, ladderID int64, seeds []models.GameVoteCount) []models.Matchup {
	n := len(seeds)
	matchups := make([]models.Matchup, 0, (n+1)/2)
	for i := 0; i < n/2; i++ {
		low := seeds[n-1-i]
		lowID, lowName := low.GameID, low.GameName
		matchups = append(matchups, models.Matchup{
			GuildID:   guildID,
			LadderID:  ladderID,
			Round:     1,
			GameAID:   seeds[i].GameID,
			GameAName: seeds[i].GameName,
			GameBID:   &lowID,
			GameBName: &lowName,
		})
	}
	if n%2 == 1 {
		mid := seeds[n/2]
		matchups = append(matchups, models.Matchup{
			GuildID:   guildID,
			LadderID:  ladderID,
			Round:     1,
			GameAID:   mid.GameID,
			GameAName: mid.GameName,
		})
	}
	return matchups
}

// CastMatchupVote records one user's pick in an open matchup. Repeat
// votes replace the earlier pick.
func (e *Engine) CastMatchupVote(guildID string, req models.MatchupVoteRequest) (*models.MatchupView, error) {
	unlock := e.lockGuild(guildID)
	defer unlock()

	l, err := e.store.ActiveLadder(guildID)
	if err != nil {
		return nil, err
	}
	if l == nil || l.Phase != models.PhaseBracket {
		return nil, fmt.Errorf("%w: no bracket is running", ErrWrongPhase)
	}

	m, err := e.store.Matchup(guildID, req.MatchupID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.LadderID != l.ID {
		return nil, ErrMatchupNotFound
	}
	if m.WinnerGameID != nil {
		return nil, ErrMatchupClosed
	}
	if req.VotedGameID != m.GameAID && (m.GameBID == nil || req.VotedGameID != *m.GameBID) {
		return nil, ErrInvalidChoice
	}

	err = e.store.UpsertMatchupVote(models.MatchupVote{
		GuildID:     guildID,
		MatchupID:   req.MatchupID,
		UserID:      req.UserID,
		Platform:    req.Platform,
		VotedGameID: req.VotedGameID,
		Timestamp:   time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return e.matchupView(guildID, *m)
}

func (e *Engine) matchupView(guildID string, m models.Matchup) (*models.MatchupView, error) {
	counts, err := e.store.MatchupVoteCounts(guildID, m.ID)
	if err != nil {
		return nil, err
	}
	view := &models.MatchupView{Matchup: m, VotesA: counts[m.GameAID]}
	if m.GameBID != nil {
		view.VotesB = counts[*m.GameBID]
	}
	return view, nil
}

// CloseRound resolves every open matchup in the current round and
// either crowns a champion (when the round held the final matchup) or
// seeds the next round from the winners. A tie goes to the higher seed,
// which is always side A; a bye resolves the same way.
func (e *Engine) CloseRound(guildID string) (*models.LadderState, error) {
	unlock := e.lockGuild(guildID)
	defer unlock()

	l, err := e.store.ActiveLadder(guildID)
	if err != nil {
		return nil, err
	}
	if l == nil || l.Phase != models.PhaseBracket {
		return nil, fmt.Errorf("%w: no bracket is running", ErrWrongPhase)
	}

	open, err := e.store.OpenMatchups(guildID, l.ID)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, ErrNoOpenMatchups
	}

	round, err := e.store.MaxRound(guildID, l.ID)
	if err != nil {
		return nil, err
	}
	matchups, err := e.store.RoundMatchups(guildID, l.ID, round)
	if err != nil {
		return nil, err
	}

	for i := range matchups {
		m := &matchups[i]
		if m.WinnerGameID != nil {
			continue
		}
		winner, err := e.resolveMatchup(guildID, m)
		if err != nil {
			return nil, err
		}
		m.WinnerGameID = &winner
	}

	if len(matchups) == 1 {
		if err := e.store.SetLadderPhase(l.ID, models.PhaseComplete); err != nil {
			return nil, err
		}
		l.Phase = models.PhaseComplete
		return e.completedState(guildID, l)
	}

	for _, m := range nextRound(guildID, l.ID, round+1, matchups) {
		if _, err := e.store.CreateMatchup(m); err != nil {
			return nil, err
		}
	}
	return e.stateLocked(guildID, l)
}

// resolveMatchup tallies the votes, persists the winner, and returns it.
func (e *Engine) resolveMatchup(guildID string, m *models.Matchup) (int64, error) {
	winner := m.GameAID
	if m.GameBID != nil {
		counts, err := e.store.MatchupVoteCounts(guildID, m.ID)
		if err != nil {
			return 0, err
		}
		if counts[*m.GameBID] > counts[m.GameAID] {
			winner = *m.GameBID
		}
	}
	if err := e.store.SetMatchupWinner(m.ID, winner); err != nil {
		return 0, err
	}
	return winner, nil
}

// nextRound pairs the winners of a resolved round in bracket order. An
// odd winner count gives the last winner a bye.
func nextRound(guildID string, ladderID int64, round int, resolved []models.Matchup) []models.Matchup {
	type entry struct {
		id   int64
		name string
	}
	winners := make([]entry, 0, len(resolved))
	for _, m := range resolved {
		name := m.GameAName
		if m.GameBID != nil && *m.WinnerGameID == *m.GameBID {
			name = *m.GameBName
		}
		winners = append(winners, entry{id: *m.WinnerGameID, name: name})
	}

	matchups := make([]models.Matchup, 0, (len(winners)+1)/2)
	for i := 0; i+1 < len(winners); i += 2 {
		b := winners[i+1]
		bID, bName := b.id, b.name
		matchups = append(matchups, models.Matchup{
			GuildID:   guildID,
			LadderID:  ladderID,
			Round:     round,
			GameAID:   winners[i].id,
			GameAName: winners[i].name,
			GameBID:   &bID,
			GameBName: &bName,
		})
	}
	if len(winners)%2 == 1 {
		last := winners[len(winners)-1]
		matchups = append(matchups, models.Matchup{
			GuildID:   guildID,
			LadderID:  ladderID,
			Round:     round,
			GameAID:   last.id,
			GameAName: last.name,
		})
	}
	return matchups
}

// State returns the guild's full ladder projection. When no ladder
// exists yet the guild is presented as an open nominations phase.
func (e *Engine) State(guildID string) (*models.LadderState, error) {
	unlock := e.lockGuild(guildID)
	defer unlock()

	l, err := e.activeLadderLocked(guildID)
	if err != nil {
		return nil, err
	}
	return e.stateLocked(guildID, l)
}

// stateLocked builds the phase-appropriate projection. Caller must hold
// the guild lock.
func (e *Engine) stateLocked(guildID string, l *models.Ladder) (*models.LadderState, error) {
	state := &models.LadderState{
		GuildID:            guildID,
		Phase:              l.Phase,
		BracketSize:        l.BracketSize,
		LadderID:           l.ID,
		Constraints:        l.Constraints,
		ConstraintsDisplay: l.ConstraintsDisplay,
	}

	switch l.Phase {
	case models.PhaseNominations:
		top, err := e.store.TopNominations(guildID, 2*l.BracketSize)
		if err != nil {
			return nil, err
		}
		state.TopGames = top
		return state, nil

	case models.PhaseBracket:
		round, err := e.store.MaxRound(guildID, l.ID)
		if err != nil {
			return nil, err
		}
		matchups, err := e.store.Matchups(guildID, l.ID)
		if err != nil {
			return nil, err
		}

		views := make([]models.MatchupView, 0, len(matchups))
		for _, m := range matchups {
			v, err := e.matchupView(guildID, m)
			if err != nil {
				return nil, err
			}
			views = append(views, *v)
		}
		state.CurrentRound = round
		state.Matchups = views

		// The bracket is over once the final matchup is resolved.
		final := finalMatchup(matchups, round)
		if final != nil && final.WinnerGameID != nil {
			state.Phase = models.PhaseComplete
			state.Champion = championOf(final)
		}
		return state, nil

	default:
		return e.completedState(guildID, l)
	}
}

// completedState builds the projection for a finished ladder.
func (e *Engine) completedState(guildID string, l *models.Ladder) (*models.LadderState, error) {
	round, err := e.store.MaxRound(guildID, l.ID)
	if err != nil {
		return nil, err
	}
	matchups, err := e.store.Matchups(guildID, l.ID)
	if err != nil {
		return nil, err
	}

	state := &models.LadderState{
		GuildID:            guildID,
		Phase:              models.PhaseComplete,
		BracketSize:        l.BracketSize,
		LadderID:           l.ID,
		Constraints:        l.Constraints,
		ConstraintsDisplay: l.ConstraintsDisplay,
		CurrentRound:       round,
	}
	if final := finalMatchup(matchups, round); final != nil && final.WinnerGameID != nil {
		state.Champion = championOf(final)
	}
	return state, nil
}

// finalMatchup returns the sole matchup of the last round, or nil when
// that round still holds several.
func finalMatchup(matchups []models.Matchup, maxRound int) *models.Matchup {
	var final *models.Matchup
	for i := range matchups {
		if matchups[i].Round != maxRound {
			continue
		}
		if final != nil {
			return nil
		}
		final = &matchups[i]
	}
	return final
}

func championOf(final *models.Matchup) *models.Champion {
	name := final.GameAName
	if final.GameBID != nil && *final.WinnerGameID == *final.GameBID {
		name = *final.GameBName
	}
	return &models.Champion{GameID: *final.WinnerGameID, GameName: name}
}
