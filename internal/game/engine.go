// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

// Package game implements the hand-management engine: the round state
// machine, the keep/discard replacement cascade, the session preference
// model that biases subsequent fetches, and the winner resolution with
// its availability tie-break.
//
// One Engine serves one game session. All actions are serialized through
// an internal lock; at most one network-bound operation (deal, swap
// fetch, stand) is in flight at a time, and results arriving after a
// reset are discarded via a generation counter.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/nmoralez/moviedealer/internal/config"
	"github.com/nmoralez/moviedealer/internal/ledger"
	"github.com/nmoralez/moviedealer/internal/logging"
	"github.com/nmoralez/moviedealer/internal/metrics"
	"github.com/nmoralez/moviedealer/internal/models"
	"github.com/nmoralez/moviedealer/internal/pool"
)

// Phase is the game state machine position.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseConfiguring Phase = "configuring"
	PhaseDealing     Phase = "dealing"
	PhasePlaying     Phase = "playing"
	PhaseRevealing   Phase = "revealing"
	PhaseWon         Phase = "won"
)

var (
	// ErrBusy means another network-bound operation is in flight;
	// duplicate triggers are rejected, not queued.
	ErrBusy = errors.New("game: operation already in flight")

	// ErrPhase means the action is not allowed in the current phase.
	ErrPhase = errors.New("game: action not allowed in current phase")

	// ErrSuperseded means a reset landed while the operation was in
	// flight; its result was discarded.
	ErrSuperseded = errors.New("game: operation superseded by reset")

	// ErrNoCandidates means no hand could be assembled at all, even
	// from the fallback catalog.
	ErrNoCandidates = errors.New("game: no candidates available")

	// ErrInvalidDifficulty rejects out-of-range difficulty levels.
	ErrInvalidDifficulty = errors.New("game: invalid difficulty level")
)

// CandidateSource is the slice of the pool adapter the engine consumes.
type CandidateSource interface {
	FetchCandidates(ctx context.Context, level models.DifficultyLevel, manual models.ManualFilters, bias models.LearnedBias) ([]models.Movie, error)
}

// State is the observable snapshot consumed by the API and the
// websocket feed.
type State struct {
	Phase            Phase                  `json:"phase"`
	Hand             models.Hand            `json:"hand"`
	Winner           *models.Movie          `json:"winner,omitempty"`
	Round            int                    `json:"round"`
	DiscardAllowance int                    `json:"discard_allowance"`
	Loading          bool                   `json:"loading"`
	Error            string                 `json:"error,omitempty"`
	Notice           string                 `json:"notice,omitempty"`
	Streak           int                    `json:"streak"`
	Difficulty       models.DifficultyLevel `json:"difficulty"`
	Filters          models.ManualFilters   `json:"filters"`
}

// Engine owns all mutable session state: the hand, the candidate
// overflow pool, the round counter, and the preference model. No other
// component mutates these directly.
type Engine struct {
	cfg     *config.GameConfig
	source  CandidateSource
	checker AvailabilityChecker
	store   ledger.Store

	mu         sync.Mutex
	rng        *rand.Rand
	now        func() time.Time
	phase      Phase
	hand       models.Hand
	overflow   []models.Movie
	discards   []models.Movie
	winner     *models.Movie
	round      int
	level      models.DifficultyLevel
	manual     models.ManualFilters
	prefs      *SessionPreferences
	burned     bool
	busy       bool
	generation uint64
	lastError  string
	notice     string
	streak     int
	mysterySeq int64
}

// New creates an engine for one game session. The random source is
// injected for reproducibility; the ledger store survives resets.
func New(ctx context.Context, cfg *config.GameConfig, source CandidateSource, checker AvailabilityChecker, store ledger.Store, rng *rand.Rand) *Engine {
	e := &Engine{
		cfg:     cfg,
		source:  source,
		checker: checker,
		store:   store,
		rng:     rng,
		now:     time.Now,
		phase:   PhaseIdle,
		round:   1,
		level:   models.DifficultyMin,
		prefs:   NewSessionPreferences(cfg.VetoThreshold, cfg.TopDesired),
	}
	if s, err := store.Streak(ctx); err == nil {
		e.streak = s
	}
	return e
}

// Snapshot returns the current observable state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	hand := make(models.Hand, len(e.hand))
	copy(hand, e.hand)
	var winner *models.Movie
	if e.winner != nil {
		w := *e.winner
		winner = &w
	}
	return State{
		Phase:            e.phase,
		Hand:             hand,
		Winner:           winner,
		Round:            e.round,
		DiscardAllowance: e.discardAllowanceLocked(),
		Loading:          e.busy,
		Error:            e.lastError,
		Notice:           e.notice,
		Streak:           e.streak,
		Difficulty:       e.level,
		Filters:          e.manual,
	}
}

// Discards returns a copy of the discard pile, oldest first.
func (e *Engine) Discards() []models.Movie {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Movie, len(e.discards))
	copy(out, e.discards)
	return out
}

// GoToConfig enters the manual filter entry phase.
func (e *Engine) GoToConfig() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return ErrBusy
	}
	switch e.phase {
	case PhaseIdle, PhaseConfiguring:
		e.phase = PhaseConfiguring
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrPhase, e.phase)
	}
}

// SetDifficulty selects the query tier for the next deal.
func (e *Engine) SetDifficulty(level models.DifficultyLevel) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDifficulty, level)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return ErrBusy
	}
	if e.phase != PhaseIdle && e.phase != PhaseConfiguring {
		return fmt.Errorf("%w: %s", ErrPhase, e.phase)
	}
	e.level = level
	return nil
}

// SetFilters stores the player's manual criteria. A change to the genre
// set, decade set, or person filter invalidates prior seen-exclusions and
// clears the seen ledger.
func (e *Engine) SetFilters(ctx context.Context, f models.ManualFilters) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	if e.phase != PhaseIdle && e.phase != PhaseConfiguring {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPhase, e.phase)
	}
	invalidates := filtersInvalidateSeen(e.manual, f)
	e.manual = f
	e.mu.Unlock()

	if invalidates {
		if err := e.store.ClearSeen(ctx); err != nil {
			return fmt.Errorf("clearing seen history: %w", err)
		}
	}
	return nil
}

// DealHand builds the candidate pool and deals the initial hand. On a
// provider failure the built-in fallback catalog is used; the deal fails
// only when not a single unseen candidate exists anywhere.
func (e *Engine) DealHand(ctx context.Context) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	if e.phase != PhaseIdle && e.phase != PhaseConfiguring {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPhase, e.phase)
	}
	prev := e.phase
	e.busy = true
	e.phase = PhaseDealing
	e.lastError = ""
	e.notice = ""
	gen := e.generation
	level := e.level
	manual := e.manual
	bias := e.prefs.Bias()
	e.mu.Unlock()

	// Long-term win statistics bias the initial deal only, and only
	// when no manual or session genre signal is active.
	if len(manual.Genres) == 0 && bias.IsZero() {
		if stats, err := e.store.WinGenres(ctx); err == nil {
			bias.DesiredGenres = topWinGenres(stats, e.cfg.TopDesired)
		}
	}

	seen, err := ledger.SeenSet(ctx, e.store)
	if err != nil {
		logging.Warn().Err(err).Msg("seen ledger unreadable, dealing without exclusions")
		seen = make(map[int64]struct{})
	}

	candidates, fetchErr := e.source.FetchCandidates(ctx, level, manual, bias)
	usedFallback := false
	if fetchErr != nil || len(candidates) == 0 {
		if fetchErr != nil {
			logging.Warn().Err(fetchErr).Int("difficulty", int(level)).Msg("candidate fetch failed, using fallback catalog")
		} else {
			logging.Warn().Int("difficulty", int(level)).Msg("candidate fetch came back empty, using fallback catalog")
		}
		candidates = pool.FallbackMovies(level)
		usedFallback = true
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false
	if gen != e.generation {
		return nil
	}

	if usedFallback && countUnseen(candidates, seen) == 0 {
		e.phase = prev
		e.lastError = "No se pudo construir una mano. Intenta de nuevo."
		return fmt.Errorf("dealing hand: %w", ErrNoCandidates)
	}

	hand, overflow := e.assembleHand(candidates, seen, e.cfg.HandSize, e.cfg.GenreCap, e.rng)
	e.hand = hand
	e.overflow = overflow
	e.discards = nil
	e.winner = nil
	e.round = 1
	e.burned = false
	e.phase = PhasePlaying
	if usedFallback {
		e.notice = "Sin conexión con el catálogo. Jugando con el mazo local."
	}
	metrics.RecordDeal(int(level))

	if err := e.store.AppendSeen(ctx, nonMysteryIDs(hand)); err != nil {
		logging.Warn().Err(err).Msg("failed to record dealt cards as seen")
	}
	return nil
}

// SwapCards replaces the cards not named in keepIDs, drawing replacements
// from the cascade. A swap discarding more cards than the round allows is
// a no-op, as is one keeping the whole hand. The preference model is
// updated before replacements are selected.
func (e *Engine) SwapCards(ctx context.Context, keepIDs []int64) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	if e.phase != PhasePlaying {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPhase, e.phase)
	}

	keep := make(map[int64]struct{}, len(keepIDs))
	for _, id := range keepIDs {
		keep[id] = struct{}{}
	}
	var kept, discarded []models.Movie
	for _, m := range e.hand {
		if _, ok := keep[m.ID]; ok {
			kept = append(kept, m)
		} else {
			discarded = append(discarded, m)
		}
	}
	need := e.cfg.HandSize - len(kept)
	if need == 0 || need > e.discardAllowanceLocked() {
		e.mu.Unlock()
		return nil
	}

	vetoedBefore := e.prefs.VetoedGenres()
	e.prefs.RecordOutcome(kept, discarded)

	seen := e.seenSetLocked(ctx)
	replacements := e.replacementsFromOverflow(kept, need, seen)

	if len(replacements) < need {
		e.busy = true
		gen := e.generation
		bias := e.prefs.Bias()
		manual := e.manual
		level := e.level
		exclude := make(map[int64]struct{}, len(kept)+len(replacements))
		for _, m := range kept {
			exclude[m.ID] = struct{}{}
		}
		for _, m := range replacements {
			exclude[m.ID] = struct{}{}
		}
		e.mu.Unlock()

		fetched := e.replacementsFromFetch(ctx, need-len(replacements), level, manual, bias, seen, exclude)

		e.mu.Lock()
		e.busy = false
		if gen != e.generation {
			e.mu.Unlock()
			return nil
		}
		replacements = append(replacements, fetched...)
	}

	if shortfall := need - len(replacements); shortfall > 0 {
		metrics.RecordReplacementTier(tierMystery, shortfall)
		for i := 0; i < shortfall; i++ {
			replacements = append(replacements, e.newMysteryCard())
		}
	}

	newHand := make(models.Hand, 0, e.cfg.HandSize)
	newHand = append(newHand, kept...)
	newHand = append(newHand, replacements...)
	e.hand = newHand
	e.discards = append(e.discards, discarded...)
	e.round++
	metrics.SwapsTotal.Inc()

	if err := e.store.AppendSeen(ctx, nonMysteryIDs(replacements)); err != nil {
		logging.Warn().Err(err).Msg("failed to record replacements as seen")
	}
	for _, m := range replacements {
		seen[m.ID] = struct{}{}
	}

	e.notice = ""
	if e.round == e.cfg.BurnRound && !e.burned {
		e.dealerBurnLocked(ctx, seen)
	}
	if learned := newlyVetoed(vetoedBefore, e.prefs.VetoedGenres()); len(learned) > 0 {
		if e.notice != "" {
			e.notice += " "
		}
		e.notice += "El dealer aprendió que evitas: " + joinGenres(learned) + "."
	}

	e.mu.Unlock()
	return nil
}

// dealerBurnLocked removes the lowest-rated card and restores the hand
// to full size. Fires at most once per game, automatically, on the
// transition into the burn round. Caller holds the engine lock.
func (e *Engine) dealerBurnLocked(ctx context.Context, seen map[int64]struct{}) {
	e.burned = true
	low := 0
	for i, m := range e.hand {
		if m.Rating < e.hand[low].Rating {
			low = i
		}
	}
	burnt := e.hand[low]
	repl := e.burnReplacement(seen)
	e.hand[low] = repl
	e.discards = append(e.discards, burnt)
	metrics.DealerBurnsTotal.Inc()

	if !repl.IsMystery {
		if err := e.store.AppendSeen(ctx, []int64{repl.ID}); err != nil {
			logging.Warn().Err(err).Msg("failed to record burn replacement as seen")
		}
		seen[repl.ID] = struct{}{}
	}
	e.notice = fmt.Sprintf("El dealer quemó %q, tu carta más débil.", burnt.Title)
	logging.Debug().Str("burnt", burnt.Title).Str("replacement", repl.Title).Msg("dealer burn applied")
}

// Stand resolves the winner from the current hand and moves through the
// revealing phase into won. The returned winner is immutable until
// reset. Resolution never fails: every error path degrades to a
// deterministic fallback card.
func (e *Engine) Stand(ctx context.Context) (models.Movie, error) {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return models.Movie{}, ErrBusy
	}
	if e.phase != PhasePlaying || len(e.hand) == 0 {
		phase := e.phase
		e.mu.Unlock()
		return models.Movie{}, fmt.Errorf("%w: %s", ErrPhase, phase)
	}
	e.busy = true
	e.phase = PhaseRevealing
	gen := e.generation
	hand := make(models.Hand, len(e.hand))
	copy(hand, e.hand)
	e.mu.Unlock()

	winner := func() (m models.Movie) {
		defer func() {
			if r := recover(); r != nil {
				logging.Error().Interface("panic", r).Msg("winner resolution panicked, falling back to first card")
				m = hand[0]
			}
		}()
		return resolveWinner(ctx, hand, e.cfg.TieEpsilon, e.checker)
	}()

	if len(winner.Genres) > 0 {
		if err := e.store.RecordWin(ctx, winner.Genres); err != nil {
			logging.Warn().Err(err).Msg("failed to record win genres")
		}
	}
	streak, streakErr := e.store.BumpStreak(ctx, e.now().Format("2006-01-02"))

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false
	if gen != e.generation {
		return models.Movie{}, ErrSuperseded
	}
	e.winner = &winner
	if streakErr == nil {
		e.streak = streak
	}
	metrics.GamesWon.Inc()

	// The reveal delay is fixed, not conditioned on any async result.
	time.AfterFunc(e.cfg.RevealDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.generation == gen && e.phase == PhaseRevealing {
			e.phase = PhaseWon
		}
	})
	return winner, nil
}

// Reset restores the initial empty state: hand, winner, round, discard
// pile, and session preferences. The seen ledger and win statistics
// persist across resets. Any in-flight operation's result is discarded.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.busy = false
	e.phase = PhaseIdle
	e.hand = nil
	e.overflow = nil
	e.discards = nil
	e.winner = nil
	e.round = 1
	e.burned = false
	e.prefs.Reset()
	e.lastError = ""
	e.notice = ""
}

// Preferences exposes the session model for observation.
func (e *Engine) Preferences() *SessionPreferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs
}

func (e *Engine) discardAllowanceLocked() int {
	if e.round >= 1 && e.round <= len(e.cfg.DiscardCaps) {
		return e.cfg.DiscardCaps[e.round-1]
	}
	return 0
}

// seenSetLocked reads the seen ledger, degrading to an empty set when
// the store is unreadable.
func (e *Engine) seenSetLocked(ctx context.Context) map[int64]struct{} {
	seen, err := ledger.SeenSet(ctx, e.store)
	if err != nil {
		logging.Warn().Err(err).Msg("seen ledger unreadable")
		return make(map[int64]struct{})
	}
	return seen
}

// filtersInvalidateSeen reports whether the filter change invalidates
// prior seen-exclusions: genre set, decade set, or person changed.
// A rating-only change does not.
func filtersInvalidateSeen(old, next models.ManualFilters) bool {
	if !equalStrings(old.Genres, next.Genres) {
		return true
	}
	if !equalInts(old.Decades, next.Decades) {
		return true
	}
	oldID, nextID := int64(0), int64(0)
	if old.Person != nil {
		oldID = old.Person.ID
	}
	if next.Person != nil {
		nextID = next.Person.ID
	}
	return oldID != nextID
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func countUnseen(candidates []models.Movie, seen map[int64]struct{}) int {
	n := 0
	for _, m := range candidates {
		if _, ok := seen[m.ID]; !ok {
			n++
		}
	}
	return n
}

func newlyVetoed(before, after []string) []string {
	prior := make(map[string]struct{}, len(before))
	for _, g := range before {
		prior[g] = struct{}{}
	}
	var out []string
	for _, g := range after {
		if _, ok := prior[g]; !ok {
			out = append(out, g)
		}
	}
	return out
}

func joinGenres(genres []string) string {
	s := ""
	for i, g := range genres {
		if i > 0 {
			s += ", "
		}
		s += g
	}
	return s
}
