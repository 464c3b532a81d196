// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/nmoralez/moviedealer/internal/config"
	"github.com/nmoralez/moviedealer/internal/ledger"
	"github.com/nmoralez/moviedealer/internal/models"
	"github.com/nmoralez/moviedealer/internal/pool"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	fn    func(level models.DifficultyLevel, manual models.ManualFilters, bias models.LearnedBias) ([]models.Movie, error)
}

func (f *fakeSource) FetchCandidates(_ context.Context, level models.DifficultyLevel, manual models.ManualFilters, bias models.LearnedBias) ([]models.Movie, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(level, manual, bias)
	}
	return nil, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeChecker struct {
	mu    sync.Mutex
	calls int
	fn    func(id int64) (bool, error)
}

func (f *fakeChecker) Available(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(id)
	}
	return false, nil
}

func (f *fakeChecker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// candidatePool builds n unique movies cycling through the given genres,
// with ratings descending from 9.0 so every card is distinct.
func candidatePool(n int, genres ...string) []models.Movie {
	movies := make([]models.Movie, 0, n)
	for i := 0; i < n; i++ {
		g := genres[i%len(genres)]
		movies = append(movies, models.Movie{
			ID:     int64(1000 + i),
			Title:  fmt.Sprintf("%s %d", g, i),
			Year:   fmt.Sprintf("%d", 1980+i),
			Rating: 9.0 - float64(i)*0.1,
			Genres: []string{g},
		})
	}
	return movies
}

func testEngine(t *testing.T, src CandidateSource, chk AvailabilityChecker) (*Engine, *ledger.MemoryStore) {
	t.Helper()
	cfg := config.Default().Game
	cfg.RevealDelay = time.Millisecond
	store := ledger.NewMemoryStore(cfg.SeenCap)
	e := New(context.Background(), &cfg, src, chk, store, rand.New(rand.NewSource(7)))
	return e, store
}

func TestDealHand(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return candidatePool(30, "Drama", "Comedy", "Action", "Horror", "Romance"), nil
	}}
	e, store := testEngine(t, src, &fakeChecker{})

	if err := e.DealHand(context.Background()); err != nil {
		t.Fatalf("DealHand() error = %v", err)
	}

	st := e.Snapshot()
	if st.Phase != PhasePlaying {
		t.Errorf("phase = %s, want playing", st.Phase)
	}
	if st.Round != 1 {
		t.Errorf("round = %d, want 1", st.Round)
	}
	if len(st.Hand) != 5 {
		t.Fatalf("hand size = %d, want 5", len(st.Hand))
	}
	if st.Hand.HasDuplicates() {
		t.Error("hand contains duplicate ids")
	}
	if st.Winner != nil {
		t.Error("winner set before stand")
	}

	// Dealt non-mystery cards must be in the seen ledger.
	seen, err := ledger.SeenSet(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range st.Hand {
		if m.IsMystery {
			continue
		}
		if _, ok := seen[m.ID]; !ok {
			t.Errorf("dealt card %d not recorded as seen", m.ID)
		}
	}
}

func TestDealHandGenreDiversity(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return candidatePool(30, "Drama", "Comedy", "Action"), nil
	}}
	e, _ := testEngine(t, src, &fakeChecker{})
	if err := e.DealHand(context.Background()); err != nil {
		t.Fatal(err)
	}

	counts := make(map[string]int)
	for _, m := range e.Snapshot().Hand {
		counts[m.PrimaryGenre()]++
	}
	for g, n := range counts {
		if n > 2 {
			t.Errorf("primary genre %q appears %d times, cap is 2", g, n)
		}
	}
}

func TestDealHandFallbackCatalog(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return nil, errors.New("provider down")
	}}
	e, _ := testEngine(t, src, &fakeChecker{})

	if err := e.DealHand(context.Background()); err != nil {
		t.Fatalf("DealHand() error = %v, want fallback deal", err)
	}
	st := e.Snapshot()
	if st.Phase != PhasePlaying {
		t.Errorf("phase = %s, want playing", st.Phase)
	}
	if len(st.Hand) != 5 {
		t.Errorf("hand size = %d, want 5", len(st.Hand))
	}
	if st.Notice == "" {
		t.Error("fallback deal set no notice")
	}
	for _, m := range st.Hand {
		if m.ID >= 0 {
			t.Errorf("card %q has non-catalog id %d", m.Title, m.ID)
		}
	}
}

func TestDealHandNoCandidatesAnywhere(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return nil, errors.New("provider down")
	}}
	e, store := testEngine(t, src, &fakeChecker{})

	// Exhaust the fallback catalog through the seen ledger.
	catalog := pool.FallbackMovies(models.DifficultyMin)
	ids := make([]int64, len(catalog))
	for i, m := range catalog {
		ids[i] = m.ID
	}
	if err := store.AppendSeen(context.Background(), ids); err != nil {
		t.Fatal(err)
	}

	err := e.DealHand(context.Background())
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("DealHand() error = %v, want ErrNoCandidates", err)
	}
	st := e.Snapshot()
	if st.Phase != PhaseIdle {
		t.Errorf("phase = %s, want reverted to idle", st.Phase)
	}
	if st.Error == "" {
		t.Error("no visible error message after failed deal")
	}
}

func TestDealHandPhaseGuard(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return candidatePool(30, "Drama"), nil
	}}
	e, _ := testEngine(t, src, &fakeChecker{})
	if err := e.DealHand(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := e.DealHand(context.Background()); !errors.Is(err, ErrPhase) {
		t.Errorf("second DealHand() error = %v, want ErrPhase", err)
	}
}

func TestSwapDiscardCapNoOp(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return candidatePool(30, "Drama", "Comedy", "Action", "Horror", "Romance"), nil
	}}
	e, _ := testEngine(t, src, &fakeChecker{})
	if err := e.DealHand(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := e.Snapshot()

	// Round 1 allows 4 discards; keeping nothing discards 5.
	if err := e.SwapCards(context.Background(), nil); err != nil {
		t.Fatalf("SwapCards() error = %v", err)
	}
	after := e.Snapshot()
	if after.Round != before.Round {
		t.Errorf("round advanced to %d on an over-cap swap", after.Round)
	}
	if !sameIDs(before.Hand, after.Hand) {
		t.Error("hand changed on an over-cap swap")
	}
	if e.Preferences().DiscardedTotal() != 0 {
		t.Error("preferences updated on an over-cap swap")
	}
}

func TestSwapKeepAllNoOp(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return candidatePool(30, "Drama", "Comedy", "Action", "Horror", "Romance"), nil
	}}
	e, _ := testEngine(t, src, &fakeChecker{})
	if err := e.DealHand(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := e.SwapCards(context.Background(), e.Snapshot().Hand.IDs()); err != nil {
		t.Fatalf("SwapCards() error = %v", err)
	}
	if got := e.Snapshot().Round; got != 1 {
		t.Errorf("round = %d after keep-all swap, want 1", got)
	}
}

func TestSwapReplacesAndBurns(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return candidatePool(30, "Drama", "Comedy", "Action", "Horror", "Romance"), nil
	}}
	e, _ := testEngine(t, src, &fakeChecker{})
	if err := e.DealHand(context.Background()); err != nil {
		t.Fatal(err)
	}
	hand := e.Snapshot().Hand
	keep := []int64{hand[0].ID, hand[1].ID}

	if err := e.SwapCards(context.Background(), keep); err != nil {
		t.Fatalf("SwapCards() error = %v", err)
	}

	st := e.Snapshot()
	if st.Round != 2 {
		t.Errorf("round = %d, want 2", st.Round)
	}
	if len(st.Hand) != 5 {
		t.Fatalf("hand size = %d, want 5", len(st.Hand))
	}
	if st.Hand.HasDuplicates() {
		t.Error("hand contains duplicate ids")
	}

	// The burn fires exactly at the transition into round 2: three
	// player discards plus one automatic burn.
	if got := len(e.Discards()); got != 4 {
		t.Errorf("discard pile size = %d, want 4 (3 discarded + 1 burned)", got)
	}
	if st.Notice == "" {
		t.Error("burn produced no notice")
	}

	prefs := e.Preferences()
	if prefs.KeptTotal() != 2 {
		t.Errorf("kept total = %d, want 2", prefs.KeptTotal())
	}
	if prefs.DiscardedTotal() != 3 {
		t.Errorf("discarded total = %d, want 3", prefs.DiscardedTotal())
	}
}

func TestDealerBurnFiresExactlyOnce(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return candidatePool(60, "Drama", "Comedy", "Action", "Horror", "Romance"), nil
	}}
	e, _ := testEngine(t, src, &fakeChecker{})
	if err := e.DealHand(context.Background()); err != nil {
		t.Fatal(err)
	}

	discardsBeyondPlayer := 0
	playerDiscards := 0
	for round := 1; round <= 4; round++ {
		hand := e.Snapshot().Hand
		allowance := e.Snapshot().DiscardAllowance
		if allowance == 0 {
			break
		}
		keep := hand.IDs()[:len(hand)-1] // discard one card per round
		if err := e.SwapCards(context.Background(), keep); err != nil {
			t.Fatalf("round %d swap: %v", round, err)
		}
		playerDiscards++
		if got := len(e.Snapshot().Hand); got != 5 {
			t.Fatalf("round %d: hand size %d, want 5", round, got)
		}
	}
	discardsBeyondPlayer = len(e.Discards()) - playerDiscards
	if discardsBeyondPlayer != 1 {
		t.Errorf("automatic burns = %d, want exactly 1", discardsBeyondPlayer)
	}
}

func TestSwapCascadeDegradesToMystery(t *testing.T) {
	calls := 0
	src := &fakeSource{}
	src.fn = func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		calls++
		if calls == 1 {
			// Initial deal: exactly one hand, no overflow.
			return candidatePool(5, "Drama", "Comedy", "Action", "Horror", "Romance"), nil
		}
		return nil, errors.New("provider down")
	}
	e, _ := testEngine(t, src, &fakeChecker{})
	if err := e.DealHand(context.Background()); err != nil {
		t.Fatal(err)
	}
	hand := e.Snapshot().Hand

	if err := e.SwapCards(context.Background(), hand.IDs()[:3]); err != nil {
		t.Fatalf("SwapCards() error = %v", err)
	}

	st := e.Snapshot()
	if len(st.Hand) != 5 {
		t.Fatalf("hand size = %d, want 5", len(st.Hand))
	}
	mysteries := 0
	for _, m := range st.Hand {
		if m.IsMystery {
			mysteries++
		}
	}
	// Two replaced slots plus possibly the burn slot degrade to
	// placeholders when every source is exhausted.
	if mysteries < 2 {
		t.Errorf("mystery cards = %d, want at least the 2 replaced slots", mysteries)
	}
}

func TestSwapReplacementsUnseen(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return candidatePool(60, "Drama", "Comedy", "Action", "Horror", "Romance"), nil
	}}
	e, store := testEngine(t, src, &fakeChecker{})
	if err := e.DealHand(context.Background()); err != nil {
		t.Fatal(err)
	}
	hand := e.Snapshot().Hand
	seenBefore, err := ledger.SeenSet(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.SwapCards(context.Background(), hand.IDs()[:2]); err != nil {
		t.Fatal(err)
	}

	kept := map[int64]struct{}{hand[0].ID: {}, hand[1].ID: {}}
	for _, m := range e.Snapshot().Hand {
		if m.IsMystery {
			continue
		}
		if _, wasKept := kept[m.ID]; wasKept {
			continue
		}
		if _, wasSeen := seenBefore[m.ID]; wasSeen {
			t.Errorf("replacement %d was already seen at selection time", m.ID)
		}
	}
}

func TestStandTieBreakByAvailability(t *testing.T) {
	src := &fakeSource{}
	chk := &fakeChecker{fn: func(id int64) (bool, error) {
		return id == 2, nil // only the 8.0-rated card is streamable
	}}
	e, _ := testEngine(t, src, chk)

	e.mu.Lock()
	e.phase = PhasePlaying
	e.hand = models.Hand{
		movie(1, "Higher Unavailable", 8.1, "2000", "Drama"),
		movie(2, "Lower Available", 8.0, "2001", "Comedy"),
		movie(3, "Low A", 6.5, "2002", "Action"),
		movie(4, "Low B", 6.0, "2003", "Horror"),
		movie(5, "Low C", 5.5, "2004", "Romance"),
	}
	e.mu.Unlock()

	winner, err := e.Stand(context.Background())
	if err != nil {
		t.Fatalf("Stand() error = %v", err)
	}
	if winner.ID != 2 {
		t.Errorf("winner = %d (%s), want the available 8.0 card", winner.ID, winner.Title)
	}

	st := e.Snapshot()
	if st.Phase != PhaseRevealing {
		t.Errorf("phase = %s immediately after stand, want revealing", st.Phase)
	}
	deadline := time.After(time.Second)
	for e.Snapshot().Phase != PhaseWon {
		select {
		case <-deadline:
			t.Fatal("phase never reached won after the reveal delay")
		case <-time.After(2 * time.Millisecond):
		}
	}
	if got := e.Snapshot().Winner; got == nil || got.ID != 2 {
		t.Errorf("snapshot winner = %+v, want id 2", got)
	}
}

func TestStandAvailabilityFailureFallsBack(t *testing.T) {
	chk := &fakeChecker{fn: func(int64) (bool, error) {
		return false, errors.New("lookup down")
	}}
	e, _ := testEngine(t, &fakeSource{}, chk)

	e.mu.Lock()
	e.phase = PhasePlaying
	e.hand = models.Hand{
		movie(1, "Top", 8.1, "2000", "Drama"),
		movie(2, "Near", 8.0, "2001", "Comedy"),
		movie(3, "Low", 6.0, "2002", "Action"),
	}
	e.mu.Unlock()

	winner, err := e.Stand(context.Background())
	if err != nil {
		t.Fatalf("Stand() error = %v", err)
	}
	if winner.ID != 1 {
		t.Errorf("winner = %d, want the top-rated card when no availability data", winner.ID)
	}
}

func TestStandRecordsWinAndStreak(t *testing.T) {
	e, store := testEngine(t, &fakeSource{}, &fakeChecker{})

	e.mu.Lock()
	e.phase = PhasePlaying
	e.hand = models.Hand{
		movie(1, "Winner", 9.0, "2000", "Drama", "Crime"),
		movie(2, "Low", 6.0, "2001", "Comedy"),
	}
	e.mu.Unlock()

	winner, err := e.Stand(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if winner.ID != 1 {
		t.Fatalf("winner = %d, want 1", winner.ID)
	}

	stats, err := store.WinGenres(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats["Drama"] != 1 || stats["Crime"] != 1 {
		t.Errorf("win genres = %v, want Drama and Crime recorded", stats)
	}
	if got := e.Snapshot().Streak; got != 1 {
		t.Errorf("streak = %d, want 1", got)
	}
}

func TestResetCompleteness(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return candidatePool(30, "Drama", "Comedy", "Action", "Horror", "Romance"), nil
	}}
	e, store := testEngine(t, src, &fakeChecker{})
	if err := e.DealHand(context.Background()); err != nil {
		t.Fatal(err)
	}
	hand := e.Snapshot().Hand
	if err := e.SwapCards(context.Background(), hand.IDs()[:2]); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Stand(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordWin(context.Background(), []string{"Drama"}); err != nil {
		t.Fatal(err)
	}

	e.Reset()

	st := e.Snapshot()
	if st.Phase != PhaseIdle || len(st.Hand) != 0 || st.Winner != nil || st.Round != 1 {
		t.Errorf("reset state = %+v, want idle/empty/1", st)
	}
	if len(e.Discards()) != 0 {
		t.Error("discard pile survived reset")
	}
	if !e.Preferences().Bias().IsZero() {
		t.Error("session preferences survived reset")
	}

	// The cross-session ledger is NOT cleared by reset.
	seen, err := store.SeenIDs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) == 0 {
		t.Error("seen ledger was cleared by reset")
	}
	stats, err := store.WinGenres(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) == 0 {
		t.Error("win statistics were cleared by reset")
	}
}

func TestResetDiscardsInFlightDeal(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		once.Do(func() { close(started) })
		<-release
		return candidatePool(30, "Drama", "Comedy"), nil
	}}
	e, _ := testEngine(t, src, &fakeChecker{})

	done := make(chan error, 1)
	go func() { done <- e.DealHand(context.Background()) }()
	<-started

	// A duplicate trigger while the fetch is outstanding is rejected.
	if err := e.DealHand(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent DealHand() error = %v, want ErrBusy", err)
	}

	e.Reset()
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("superseded DealHand() error = %v, want nil", err)
	}

	st := e.Snapshot()
	if st.Phase != PhaseIdle || len(st.Hand) != 0 {
		t.Errorf("stale fetch mutated state: phase=%s hand=%d", st.Phase, len(st.Hand))
	}
}

func TestSetFiltersClearsSeenOnInvalidatingChange(t *testing.T) {
	e, store := testEngine(t, &fakeSource{}, &fakeChecker{})
	if err := store.AppendSeen(context.Background(), []int64{1, 2, 3}); err != nil {
		t.Fatal(err)
	}

	// A rating-only change keeps the history.
	if err := e.SetFilters(context.Background(), models.ManualFilters{MinRating: 7.5}); err != nil {
		t.Fatal(err)
	}
	if ids, _ := store.SeenIDs(context.Background()); len(ids) != 3 {
		t.Errorf("seen = %d after rating change, want 3", len(ids))
	}

	// A genre change invalidates prior exclusions.
	if err := e.SetFilters(context.Background(), models.ManualFilters{Genres: []string{"Drama"}, MinRating: 7.5}); err != nil {
		t.Fatal(err)
	}
	if ids, _ := store.SeenIDs(context.Background()); len(ids) != 0 {
		t.Errorf("seen = %d after genre change, want 0", len(ids))
	}
}

func TestSetDifficulty(t *testing.T) {
	e, _ := testEngine(t, &fakeSource{}, &fakeChecker{})
	if err := e.SetDifficulty(4); err != nil {
		t.Errorf("SetDifficulty(4) error = %v", err)
	}
	if err := e.SetDifficulty(7); !errors.Is(err, ErrInvalidDifficulty) {
		t.Errorf("SetDifficulty(7) error = %v, want ErrInvalidDifficulty", err)
	}
	if got := e.Snapshot().Difficulty; got != 4 {
		t.Errorf("difficulty = %d, want 4", got)
	}
}

func TestGoToConfigPhaseGuard(t *testing.T) {
	src := &fakeSource{fn: func(models.DifficultyLevel, models.ManualFilters, models.LearnedBias) ([]models.Movie, error) {
		return candidatePool(30, "Drama", "Comedy"), nil
	}}
	e, _ := testEngine(t, src, &fakeChecker{})

	if err := e.GoToConfig(); err != nil {
		t.Fatalf("GoToConfig() from idle error = %v", err)
	}
	if got := e.Snapshot().Phase; got != PhaseConfiguring {
		t.Errorf("phase = %s, want configuring", got)
	}
	if err := e.DealHand(context.Background()); err != nil {
		t.Fatalf("DealHand() from configuring error = %v", err)
	}
	if err := e.GoToConfig(); !errors.Is(err, ErrPhase) {
		t.Errorf("GoToConfig() from playing error = %v, want ErrPhase", err)
	}
}

func sameIDs(a, b models.Hand) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
