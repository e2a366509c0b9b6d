package game_test

import (
	"errors"
	"testing"
	"time"

	"github.com/bellapacxx/crupier/game"
	"github.com/bellapacxx/crupier/models"
)

func newTestRound(t *testing.T, speed time.Duration) (*game.Round, *manualClock, *recorder) {
	t.Helper()
	clock := &manualClock{}
	rec := &recorder{}
	r, err := game.NewRound(game.Options{
		Speed:    speed,
		RNG:      identityRNG{},
		Clock:    clock,
		Notifier: rec,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(r.Close)
	return r, clock, rec
}

func TestNewRound_Idle(t *testing.T) {
	r, clock, _ := newTestRound(t, time.Second)

	snap := r.Snapshot()
	if snap.State != models.StateIdle {
		t.Errorf("expected idle, got %s", snap.State)
	}
	if snap.Remaining != models.DeckSize || len(snap.Drawn) != 0 {
		t.Errorf("expected full deck and nothing drawn, got %d/%d", snap.Remaining, len(snap.Drawn))
	}
	if snap.RoundID == "" {
		t.Error("expected a round id")
	}
	if clock.Active() != 0 {
		t.Errorf("idle round armed %d timers", clock.Active())
	}
}

func TestNewRound_InvalidSpeed(t *testing.T) {
	_, err := game.NewRound(game.Options{Speed: 10 * time.Millisecond})
	if !errors.Is(err, game.ErrInvalidSpeed) {
		t.Errorf("expected ErrInvalidSpeed, got %v", err)
	}
}

func TestRound_OneDrawPerInterval(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)

	if err := r.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.State() != models.StateRunning {
		t.Fatalf("expected running, got %s", r.State())
	}

	clock.Advance(999 * time.Millisecond)
	if n := rec.count(models.EventCardDrawn); n != 0 {
		t.Fatalf("expected no draw before the first interval, got %d", n)
	}
	clock.Advance(time.Millisecond)
	if n := rec.count(models.EventCardDrawn); n != 1 {
		t.Fatalf("expected 1 draw, got %d", n)
	}
	clock.Advance(3 * time.Second)
	if n := rec.count(models.EventCardDrawn); n != 4 {
		t.Fatalf("expected 4 draws, got %d", n)
	}
	if clock.Active() != 1 {
		t.Errorf("expected exactly one armed timer, got %d", clock.Active())
	}

	last, err := r.LastCard()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last != card(4, models.Oros) {
		t.Errorf("expected oros-4 last, got %s", last.ID())
	}
}

func TestRound_StartTwiceKeepsOneTimer(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)

	_ = r.Start()
	clock.Advance(500 * time.Millisecond)
	_ = r.Start()
	if clock.Active() != 1 {
		t.Fatalf("expected one timer, got %d", clock.Active())
	}
	clock.Advance(500 * time.Millisecond)
	if n := rec.count(models.EventCardDrawn); n != 1 {
		t.Errorf("second start must not reset the schedule, got %d draws", n)
	}
	if n := rec.count(models.EventRoundStarted); n != 1 {
		t.Errorf("expected one started event, got %d", n)
	}
}

func TestRound_Completion(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)
	_ = r.Start()

	for i := 1; i <= models.DeckSize; i++ {
		clock.Advance(time.Second)
		snap := r.Snapshot()
		if len(snap.Drawn)+snap.Remaining != models.DeckSize {
			t.Fatalf("draw %d: drawn %d + remaining %d != %d", i, len(snap.Drawn), snap.Remaining, models.DeckSize)
		}
		seen := make(map[models.Card]bool)
		for _, c := range snap.Drawn {
			if seen[c] {
				t.Fatalf("draw %d: %s drawn twice", i, c.ID())
			}
			seen[c] = true
		}
	}

	snap := r.Snapshot()
	if snap.State != models.StateCompleted {
		t.Fatalf("expected completed, got %s", snap.State)
	}
	if snap.Remaining != 0 {
		t.Errorf("expected empty deck, got %d", snap.Remaining)
	}
	if n := rec.count(models.EventRoundCompleted); n != 1 {
		t.Errorf("expected one completion event, got %d", n)
	}
	if clock.Active() != 0 {
		t.Errorf("completed round left %d timers", clock.Active())
	}

	clock.Advance(10 * time.Second)
	if n := rec.count(models.EventCardDrawn); n != models.DeckSize {
		t.Errorf("expected %d draws, got %d", models.DeckSize, n)
	}
	if n := rec.count(models.EventRoundCompleted); n != 1 {
		t.Errorf("completion fired again: %d", n)
	}
	if err := r.Start(); !errors.Is(err, game.ErrRoundCompleted) {
		t.Errorf("expected ErrRoundCompleted, got %v", err)
	}
}

func TestRound_MilestonesFireOncePerRound(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)
	_ = r.Start()
	clock.Advance(models.DeckSize * time.Second)

	got := rec.milestones()
	want := []models.Milestone{models.Escalera, models.Linea, models.Poker, models.Esquinas}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("milestone %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if achieved := r.Snapshot().Achieved; len(achieved) != len(models.Milestones) {
		t.Errorf("expected all milestones achieved, got %v", achieved)
	}
}

func TestRound_MilestoneEventCarriesMessage(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)
	_ = r.Start()
	clock.Advance(5 * time.Second)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, ev := range rec.events {
		if ev.Type != models.EventMilestoneAchieved {
			continue
		}
		if *ev.Milestone != models.Escalera || ev.Message != models.Escalera.Message() {
			t.Errorf("unexpected milestone event %+v", ev)
		}
		if ev.Drawn != 5 {
			t.Errorf("expected escalera on draw 5, got %d", ev.Drawn)
		}
		return
	}
	t.Fatal("no milestone event")
}

func TestRound_PauseStopsDrawing(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)
	_ = r.Start()
	clock.Advance(2 * time.Second)

	if err := r.Pause(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.State() != models.StatePaused {
		t.Fatalf("expected paused, got %s", r.State())
	}
	if clock.Active() != 0 {
		t.Fatalf("paused round left %d timers", clock.Active())
	}
	before := r.Snapshot()

	clock.Advance(10 * time.Second)
	after := r.Snapshot()
	if len(after.Drawn) != 2 || after.Remaining != before.Remaining {
		t.Fatalf("paused round changed: drawn %d remaining %d", len(after.Drawn), after.Remaining)
	}

	if err := r.Resume(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(time.Second)
	if n := rec.count(models.EventCardDrawn); n != 3 {
		t.Errorf("expected 3 draws after resume, got %d", n)
	}
}

func TestRound_TogglePause(t *testing.T) {
	r, _, rec := newTestRound(t, time.Second)

	_ = r.TogglePause()
	if r.State() != models.StateIdle {
		t.Fatalf("toggle on idle round must be a no-op, got %s", r.State())
	}

	_ = r.Start()
	_ = r.TogglePause()
	if r.State() != models.StatePaused {
		t.Fatalf("expected paused, got %s", r.State())
	}
	_ = r.TogglePause()
	if r.State() != models.StateRunning {
		t.Fatalf("expected running, got %s", r.State())
	}
	if rec.count(models.EventRoundPaused) != 1 || rec.count(models.EventRoundResumed) != 1 {
		t.Error("expected one paused and one resumed event")
	}
}

func TestRound_StartResumesPaused(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)
	_ = r.Start()
	_ = r.Pause()
	_ = r.Start()

	if r.State() != models.StateRunning {
		t.Fatalf("expected running, got %s", r.State())
	}
	if rec.count(models.EventRoundResumed) != 1 {
		t.Error("expected a resumed event")
	}
	clock.Advance(time.Second)
	if n := rec.count(models.EventCardDrawn); n != 1 {
		t.Errorf("expected 1 draw, got %d", n)
	}
}

func TestRound_SpeedChangeRearms(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)
	_ = r.Start()
	clock.Advance(500 * time.Millisecond)

	if err := r.SetSpeed(2 * time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clock.Active() != 1 {
		t.Fatalf("expected one timer after speed change, got %d", clock.Active())
	}

	// The old 1s schedule would have fired at t=1s; the new one fires at 2.5s.
	clock.Advance(1900 * time.Millisecond)
	if n := rec.count(models.EventCardDrawn); n != 0 {
		t.Fatalf("old schedule fired: %d draws", n)
	}
	clock.Advance(100 * time.Millisecond)
	if n := rec.count(models.EventCardDrawn); n != 1 {
		t.Fatalf("expected 1 draw, got %d", n)
	}
	clock.Advance(4 * time.Second)
	if n := rec.count(models.EventCardDrawn); n != 3 {
		t.Errorf("expected 3 draws, got %d", n)
	}
	if r.Speed() != 2*time.Second {
		t.Errorf("expected speed 2s, got %s", r.Speed())
	}
}

func TestRound_SpeedReductionNoExtraDraws(t *testing.T) {
	r, clock, rec := newTestRound(t, 2*time.Second)
	_ = r.Start()
	clock.Advance(2 * time.Second)

	for range 5 {
		_ = r.SetSpeed(250 * time.Millisecond)
		_ = r.SetSpeed(500 * time.Millisecond)
	}
	if clock.Active() != 1 {
		t.Fatalf("expected one timer, got %d", clock.Active())
	}

	clock.Advance(2 * time.Second)
	if n := rec.count(models.EventCardDrawn); n != 5 {
		t.Errorf("expected 5 draws, got %d", n)
	}

	_ = r.Pause()
	clock.Advance(5 * time.Second)
	if n := rec.count(models.EventCardDrawn); n != 5 {
		t.Errorf("draw after cancel: %d", n)
	}
}

func TestRound_SpeedChangeWhilePaused(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)
	_ = r.Start()
	_ = r.Pause()

	if err := r.SetSpeed(3 * time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.State() != models.StatePaused {
		t.Fatalf("speed change must not unpause, got %s", r.State())
	}
	if clock.Active() != 0 {
		t.Fatalf("paused round armed %d timers", clock.Active())
	}

	_ = r.Resume()
	clock.Advance(2 * time.Second)
	if n := rec.count(models.EventCardDrawn); n != 0 {
		t.Fatalf("expected new interval after resume, got %d draws", n)
	}
	clock.Advance(time.Second)
	if n := rec.count(models.EventCardDrawn); n != 1 {
		t.Errorf("expected 1 draw, got %d", n)
	}
}

func TestRound_SetSpeedRejectsInvalid(t *testing.T) {
	r, _, _ := newTestRound(t, time.Second)
	for _, d := range []time.Duration{0, -time.Second, time.Millisecond} {
		if err := r.SetSpeed(d); !errors.Is(err, game.ErrInvalidSpeed) {
			t.Errorf("speed %s: expected ErrInvalidSpeed, got %v", d, err)
		}
	}
	if r.Speed() != time.Second {
		t.Errorf("speed changed to %s", r.Speed())
	}
}

func TestRound_RestartAfterTenDraws(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)
	_ = r.Start()
	clock.Advance(10 * time.Second)

	before := r.Snapshot()
	if len(before.Drawn) != 10 || len(before.Achieved) == 0 {
		t.Fatalf("expected 10 draws and escalera, got %d draws, %v", len(before.Drawn), before.Achieved)
	}

	if err := r.Restart(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := r.Snapshot()
	if after.State != models.StateIdle {
		t.Errorf("expected idle, got %s", after.State)
	}
	if after.Remaining != models.DeckSize || len(after.Drawn) != 0 || len(after.Achieved) != 0 {
		t.Errorf("round not reset: remaining %d drawn %d achieved %v", after.Remaining, len(after.Drawn), after.Achieved)
	}
	if after.RoundID == before.RoundID {
		t.Error("expected a new round id")
	}
	if clock.Active() != 0 {
		t.Errorf("restart left %d timers", clock.Active())
	}
	if _, err := r.LastCard(); !errors.Is(err, game.ErrNoCardDrawn) {
		t.Errorf("expected ErrNoCardDrawn, got %v", err)
	}

	clock.Advance(10 * time.Second)
	if n := rec.count(models.EventCardDrawn); n != 10 {
		t.Errorf("stale timer drew after restart: %d draws", n)
	}

	// Milestones may fire again in the new round.
	_ = r.Start()
	clock.Advance(5 * time.Second)
	if n := rec.count(models.EventMilestoneAchieved); n != 2 {
		t.Errorf("expected escalera once per round, got %d events", n)
	}
}

func TestRound_StaleCallbackIgnored(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)
	clock.ignoreStop = true

	_ = r.Start()
	_ = r.Pause()
	clock.Advance(5 * time.Second)
	if n := rec.count(models.EventCardDrawn); n != 0 {
		t.Fatalf("stale callback drew %d cards after pause", n)
	}

	_ = r.Resume()
	_ = r.SetSpeed(3 * time.Second)
	// Both the 1s and the 3s callbacks fire; only the current one may draw.
	clock.Advance(3 * time.Second)
	if n := rec.count(models.EventCardDrawn); n != 1 {
		t.Fatalf("expected 1 draw, got %d", n)
	}
}

func TestRound_CloseCancelsTimer(t *testing.T) {
	r, clock, rec := newTestRound(t, time.Second)
	_ = r.Start()
	clock.Advance(time.Second)

	r.Close()
	if clock.Active() != 0 {
		t.Fatalf("closed round left %d timers", clock.Active())
	}
	clock.Advance(5 * time.Second)
	if n := rec.count(models.EventCardDrawn); n != 1 {
		t.Errorf("expected 1 draw, got %d", n)
	}
	if err := r.Start(); !errors.Is(err, game.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestRound_RealClock(t *testing.T) {
	rec := &recorder{}
	done := make(chan struct{})
	r, err := game.NewRound(game.Options{
		Speed: game.MinSpeed,
		Notifier: game.NotifierFunc(func(ev models.Event) {
			rec.Notify(ev)
			if ev.Type == models.EventCardDrawn && ev.Drawn == 2 {
				close(done)
			}
		}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()

	_ = r.Start()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for draws")
	}
	_ = r.Pause()
	if n := rec.count(models.EventCardDrawn); n < 2 {
		t.Errorf("expected at least 2 draws, got %d", n)
	}
}

func TestBoardOrder(t *testing.T) {
	cards := []models.Card{card(3, models.Bastos), card(2, models.Oros), card(11, models.Oros), card(5, models.Copas)}
	got := game.BoardOrder(cards)
	want := []models.Card{card(11, models.Oros), card(2, models.Oros), card(5, models.Copas), card(3, models.Bastos)}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i].ID(), got[i].ID())
		}
	}
	if cards[0] != card(3, models.Bastos) {
		t.Error("BoardOrder must not reorder its input")
	}
}
