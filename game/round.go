package game

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bellapacxx/crupier/models"
)

const (
	DefaultSpeed = 2 * time.Second
	MinSpeed     = 100 * time.Millisecond
)

// Notifier receives round events. Notify is called with the round lock held,
// so it must not block and must not call back into the Round.
type Notifier interface {
	Notify(ev models.Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ev models.Event)

func (f NotifierFunc) Notify(ev models.Event) { f(ev) }

// Options configures a Round. Zero values pick production defaults.
type Options struct {
	Speed    time.Duration
	RNG      RNG
	Clock    Clock
	Notifier Notifier
	Logger   *zap.SugaredLogger
}

// Round owns the deck, the drawn cards, the achieved milestones and the single
// draw timer of one session.
type Round struct {
	mu       sync.Mutex
	id       string
	state    models.RoundState
	speed    time.Duration
	deck     *Deck
	drawn    []models.Card
	achieved models.MilestoneSet
	closed   bool

	// timer is the only armed draw; gen invalidates callbacks that were
	// already in flight when it was replaced.
	timer Timer
	gen   uint64

	rng    RNG
	clock  Clock
	notify Notifier
	log    *zap.SugaredLogger
}

// NewRound returns an idle round with a freshly shuffled deck.
func NewRound(opts Options) (*Round, error) {
	if opts.Speed == 0 {
		opts.Speed = DefaultSpeed
	}
	if err := validateSpeed(opts.Speed); err != nil {
		return nil, err
	}
	if opts.RNG == nil {
		opts.RNG = StdRNG{}
	}
	if opts.Clock == nil {
		opts.Clock = RealClock
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(models.Event) {})
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	r := &Round{
		speed:  opts.Speed,
		rng:    opts.RNG,
		clock:  opts.Clock,
		notify: opts.Notifier,
		log:    opts.Logger,
	}
	r.reinit()
	return r, nil
}

func validateSpeed(d time.Duration) error {
	if d < MinSpeed {
		return fmt.Errorf("%w: %s is below %s", ErrInvalidSpeed, d, MinSpeed)
	}
	return nil
}

// reinit shuffles a fresh deck and clears everything the round accumulated.
func (r *Round) reinit() {
	r.disarm()
	r.id = uuid.NewString()
	r.deck = NewShuffledDeck(r.rng)
	r.drawn = make([]models.Card, 0, models.DeckSize)
	r.achieved = 0
	r.state = models.StateIdle
}

// Start begins the automatic draw loop, or resumes it when paused.
func (r *Round) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	switch r.state {
	case models.StateRunning:
		return nil
	case models.StateCompleted:
		return ErrRoundCompleted
	}

	if r.deck.Len() == 0 && len(r.drawn) == 0 {
		r.reinit()
	}

	evt := models.EventRoundStarted
	if r.state == models.StatePaused {
		evt = models.EventRoundResumed
	}
	r.state = models.StateRunning
	r.arm()
	r.log.Debugw("round running", "round_id", r.id, "speed", r.speed, "remaining", r.deck.Len())
	r.emit(models.Event{Type: evt})
	return nil
}

// Pause suspends the draw timer. Deck and drawn cards are untouched.
func (r *Round) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.state != models.StateRunning {
		return nil
	}
	r.state = models.StatePaused
	r.disarm()
	r.log.Debugw("round paused", "round_id", r.id, "drawn", len(r.drawn))
	r.emit(models.Event{Type: models.EventRoundPaused})
	return nil
}

// Resume re-arms the draw timer of a paused round.
func (r *Round) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.state != models.StatePaused {
		return nil
	}
	r.state = models.StateRunning
	r.arm()
	r.log.Debugw("round resumed", "round_id", r.id, "remaining", r.deck.Len())
	r.emit(models.Event{Type: models.EventRoundResumed})
	return nil
}

// TogglePause pauses a running round and resumes a paused one.
func (r *Round) TogglePause() error {
	r.mu.Lock()
	state := r.state
	r.mu.Unlock()

	switch state {
	case models.StateRunning:
		return r.Pause()
	case models.StatePaused:
		return r.Resume()
	}
	return nil
}

// Restart stops the timer and replaces the round with a fresh idle one.
func (r *Round) Restart() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	old := r.id
	r.reinit()
	r.log.Debugw("round restarted", "previous_round_id", old, "round_id", r.id)
	r.emit(models.Event{Type: models.EventRoundRestarted})
	return nil
}

// SetSpeed changes the draw interval. A running round is re-armed at the new
// interval; otherwise the value is stored for the next start.
func (r *Round) SetSpeed(d time.Duration) error {
	if err := validateSpeed(d); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if d == r.speed {
		return nil
	}
	r.speed = d
	if r.state == models.StateRunning {
		r.arm()
	}
	r.emit(models.Event{Type: models.EventSpeedChanged, SpeedMS: d.Milliseconds()})
	return nil
}

// Close cancels the timer for good. Every later command returns ErrClosed.
func (r *Round) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disarm()
	r.closed = true
}

// LastCard returns the most recently drawn card.
func (r *Round) LastCard() (models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.drawn) == 0 {
		return models.Card{}, ErrNoCardDrawn
	}
	return r.drawn[len(r.drawn)-1], nil
}

func (r *Round) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

func (r *Round) State() models.RoundState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Round) Speed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.speed
}

// Snapshot copies the observable round state.
func (r *Round) Snapshot() models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	drawn := append([]models.Card(nil), r.drawn...)
	snap := models.Snapshot{
		RoundID:   r.id,
		State:     r.state,
		Speed:     r.speed,
		SpeedMS:   r.speed.Milliseconds(),
		Remaining: r.deck.Len(),
		Total:     models.DeckSize,
		Drawn:     drawn,
		Board:     BoardOrder(drawn),
		Achieved:  r.achieved.List(),
		Progress:  Progress(drawn),
	}
	if n := len(drawn); n > 0 {
		current := drawn[n-1]
		snap.Current = &current
	}
	return snap
}

// BoardOrder sorts a copy of cards the way the drawn-cards grid shows them:
// by suit, highest rank first.
func BoardOrder(cards []models.Card) []models.Card {
	out := append([]models.Card(nil), cards...)
	slices.SortFunc(out, func(a, b models.Card) int {
		if c := cmp.Compare(a.Suit.Index(), b.Suit.Index()); c != 0 {
			return c
		}
		return cmp.Compare(b.Rank, a.Rank)
	})
	return out
}

// arm replaces the draw timer with a new one at the current speed.
func (r *Round) arm() {
	r.disarm()
	if r.deck.Len() == 0 {
		return
	}
	gen := r.gen
	r.timer = r.clock.AfterFunc(r.speed, func() { r.tick(gen) })
}

func (r *Round) disarm() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
}

func (r *Round) tick(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen || r.closed || r.state != models.StateRunning {
		return
	}
	r.timer = nil

	card, err := r.deck.Draw()
	if err != nil {
		r.log.Warnw("draw on exhausted deck", "round_id", r.id, "error", err)
		r.complete()
		return
	}
	r.drawn = append(r.drawn, card)
	r.emit(models.Event{Type: models.EventCardDrawn, Card: &card, Message: card.String()})

	for _, m := range Evaluate(r.drawn, r.achieved) {
		r.achieved = r.achieved.With(m)
		r.log.Infow("milestone achieved", "round_id", r.id, "milestone", m.ID(), "drawn", len(r.drawn))
		r.emit(models.Event{Type: models.EventMilestoneAchieved, Milestone: &m, Message: m.Message()})
	}

	if r.deck.Len() == 0 {
		r.complete()
		return
	}
	r.arm()
}

func (r *Round) complete() {
	r.disarm()
	r.state = models.StateCompleted
	r.log.Infow("round completed", "round_id", r.id, "drawn", len(r.drawn))
	r.emit(models.Event{Type: models.EventRoundCompleted, Message: "¡Ronda completada! Todas las cartas han sido extraídas."})
}

func (r *Round) emit(ev models.Event) {
	ev.RoundID = r.id
	ev.Remaining = r.deck.Len()
	ev.Drawn = len(r.drawn)
	r.notify.Notify(ev)
}
