package game_test

import (
	"sync"
	"time"

	"github.com/bellapacxx/crupier/game"
	"github.com/bellapacxx/crupier/models"
)

// identityRNG makes every Fisher-Yates swap a no-op, leaving universe order:
// oros 1..12, copas 1..12, espadas 1..12, bastos 1..12.
type identityRNG struct{}

func (identityRNG) Intn(n int) int { return n - 1 }

// deterministicRNG returns values from a pre-set sequence.
type deterministicRNG struct {
	values []int
	idx    int
}

func (r *deterministicRNG) Intn(n int) int {
	v := r.values[r.idx%len(r.values)] % n
	r.idx++
	return v
}

// manualClock fires due callbacks synchronously from Advance.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
	// ignoreStop simulates a callback that is already in flight when the
	// owner cancels it.
	ignoreStop bool
}

type manualTimer struct {
	clock  *manualClock
	at     time.Duration
	f      func()
	active bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) game.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f, active: true}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.clock.ignoreStop {
		return false
	}
	was := t.active
	t.active = false
	return was
}

// Advance moves time forward by d, running every callback that falls due in
// order, including callbacks scheduled by earlier ones.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *manualTimer
		for _, t := range c.timers {
			if t.active && t.at <= target && (next == nil || t.at < next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.active = false
		c.now = next.at
		c.mu.Unlock()
		next.f()
	}
}

// Active counts timers that are still scheduled.
func (c *manualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if t.active {
			n++
		}
	}
	return n
}

type recorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recorder) Notify(ev models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count(t models.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) milestones() []models.Milestone {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Milestone
	for _, ev := range r.events {
		if ev.Type == models.EventMilestoneAchieved {
			out = append(out, *ev.Milestone)
		}
	}
	return out
}

func card(rank int, suit models.Suit) models.Card {
	return models.Card{Rank: rank, Suit: suit}
}
