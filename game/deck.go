package game

import (
	"math/rand/v2"
	"sync"

	"github.com/bellapacxx/crupier/models"
)

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// StdRNG delegates to math/rand/v2 (auto-seeded).
type StdRNG struct{}

func (StdRNG) Intn(n int) int { return rand.IntN(n) }

// Deck is the ordered pool of undrawn cards, consumed from the front.
type Deck struct {
	mu    sync.Mutex
	cards []models.Card
}

// NewDeck returns the full 48-card universe in suit/rank order.
func NewDeck() *Deck {
	return &Deck{cards: models.Universe()}
}

// NewShuffledDeck returns a fresh universe shuffled with rng.
func NewShuffledDeck(rng RNG) *Deck {
	d := NewDeck()
	d.Shuffle(rng)
	return d
}

// Shuffle permutes the remaining cards with Fisher-Yates.
func (d *Deck) Shuffle(rng RNG) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the head card.
func (d *Deck) Draw() (models.Card, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cards) == 0 {
		return models.Card{}, ErrEmptyDeck
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

func (d *Deck) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards)
}

// Cards returns a copy of the undrawn cards in draw order.
func (d *Deck) Cards() []models.Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Card(nil), d.cards...)
}
