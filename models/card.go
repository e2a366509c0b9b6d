package models

import "fmt"

// Suit is one of the four Spanish suits.
type Suit string

const (
	Oros    Suit = "oros"
	Copas   Suit = "copas"
	Espadas Suit = "espadas"
	Bastos  Suit = "bastos"
)

// Suits lists the suits in display order.
var Suits = [4]Suit{Oros, Copas, Espadas, Bastos}

const (
	MinRank   = 1
	MaxRank   = 12
	DeckSize  = 4 * MaxRank
	SuitCards = MaxRank
)

// Index returns the display position of the suit, or -1 if unknown.
func (s Suit) Index() int {
	for i, v := range Suits {
		if v == s {
			return i
		}
	}
	return -1
}

// Card is a single Spanish-deck card. Identity is (Rank, Suit).
type Card struct {
	Rank int  `json:"rank"`
	Suit Suit `json:"suit"`
}

// ID returns the "<suit>-<rank>" identifier used by clients.
func (c Card) ID() string {
	return fmt.Sprintf("%s-%d", c.Suit, c.Rank)
}

func (c Card) String() string {
	return fmt.Sprintf("%d de %s", c.Rank, c.Suit)
}

// Valid reports whether c belongs to the 48-card universe.
func (c Card) Valid() bool {
	return c.Rank >= MinRank && c.Rank <= MaxRank && c.Suit.Index() >= 0
}

// Universe returns the 48 cards ordered by suit then rank.
func Universe() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := MinRank; r <= MaxRank; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return cards
}
