package game

import "errors"

var (
	ErrEmptyDeck      = errors.New("deck is empty")
	ErrRoundCompleted = errors.New("round completed, restart to play again")
	ErrInvalidSpeed   = errors.New("draw interval out of range")
	ErrNoCardDrawn    = errors.New("no card drawn yet")
	ErrClosed         = errors.New("round controller closed")
)
