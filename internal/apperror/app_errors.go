package apperror

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is the parent of every rejected board mutation.
var ErrInvalidMove = errors.New("invalid move")

var (
	ErrCellOccupied  = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrNoActiveGames = errors.New("no active games")
	ErrStaleMove     = errors.New("game changed since the move was planned")
)
