package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotYourGame      = errors.New("that's not your game")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrSelfJoin         = errors.New("you can't join your own game")
	ErrAlreadyJoined    = errors.New("someone already joined this game")
	ErrSessionExpired   = errors.New("game has expired")
	ErrMalformedAction  = errors.New("malformed action")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotFound         = errors.New("not found")

	// ErrInvariantViolation marks a caller bug (acting on a cell the UI should have disabled),
	// not a player mistake.
	ErrInvariantViolation = errors.New("invariant violation")
	ErrCellOccupied       = fmt.Errorf("%w: cell is already occupied", ErrInvariantViolation)
	ErrCellRevealed       = fmt.Errorf("%w: cell is already revealed", ErrInvariantViolation)
)
