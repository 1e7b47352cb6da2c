package usecase

import (
	"errors"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

type OutcomeKind string

const (
	// OutcomeUpdated carries a board for a game still in progress.
	OutcomeUpdated OutcomeKind = "updated"
	// OutcomeFinished carries the final board; the session is gone.
	OutcomeFinished OutcomeKind = "finished"
	// OutcomeRejected is a player mistake answered privately, the game is untouched.
	OutcomeRejected  OutcomeKind = "rejected"
	OutcomeExpired   OutcomeKind = "expired"
	OutcomeMalformed OutcomeKind = "malformed"
)

const (
	msgNotYourGame    = "That's not your game! Start your own to play."
	msgNotYourTurn    = "It's not your turn! Wait for the other player to make a move."
	msgSelfJoin       = "You can't join your own game! Find someone else to play with."
	msgAlreadyJoined  = "Someone already joined this game! You can start your own."
	msgNotStarted     = "Nobody has joined this game yet."
	msgGameFinished   = "This game is already over."
	msgSessionExpired = "This game has expired, start a new one."
	msgMalformed      = "That action could not be understood."
)

// Outcome is what a player action produced and who needs to see it.
type Outcome struct {
	Kind      OutcomeKind
	GameKind  entity.GameKind
	SessionID string
	Board     entity.Board
	// Message is shown only to the acting player when Ephemeral is set.
	Message   string
	Ephemeral bool
	// Participants are the players whose view of the board changed.
	Participants []string
}

func unchanged(control entity.Control, board entity.Board, player string) *Outcome {
	return &Outcome{
		Kind:         OutcomeUpdated,
		GameKind:     control.Kind,
		SessionID:    control.SessionID,
		Board:        board,
		Participants: []string{player},
	}
}

// rejection turns a failed action into the private reply for player.
func rejection(control entity.Control, player string, err error) *Outcome {
	outcome := &Outcome{
		Kind:         OutcomeRejected,
		GameKind:     control.Kind,
		SessionID:    control.SessionID,
		Ephemeral:    true,
		Participants: []string{player},
	}

	switch {
	case errors.Is(err, apperror.ErrSessionExpired):
		outcome.Kind = OutcomeExpired
		outcome.Message = msgSessionExpired
		outcome.Board = entity.Board{Status: msgSessionExpired}
	case errors.Is(err, apperror.ErrMalformedAction):
		outcome.Kind = OutcomeMalformed
		outcome.Message = msgMalformed
	case errors.Is(err, apperror.ErrNotYourGame):
		outcome.Message = msgNotYourGame
	case errors.Is(err, apperror.ErrNotYourTurn):
		outcome.Message = msgNotYourTurn
	case errors.Is(err, apperror.ErrSelfJoin):
		outcome.Message = msgSelfJoin
	case errors.Is(err, apperror.ErrAlreadyJoined):
		outcome.Message = msgAlreadyJoined
	case errors.Is(err, apperror.ErrGameIsNotStarted):
		outcome.Message = msgNotStarted
	case errors.Is(err, apperror.ErrGameFinished):
		outcome.Message = msgGameFinished
	default:
		outcome.Kind = OutcomeMalformed
		outcome.Message = msgMalformed
	}

	return outcome
}
