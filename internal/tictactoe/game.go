package tictactoe

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/board"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const (
	MinSize     = 2
	MaxSize     = 5
	DefaultSize = 3
)

var (
	ErrInvalidCell = errors.New("invalid cell index")
	ErrInvalidSize = errors.New("invalid board size")
)

type Option func(*Game)

func WithClock(now func() time.Time) Option {
	return func(game *Game) {
		game.now = now
	}
}

// Game is a single N×N tic-tac-toe session. Player1 always plays X.
type Game struct {
	Player1    string
	Player2    string
	Size       int
	Board      []entity.Mark
	Turn       entity.Mark
	Winner     string
	Status     entity.Status
	StartedAt  time.Time
	FinishedAt time.Time

	now func() time.Time
}

// Move is the result of a successful Play.
type Move struct {
	Index  int
	Mark   entity.Mark
	Player string
	Line   board.Line
	Status entity.Status
}

func NewGame(player1 string, size int, opts ...Option) (*Game, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d, must be in [%d, %d]", ErrInvalidSize, size, MinSize, MaxSize)
	}

	game := &Game{
		Player1: player1,
		Size:    size,
		Board:   make([]entity.Mark, size*size),
		Turn:    entity.PlayerX,
		Status:  entity.StatusWaiting,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(game)
	}

	return game, nil
}

// Join seats candidate as the second player and starts the game.
func (that *Game) Join(candidate string) error {
	if candidate == that.Player1 {
		return apperror.ErrSelfJoin
	}

	if that.Player2 != "" {
		return apperror.ErrAlreadyJoined
	}

	that.Player2 = candidate
	that.StartedAt = that.now()
	that.Status = entity.StatusOngoing

	return nil
}

// Play places the current mark at index on behalf of player.
func (that *Game) Play(index int, player string) (*Move, error) {
	if err := that.validateMove(player, index); err != nil {
		return nil, err
	}

	move := &Move{
		Index:  index,
		Mark:   that.Turn,
		Player: player,
	}

	that.Board[index] = move.Mark
	that.updateGameStatus(move)

	return move, nil
}

// CurrentPlayer returns the id of the player whose mark is to be placed next.
func (that *Game) CurrentPlayer() string {
	if that.Turn == entity.PlayerX {
		return that.Player1
	}
	return that.Player2
}

func (that *Game) IsParticipant(player string) bool {
	return player == that.Player1 || (that.Player2 != "" && player == that.Player2)
}

func (that *Game) Elapsed() time.Duration {
	switch {
	case that.StartedAt.IsZero():
		return 0
	case !that.FinishedAt.IsZero():
		return that.FinishedAt.Sub(that.StartedAt)
	default:
		return that.now().Sub(that.StartedAt)
	}
}

// validateMove - checks if the move is valid.
func (that *Game) validateMove(player string, index int) error {
	switch {
	case !that.IsParticipant(player):
		return apperror.ErrNotYourGame
	case that.Status == entity.StatusWaiting:
		return apperror.ErrGameIsNotStarted
	case that.Status.IsTerminal():
		return apperror.ErrGameFinished
	case player != that.CurrentPlayer():
		return apperror.ErrNotYourTurn
	case index < 0 || index >= len(that.Board):
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, index)
	case that.Board[index] != entity.EmptyCell:
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, index)
	}

	return nil
}

// updateGameStatus - checks the game status after a move.
func (that *Game) updateGameStatus(move *Move) {
	move.Line = that.winningLine(move.Index)

	switch {
	case move.Line != nil:
		that.Winner = move.Player
		that.finish(entity.StatusWon)
	case that.isFull():
		that.finish(entity.StatusTied)
	default:
		that.Turn = that.Turn.Toggle()
	}

	move.Status = that.Status
}

// winningLine returns the first full line through index, checking only the lines the move can complete.
func (that *Game) winningLine(index int) board.Line {
	mark := that.Board[index]
	if mark == entity.EmptyCell {
		return nil
	}

	for _, line := range board.LinesThrough(index, that.Size) {
		if !slices.ContainsFunc(line, func(cell int) bool { return that.Board[cell] != mark }) {
			return line
		}
	}

	return nil
}

func (that *Game) isFull() bool {
	return !slices.Contains(that.Board, entity.EmptyCell)
}

func (that *Game) finish(status entity.Status) {
	that.Status = status
	that.FinishedAt = that.now()
}
