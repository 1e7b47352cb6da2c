package session

import (
	"time"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/minesweeper"
	"github.com/rocketscienceinc/gridgames-backend/internal/tictactoe"
)

// Session is one live game. Exactly one of Minesweeper and Tictactoe is set, as told by Kind.
type Session struct {
	Kind        entity.GameKind
	Minesweeper *minesweeper.Game
	Tictactoe   *tictactoe.Game

	CreatedAt time.Time
	TouchedAt time.Time
}

func NewMinesweeper(game *minesweeper.Game, now time.Time) *Session {
	return &Session{
		Kind:        entity.KindMinesweeper,
		Minesweeper: game,
		CreatedAt:   now,
		TouchedAt:   now,
	}
}

func NewTictactoe(game *tictactoe.Game, now time.Time) *Session {
	return &Session{
		Kind:      entity.KindTictactoe,
		Tictactoe: game,
		CreatedAt: now,
		TouchedAt: now,
	}
}
