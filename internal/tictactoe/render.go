package tictactoe

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const joinLabel = "Join"

// Render draws the game for sessionID. last is the move that produced the current state, if any.
func (that *Game) Render(sessionID string, last *Move) entity.Board {
	if that.Status == entity.StatusWaiting {
		return that.renderLobby(sessionID)
	}

	ended := that.Status.IsTerminal()
	rows := make([][]entity.Cell, that.Size)

	for y := 0; y < that.Size; y++ {
		rows[y] = make([]entity.Cell, that.Size)
		for x := 0; x < that.Size; x++ {
			index := y*that.Size + x
			mark := that.Board[index]

			cell := entity.Cell{
				ID:       entity.CellControl(entity.KindTictactoe, sessionID, index).String(),
				Label:    mark.Symbol(),
				Style:    entity.StyleNeutral,
				Disabled: ended || mark != entity.EmptyCell,
			}

			switch {
			case last != nil && slices.Contains(last.Line, index):
				cell.Style = entity.StyleSuccess
			case last != nil && last.Index == index:
				cell.Style = entity.StyleHighlighted
			}

			rows[y][x] = cell
		}
	}

	return entity.Board{
		Rows:   rows,
		Status: that.statusText(),
	}
}

func (that *Game) renderLobby(sessionID string) entity.Board {
	return entity.Board{
		Rows: [][]entity.Cell{{
			{
				ID:    entity.JoinControl(entity.KindTictactoe, sessionID).String(),
				Label: joinLabel,
				Style: entity.StyleSuccess,
			},
		}},
		Status: that.statusText(),
	}
}

func (that *Game) statusText() string {
	switch that.Status {
	case entity.StatusWaiting:
		return fmt.Sprintf("%s has started a %dx%d game of tic-tac-toe! Who would like to play?",
			that.Player1, that.Size, that.Size)
	case entity.StatusWon:
		return fmt.Sprintf("%s won in %s!", that.Winner, entity.FormatElapsed(that.Elapsed()))
	case entity.StatusTied:
		return "It's a tie!"
	default:
		return fmt.Sprintf("%s's turn!", that.CurrentPlayer())
	}
}
