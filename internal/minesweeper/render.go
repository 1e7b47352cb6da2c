package minesweeper

import (
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/gridgames-backend/internal/board"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const (
	hiddenLabel   = " "
	bombLabel     = "💣"
	explodedLabel = "💥"
)

// Render draws the board for sessionID. last is the reveal that produced the current state, if any.
func (that *Game) Render(sessionID string, last *Reveal) entity.Board {
	ended := that.Status.IsTerminal()
	rows := make([][]entity.Cell, Side)

	for y := 0; y < Side; y++ {
		rows[y] = make([]entity.Cell, Side)
		for x := 0; x < Side; x++ {
			index := y*Side + x
			rows[y][x] = that.renderCell(sessionID, index, ended, last)
		}
	}

	return entity.Board{
		Rows:   rows,
		Status: that.statusText(),
	}
}

func (that *Game) renderCell(sessionID string, index int, ended bool, last *Reveal) entity.Cell {
	cell := entity.Cell{
		ID:       entity.CellControl(entity.KindMinesweeper, sessionID, index).String(),
		Label:    hiddenLabel,
		Style:    entity.StyleNeutral,
		Disabled: ended,
	}

	selected := last != nil && last.Index == index

	if that.Board == nil {
		return cell
	}

	switch that.Board[index] {
	case entity.Checked:
		cell.Label = strconv.Itoa(board.CountAdjacentBombs(that.Board, index))
		cell.Disabled = true
	case entity.Bomb:
		if !ended {
			break
		}

		cell.Label = bombLabel
		if selected && that.Status == entity.StatusLost {
			cell.Label = explodedLabel
			cell.Style = entity.StyleDanger
			return cell
		}
	}

	if selected {
		cell.Style = entity.StyleHighlighted
		if that.Status == entity.StatusWon {
			cell.Style = entity.StyleSuccess
		}
	}

	return cell
}

func (that *Game) statusText() string {
	switch that.Status {
	case entity.StatusWaiting:
		return fmt.Sprintf("Sweep mines! %d mines are hidden, pick any tile to start.", that.Mines)
	case entity.StatusWon:
		return fmt.Sprintf("You cleared the board in %s!", entity.FormatElapsed(that.Elapsed()))
	case entity.StatusLost:
		return fmt.Sprintf("Boom! You hit a mine with %d safe tiles left after %s.",
			that.SafeRemaining(), entity.FormatElapsed(that.Elapsed()))
	default:
		return fmt.Sprintf("%d safe tiles left.", that.SafeRemaining())
	}
}
