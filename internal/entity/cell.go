package entity

// MineCell is the state of a single minesweeper tile.
type MineCell uint8

const (
	Safe MineCell = iota
	Checked
	Bomb
)

func (that MineCell) String() string {
	switch that {
	case Safe:
		return "safe"
	case Checked:
		return "checked"
	case Bomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// Mark is a tic-tac-toe cell; the zero value is an empty cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

func (that Mark) Toggle() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) Symbol() string {
	switch that {
	case PlayerX:
		return "❌"
	case PlayerO:
		return "⭕"
	default:
		return " "
	}
}
