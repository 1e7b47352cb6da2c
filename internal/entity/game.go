package entity

import (
	"fmt"
	"time"
)

type GameKind string

const (
	KindMinesweeper GameKind = "minesweeper"
	KindTictactoe   GameKind = "tictactoe"
)

func (that GameKind) Valid() bool {
	return that == KindMinesweeper || that == KindTictactoe
}

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusOngoing Status = "ongoing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
	StatusTied    Status = "tied"
)

// IsTerminal reports whether no further actions apply to a game in this status.
func (that Status) IsTerminal() bool {
	switch that {
	case StatusWon, StatusLost, StatusTied:
		return true
	default:
		return false
	}
}

// FormatElapsed renders a play duration the way status lines show it.
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
