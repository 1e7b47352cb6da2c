package entity

import "time"

// Result is the archived summary of a game that reached a terminal state.
type Result struct {
	SessionID  string        `json:"session_id"`
	Kind       GameKind      `json:"kind"`
	Players    []string      `json:"players"`
	Winner     string        `json:"winner,omitempty"`
	Outcome    Status        `json:"outcome"`
	Duration   time.Duration `json:"duration"`
	FinishedAt time.Time     `json:"finished_at"`
}

// OutcomeFor returns the outcome from the point of view of one participant.
func (that *Result) OutcomeFor(playerID string) Status {
	switch that.Outcome {
	case StatusTied:
		return StatusTied
	case StatusLost:
		return StatusLost
	}

	if that.Winner == "" || that.Winner == playerID {
		return StatusWon
	}

	return StatusLost
}
