package entity

// PlayerStats holds per-player outcome counters keyed by "kind:outcome", e.g. "tictactoe:won".
type PlayerStats struct {
	PlayerID string           `json:"player_id"`
	Counters map[string]int64 `json:"counters"`
}

func StatsField(kind GameKind, outcome Status) string {
	return string(kind) + ":" + string(outcome)
}
