package entity

type Style string

const (
	StyleNeutral     Style = "neutral"
	StyleDanger      Style = "danger"
	StyleSuccess     Style = "success"
	StyleHighlighted Style = "highlighted"
)

// Cell describes one rendered control of a board.
type Cell struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Style    Style  `json:"style"`
	Disabled bool   `json:"disabled"`
}

// Board is a presentation-agnostic render: ordered rows of cells plus an optional status line.
type Board struct {
	Rows   [][]Cell `json:"rows"`
	Status string   `json:"status,omitempty"`
}

// EnabledCount returns how many cells still accept input.
func (that *Board) EnabledCount() int {
	if that == nil {
		return 0
	}

	count := 0
	for _, row := range that.Rows {
		for _, cell := range row {
			if !cell.Disabled {
				count++
			}
		}
	}

	return count
}

// Cells flattens the board in row-major order.
func (that *Board) Cells() []Cell {
	if that == nil {
		return nil
	}

	var cells []Cell
	for _, row := range that.Rows {
		cells = append(cells, row...)
	}

	return cells
}
