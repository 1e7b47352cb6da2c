// Package board holds the grid primitives shared by the games: Moore neighborhoods,
// bomb counts and the lines a tic-tac-toe move can complete.
package board

import (
	"math"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

// Line is an ordered run of cell indices across the board.
type Line []int

// AdjacentIndices returns the Moore neighborhood of index on a side×side grid, clipped at the edges.
func AdjacentIndices(index, side int) []int {
	row, col := index/side, index%side
	neighbors := make([]int, 0, 8)

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}

			y, x := row+dy, col+dx
			if x >= 0 && x < side && y >= 0 && y < side {
				neighbors = append(neighbors, y*side+x)
			}
		}
	}

	return neighbors
}

// CountAdjacentBombs counts the bombs around index on a square board.
func CountAdjacentBombs(cells []entity.MineCell, index int) int {
	count := 0
	for _, neighbor := range AdjacentIndices(index, Side(len(cells))) {
		if cells[neighbor] == entity.Bomb {
			count++
		}
	}

	return count
}

// Side returns the side length of a square board with the given number of cells.
func Side(cells int) int {
	return int(math.Sqrt(float64(cells)))
}

// LinesThrough returns the lines passing through index: its row, its column and,
// when index lies on them, the main and the anti diagonal. The order is fixed.
func LinesThrough(index, side int) []Line {
	row, col := index/side, index%side

	lines := []Line{
		line(row*side, 1, side),
		line(col, side, side),
	}

	if row == col {
		lines = append(lines, line(0, side+1, side))
	}

	if col == side-1-row {
		lines = append(lines, line(side-1, side-1, side))
	}

	return lines
}

// WinLines returns every candidate line of a side×side board: rows, columns, then both diagonals.
func WinLines(side int) []Line {
	lines := make([]Line, 0, 2*side+2)

	for row := 0; row < side; row++ {
		lines = append(lines, line(row*side, 1, side))
	}

	for col := 0; col < side; col++ {
		lines = append(lines, line(col, side, side))
	}

	return append(lines, line(0, side+1, side), line(side-1, side-1, side))
}

func line(start, step, side int) Line {
	indices := make(Line, side)
	for i := range indices {
		indices[i] = start + i*step
	}

	return indices
}
