package minesweeper

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/board"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const (
	Side  = 5
	Cells = Side * Side
)

var (
	ErrInvalidMineCount = errors.New("invalid mine count")
	ErrInvalidCell      = errors.New("invalid cell index")
)

type Option func(*Game)

// WithRand sets the generator used to lay out the mines.
func WithRand(rng *rand.Rand) Option {
	return func(game *Game) {
		game.rng = rng
	}
}

func WithClock(now func() time.Time) Option {
	return func(game *Game) {
		game.now = now
	}
}

// Game is a single minesweeper session. The board stays nil until the first reveal so that
// the mines can be laid out around the selected cell.
type Game struct {
	Owner      string
	Mines      int
	StartedAt  time.Time
	FinishedAt time.Time
	Board      []entity.MineCell
	Status     entity.Status

	rng *rand.Rand
	now func() time.Time
}

// Reveal describes what a single reveal did to the board.
type Reveal struct {
	Index     int
	Revealed  []int
	Status    entity.Status
	Remaining int
	Elapsed   time.Duration
}

func NewGame(owner string, mines int, opts ...Option) (*Game, error) {
	if mines < 0 || mines >= Cells {
		return nil, fmt.Errorf("%w: %d, must be in [0, %d)", ErrInvalidMineCount, mines, Cells)
	}

	game := &Game{
		Owner:  owner,
		Mines:  mines,
		Status: entity.StatusWaiting,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint: gosec // game board, not crypto
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(game)
	}

	return game, nil
}

// Reveal opens the cell at index on behalf of player.
func (that *Game) Reveal(index int, player string) (*Reveal, error) {
	if player != that.Owner {
		return nil, apperror.ErrNotYourGame
	}

	if that.Status.IsTerminal() {
		return nil, apperror.ErrGameFinished
	}

	if index < 0 || index >= Cells {
		return nil, fmt.Errorf("%w: cell %d", ErrInvalidCell, index)
	}

	if that.Board == nil {
		that.generate(index)
	}

	switch that.Board[index] {
	case entity.Checked:
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrCellRevealed, index)
	case entity.Bomb:
		that.finish(entity.StatusLost)
		return that.reveal(index, nil), nil
	}

	var revealed []int
	for _, cell := range floodFill(that.Board, index) {
		if that.Board[cell] == entity.Safe {
			that.Board[cell] = entity.Checked
			revealed = append(revealed, cell)
		}
	}

	if that.SafeRemaining() == 0 {
		that.finish(entity.StatusWon)
	}

	return that.reveal(index, revealed), nil
}

// SafeRemaining counts the cells that are neither bombs nor revealed yet.
func (that *Game) SafeRemaining() int {
	if that.Board == nil {
		return Cells - that.Mines
	}

	remaining := 0
	for _, cell := range that.Board {
		if cell == entity.Safe {
			remaining++
		}
	}

	return remaining
}

func (that *Game) Elapsed() time.Duration {
	if that.StartedAt.IsZero() {
		return 0
	}

	if !that.FinishedAt.IsZero() {
		return that.FinishedAt.Sub(that.StartedAt)
	}

	return that.now().Sub(that.StartedAt)
}

func (that *Game) finish(status entity.Status) {
	that.Status = status
	that.FinishedAt = that.now()
}

func (that *Game) reveal(index int, revealed []int) *Reveal {
	return &Reveal{
		Index:     index,
		Revealed:  revealed,
		Status:    that.Status,
		Remaining: that.SafeRemaining(),
		Elapsed:   that.Elapsed(),
	}
}

// generate lays out the mines uniformly over every cell except first.
func (that *Game) generate(first int) {
	pool := make([]int, 0, Cells-1)
	for i := 0; i < Cells; i++ {
		if i != first {
			pool = append(pool, i)
		}
	}

	that.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	that.Board = make([]entity.MineCell, Cells)
	for _, cell := range pool[:that.Mines] {
		that.Board[cell] = entity.Bomb
	}

	that.StartedAt = that.now()
	that.Status = entity.StatusOngoing
}

// floodFill returns the cells uncovered by selecting start: start itself plus, transitively,
// every safe neighbor of a zero-count cell.
func floodFill(cells []entity.MineCell, start int) []int {
	return expand(cells, []int{start})
}

// expand grows seeds to the fixed point of the flood fill rule using a worklist.
func expand(cells []entity.MineCell, seeds []int) []int {
	side := board.Side(len(cells))
	visited := make(map[int]struct{}, len(cells))
	queue := make([]int, 0, len(cells))

	for _, seed := range seeds {
		if _, seen := visited[seed]; !seen {
			visited[seed] = struct{}{}
			queue = append(queue, seed)
		}
	}

	for i := 0; i < len(queue); i++ {
		current := queue[i]
		if board.CountAdjacentBombs(cells, current) != 0 {
			continue
		}

		for _, neighbor := range board.AdjacentIndices(current, side) {
			if cells[neighbor] != entity.Safe {
				continue
			}

			if _, seen := visited[neighbor]; seen {
				continue
			}

			visited[neighbor] = struct{}{}
			queue = append(queue, neighbor)
		}
	}

	slices.Sort(queue)

	return queue
}
