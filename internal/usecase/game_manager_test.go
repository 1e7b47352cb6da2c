package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridgames-backend/internal/config"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/metrics"
	"github.com/rocketscienceinc/gridgames-backend/internal/minesweeper"
	"github.com/rocketscienceinc/gridgames-backend/internal/session"
	"github.com/rocketscienceinc/gridgames-backend/internal/tictactoe"
	"github.com/rocketscienceinc/gridgames-backend/testing/suite"
)

var errRedisDown = errors.New("redis down")

type mockResultRepo struct {
	mock.Mock
}

func (that *mockResultRepo) Save(ctx context.Context, result *entity.Result) error {
	args := that.Called(ctx, result)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		Minesweeper: config.Minesweeper{DefaultMines: 5, MinMines: 1, MaxMines: 23},
		Tictactoe:   config.Tictactoe{DefaultSize: 3, MinSize: 2, MaxSize: 5},
	}
}

func newTestManager(t *testing.T, repo resultRepo) (*GameManager, *session.Registry) {
	t.Helper()

	logger := suite.NewLogger()
	registry := session.NewRegistry(logger)
	manager := NewGameManager(logger, testConfig(), registry, repo, metrics.New(prometheus.NewRegistry()))

	ids := 0
	manager.newID = func() string {
		ids++
		return fmt.Sprintf("session-%d", ids)
	}

	return manager, registry
}

func cellID(kind entity.GameKind, sessionID string, index int) string {
	return entity.CellControl(kind, sessionID, index).String()
}

// mineLayout returns one bomb and one safe unrevealed cell of a generated minesweeper board.
func mineLayout(t *testing.T, registry *session.Registry, sessionID string) (bomb, safe int) {
	t.Helper()

	bomb, safe = -1, -1
	err := registry.Update(sessionID, func(current *session.Session) (bool, error) {
		for i, cell := range current.Minesweeper.Board {
			switch cell {
			case entity.Bomb:
				bomb = i
			case entity.Safe:
				safe = i
			}
		}
		return false, nil
	})
	require.NoError(t, err)
	require.NotEqual(t, -1, bomb)
	require.NotEqual(t, -1, safe)

	return bomb, safe
}

func TestGameManager_StartMinesweeper(t *testing.T) {
	ctx := context.Background()

	t.Run("Uses the default mine count", func(t *testing.T) {
		// Given: a manager with five default mines
		manager, registry := newTestManager(t, &mockResultRepo{})

		// When: a game is started without a mine count
		outcome, err := manager.StartMinesweeper(ctx, "alice", 0)

		// Then: a hidden 5x5 board is returned and the session is stored
		require.NoError(t, err)
		assert.Equal(t, OutcomeUpdated, outcome.Kind)
		assert.Equal(t, "session-1", outcome.SessionID)
		assert.Equal(t, []string{"alice"}, outcome.Participants)
		assert.Len(t, outcome.Board.Rows, minesweeper.Side)
		assert.Equal(t, minesweeper.Cells, outcome.Board.EnabledCount())
		assert.Contains(t, outcome.Board.Status, "5 mines")
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("Rejects mine counts outside the configured range", func(t *testing.T) {
		manager, registry := newTestManager(t, &mockResultRepo{})

		for _, mines := range []int{-1, 24, 25} {
			outcome, err := manager.StartMinesweeper(ctx, "alice", mines)

			require.ErrorIs(t, err, minesweeper.ErrInvalidMineCount)
			assert.Nil(t, outcome)
		}

		assert.Zero(t, registry.Len())
	})

	t.Run("Requires a player", func(t *testing.T) {
		manager, _ := newTestManager(t, &mockResultRepo{})

		_, err := manager.StartMinesweeper(ctx, "", 3)

		require.ErrorIs(t, err, ErrPlayerRequired)
	})

	t.Run("Generates uuid session ids", func(t *testing.T) {
		logger := suite.NewLogger()
		manager := NewGameManager(logger, testConfig(), session.NewRegistry(logger), &mockResultRepo{},
			metrics.New(prometheus.NewRegistry()))

		outcome, err := manager.StartMinesweeper(ctx, "alice", 3)

		require.NoError(t, err)
		_, err = uuid.Parse(outcome.SessionID)
		assert.NoError(t, err)
	})
}

func TestGameManager_StartTictactoe(t *testing.T) {
	ctx := context.Background()

	t.Run("Opens a lobby with a join control", func(t *testing.T) {
		manager, _ := newTestManager(t, &mockResultRepo{})

		outcome, err := manager.StartTictactoe(ctx, "alice", 0)

		require.NoError(t, err)
		require.Equal(t, 1, outcome.Board.EnabledCount())
		assert.Equal(t, "tictactoe:session-1:join", outcome.Board.Cells()[0].ID)
		assert.Contains(t, outcome.Board.Status, "3x3")
	})

	t.Run("Rejects sizes outside the configured range", func(t *testing.T) {
		manager, _ := newTestManager(t, &mockResultRepo{})

		for _, side := range []int{1, 6} {
			_, err := manager.StartTictactoe(ctx, "alice", side)

			require.ErrorIs(t, err, tictactoe.ErrInvalidSize)
		}
	})
}

func TestGameManager_ApplyAction_Tictactoe(t *testing.T) {
	ctx := context.Background()

	t.Run("Full game from lobby to win", func(t *testing.T) {
		// Given: alice hosts a 3x3 game
		repo := &mockResultRepo{}
		manager, registry := newTestManager(t, repo)

		started, err := manager.StartTictactoe(ctx, "alice", 3)
		require.NoError(t, err)
		sid := started.SessionID
		join := entity.JoinControl(entity.KindTictactoe, sid).String()

		// When: alice tries to join her own game
		outcome := manager.ApplyAction(ctx, join, "alice")

		// Then: she gets a private rejection
		assert.Equal(t, OutcomeRejected, outcome.Kind)
		assert.True(t, outcome.Ephemeral)
		assert.Equal(t, msgSelfJoin, outcome.Message)

		// When: bob joins
		outcome = manager.ApplyAction(ctx, join, "bob")

		// Then: both players see an empty grid
		require.Equal(t, OutcomeUpdated, outcome.Kind)
		assert.Equal(t, []string{"alice", "bob"}, outcome.Participants)
		assert.Equal(t, 9, outcome.Board.EnabledCount())
		assert.Equal(t, "alice's turn!", outcome.Board.Status)

		// And: late joiners, wrong turns and strangers are turned away
		assert.Equal(t, msgAlreadyJoined, manager.ApplyAction(ctx, join, "carol").Message)
		assert.Equal(t, msgNotYourTurn, manager.ApplyAction(ctx, cellID(entity.KindTictactoe, sid, 0), "bob").Message)
		assert.Equal(t, msgNotYourGame, manager.ApplyAction(ctx, cellID(entity.KindTictactoe, sid, 0), "carol").Message)

		repo.On("Save", mock.Anything, mock.MatchedBy(func(result *entity.Result) bool {
			return result.SessionID == sid &&
				result.Kind == entity.KindTictactoe &&
				result.Winner == "alice" &&
				result.Outcome == entity.StatusWon &&
				assert.ObjectsAreEqual([]string{"alice", "bob"}, result.Players)
		})).Return(nil).Once()

		// When: X@0, O@4, X@1, O@5, X@2 are played
		moves := []struct {
			index  int
			player string
		}{{0, "alice"}, {4, "bob"}, {1, "alice"}, {5, "bob"}, {2, "alice"}}

		for _, move := range moves {
			outcome = manager.ApplyAction(ctx, cellID(entity.KindTictactoe, sid, move.index), move.player)
		}

		// Then: alice wins on the top row and the session is gone
		require.Equal(t, OutcomeFinished, outcome.Kind)
		assert.Zero(t, outcome.Board.EnabledCount())
		for _, index := range []int{0, 1, 2} {
			assert.Equal(t, entity.StyleSuccess, outcome.Board.Cells()[index].Style)
		}
		assert.Contains(t, outcome.Board.Status, "alice won")
		assert.Zero(t, registry.Len())
		repo.AssertExpectations(t)

		// And: the finished game can no longer be played
		outcome = manager.ApplyAction(ctx, cellID(entity.KindTictactoe, sid, 3), "bob")
		assert.Equal(t, OutcomeExpired, outcome.Kind)
		assert.Zero(t, outcome.Board.EnabledCount())
	})

	t.Run("Playing before anyone joins is rejected", func(t *testing.T) {
		manager, _ := newTestManager(t, &mockResultRepo{})

		started, err := manager.StartTictactoe(ctx, "alice", 3)
		require.NoError(t, err)

		outcome := manager.ApplyAction(ctx, cellID(entity.KindTictactoe, started.SessionID, 0), "alice")

		assert.Equal(t, OutcomeRejected, outcome.Kind)
		assert.Equal(t, msgNotStarted, outcome.Message)

		outcome = manager.ApplyAction(ctx, cellID(entity.KindTictactoe, started.SessionID, 0), "carol")

		assert.Equal(t, OutcomeRejected, outcome.Kind)
		assert.Equal(t, msgNotYourGame, outcome.Message)
	})

	t.Run("Occupied cell is a no-op", func(t *testing.T) {
		manager, registry := newTestManager(t, &mockResultRepo{})

		started, err := manager.StartTictactoe(ctx, "alice", 3)
		require.NoError(t, err)
		sid := started.SessionID
		manager.ApplyAction(ctx, entity.JoinControl(entity.KindTictactoe, sid).String(), "bob")
		manager.ApplyAction(ctx, cellID(entity.KindTictactoe, sid, 0), "alice")

		// When: bob plays on alice's cell
		outcome := manager.ApplyAction(ctx, cellID(entity.KindTictactoe, sid, 0), "bob")

		// Then: the board is answered unchanged and it is still bob's turn
		assert.Equal(t, OutcomeUpdated, outcome.Kind)
		assert.Empty(t, outcome.Message)
		assert.Equal(t, "bob's turn!", outcome.Board.Status)
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("Archive failure does not affect the player", func(t *testing.T) {
		// Given: a repository that cannot save
		repo := &mockResultRepo{}
		repo.On("Save", mock.Anything, mock.AnythingOfType("*entity.Result")).Return(errRedisDown).Once()
		manager, _ := newTestManager(t, repo)

		started, err := manager.StartTictactoe(ctx, "alice", 2)
		require.NoError(t, err)
		sid := started.SessionID
		manager.ApplyAction(ctx, entity.JoinControl(entity.KindTictactoe, sid).String(), "bob")

		// When: alice completes the left column of a 2x2 board
		manager.ApplyAction(ctx, cellID(entity.KindTictactoe, sid, 0), "alice")
		manager.ApplyAction(ctx, cellID(entity.KindTictactoe, sid, 1), "bob")
		outcome := manager.ApplyAction(ctx, cellID(entity.KindTictactoe, sid, 2), "alice")

		// Then: the game still finishes normally
		assert.Equal(t, OutcomeFinished, outcome.Kind)
		assert.Empty(t, outcome.Message)
		repo.AssertExpectations(t)
	})
}

func TestGameManager_ApplyAction_Minesweeper(t *testing.T) {
	ctx := context.Background()

	t.Run("Loss on a mine", func(t *testing.T) {
		// Given: a board with 23 mines, opened at the center
		repo := &mockResultRepo{}
		manager, registry := newTestManager(t, repo)

		started, err := manager.StartMinesweeper(ctx, "alice", 23)
		require.NoError(t, err)
		sid := started.SessionID

		outcome := manager.ApplyAction(ctx, cellID(entity.KindMinesweeper, sid, 12), "alice")
		require.Equal(t, OutcomeUpdated, outcome.Kind)
		assert.True(t, outcome.Board.Cells()[12].Disabled)
		assert.Equal(t, "1 safe tiles left.", outcome.Board.Status)

		bomb, _ := mineLayout(t, registry, sid)

		// When: someone else clicks a tile
		outcome = manager.ApplyAction(ctx, cellID(entity.KindMinesweeper, sid, bomb), "mallory")

		// Then: it is rejected privately
		assert.Equal(t, OutcomeRejected, outcome.Kind)
		assert.Equal(t, msgNotYourGame, outcome.Message)

		repo.On("Save", mock.Anything, mock.MatchedBy(func(result *entity.Result) bool {
			return result.SessionID == sid && result.Outcome == entity.StatusLost && result.Winner == ""
		})).Return(nil).Once()

		// When: alice clicks the mine
		outcome = manager.ApplyAction(ctx, cellID(entity.KindMinesweeper, sid, bomb), "alice")

		// Then: the game is lost and archived
		require.Equal(t, OutcomeFinished, outcome.Kind)
		assert.Equal(t, entity.StyleDanger, outcome.Board.Cells()[bomb].Style)
		assert.Zero(t, outcome.Board.EnabledCount())
		assert.Zero(t, registry.Len())
		repo.AssertExpectations(t)
	})

	t.Run("Win after clearing every safe tile", func(t *testing.T) {
		repo := &mockResultRepo{}
		manager, registry := newTestManager(t, repo)

		started, err := manager.StartMinesweeper(ctx, "alice", 23)
		require.NoError(t, err)
		sid := started.SessionID
		manager.ApplyAction(ctx, cellID(entity.KindMinesweeper, sid, 12), "alice")
		_, safe := mineLayout(t, registry, sid)

		repo.On("Save", mock.Anything, mock.MatchedBy(func(result *entity.Result) bool {
			return result.Outcome == entity.StatusWon && result.Winner == "alice"
		})).Return(nil).Once()

		outcome := manager.ApplyAction(ctx, cellID(entity.KindMinesweeper, sid, safe), "alice")

		require.Equal(t, OutcomeFinished, outcome.Kind)
		assert.Equal(t, entity.StyleSuccess, outcome.Board.Cells()[safe].Style)
		assert.Contains(t, outcome.Board.Status, "You cleared the board")
		repo.AssertExpectations(t)
	})

	t.Run("Revealed cell is a no-op", func(t *testing.T) {
		manager, registry := newTestManager(t, &mockResultRepo{})

		started, err := manager.StartMinesweeper(ctx, "alice", 23)
		require.NoError(t, err)
		sid := started.SessionID
		manager.ApplyAction(ctx, cellID(entity.KindMinesweeper, sid, 12), "alice")

		outcome := manager.ApplyAction(ctx, cellID(entity.KindMinesweeper, sid, 12), "alice")

		assert.Equal(t, OutcomeUpdated, outcome.Kind)
		assert.Equal(t, "1 safe tiles left.", outcome.Board.Status)
		assert.Equal(t, 1, registry.Len())
	})
}

func TestGameManager_ApplyAction_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown session is expired", func(t *testing.T) {
		manager, _ := newTestManager(t, &mockResultRepo{})

		outcome := manager.ApplyAction(ctx, cellID(entity.KindMinesweeper, "gone", 3), "alice")

		assert.Equal(t, OutcomeExpired, outcome.Kind)
		assert.Equal(t, msgSessionExpired, outcome.Message)
		assert.Equal(t, msgSessionExpired, outcome.Board.Status)
		assert.Zero(t, outcome.Board.EnabledCount())
	})

	t.Run("Malformed controls", func(t *testing.T) {
		manager, registry := newTestManager(t, &mockResultRepo{})

		started, err := manager.StartMinesweeper(ctx, "alice", 3)
		require.NoError(t, err)
		sid := started.SessionID

		for _, controlID := range []string{
			"garbage",
			"chess:" + sid + ":cell:1",
			entity.JoinControl(entity.KindMinesweeper, sid).String(),
			cellID(entity.KindTictactoe, sid, 1),
			cellID(entity.KindMinesweeper, sid, 30),
		} {
			outcome := manager.ApplyAction(ctx, controlID, "alice")

			assert.Equal(t, OutcomeMalformed, outcome.Kind, controlID)
			assert.Equal(t, msgMalformed, outcome.Message, controlID)
		}

		assert.Equal(t, 1, registry.Len())
	})
}
