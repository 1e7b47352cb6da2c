package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/metrics"
	"github.com/rocketscienceinc/gridgames-backend/testing/suite"
)

var errRedisDown = errors.New("redis down")

type mockResultRepo struct {
	mock.Mock
}

func (that *mockResultRepo) GetByID(ctx context.Context, sessionID string) (*entity.Result, error) {
	args := that.Called(ctx, sessionID)

	result, _ := args.Get(0).(*entity.Result)

	return result, args.Error(1)
}

func (that *mockResultRepo) GetStats(ctx context.Context, playerID string) (*entity.PlayerStats, error) {
	args := that.Called(ctx, playerID)

	stats, _ := args.Get(0).(*entity.PlayerStats)

	return stats, args.Error(1)
}

type fixedSessions int

func (that fixedSessions) ActiveSessions() int {
	return int(that)
}

func newTestRouter(t *testing.T, stats resultRepo) http.Handler {
	t.Helper()

	registry := prometheus.NewRegistry()
	metrics.New(registry).SessionStarted(entity.KindMinesweeper)

	logger := suite.NewLogger()

	return NewRouter(logger, NewHandlers(logger, stats, fixedSessions(2)), registry)
}

func serve(router http.Handler, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	return recorder
}

func TestRouter(t *testing.T) {
	t.Run("Ping", func(t *testing.T) {
		recorder := serve(newTestRouter(t, &mockResultRepo{}), "/ping")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "pong", recorder.Body.String())
	})

	t.Run("Sessions", func(t *testing.T) {
		recorder := serve(newTestRouter(t, &mockResultRepo{}), "/sessions")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"active": 2}`, recorder.Body.String())
	})

	t.Run("Stats", func(t *testing.T) {
		// Given: alice has won one game
		repo := &mockResultRepo{}
		repo.On("GetStats", mock.Anything, "alice").Return(&entity.PlayerStats{
			PlayerID: "alice",
			Counters: map[string]int64{"tictactoe:won": 1},
		}, nil).Once()

		// When: her stats are requested
		recorder := serve(newTestRouter(t, repo), "/stats/alice")

		// Then: the counters are returned as JSON
		require.Equal(t, http.StatusOK, recorder.Code)

		var stats entity.PlayerStats
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stats))
		assert.Equal(t, int64(1), stats.Counters["tictactoe:won"])
		repo.AssertExpectations(t)
	})

	t.Run("Stats storage failure", func(t *testing.T) {
		repo := &mockResultRepo{}
		repo.On("GetStats", mock.Anything, "bob").Return(nil, errRedisDown).Once()

		recorder := serve(newTestRouter(t, repo), "/stats/bob")

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})

	t.Run("Result", func(t *testing.T) {
		// Given: an archived tic-tac-toe win
		repo := &mockResultRepo{}
		repo.On("GetByID", mock.Anything, "s1").Return(&entity.Result{
			SessionID: "s1",
			Kind:      entity.KindTictactoe,
			Players:   []string{"alice", "bob"},
			Winner:    "alice",
			Outcome:   entity.StatusWon,
		}, nil).Once()

		// When: the result is requested
		recorder := serve(newTestRouter(t, repo), "/results/s1")

		// Then: it is returned as JSON
		require.Equal(t, http.StatusOK, recorder.Code)

		var result entity.Result
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
		assert.Equal(t, "alice", result.Winner)
		assert.Equal(t, entity.StatusWon, result.Outcome)
		repo.AssertExpectations(t)
	})

	t.Run("Unknown result", func(t *testing.T) {
		repo := &mockResultRepo{}
		repo.On("GetByID", mock.Anything, "gone").
			Return(nil, fmt.Errorf("result %w", apperror.ErrNotFound)).Once()

		recorder := serve(newTestRouter(t, repo), "/results/gone")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("Metrics", func(t *testing.T) {
		recorder := serve(newTestRouter(t, &mockResultRepo{}), "/metrics")

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `gridgames_sessions_started_total{kind="minesweeper"} 1`)
	})
}
