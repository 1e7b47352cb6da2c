package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/config"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/minesweeper"
	"github.com/rocketscienceinc/gridgames-backend/internal/session"
	"github.com/rocketscienceinc/gridgames-backend/internal/tictactoe"
)

var ErrPlayerRequired = errors.New("player is required")

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
}

type gameMetrics interface {
	SessionStarted(kind entity.GameKind)
	GameFinished(kind entity.GameKind, outcome entity.Status)
	ActionHandled(kind entity.GameKind, result string)
	SetActiveSessions(count int)
}

// GameManager starts sessions and routes player actions to them.
type GameManager struct {
	logger *slog.Logger

	registry   *session.Registry
	resultRepo resultRepo
	metrics    gameMetrics

	minesweeper config.Minesweeper
	tictactoe   config.Tictactoe

	newID func() string
	now   func() time.Time
}

func NewGameManager(
	logger *slog.Logger,
	conf *config.Config,
	registry *session.Registry,
	resultRepo resultRepo,
	metrics gameMetrics,
) *GameManager {
	return &GameManager{
		logger: logger,

		registry:   registry,
		resultRepo: resultRepo,
		metrics:    metrics,

		minesweeper: conf.Minesweeper,
		tictactoe:   conf.Tictactoe,

		newID: uuid.NewString,
		now:   time.Now,
	}
}

// StartMinesweeper opens a minesweeper session owned by player. Zero mines selects the configured default.
func (that *GameManager) StartMinesweeper(_ context.Context, player string, mines int) (*Outcome, error) {
	log := that.logger.With("method", "StartMinesweeper", "playerID", player)

	if player == "" {
		return nil, ErrPlayerRequired
	}

	if mines == 0 {
		mines = that.minesweeper.DefaultMines
	}

	if mines < that.minesweeper.MinMines || mines > that.minesweeper.MaxMines {
		return nil, fmt.Errorf("%w: %d, must be in [%d, %d]",
			minesweeper.ErrInvalidMineCount, mines, that.minesweeper.MinMines, that.minesweeper.MaxMines)
	}

	game, err := minesweeper.NewGame(player, mines, minesweeper.WithClock(that.now))
	if err != nil {
		return nil, fmt.Errorf("failed to create minesweeper game: %w", err)
	}

	sessionID := that.newID()
	that.registry.Create(sessionID, session.NewMinesweeper(game, that.now()))
	that.sessionStarted(entity.KindMinesweeper)

	log.Info("minesweeper session started", "sessionID", sessionID, "mines", mines)

	return &Outcome{
		Kind:         OutcomeUpdated,
		GameKind:     entity.KindMinesweeper,
		SessionID:    sessionID,
		Board:        game.Render(sessionID, nil),
		Participants: []string{player},
	}, nil
}

// StartTictactoe opens a tic-tac-toe lobby hosted by player. Zero side selects the configured default.
func (that *GameManager) StartTictactoe(_ context.Context, player string, side int) (*Outcome, error) {
	log := that.logger.With("method", "StartTictactoe", "playerID", player)

	if player == "" {
		return nil, ErrPlayerRequired
	}

	if side == 0 {
		side = that.tictactoe.DefaultSize
	}

	if side < that.tictactoe.MinSize || side > that.tictactoe.MaxSize {
		return nil, fmt.Errorf("%w: %d, must be in [%d, %d]",
			tictactoe.ErrInvalidSize, side, that.tictactoe.MinSize, that.tictactoe.MaxSize)
	}

	game, err := tictactoe.NewGame(player, side, tictactoe.WithClock(that.now))
	if err != nil {
		return nil, fmt.Errorf("failed to create tictactoe game: %w", err)
	}

	sessionID := that.newID()
	that.registry.Create(sessionID, session.NewTictactoe(game, that.now()))
	that.sessionStarted(entity.KindTictactoe)

	log.Info("tictactoe session started", "sessionID", sessionID, "size", side)

	return &Outcome{
		Kind:         OutcomeUpdated,
		GameKind:     entity.KindTictactoe,
		SessionID:    sessionID,
		Board:        game.Render(sessionID, nil),
		Participants: []string{player},
	}, nil
}

// ApplyAction performs the action encoded in controlID on behalf of player. It never fails:
// every problem is folded into the returned Outcome.
func (that *GameManager) ApplyAction(ctx context.Context, controlID, player string) *Outcome {
	log := that.logger.With("method", "ApplyAction", "playerID", player, "controlID", controlID)

	control, err := entity.ParseControl(controlID)
	if err != nil {
		log.Warn("failed to parse control", "error", err)

		outcome := rejection(control, player, err)
		that.metrics.ActionHandled(control.Kind, string(outcome.Kind))

		return outcome
	}

	var (
		outcome *Outcome
		result  *entity.Result
	)

	err = that.registry.Update(control.SessionID, func(current *session.Session) (bool, error) {
		var actionErr error

		switch {
		case current.Kind != control.Kind:
			return false, fmt.Errorf("%w: %s control on %s session", apperror.ErrMalformedAction, control.Kind, current.Kind)
		case current.Kind == entity.KindMinesweeper:
			outcome, actionErr = that.applyMinesweeper(log, control, current.Minesweeper, player)
		default:
			outcome, actionErr = that.applyTictactoe(log, control, current.Tictactoe, player)
		}

		if actionErr != nil {
			return false, actionErr
		}

		if outcome.Kind == OutcomeFinished {
			result = newResult(control.SessionID, current, that.now())
			return true, nil
		}

		return false, nil
	})
	if err != nil {
		log.Debug("action rejected", "error", err)
		outcome = rejection(control, player, err)
	}

	if result != nil {
		that.recordResult(ctx, log, result)
	}

	that.metrics.ActionHandled(control.Kind, string(outcome.Kind))
	that.metrics.SetActiveSessions(that.registry.Len())

	return outcome
}

// ActiveSessions reports how many sessions are live.
func (that *GameManager) ActiveSessions() int {
	return that.registry.Len()
}

func (that *GameManager) applyMinesweeper(
	log *slog.Logger, control entity.Control, game *minesweeper.Game, player string,
) (*Outcome, error) {
	if control.Action != entity.ActionCell {
		return nil, fmt.Errorf("%w: minesweeper has no %s action", apperror.ErrMalformedAction, control.Action)
	}

	reveal, err := game.Reveal(control.Index, player)

	switch {
	case errors.Is(err, apperror.ErrInvariantViolation):
		log.Warn("ignoring action on a disabled cell", "sessionID", control.SessionID, "error", err)
		return unchanged(control, game.Render(control.SessionID, nil), player), nil
	case errors.Is(err, minesweeper.ErrInvalidCell):
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedAction, err)
	case err != nil:
		return nil, err
	}

	outcome := &Outcome{
		Kind:         OutcomeUpdated,
		GameKind:     control.Kind,
		SessionID:    control.SessionID,
		Board:        game.Render(control.SessionID, reveal),
		Participants: []string{game.Owner},
	}

	if reveal.Status.IsTerminal() {
		outcome.Kind = OutcomeFinished
		log.Info("minesweeper game finished", "sessionID", control.SessionID, "status", reveal.Status)
	}

	return outcome, nil
}

func (that *GameManager) applyTictactoe(
	log *slog.Logger, control entity.Control, game *tictactoe.Game, player string,
) (*Outcome, error) {
	var move *tictactoe.Move

	switch control.Action {
	case entity.ActionJoin:
		if err := game.Join(player); err != nil {
			return nil, err
		}

		log.Info("player joined tictactoe game", "sessionID", control.SessionID)
	default:
		var err error

		move, err = game.Play(control.Index, player)

		switch {
		case errors.Is(err, apperror.ErrInvariantViolation):
			log.Warn("ignoring action on a disabled cell", "sessionID", control.SessionID, "error", err)
			return unchanged(control, game.Render(control.SessionID, nil), player), nil
		case errors.Is(err, tictactoe.ErrInvalidCell):
			return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedAction, err)
		case err != nil:
			return nil, err
		}
	}

	outcome := &Outcome{
		Kind:         OutcomeUpdated,
		GameKind:     control.Kind,
		SessionID:    control.SessionID,
		Board:        game.Render(control.SessionID, move),
		Participants: []string{game.Player1, game.Player2},
	}

	if game.Status.IsTerminal() {
		outcome.Kind = OutcomeFinished
		log.Info("tictactoe game finished", "sessionID", control.SessionID, "status", game.Status)
	}

	return outcome, nil
}

// recordResult runs after the registry lock is released. Archive failures never reach the player.
func (that *GameManager) recordResult(ctx context.Context, log *slog.Logger, result *entity.Result) {
	that.metrics.GameFinished(result.Kind, result.Outcome)

	if err := that.resultRepo.Save(ctx, result); err != nil {
		log.Error("failed to save game result", "sessionID", result.SessionID, "error", err)
	}
}

func (that *GameManager) sessionStarted(kind entity.GameKind) {
	that.metrics.SessionStarted(kind)
	that.metrics.SetActiveSessions(that.registry.Len())
}

func newResult(sessionID string, current *session.Session, finishedAt time.Time) *entity.Result {
	result := &entity.Result{
		SessionID:  sessionID,
		Kind:       current.Kind,
		FinishedAt: finishedAt,
	}

	switch current.Kind {
	case entity.KindMinesweeper:
		game := current.Minesweeper
		result.Players = []string{game.Owner}
		result.Outcome = game.Status
		result.Duration = game.Elapsed()
		if game.Status == entity.StatusWon {
			result.Winner = game.Owner
		}
	case entity.KindTictactoe:
		game := current.Tictactoe
		result.Players = []string{game.Player1, game.Player2}
		result.Outcome = game.Status
		result.Duration = game.Elapsed()
		result.Winner = game.Winner
	}

	return result
}
