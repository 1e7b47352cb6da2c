package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	SessionsHandler(w http.ResponseWriter, _ *http.Request)
	StatsHandler(w http.ResponseWriter, r *http.Request)
	ResultHandler(w http.ResponseWriter, r *http.Request)
}

type resultRepo interface {
	GetByID(ctx context.Context, sessionID string) (*entity.Result, error)
	GetStats(ctx context.Context, playerID string) (*entity.PlayerStats, error)
}

type sessionCounter interface {
	ActiveSessions() int
}

type handlers struct {
	logger *slog.Logger

	results  resultRepo
	sessions sessionCounter
}

func NewHandlers(logger *slog.Logger, results resultRepo, sessions sessionCounter) Handlers {
	return &handlers{
		logger:   logger,
		results:  results,
		sessions: sessions,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) SessionsHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, map[string]int{"active": that.sessions.ActiveSessions()})
}

func (that *handlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "StatsHandler")

	playerID := chi.URLParam(r, "playerID")

	stats, err := that.results.GetStats(r.Context(), playerID)
	if err != nil {
		log.Error("failed to get player stats", "playerID", playerID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *handlers) ResultHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ResultHandler")

	sessionID := chi.URLParam(r, "sessionID")

	result, err := that.results.GetByID(r.Context(), sessionID)
	if errors.Is(err, apperror.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get game result", "sessionID", sessionID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, http.StatusOK, result)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
