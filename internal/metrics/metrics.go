// Package metrics exposes the Prometheus collectors of the game server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const namespace = "gridgames"

type Metrics struct {
	sessionsStarted *prometheus.CounterVec
	sessionsEvicted *prometheus.CounterVec
	gamesFinished   *prometheus.CounterVec
	actions         *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		sessionsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Game sessions started, by game kind.",
		}, []string{"kind"}),
		sessionsEvicted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Idle sessions removed by the expiry sweeper, by game kind.",
		}, []string{"kind"}),
		gamesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that reached a terminal state, by game kind and outcome.",
		}, []string{"kind", "outcome"}),
		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Player actions handled, by game kind and outcome kind.",
		}, []string{"kind", "result"}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions currently held in the registry.",
		}),
	}
}

func (that *Metrics) SessionStarted(kind entity.GameKind) {
	that.sessionsStarted.WithLabelValues(string(kind)).Inc()
}

func (that *Metrics) SessionEvicted(kind entity.GameKind) {
	that.sessionsEvicted.WithLabelValues(string(kind)).Inc()
}

func (that *Metrics) GameFinished(kind entity.GameKind, outcome entity.Status) {
	that.gamesFinished.WithLabelValues(string(kind), string(outcome)).Inc()
}

func (that *Metrics) ActionHandled(kind entity.GameKind, result string) {
	that.actions.WithLabelValues(string(kind), result).Inc()
}

func (that *Metrics) SetActiveSessions(count int) {
	that.activeSessions.Set(float64(count))
}
