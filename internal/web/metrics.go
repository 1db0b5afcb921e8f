package web

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomz197/starstrike/internal/loop/server"
)

// Metrics with bounded cardinality (no per-session labels).
type Metrics struct {
	registry *prometheus.Registry

	tickDuration prometheus.Histogram
	sessions     prometheus.Gauge
	enemies      prometheus.Gauge
	projectiles  prometheus.Gauge
	explosions   prometheus.Gauge
	kills        prometheus.Counter
	dodged       prometheus.Counter
	livesLost    prometheus.Counter
	gamesOver    prometheus.Counter
	wsMessages   *prometheus.CounterVec
	rejected     *prometheus.CounterVec
}

// NewMetrics registers the game collectors on a private registry so that
// several routers can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		tickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "starstrike_tick_duration_seconds",
			Help:    "Time spent in one game tick",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.0167},
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "starstrike_sessions_active",
			Help: "Currently running game sessions",
		}),
		enemies: f.NewGauge(prometheus.GaugeOpts{
			Name: "starstrike_enemies",
			Help: "Live enemies across all sessions",
		}),
		projectiles: f.NewGauge(prometheus.GaugeOpts{
			Name: "starstrike_projectiles",
			Help: "Live projectiles across all sessions",
		}),
		explosions: f.NewGauge(prometheus.GaugeOpts{
			Name: "starstrike_explosions",
			Help: "Running explosion groups across all sessions",
		}),
		kills: f.NewCounter(prometheus.CounterOpts{
			Name: "starstrike_enemies_destroyed_total",
			Help: "Enemies destroyed by player shots",
		}),
		dodged: f.NewCounter(prometheus.CounterOpts{
			Name: "starstrike_enemies_dodged_total",
			Help: "Enemies that flew past the player",
		}),
		livesLost: f.NewCounter(prometheus.CounterOpts{
			Name: "starstrike_lives_lost_total",
			Help: "Lives lost by players",
		}),
		gamesOver: f.NewCounter(prometheus.CounterOpts{
			Name: "starstrike_games_over_total",
			Help: "Games that reached the game-over phase",
		}),
		wsMessages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "starstrike_websocket_messages_total",
			Help: "WebSocket messages by direction",
		}, []string{"direction"}), // Bounded: "in", "out"
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "starstrike_rejected_total",
			Help: "Connections or messages rejected",
		}, []string{"reason"}), // Bounded: "rate_limit", "session_limit", "bad_message"
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// sessionObserver turns the cumulative per-world counters of one session
// into increments on the shared collectors.
type sessionObserver struct {
	m    *Metrics
	mu   sync.Mutex
	last server.TickStats
}

var _ server.TickObserver = (*sessionObserver)(nil)

func (m *Metrics) newSessionObserver() *sessionObserver {
	m.sessions.Inc()
	return &sessionObserver{m: m}
}

func (o *sessionObserver) ObserveTick(ts server.TickStats) {
	o.mu.Lock()
	defer o.mu.Unlock()

	m := o.m
	m.tickDuration.Observe(ts.Elapsed.Seconds())
	m.enemies.Add(float64(ts.Enemies - o.last.Enemies))
	m.projectiles.Add(float64(ts.Projectiles - o.last.Projectiles))
	m.explosions.Add(float64(ts.Explosions - o.last.Explosions))
	m.kills.Add(float64(delta(ts.Stats.Kills, o.last.Stats.Kills)))
	m.dodged.Add(float64(delta(ts.Stats.Dodged, o.last.Stats.Dodged)))
	m.livesLost.Add(float64(delta(ts.Stats.LivesLost, o.last.Stats.LivesLost)))
	m.gamesOver.Add(float64(delta(ts.Stats.GamesOver, o.last.Stats.GamesOver)))
	o.last = ts
}

// close removes the session's share of the gauges.
func (o *sessionObserver) close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	m := o.m
	m.sessions.Dec()
	m.enemies.Sub(float64(o.last.Enemies))
	m.projectiles.Sub(float64(o.last.Projectiles))
	m.explosions.Sub(float64(o.last.Explosions))
	o.last = server.TickStats{}
}

func delta(now, prev uint64) uint64 {
	if now < prev {
		return 0
	}
	return now - prev
}
