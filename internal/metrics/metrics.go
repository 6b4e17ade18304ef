// Package metrics exposes starfall server counters over Prometheus.
// Label values are bounded; nothing is labelled per player or per IP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vovakirdan/starfall/internal/shooter"
)

// Rejection reasons for RecordRejected.
const (
	ReasonRateLimit = "rate_limit"
	ReasonCapacity  = "capacity"
	ReasonNoPTY     = "no_pty"
)

// Collectors holds every metric of a serve process.
// A nil *Collectors is valid and records nothing.
type Collectors struct {
	sessionsActive prometheus.Gauge
	sessionsTotal  prometheus.Counter
	rejected       *prometheus.CounterVec
	stepDuration   prometheus.Histogram
	frames         prometheus.Counter
	waves          prometheus.Counter
	enemiesKilled  prometheus.Counter
	bossesDefeated prometheus.Counter
	powerUps       prometheus.Counter
	livesLost      prometheus.Counter
	gamesOver      prometheus.Counter
	finalScore     prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Collectors {
	f := promauto.With(reg)
	return &Collectors{
		sessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "starfall_sessions_active",
			Help: "Currently connected SSH sessions",
		}),
		sessionsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "starfall_sessions_total",
			Help: "SSH sessions accepted",
		}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "starfall_sessions_rejected_total",
			Help: "SSH sessions refused",
		}, []string{"reason"}), // Bounded: rate_limit, capacity, no_pty
		stepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "starfall_step_duration_seconds",
			Help:    "Time spent in one simulation step",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		frames: f.NewCounter(prometheus.CounterOpts{
			Name: "starfall_frames_total",
			Help: "Simulation frames stepped",
		}),
		waves: f.NewCounter(prometheus.CounterOpts{
			Name: "starfall_waves_spawned_total",
			Help: "Enemy waves spawned",
		}),
		enemiesKilled: f.NewCounter(prometheus.CounterOpts{
			Name: "starfall_enemies_killed_total",
			Help: "Enemies destroyed by player fire",
		}),
		bossesDefeated: f.NewCounter(prometheus.CounterOpts{
			Name: "starfall_bosses_defeated_total",
			Help: "Bosses defeated",
		}),
		powerUps: f.NewCounter(prometheus.CounterOpts{
			Name: "starfall_powerups_collected_total",
			Help: "Power-ups picked up",
		}),
		livesLost: f.NewCounter(prometheus.CounterOpts{
			Name: "starfall_lives_lost_total",
			Help: "Player lives lost",
		}),
		gamesOver: f.NewCounter(prometheus.CounterOpts{
			Name: "starfall_games_over_total",
			Help: "Sessions that reached game over",
		}),
		finalScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "starfall_final_score",
			Help:    "Score at game over",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10),
		}),
	}
}

// RecordFrame folds one frame's events into the counters.
func (c *Collectors) RecordFrame(ev shooter.FrameEvents, score int) {
	if c == nil {
		return
	}
	c.frames.Inc()
	c.waves.Add(float64(ev.WavesSpawned))
	c.enemiesKilled.Add(float64(ev.EnemiesKilled))
	c.bossesDefeated.Add(float64(ev.BossesDefeated))
	c.powerUps.Add(float64(ev.PowerUpsCollected))
	c.livesLost.Add(float64(ev.LivesLost))
	if ev.GameOver {
		c.gamesOver.Inc()
		c.finalScore.Observe(float64(score))
	}
}

// ObserveStep records the wall time of one Step call.
func (c *Collectors) ObserveStep(d time.Duration) {
	if c == nil {
		return
	}
	c.stepDuration.Observe(d.Seconds())
}

// SessionStarted marks an accepted SSH session.
func (c *Collectors) SessionStarted() {
	if c == nil {
		return
	}
	c.sessionsTotal.Inc()
	c.sessionsActive.Inc()
}

// SessionEnded marks a closed SSH session.
func (c *Collectors) SessionEnded() {
	if c == nil {
		return
	}
	c.sessionsActive.Dec()
}

// RecordRejected counts a refused session. reason should be one of the
// Reason constants.
func (c *Collectors) RecordRejected(reason string) {
	if c == nil {
		return
	}
	c.rejected.WithLabelValues(reason).Inc()
}

var _ shooter.EventSink = (*Collectors)(nil)
