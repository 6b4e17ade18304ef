package tui

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrRateLimited rejects an address that opened sessions too quickly.
	ErrRateLimited = errors.New("too many new sessions from your address, try again shortly")
	// ErrAtCapacity rejects sessions once the server is full.
	ErrAtCapacity = errors.New("server is full, try again later")
)

// AdmissionConfig configures session admission for the SSH server.
type AdmissionConfig struct {
	SessionsPerMinute float64       // New sessions allowed per minute per IP
	Burst             int           // Sessions an idle IP may open at once
	MaxSessions       int           // Concurrent sessions across all IPs, 0 = unlimited
	CleanupInterval   time.Duration // How often to drop stale limiters
}

// DefaultAdmissionConfig suits a small public server.
var DefaultAdmissionConfig = AdmissionConfig{
	SessionsPerMinute: 6,
	Burst:             3,
	MaxSessions:       64,
	CleanupInterval:   5 * time.Minute,
}

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// Admission decides which SSH sessions may start: a token bucket per remote
// IP plus a global cap on concurrent sessions.
type Admission struct {
	limiters sync.Map // map[string]*ipLimiterEntry
	config   AdmissionConfig
	active   atomic.Int64
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewAdmission creates an admission controller and starts its cleanup loop.
func NewAdmission(cfg AdmissionConfig) *Admission {
	if cfg.SessionsPerMinute <= 0 {
		cfg.SessionsPerMinute = DefaultAdmissionConfig.SessionsPerMinute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultAdmissionConfig.Burst
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultAdmissionConfig.CleanupInterval
	}
	a := &Admission{
		config:   cfg,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	go a.cleanupLoop()
	return a
}

// Stop stops the cleanup goroutine.
func (a *Admission) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopChan)
	})
}

func (a *Admission) getLimiter(ip string, now time.Time) *rate.Limiter {
	if v, ok := a.limiters.Load(ip); ok {
		e := v.(*ipLimiterEntry)
		e.lastSeen.Store(now.UnixNano())
		return e.limiter
	}

	entry := &ipLimiterEntry{
		limiter: rate.NewLimiter(rate.Limit(a.config.SessionsPerMinute/60), a.config.Burst),
	}
	entry.lastSeen.Store(now.UnixNano())

	actual, _ := a.limiters.LoadOrStore(ip, entry)
	return actual.(*ipLimiterEntry).limiter
}

func (a *Admission) cleanupLoop() {
	ticker := time.NewTicker(a.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopChan:
			return
		case <-ticker.C:
			a.cleanup(a.now().Add(-a.config.CleanupInterval * 2))
		}
	}
}

// cleanup drops limiters not used since cutoff.
func (a *Admission) cleanup(cutoff time.Time) {
	a.limiters.Range(func(key, value any) bool {
		if value.(*ipLimiterEntry).lastSeen.Load() < cutoff.UnixNano() {
			a.limiters.Delete(key)
		}
		return true
	})
}

// Admit reserves a session slot for ip. Every nil return must be paired
// with one Release.
func (a *Admission) Admit(ip string) error {
	now := a.now()
	if !a.getLimiter(ip, now).AllowN(now, 1) {
		return ErrRateLimited
	}
	if n := a.active.Add(1); a.config.MaxSessions > 0 && n > int64(a.config.MaxSessions) {
		a.active.Add(-1)
		return ErrAtCapacity
	}
	return nil
}

// Release frees a slot taken by Admit.
func (a *Admission) Release() {
	a.active.Add(-1)
}

// Active returns the number of admitted sessions.
func (a *Admission) Active() int {
	return int(a.active.Load())
}

// remoteIP strips the port from a network address.
func remoteIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
