package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vovakirdan/starfall/internal/shooter"
	"github.com/vovakirdan/starfall/internal/storage"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rec.Code)
	}
	return rec.Body.String()
}

func TestCollectorsRecordFrames(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.RecordFrame(shooter.FrameEvents{EnemiesKilled: 2, WavesSpawned: 1}, 100)
	c.RecordFrame(shooter.FrameEvents{EnemiesKilled: 1, BossesDefeated: 1, LivesLost: 1, GameOver: true}, 1250)
	c.SessionStarted()
	c.SessionStarted()
	c.SessionEnded()
	c.RecordRejected(ReasonRateLimit)
	c.ObserveStep(200 * time.Microsecond)

	body := scrape(t, NewRouter(RouterConfig{Gatherer: reg}))
	for _, want := range []string{
		"starfall_frames_total 2",
		"starfall_enemies_killed_total 3",
		"starfall_bosses_defeated_total 1",
		"starfall_waves_spawned_total 1",
		"starfall_lives_lost_total 1",
		"starfall_games_over_total 1",
		"starfall_final_score_sum 1250",
		"starfall_sessions_active 1",
		"starfall_sessions_total 2",
		`starfall_sessions_rejected_total{reason="rate_limit"} 1`,
		"starfall_step_duration_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestNilCollectors(t *testing.T) {
	var c *Collectors
	c.RecordFrame(shooter.FrameEvents{GameOver: true}, 10)
	c.SessionStarted()
	c.SessionEnded()
	c.RecordRejected(ReasonCapacity)
	c.ObserveStep(time.Millisecond)
}

func TestHealthz(t *testing.T) {
	r := NewRouter(RouterConfig{Gatherer: prometheus.NewRegistry()})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

type fakeScores struct {
	entries []storage.ScoreEntry
	err     error
	limit   int
}

func (f *fakeScores) TopScores(_ string, limit int) ([]storage.ScoreEntry, error) {
	f.limit = limit
	return f.entries, f.err
}

func TestScoresEndpoint(t *testing.T) {
	src := &fakeScores{entries: []storage.ScoreEntry{
		{Player: "alice", Score: 900, Wave: 6},
		{Player: "local", Score: 300, Wave: 3},
	}}
	r := NewRouter(RouterConfig{Gatherer: prometheus.NewRegistry(), Scores: src, GameID: "starfall"})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scores?limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/scores = %d", rec.Code)
	}
	var got []scoreJSON
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Player != "alice" || got[0].Wave != 6 {
		t.Errorf("unexpected scores %+v", got)
	}
	if src.limit != 5 {
		t.Errorf("limit = %d, want 5", src.limit)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scores?limit=nope", nil))
	if src.limit != 10 {
		t.Errorf("limit = %d, want default 10", src.limit)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scores?limit=500", nil))
	if src.limit != 100 {
		t.Errorf("limit = %d, want clamped 100", src.limit)
	}

	src.err = errors.New("db locked")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("GET /api/scores with failing store = %d", rec.Code)
	}
}

func TestScoresEndpointAbsentWithoutSource(t *testing.T) {
	r := NewRouter(RouterConfig{Gatherer: prometheus.NewRegistry()})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /api/scores = %d, want 404", rec.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), log.New(io.Discard))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
