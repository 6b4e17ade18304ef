package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/starfall/internal/storage"
)

const maxScoresLimit = 100

// ScoreSource lists the best runs of a game.
type ScoreSource interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
}

// RouterConfig holds the dependencies of the HTTP side of serve.
type RouterConfig struct {
	Gatherer prometheus.Gatherer
	Scores   ScoreSource // Optional; /api/scores is absent without it
	GameID   string
}

type scoreJSON struct {
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	Wave      int       `json:"wave"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRouter constructs the metrics, health and scores endpoints.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck // client went away
	})

	if cfg.Scores != nil {
		r.Get("/api/scores", func(w http.ResponseWriter, req *http.Request) {
			limit, err := strconv.Atoi(req.URL.Query().Get("limit"))
			if err != nil || limit <= 0 {
				limit = 10
			}
			limit = min(limit, maxScoresLimit)
			entries, err := cfg.Scores.TopScores(cfg.GameID, limit)
			if err != nil {
				http.Error(w, "scores unavailable", http.StatusInternalServerError)
				return
			}
			out := make([]scoreJSON, 0, len(entries))
			for _, e := range entries {
				out = append(out, scoreJSON{Player: e.Player, Score: e.Score, Wave: e.Wave, CreatedAt: e.CreatedAt})
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(out) //nolint:errcheck // client went away
		})
	}

	return r
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
