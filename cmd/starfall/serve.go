package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/starfall/internal/metrics"
	"github.com/vovakirdan/starfall/internal/platform/tui"
	"github.com/vovakirdan/starfall/internal/registry"
	"github.com/vovakirdan/starfall/internal/shooter"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMetricsAddr string
	flagRate        float64
	flagBurst       int
	flagMaxSessions int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the starfall SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the title menu and its own
simulation. Scores are stored per server, so all users share one
leaderboard. New sessions are rate limited per remote address and capped
in total.

The metrics address serves Prometheus metrics on /metrics, a health check
on /healthz and the leaderboard as JSON on /api/scores.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.starfall/host_key

Examples:
  starfall serve                           # Listen on :23234
  starfall serve --ssh :2222               # Listen on port 2222
  starfall serve --metrics ""              # No HTTP endpoints
  starfall serve --max-sessions 16 --rate 2

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	def := tui.DefaultAdmissionConfig
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", ":9090", "HTTP address for metrics and health (empty disables)")
	serveCmd.Flags().Float64Var(&flagRate, "rate", def.SessionsPerMinute, "New sessions per minute per remote address")
	serveCmd.Flags().IntVar(&flagBurst, "burst", def.Burst, "Sessions a remote address may open at once")
	serveCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", def.MaxSessions, "Concurrent sessions (0 = unlimited)")
	serveCmd.Flags().IntVar(&flagHold, "hold", int(tui.DefaultHoldWindow.Milliseconds()),
		"Milliseconds a key stays held after its last repeat")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := stderrLogger("starfall-ssh")
	shooter.SetLogger(logger)

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	difficulty := flagDifficulty
	if difficulty == "" {
		difficulty = "normal"
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		GameID:      shooter.GameID,
		TickRate:    flagFPS,
		Difficulty:  difficulty,
		HoldWindow:  holdWindow(),
		Admission: tui.AdmissionConfig{
			SessionsPerMinute: flagRate,
			Burst:             flagBurst,
			MaxSessions:       flagMaxSessions,
		},
		Store: store,
		Setup: func(g registry.Game) {
			if sg, ok := g.(*shooter.Game); ok {
				sg.UseEventSink(m)
			}
		},
		Observer: m,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagMetricsAddr != "" {
		rc := metrics.RouterConfig{Gatherer: reg, GameID: shooter.GameID}
		if store != nil {
			rc.Scores = store
		}
		go func() {
			if err := metrics.Serve(ctx, flagMetricsAddr, metrics.NewRouter(rc), logger); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	fmt.Printf("Starting starfall SSH server on %s\n", flagSSHAddr)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
