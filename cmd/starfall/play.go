package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/starfall/internal/core"
	"github.com/vovakirdan/starfall/internal/platform/tui"
	"github.com/vovakirdan/starfall/internal/registry"
	"github.com/vovakirdan/starfall/internal/shooter"
	"github.com/vovakirdan/starfall/internal/storage"
)

var flagHold int

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing right away.

Controls:
  A/D, Left/Right   - Move sideways
  W/S, Up/Down      - Move up and down
  Space/Z           - Fire (hold)
  F                 - Toggle autofire
  P                 - Pause
  R                 - Restart (after game over)
  Q                 - Quit (after game over)
  Esc               - Quit at any time
  Ctrl+S            - Save a text screenshot

Difficulty options:
  easy   - More lives and hit points, slower enemy bullets
  normal - The configured tuning
  hard   - Fewer lives, faster enemy bullets, earlier boss

Examples:
  starfall play
  starfall play --difficulty easy
  starfall play --config ./my-starfall.yaml
  starfall play --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagHold, "hold", int(tui.DefaultHoldWindow.Milliseconds()),
		"Milliseconds a key stays held after its last repeat")
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the score database, or returns nil with a warning.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := shooter.GameID
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'starfall list' to see available games", gameID)
	}

	logger, closeLog := fileLogger("starfall")
	defer closeLog()
	shooter.SetLogger(logger)

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	logger.Info("starting game", "game", gameID, "seed", flagSeed, "difficulty", flagDifficulty)
	return tui.Run(game, runtimeConfig(), tui.ModelOptions{
		Store:      store,
		Player:     playerName(),
		HoldWindow: holdWindow(),
		Logger:     logger,
	})
}
