package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starfall/internal/platform/tui"
	"github.com/vovakirdan/starfall/internal/registry"
	"github.com/vovakirdan/starfall/internal/shooter"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the title menu",
	Long: `Start starfall in interactive menu mode.

Pick a difficulty, check the scoreboard, and play. After a game ends
you return to the menu to play again.

Controls:
  Up/Down/j/k    - Navigate menu
  Left/Right     - Change difficulty
  Enter/Space    - Select
  Tab            - High scores
  Q/Esc          - Quit

Examples:
  starfall menu
  starfall menu --fps 30
  starfall menu --db ./scores.db`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().IntVar(&flagHold, "hold", int(tui.DefaultHoldWindow.Milliseconds()),
		"Milliseconds a key stays held after its last repeat")
}

func holdWindow() time.Duration {
	return time.Duration(flagHold) * time.Millisecond
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog := fileLogger("starfall")
	defer closeLog()
	shooter.SetLogger(logger)

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	difficulty := flagDifficulty
	if difficulty == "" {
		difficulty = "normal"
	}

	for {
		result, err := tui.RunMenu(store, shooter.GameID, cfg, difficulty)
		if err != nil {
			return err
		}
		cfg = result.Config
		difficulty = result.Difficulty

		switch result.Choice {
		case tui.MenuChoiceScores:
			goBack, err := tui.RunScoreboard(store, shooter.GameID, "Starfall", cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		case tui.MenuChoicePlay:
		default:
			return nil
		}

		game, err := registry.Create(shooter.GameID)
		if err != nil {
			return err
		}
		if d, ok := game.(registry.DifficultySetter); ok {
			if err := d.SetDifficulty(difficulty); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}

		// A fixed --seed replays the same game every round.
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		logger.Info("starting game", "difficulty", difficulty, "seed", cfg.Seed)
		if err := tui.Run(game, cfg, tui.ModelOptions{
			Store:      store,
			Player:     playerName(),
			HoldWindow: holdWindow(),
			Logger:     logger,
		}); err != nil {
			return err
		}
	}
}
