// starfall is a terminal space shooter: survive waves of enemies and the
// boss that follows them.
//
// Usage:
//
//	starfall play            - Play right away
//	starfall menu            - Title menu with difficulty and scoreboard
//	starfall scores          - Show high scores
//	starfall serve           - Start SSH server for remote play
//	starfall sim             - Run the simulation headless with an autopilot
//	starfall list            - List available games
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.starfall/scores.db)
//	--log <path>          - Log file for the terminal UI (default: ~/.starfall/starfall.log)
//	--config <path>       - Custom tuning YAML
//	--difficulty <name>   - easy, normal or hard
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starfall/internal/config"
	"github.com/vovakirdan/starfall/internal/shooter"
	"github.com/vovakirdan/starfall/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagLogPath    string
	flagLogLevel   string
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "starfall",
	Short: "Starfall - a space shooter in your terminal",
	Long: `Starfall is a terminal space shooter. Waves of enemies descend on your
ship, a boss shows up once you have survived long enough, and power-ups
widen your spread shot.

Available commands:
  play     - Start a game directly
  menu     - Title menu with difficulty and high scores
  scores   - View high scores
  serve    - Start SSH server for remote play
  sim      - Run a headless game with an autopilot
  list     - Show all available games

Examples:
  starfall play
  starfall play --difficulty hard
  starfall menu
  starfall serve --ssh :2222 --metrics :9090
  starfall sim --frames 36000 --seed 7`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if _, err := config.ParsePreset(flagDifficulty); err != nil {
			return err
		}
		shooter.SetConfigPath(flagConfig)
		shooter.SetDifficultyPreset(flagDifficulty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", defaultLogPath, "Log file used while the terminal UI runs")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom starfall config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}

// playerName labels local scores with the OS user.
func playerName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}
