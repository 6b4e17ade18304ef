package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/starfall/internal/shooter"
	"github.com/vovakirdan/starfall/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, shooter.GameID) || !strings.Contains(out, "Starfall") {
		t.Errorf("list output missing starfall:\n%s", out)
	}
}

func TestSimCommandIsDeterministic(t *testing.T) {
	args := []string{"sim", "--seed", "11", "--frames", "900", "--log-level", "error"}
	first, err := execute(t, args...)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	second, err := execute(t, args...)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}

	hash := func(out string) string {
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, "State hash:") {
				return line
			}
		}
		t.Fatalf("no hash in output:\n%s", out)
		return ""
	}
	if hash(first) != hash(second) {
		t.Errorf("same seed gave different hashes:\n%s\n%s", hash(first), hash(second))
	}
	if !strings.Contains(first, "Seed:            11") {
		t.Errorf("seed not reported:\n%s", first)
	}
}

func TestUnknownDifficulty(t *testing.T) {
	_, err := execute(t, "list", "--difficulty", "impossible")
	if err == nil {
		t.Fatal("unknown difficulty accepted")
	}
	// Later tests reuse the global flag.
	flagDifficulty = ""
}

func TestScoresCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "scores.db")
	store, err := storage.Open(db)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveScore(storage.ScoreEntry{GameID: shooter.GameID, Player: "ada", Score: 4200, Wave: 7}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	out, err := execute(t, "scores", "--db", db)
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	for _, want := range []string{"4200", "ada", "Best: 4200"} {
		if !strings.Contains(out, want) {
			t.Errorf("scores output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "scores", "--db", db, "--clear"); err != nil {
		t.Fatalf("scores --clear: %v", err)
	}
	flagClear = false

	out, err = execute(t, "scores", "--db", db)
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	if !strings.Contains(out, "No scores recorded yet.") {
		t.Errorf("scores not cleared:\n%s", out)
	}
}

func TestScoresUnknownGame(t *testing.T) {
	if _, err := execute(t, "scores", "pong", "--db", filepath.Join(t.TempDir(), "x.db")); err == nil {
		t.Error("unknown game accepted")
	}
}
