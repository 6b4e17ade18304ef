package storage

import "github.com/vovakirdan/starfall/internal/core"

// HighScoreGateway binds a Store to one game ID so a simulation can load
// and save its best score without knowing about game IDs.
type HighScoreGateway struct {
	store  *Store
	gameID string
}

// HighScores returns the best-score gateway for gameID.
func (s *Store) HighScores(gameID string) *HighScoreGateway {
	return &HighScoreGateway{store: s, gameID: gameID}
}

// LoadHighScore returns the stored best score, 0 when none exists.
func (g *HighScoreGateway) LoadHighScore() (int, error) {
	return g.store.LoadHighScore(g.gameID)
}

// SaveHighScore raises the stored best score.
func (g *HighScoreGateway) SaveHighScore(score int) error {
	return g.store.SaveHighScore(g.gameID, score)
}

var _ core.HighScoreStore = (*HighScoreGateway)(nil)
