package shooter

import "sync"

// MemoryHighScores is an in-process HighScoreStore.
// LoadErr and SaveErr, when set, are returned instead of touching the value.
type MemoryHighScores struct {
	mu      sync.Mutex
	score   int
	saves   int
	LoadErr error
	SaveErr error
}

// NewMemoryHighScores returns a store seeded with score.
func NewMemoryHighScores(score int) *MemoryHighScores {
	return &MemoryHighScores{score: score}
}

// LoadHighScore returns the stored score.
func (m *MemoryHighScores) LoadHighScore() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return 0, m.LoadErr
	}
	return m.score, nil
}

// SaveHighScore raises the stored score; a lower score leaves it unchanged.
func (m *MemoryHighScores) SaveHighScore(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.score = max(m.score, score)
	m.saves++
	return nil
}

// Saves returns how many successful saves happened.
func (m *MemoryHighScores) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var _ HighScoreStore = (*MemoryHighScores)(nil)
