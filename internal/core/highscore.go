package core

// HighScoreStore persists the best score of a game.
// A missing record loads as 0 with a nil error.
type HighScoreStore interface {
	LoadHighScore() (int, error)
	SaveHighScore(score int) error
}
