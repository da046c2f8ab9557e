// Package bot holds the computer opponent's move-selection strategies.
package bot

import (
	"math/rand"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

// Strategy picks the AI's next cell. It never mutates the given board.
type Strategy interface {
	ChooseMove(board entity.Board) (int, error)
}

// Rand is the randomness the heuristic strategies need. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a time-seeded source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // it's ok
}

// ForDifficulty returns the strategy for difficulty. Unknown values get Medium.
func ForDifficulty(difficulty entity.Difficulty, rnd Rand) Strategy {
	switch difficulty {
	case entity.Easy:
		return NewEasy(rnd)
	case entity.Hard:
		return NewHard()
	case entity.Medium:
		return NewMedium(rnd)
	default:
		return NewMedium(rnd)
	}
}

// FindWinningMove returns the first empty cell, in ascending order, that completes a line for mark.
func FindWinningMove(board entity.Board, mark entity.Mark) (int, bool) {
	for _, cell := range tictactoe.AvailableMoves(board) {
		board[cell] = mark
		won := tictactoe.Winner(board) == mark
		board[cell] = entity.Empty

		if won {
			return cell, true
		}
	}

	return 0, false
}

func randomMove(board entity.Board, rnd Rand) (int, error) {
	moves := tictactoe.AvailableMoves(board)
	if len(moves) == 0 {
		return 0, apperror.ErrNoAvailableMove
	}

	return moves[rnd.Intn(len(moves))], nil
}
