package bot

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

// winScore is the value of an immediate AI win; each ply of delay costs one point.
const winScore = 10

// Hard searches the whole remaining game tree and never loses.
type Hard struct{}

func NewHard() *Hard {
	return &Hard{}
}

// ChooseMove returns the lowest cell with the strictly greatest minimax score.
func (that *Hard) ChooseMove(board entity.Board) (int, error) {
	bestScore := math.MinInt
	bestMove := -1

	for _, cell := range tictactoe.AvailableMoves(board) {
		next := board
		next[cell] = entity.AiMark

		if score := minimax(next, 0, false); score > bestScore {
			bestScore = score
			bestMove = cell
		}
	}

	if bestMove < 0 {
		return 0, apperror.ErrNoAvailableMove
	}

	return bestMove, nil
}

// minimax scores board from the AI's point of view. board is a copy, so
// every branch works on its own grid.
func minimax(board entity.Board, depth int, maximizing bool) int {
	switch tictactoe.Status(board) {
	case entity.AiWon:
		return winScore - depth
	case entity.PlayerWon:
		return depth - winScore
	case entity.Draw:
		return 0
	case entity.InProgress:
	}

	if maximizing {
		best := math.MinInt
		for _, cell := range tictactoe.AvailableMoves(board) {
			next := board
			next[cell] = entity.AiMark
			best = max(best, minimax(next, depth+1, false))
		}

		return best
	}

	best := math.MaxInt
	for _, cell := range tictactoe.AvailableMoves(board) {
		next := board
		next[cell] = entity.PlayerMark
		best = min(best, minimax(next, depth+1, true))
	}

	return best
}
