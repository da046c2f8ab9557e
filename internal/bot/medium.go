package bot

import (
	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

// Medium wins, blocks, then prefers the center and the corners.
type Medium struct {
	rnd Rand
}

func NewMedium(rnd Rand) *Medium {
	return &Medium{rnd: rnd}
}

func (that *Medium) ChooseMove(board entity.Board) (int, error) {
	if tictactoe.IsFull(board) {
		return 0, apperror.ErrNoAvailableMove
	}

	if cell, ok := FindWinningMove(board, entity.AiMark); ok {
		return cell, nil
	}

	if cell, ok := FindWinningMove(board, entity.PlayerMark); ok {
		return cell, nil
	}

	if board[entity.Center] == entity.Empty {
		return entity.Center, nil
	}

	corners := make([]int, 0, len(entity.Corners))
	for _, corner := range entity.Corners {
		if board[corner] == entity.Empty {
			corners = append(corners, corner)
		}
	}

	if len(corners) > 0 {
		return corners[that.rnd.Intn(len(corners))], nil
	}

	return randomMove(board, that.rnd)
}
