package bot

import (
	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

// easyRandomChance is the share of Easy moves picked blindly.
const easyRandomChance = 0.7

// Easy mostly plays at random, otherwise it wins or blocks when it can.
type Easy struct {
	rnd Rand
}

func NewEasy(rnd Rand) *Easy {
	return &Easy{rnd: rnd}
}

func (that *Easy) ChooseMove(board entity.Board) (int, error) {
	if tictactoe.IsFull(board) {
		return 0, apperror.ErrNoAvailableMove
	}

	if that.rnd.Float64() < easyRandomChance {
		return randomMove(board, that.rnd)
	}

	if cell, ok := FindWinningMove(board, entity.AiMark); ok {
		return cell, nil
	}

	if cell, ok := FindWinningMove(board, entity.PlayerMark); ok {
		return cell, nil
	}

	return randomMove(board, that.rnd)
}
