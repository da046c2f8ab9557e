package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

// AvailableMoves returns the empty cells of board in ascending order.
func AvailableMoves(board entity.Board) []int {
	moves := make([]int, 0, entity.BoardSize)
	for i, cell := range board {
		if cell == entity.Empty {
			moves = append(moves, i)
		}
	}

	return moves
}

// ApplyMove returns a copy of board with mark placed at cell.
func ApplyMove(board entity.Board, cell int, mark entity.Mark) (entity.Board, error) {
	if err := validateMove(board, cell, mark); err != nil {
		return board, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	board[cell] = mark

	return board, nil
}

// validateMove - checks if the move is valid.
func validateMove(board entity.Board, cell int, mark entity.Mark) error {
	if cell < 0 || cell >= len(board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if mark == entity.Empty {
		return apperror.ErrInvalidMark
	}

	if board[cell] != entity.Empty {
		return apperror.ErrCellOccupied
	}

	return nil
}

// WinningLine returns the first line, in table order, filled by a single mark.
func WinningLine(board entity.Board) (entity.Line, bool) {
	for _, line := range entity.Lines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.Empty && a == b && b == c {
			return line, true
		}
	}

	return entity.Line{}, false
}

// Winner returns the mark owning a complete line, or entity.Empty.
func Winner(board entity.Board) entity.Mark {
	line, ok := WinningLine(board)
	if !ok {
		return entity.Empty
	}

	return board[line[0]]
}

// IsFull reports whether no empty cell remains.
func IsFull(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.Empty {
			return false
		}
	}

	return true
}

// Status classifies board. A win takes precedence over a full board.
func Status(board entity.Board) entity.Status {
	switch Winner(board) {
	case entity.PlayerMark:
		return entity.PlayerWon
	case entity.AiMark:
		return entity.AiWon
	case entity.Empty:
	}

	if IsFull(board) {
		return entity.Draw
	}

	return entity.InProgress
}
