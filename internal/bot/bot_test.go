package bot

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.PlayerMark
	o = entity.AiMark
	e = entity.Empty
)

// fakeRand returns fixed values: roll for Float64, pick modulo n for Intn.
type fakeRand struct {
	roll  float64
	pick  int
	calls []int
}

func (that *fakeRand) Intn(n int) int {
	that.calls = append(that.calls, n)
	return that.pick % n
}

func (that *fakeRand) Float64() float64 {
	return that.roll
}

func TestFindWinningMove(t *testing.T) {
	t.Run("Finds the completing cell", func(t *testing.T) {
		// Given: the AI holds 3 and 4
		board := entity.Board{
			x, x, e,
			o, o, e,
			e, e, e,
		}

		// When: looking for an AI win
		cell, ok := FindWinningMove(board, o)

		// Then: 5 completes the middle row and the board is unchanged
		require.True(t, ok)
		assert.Equal(t, 5, cell)
		assert.Equal(t, e, board[5])
	})

	t.Run("Reports the lowest cell first", func(t *testing.T) {
		// Given: the player threatens both 2 and 6
		board := entity.Board{
			x, x, e,
			x, o, e,
			e, o, e,
		}

		// When: looking for a player win
		cell, ok := FindWinningMove(board, x)

		// Then: the ascending scan finds 2
		require.True(t, ok)
		assert.Equal(t, 2, cell)
	})

	t.Run("No win available", func(t *testing.T) {
		_, ok := FindWinningMove(entity.Board{4: x}, x)
		assert.False(t, ok)
	})
}

func TestEasy_ChooseMove(t *testing.T) {
	board := entity.Board{
		x, x, e,
		o, o, e,
		e, e, e,
	}

	t.Run("Random branch below the threshold", func(t *testing.T) {
		// Given: a roll inside the 70% random band
		rnd := &fakeRand{roll: 0.69, pick: 0}

		// When: Easy chooses
		cell, err := NewEasy(rnd).ChooseMove(board)

		// Then: the first available move is picked blindly
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
		assert.Equal(t, []int{5}, rnd.calls)
	})

	t.Run("Smart branch takes the win before the block", func(t *testing.T) {
		// Given: a roll in the 30% smart band
		rnd := &fakeRand{roll: 0.7}

		// When: Easy chooses
		cell, err := NewEasy(rnd).ChooseMove(board)

		// Then: it completes its own row
		require.NoError(t, err)
		assert.Equal(t, 5, cell)
		assert.Empty(t, rnd.calls)
	})

	t.Run("Smart branch blocks", func(t *testing.T) {
		// Given: the player threatens 2 and the AI has no win
		rnd := &fakeRand{roll: 0.9}
		threat := entity.Board{x, x, e, o, e, e, e, e, e}

		// When: Easy chooses
		cell, err := NewEasy(rnd).ChooseMove(threat)

		// Then: it blocks
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})

	t.Run("Smart branch falls back to random", func(t *testing.T) {
		// Given: nothing to win or block
		rnd := &fakeRand{roll: 0.95, pick: 3}

		// When: Easy chooses on an opening board
		cell, err := NewEasy(rnd).ChooseMove(entity.Board{4: x})

		// Then: the fourth available cell is picked
		require.NoError(t, err)
		assert.Equal(t, 3, cell)
	})

	t.Run("Full board", func(t *testing.T) {
		full := entity.Board{x, o, x, x, o, o, o, x, x}

		_, err := NewEasy(&fakeRand{}).ChooseMove(full)

		assert.ErrorIs(t, err, apperror.ErrNoAvailableMove)
	})
}

func TestMedium_ChooseMove(t *testing.T) {
	tests := []struct {
		name  string
		board entity.Board
		pick  int
		want  int
	}{
		{
			name:  "win beats block",
			board: entity.Board{x, x, e, o, o, e, e, e, e},
			want:  5,
		},
		{
			name:  "block",
			board: entity.Board{x, x, e, o, e, e, e, e, e},
			want:  2,
		},
		{
			name:  "center",
			board: entity.Board{x, e, e, e, e, e, e, e, e},
			want:  4,
		},
		{
			name:  "corner picked at random",
			board: entity.Board{e, e, e, e, x, e, e, e, e},
			pick:  2,
			want:  6,
		},
		{
			name:  "only free corners are candidates",
			board: entity.Board{x, e, e, e, o, e, e, e, x},
			pick:  0,
			want:  2,
		},
		{
			name: "edge when corners are gone",
			board: entity.Board{
				x, o, x,
				e, x, e,
				o, x, o,
			},
			pick: 1,
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, err := NewMedium(&fakeRand{pick: tt.pick}).ChooseMove(tt.board)

			require.NoError(t, err)
			assert.Equal(t, tt.want, cell)
		})
	}
}

func TestHard_ChooseMove(t *testing.T) {
	t.Run("Answers a corner opening with the center", func(t *testing.T) {
		// Given: the player opened in corner 0
		board := entity.Board{0: x}

		// When: Hard chooses
		cell, err := NewHard().ChooseMove(board)

		// Then: the center is the only move that does not lose
		require.NoError(t, err)
		assert.Equal(t, 4, cell)
	})

	t.Run("Blocks an immediate threat", func(t *testing.T) {
		// Given: the player threatens 0-1-2 and the AI has no win
		board := entity.Board{x, x, e, o, e, e, e, e, e}

		// When: Hard chooses
		cell, err := NewHard().ChooseMove(board)

		// Then: it blocks at 2
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})

	t.Run("Prefers the fastest win", func(t *testing.T) {
		// Given: the AI can win at once on 5, and blocking 2 would also be safe
		board := entity.Board{x, x, e, o, o, e, e, e, e}

		// When: Hard chooses
		cell, err := NewHard().ChooseMove(board)

		// Then: it wins now
		require.NoError(t, err)
		assert.Equal(t, 5, cell)
	})

	t.Run("Deterministic across calls", func(t *testing.T) {
		board := entity.Board{x, e, e, e, o, e, e, e, x}

		first, err := NewHard().ChooseMove(board)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			next, err := NewHard().ChooseMove(board)
			require.NoError(t, err)
			assert.Equal(t, first, next)
		}
	})

	t.Run("Does not mutate the board", func(t *testing.T) {
		board := entity.Board{0: x}
		before := board

		_, err := NewHard().ChooseMove(board)

		require.NoError(t, err)
		assert.Equal(t, before, board)
	})

	t.Run("Full board", func(t *testing.T) {
		_, err := NewHard().ChooseMove(entity.Board{x, o, x, x, o, o, o, x, x})
		assert.ErrorIs(t, err, apperror.ErrNoAvailableMove)
	})
}

func TestMinimax_Scores(t *testing.T) {
	// Given: the AI already won
	won := entity.Board{o, o, o, x, x, e, x, e, e}
	// Given: the player already won
	lost := entity.Board{x, x, x, o, o, e, e, e, e}

	assert.Equal(t, 10, minimax(won, 0, false))
	assert.Equal(t, 7, minimax(won, 3, true))
	assert.Equal(t, -10, minimax(lost, 0, true))
	assert.Equal(t, -6, minimax(lost, 4, true))
	assert.Equal(t, 0, minimax(entity.Board{x, o, x, x, o, o, o, x, x}, 2, true))
}

// playOut alternates player and ai strategies from an empty board, player first.
func playOut(t *testing.T, player, ai Strategy) entity.Status {
	t.Helper()

	var board entity.Board
	turn := x

	for !tictactoe.Status(board).IsTerminal() {
		strategy := ai
		if turn == x {
			strategy = player
		}

		// strategies play as the AI mark; mirror the board for the player side
		view := board
		if turn == x {
			view = mirror(board)
		}

		cell, err := strategy.ChooseMove(view)
		require.NoError(t, err)

		board, err = tictactoe.ApplyMove(board, cell, turn)
		require.NoError(t, err)

		turn = turn.Opponent()
	}

	return tictactoe.Status(board)
}

func mirror(board entity.Board) entity.Board {
	for i, cell := range board {
		board[i] = cell.Opponent()
	}

	return board
}

func TestHard_NeverLoses(t *testing.T) {
	t.Run("Hard vs Hard is a draw", func(t *testing.T) {
		assert.Equal(t, entity.Draw, playOut(t, NewHard(), NewHard()))
	})

	t.Run("Hard vs Medium", func(t *testing.T) {
		for pick := 0; pick < 8; pick++ {
			status := playOut(t, NewMedium(&fakeRand{pick: pick}), NewHard())
			assert.NotEqual(t, entity.PlayerWon, status)
		}
	})

	t.Run("Hard vs Easy", func(t *testing.T) {
		for pick := 0; pick < 8; pick++ {
			for _, roll := range []float64{0.1, 0.8} {
				status := playOut(t, NewEasy(&fakeRand{pick: pick, roll: roll}), NewHard())
				assert.NotEqual(t, entity.PlayerWon, status)
			}
		}
	})

	t.Run("Hard vs every opponent line", func(t *testing.T) {
		// Given: an opponent that tries every legal reply
		var explore func(board entity.Board)
		explore = func(board entity.Board) {
			status := tictactoe.Status(board)
			require.NotEqual(t, entity.PlayerWon, status, "player won on %v", board)

			if status.IsTerminal() {
				return
			}

			for _, cell := range tictactoe.AvailableMoves(board) {
				next, err := tictactoe.ApplyMove(board, cell, x)
				require.NoError(t, err)

				if tictactoe.Status(next).IsTerminal() {
					require.NotEqual(t, entity.PlayerWon, tictactoe.Status(next), "player won on %v", next)
					continue
				}

				reply, err := NewHard().ChooseMove(next)
				require.NoError(t, err)

				next, err = tictactoe.ApplyMove(next, reply, o)
				require.NoError(t, err)

				explore(next)
			}
		}

		explore(entity.Board{})
	})
}

func TestForDifficulty(t *testing.T) {
	rnd := &fakeRand{}

	assert.IsType(t, &Easy{}, ForDifficulty(entity.Easy, rnd))
	assert.IsType(t, &Medium{}, ForDifficulty(entity.Medium, rnd))
	assert.IsType(t, &Hard{}, ForDifficulty(entity.Hard, rnd))
	assert.IsType(t, &Medium{}, ForDifficulty(entity.Difficulty(42), rnd))
}
