package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input    string
		expected Difficulty
		err      error
	}{
		{input: "easy", expected: Easy},
		{input: "medium", expected: Medium},
		{input: "hard", expected: Hard},
		{input: "", expected: Medium, err: apperror.ErrUnknownDifficulty},
		{input: "HARD", expected: Medium, err: apperror.ErrUnknownDifficulty},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			difficulty, err := ParseDifficulty(tt.input)

			assert.Equal(t, tt.expected, difficulty)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestScoreTally_Record(t *testing.T) {
	// Given
	var tally ScoreTally

	// When
	for _, status := range []Status{PlayerWon, AiWon, AiWon, Draw, InProgress} {
		tally.Record(status)
	}

	// Then
	assert.Equal(t, ScoreTally{PlayerWins: 1, AiWins: 2, Draws: 1}, tally)
}

func TestMark_Opponent(t *testing.T) {
	assert.Equal(t, AiMark, PlayerMark.Opponent())
	assert.Equal(t, PlayerMark, AiMark.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())
}

func TestSnapshot_JSON(t *testing.T) {
	// Given
	line := Lines[6]
	snapshot := Snapshot{
		SessionID:   "session",
		Version:     7,
		Board:       Board{PlayerMark, AiMark, Empty, Empty, PlayerMark, AiMark, Empty, Empty, PlayerMark},
		State:       GameOver,
		Turn:        PlayerTurn,
		Status:      PlayerWon,
		Difficulty:  Hard,
		WinningLine: &line,
		LastAiMove:  5,
		Scores:      ScoreTally{PlayerWins: 1},
	}

	// When
	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	// Then
	assert.JSONEq(t, `{
		"id": "session",
		"version": 7,
		"board": ["X", "O", "", "", "X", "O", "", "", "X"],
		"state": "game_over",
		"turn": "player",
		"status": "player_won",
		"difficulty": "hard",
		"winning_line": [0, 4, 8],
		"last_ai_move": 5,
		"scores": {"player": 1, "ai": 0, "draws": 0}
	}`, string(data))

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, snapshot, decoded)
}

func TestStatus_UnmarshalUnknown(t *testing.T) {
	var status Status

	err := status.UnmarshalText([]byte("forfeit"))

	require.ErrorIs(t, err, ErrUnknownStatus)
}
