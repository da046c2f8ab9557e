package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
)

var ErrUnknownStatus = errors.New("unknown game status")

// Status is the outcome classification of a board.
type Status uint8

const (
	InProgress Status = iota
	PlayerWon
	AiWon
	Draw
)

var statusNames = map[Status]string{
	InProgress: "in_progress",
	PlayerWon:  "player_won",
	AiWon:      "ai_won",
	Draw:       "draw",
}

func (that Status) String() string {
	return statusNames[that]
}

func (that Status) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*that = status
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownStatus, text)
}

// IsTerminal reports whether no further moves are accepted.
func (that Status) IsTerminal() bool {
	return that != InProgress
}

// Turn says whose move is expected next.
type Turn uint8

const (
	PlayerTurn Turn = iota
	AiTurn
)

func (that Turn) String() string {
	if that == AiTurn {
		return "ai"
	}
	return "player"
}

func (that Turn) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Turn) UnmarshalText(text []byte) error {
	if string(text) == "ai" {
		*that = AiTurn
	} else {
		*that = PlayerTurn
	}

	return nil
}

// Difficulty selects the AI strategy.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func ParseDifficulty(value string) (Difficulty, error) {
	switch value {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Medium, fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, value)
	}
}

func (that Difficulty) String() string {
	switch that {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "medium"
	}
}

func (that Difficulty) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Difficulty) UnmarshalText(text []byte) error {
	difficulty, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}

	*that = difficulty

	return nil
}

// ScoreTally counts completed games for one session.
type ScoreTally struct {
	PlayerWins int `json:"player"`
	AiWins     int `json:"ai"`
	Draws      int `json:"draws"`
}

// Record adds one completed game. In-progress statuses are ignored.
func (that *ScoreTally) Record(status Status) {
	switch status {
	case PlayerWon:
		that.PlayerWins++
	case AiWon:
		that.AiWins++
	case Draw:
		that.Draws++
	case InProgress:
	}
}
