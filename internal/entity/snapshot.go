package entity

// ControllerState is the game controller's position in its state machine.
type ControllerState uint8

const (
	WaitingForPlayer ControllerState = iota
	WaitingForAi
	GameOver
)

func (that ControllerState) String() string {
	switch that {
	case WaitingForAi:
		return "waiting_for_ai"
	case GameOver:
		return "game_over"
	default:
		return "waiting_for_player"
	}
}

func (that ControllerState) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *ControllerState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "waiting_for_ai":
		*that = WaitingForAi
	case "game_over":
		*that = GameOver
	default:
		*that = WaitingForPlayer
	}

	return nil
}

// Snapshot is everything a presentation layer needs after a state change.
type Snapshot struct {
	SessionID   string          `json:"id,omitempty"`
	Version     uint64          `json:"version"`
	Board       Board           `json:"board"`
	State       ControllerState `json:"state"`
	Turn        Turn            `json:"turn"`
	Status      Status          `json:"status"`
	Difficulty  Difficulty      `json:"difficulty"`
	WinningLine *Line           `json:"winning_line,omitempty"`
	LastAiMove  int             `json:"last_ai_move"`
	Scores      ScoreTally      `json:"scores"`
}
