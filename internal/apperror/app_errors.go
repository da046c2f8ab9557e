package apperror

import "errors"

var (
	ErrInvalidMove       = errors.New("invalid move")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrInvalidMark       = errors.New("invalid mark")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrGameFinished      = errors.New("game is already finished")
	ErrNoAvailableMove   = errors.New("no available moves")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrSessionNotFound   = errors.New("session not found")
)
