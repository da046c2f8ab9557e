// Package game drives a single-player match against the computer.
package game

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/bot"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/tictactoe"
)

const noMove = -1

// Listener receives a snapshot after every state change.
type Listener func(snapshot entity.Snapshot)

// Option configures a GameController.
type Option func(*GameController)

// WithAIDelay postpones every AI move by delay. Zero means the AI answers synchronously.
func WithAIDelay(delay time.Duration) Option {
	return func(that *GameController) {
		that.aiDelay = delay
	}
}

func WithScheduler(scheduler Scheduler) Option {
	return func(that *GameController) {
		that.scheduler = scheduler
	}
}

func WithRand(rnd bot.Rand) Option {
	return func(that *GameController) {
		that.rnd = rnd
	}
}

func WithDifficulty(difficulty entity.Difficulty) Option {
	return func(that *GameController) {
		that.difficulty = difficulty
	}
}

func WithListener(listener Listener) Option {
	return func(that *GameController) {
		that.listener = listener
	}
}

// GameController owns the board of one single-player game and sequences turns
// between the human and the active AI strategy. All transitions are serialised.
type GameController struct {
	logger *slog.Logger

	mu         sync.Mutex
	board      entity.Board
	state      entity.ControllerState
	status     entity.Status
	difficulty entity.Difficulty
	scores     entity.ScoreTally
	lastAiMove int
	version    uint64

	rnd       bot.Rand
	aiDelay   time.Duration
	scheduler Scheduler
	listener  Listener

	// epoch is bumped on every reset so that a timer which already fired
	// cannot apply its move to the new board.
	epoch         uint64
	cancelPending func() bool
}

func NewGameController(logger *slog.Logger, opts ...Option) *GameController {
	controller := &GameController{
		logger:     logger.With("component", "game_controller"),
		state:      entity.WaitingForPlayer,
		difficulty: entity.Medium,
		lastAiMove: noMove,
		scheduler:  NewTimerScheduler(),
	}

	for _, opt := range opts {
		opt(controller)
	}

	if controller.rnd == nil {
		controller.rnd = bot.NewRand()
	}

	return controller
}

// PlayerMove places the human mark at cell. Rejected moves leave the game
// untouched and return the current snapshot together with an ErrInvalidMove.
func (that *GameController) PlayerMove(cell int) (entity.Snapshot, error) {
	that.mu.Lock()

	if err := that.confirmPlayerTurn(); err != nil {
		snapshot := that.snapshotLocked()
		that.mu.Unlock()

		return snapshot, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	board, err := tictactoe.ApplyMove(that.board, cell, entity.PlayerMark)
	if err != nil {
		snapshot := that.snapshotLocked()
		that.mu.Unlock()

		return snapshot, err
	}

	that.board = board
	that.advanceLocked(entity.WaitingForAi)
	changes := []entity.Snapshot{that.commitLocked()}

	if that.state == entity.WaitingForAi {
		if that.aiDelay > 0 {
			that.scheduleAiMoveLocked()
		} else if that.aiMoveLocked() {
			changes = append(changes, that.commitLocked())
		}
	}

	snapshot := changes[len(changes)-1]
	that.mu.Unlock()

	that.notify(changes...)

	return snapshot, nil
}

// SetDifficulty takes effect on the next AI move.
func (that *GameController) SetDifficulty(difficulty entity.Difficulty) entity.Snapshot {
	that.mu.Lock()
	that.difficulty = difficulty
	snapshot := that.commitLocked()
	that.mu.Unlock()

	that.notify(snapshot)

	return snapshot
}

// ResetBoard clears the board for another round and keeps the score.
func (that *GameController) ResetBoard() entity.Snapshot {
	that.mu.Lock()
	that.clearBoardLocked()
	snapshot := that.commitLocked()
	that.mu.Unlock()

	that.notify(snapshot)

	return snapshot
}

// NewGame clears the board and the score.
func (that *GameController) NewGame() entity.Snapshot {
	that.mu.Lock()
	that.clearBoardLocked()
	that.scores = entity.ScoreTally{}
	snapshot := that.commitLocked()
	that.mu.Unlock()

	that.notify(snapshot)

	return snapshot
}

// Snapshot returns the current state without changing it.
func (that *GameController) Snapshot() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

// Stop cancels a pending AI move. The controller stays usable.
func (that *GameController) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.cancelPendingLocked()
}

func (that *GameController) confirmPlayerTurn() error {
	switch that.state {
	case entity.WaitingForPlayer:
		return nil
	case entity.GameOver:
		return apperror.ErrGameFinished
	case entity.WaitingForAi:
		return apperror.ErrNotYourTurn
	default:
		return apperror.ErrNotYourTurn
	}
}

// advanceLocked moves to GameOver when the board is terminal, otherwise to next.
// The score is recorded here and only here, once per finished game.
func (that *GameController) advanceLocked(next entity.ControllerState) {
	that.status = tictactoe.Status(that.board)

	if !that.status.IsTerminal() {
		that.state = next
		return
	}

	that.state = entity.GameOver
	that.scores.Record(that.status)

	that.logger.Info("game over", "status", that.status.String(), "difficulty", that.difficulty.String())
}

func (that *GameController) scheduleAiMoveLocked() {
	epoch := that.epoch

	that.cancelPending = that.scheduler.AfterFunc(that.aiDelay, func() {
		that.runScheduledAiMove(epoch)
	})
}

func (that *GameController) runScheduledAiMove(epoch uint64) {
	that.mu.Lock()

	if epoch != that.epoch || that.state != entity.WaitingForAi {
		that.mu.Unlock()
		that.logger.Debug("stale ai move dropped", "epoch", epoch)

		return
	}

	that.cancelPending = nil

	if !that.aiMoveLocked() {
		that.mu.Unlock()
		return
	}

	snapshot := that.commitLocked()
	that.mu.Unlock()

	that.notify(snapshot)
}

// aiMoveLocked asks the active strategy for a cell and applies it.
// It reports whether the board changed.
func (that *GameController) aiMoveLocked() bool {
	log := that.logger.With("method", "aiMove", "difficulty", that.difficulty.String())

	if tictactoe.IsFull(that.board) {
		log.Error("ai invoked on a full board", "error", apperror.ErrNoAvailableMove)
		return false
	}

	strategy := bot.ForDifficulty(that.difficulty, that.rnd)

	cell, err := strategy.ChooseMove(that.board)
	if err != nil {
		log.Error("strategy failed to choose a move", "error", err)
		return false
	}

	board, err := tictactoe.ApplyMove(that.board, cell, entity.AiMark)
	if err != nil {
		log.Error("strategy chose an invalid move", "cell", cell, "error", err)
		return false
	}

	that.board = board
	that.lastAiMove = cell
	log.Debug("ai moved", "cell", cell)

	that.advanceLocked(entity.WaitingForPlayer)

	return true
}

func (that *GameController) clearBoardLocked() {
	that.cancelPendingLocked()

	that.board = entity.Board{}
	that.state = entity.WaitingForPlayer
	that.status = entity.InProgress
	that.lastAiMove = noMove
}

func (that *GameController) cancelPendingLocked() {
	that.epoch++

	if that.cancelPending != nil {
		that.cancelPending()
		that.cancelPending = nil
	}
}

// commitLocked bumps the version and returns the new snapshot.
func (that *GameController) commitLocked() entity.Snapshot {
	that.version++

	return that.snapshotLocked()
}

func (that *GameController) snapshotLocked() entity.Snapshot {
	snapshot := entity.Snapshot{
		Version:    that.version,
		Board:      that.board,
		State:      that.state,
		Turn:       entity.PlayerTurn,
		Status:     that.status,
		Difficulty: that.difficulty,
		LastAiMove: that.lastAiMove,
		Scores:     that.scores,
	}

	if that.state == entity.WaitingForAi {
		snapshot.Turn = entity.AiTurn
	}

	if line, ok := tictactoe.WinningLine(that.board); ok {
		snapshot.WinningLine = &line
	}

	return snapshot
}

func (that *GameController) notify(snapshots ...entity.Snapshot) {
	if that.listener == nil {
		return
	}

	for _, snapshot := range snapshots {
		that.listener(snapshot)
	}
}
