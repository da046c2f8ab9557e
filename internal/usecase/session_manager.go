package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/game"
)

const storeTimeout = 5 * time.Second

type sessionRepo interface {
	Save(ctx context.Context, id string, snapshot *entity.Snapshot) error
	GetByID(ctx context.Context, id string) (*entity.Snapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

// SessionManager runs any number of independent single-player games, one per session.
type SessionManager struct {
	logger *slog.Logger
	repo   sessionRepo

	ttl            time.Duration
	now            func() time.Time
	controllerOpts []game.Option

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionManager(logger *slog.Logger, repo sessionRepo, ttl time.Duration, controllerOpts ...game.Option) *SessionManager {
	return &SessionManager{
		logger: logger.With("component", "session_manager"),
		repo:   repo,

		ttl:            ttl,
		now:            time.Now,
		controllerOpts: controllerOpts,

		sessions: make(map[string]*session),
	}
}

// CreateSession starts a fresh game at difficulty and returns its first snapshot.
func (that *SessionManager) CreateSession(ctx context.Context, difficulty entity.Difficulty) (*entity.Snapshot, error) {
	sess := &session{
		id:   uuid.NewString(),
		subs: make(map[*subscriber]struct{}),
	}

	opts := append([]game.Option{}, that.controllerOpts...)
	opts = append(opts, game.WithDifficulty(difficulty), game.WithListener(func(snapshot entity.Snapshot) {
		that.publish(sess, snapshot)
	}))

	sess.controller = game.NewGameController(that.logger.With("sessionID", sess.id), opts...)

	snapshot := sess.withID(sess.controller.Snapshot())
	if err := that.repo.Save(ctx, sess.id, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.mu.Lock()
	sess.lastSeen = that.now()
	that.sessions[sess.id] = sess
	that.mu.Unlock()

	that.logger.Info("session created", "sessionID", sess.id, "difficulty", difficulty.String())

	return &snapshot, nil
}

// GetSnapshot returns the stored snapshot of a live session.
func (that *SessionManager) GetSnapshot(ctx context.Context, id string) (*entity.Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	snapshot, err := that.repo.GetByID(ctx, id)
	if err == nil {
		return snapshot, nil
	}

	if !errors.Is(err, apperror.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	// the store expired the key while the session was still in use
	current := sess.withID(sess.controller.Snapshot())
	if err = that.repo.Save(ctx, id, &current); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return &current, nil
}

// MakeMove plays the human move. A rejected move returns the unchanged snapshot and the reason.
func (that *SessionManager) MakeMove(_ context.Context, id string, cell int) (*entity.Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	snapshot, err := sess.controller.PlayerMove(cell)
	snapshot = sess.withID(snapshot)

	if err != nil {
		return &snapshot, fmt.Errorf("failed to make move: %w", err)
	}

	return &snapshot, nil
}

func (that *SessionManager) SetDifficulty(_ context.Context, id string, difficulty entity.Difficulty) (*entity.Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	snapshot := sess.withID(sess.controller.SetDifficulty(difficulty))

	return &snapshot, nil
}

// NewGame clears the board and the score of a session.
func (that *SessionManager) NewGame(_ context.Context, id string) (*entity.Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	snapshot := sess.withID(sess.controller.NewGame())

	return &snapshot, nil
}

// ResetBoard clears the board of a session for another round.
func (that *SessionManager) ResetBoard(_ context.Context, id string) (*entity.Snapshot, error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, err
	}

	snapshot := sess.withID(sess.controller.ResetBoard())

	return &snapshot, nil
}

// Subscribe streams snapshots of a session until ctx is done, the returned func
// is called or the session closes. A slow reader only ever sees the newest snapshot.
func (that *SessionManager) Subscribe(ctx context.Context, id string) (<-chan entity.Snapshot, func(), error) {
	sess, err := that.getSession(id)
	if err != nil {
		return nil, nil, err
	}

	sub := &subscriber{ch: make(chan entity.Snapshot, 1)}

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return nil, nil, apperror.ErrSessionNotFound
	}
	sess.subs[sub] = struct{}{}
	sess.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			sess.mu.Lock()
			defer sess.mu.Unlock()

			if _, ok := sess.subs[sub]; ok {
				delete(sess.subs, sub)
				close(sub.ch)
			}
		})
	}

	go func() {
		<-ctx.Done()
		unsubscribe()
	}()

	return sub.ch, unsubscribe, nil
}

// CloseSession stops a session and forgets its state.
func (that *SessionManager) CloseSession(ctx context.Context, id string) error {
	that.mu.Lock()
	sess, ok := that.sessions[id]
	delete(that.sessions, id)
	that.mu.Unlock()

	if !ok {
		return apperror.ErrSessionNotFound
	}

	that.closeSession(ctx, sess)

	return nil
}

// EvictIdle closes sessions untouched for longer than the TTL and returns how many were closed.
func (that *SessionManager) EvictIdle(ctx context.Context) int {
	deadline := that.now().Add(-that.ttl)

	that.mu.Lock()
	var idle []*session
	for id, sess := range that.sessions {
		if sess.lastSeen.Before(deadline) {
			idle = append(idle, sess)
			delete(that.sessions, id)
		}
	}
	that.mu.Unlock()

	for _, sess := range idle {
		that.closeSession(ctx, sess)
	}

	return len(idle)
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func (that *SessionManager) RunJanitor(ctx context.Context, interval time.Duration) {
	log := that.logger.With("method", "RunJanitor")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("janitor stopped")
			return
		case <-ticker.C:
			if evicted := that.EvictIdle(ctx); evicted > 0 {
				log.Info("idle sessions evicted", "count", evicted)
			}
		}
	}
}

func (that *SessionManager) getSession(id string) (*session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	sess.lastSeen = that.now()

	return sess, nil
}

func (that *SessionManager) closeSession(ctx context.Context, sess *session) {
	log := that.logger.With("method", "closeSession", "sessionID", sess.id)

	sess.controller.Stop()

	sess.mu.Lock()
	sess.closed = true
	for sub := range sess.subs {
		delete(sess.subs, sub)
		close(sub.ch)
	}
	sess.mu.Unlock()

	if err := that.repo.DeleteByID(ctx, sess.id); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
		log.Error("failed to delete session", "error", err)
	}

	log.Info("session closed")
}

// publish stores snapshot and fans it out. Snapshots older than the last
// published one are dropped, since AI timers and requests race.
func (that *SessionManager) publish(sess *session, snapshot entity.Snapshot) {
	snapshot = sess.withID(snapshot)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed || snapshot.Version <= sess.published {
		return
	}

	sess.published = snapshot.Version

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := that.repo.Save(ctx, sess.id, &snapshot); err != nil {
		that.logger.Error("failed to save snapshot", "sessionID", sess.id, "error", err)
	}

	for sub := range sess.subs {
		sub.send(snapshot)
	}
}

type session struct {
	id         string
	controller *game.GameController
	lastSeen   time.Time

	mu        sync.Mutex
	closed    bool
	published uint64
	subs      map[*subscriber]struct{}
}

func (that *session) withID(snapshot entity.Snapshot) entity.Snapshot {
	snapshot.SessionID = that.id
	return snapshot
}

type subscriber struct {
	ch chan entity.Snapshot
}

// send replaces an unread snapshot with the newer one.
func (that *subscriber) send(snapshot entity.Snapshot) {
	select {
	case that.ch <- snapshot:
		return
	default:
	}

	select {
	case <-that.ch:
	default:
	}

	select {
	case that.ch <- snapshot:
	default:
	}
}
