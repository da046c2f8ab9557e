package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

type memSession struct {
	mu        sync.RWMutex
	snapshots map[string]entity.Snapshot
}

// NewMemorySessionRepository keeps snapshots in process memory.
func NewMemorySessionRepository() SessionRepository {
	return &memSession{
		snapshots: make(map[string]entity.Snapshot),
	}
}

func (that *memSession) Save(_ context.Context, id string, snapshot *entity.Snapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.snapshots[id] = *snapshot

	return nil
}

func (that *memSession) GetByID(_ context.Context, id string) (*entity.Snapshot, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	snapshot, ok := that.snapshots[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return &snapshot, nil
}

func (that *memSession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.snapshots[id]; !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.snapshots, id)

	return nil
}
