package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type sessionUseCase interface {
	CreateSession(ctx context.Context, difficulty entity.Difficulty) (*entity.Snapshot, error)
	GetSnapshot(ctx context.Context, id string) (*entity.Snapshot, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Snapshot, error)
	SetDifficulty(ctx context.Context, id string, difficulty entity.Difficulty) (*entity.Snapshot, error)
	NewGame(ctx context.Context, id string) (*entity.Snapshot, error)
	ResetBoard(ctx context.Context, id string) (*entity.Snapshot, error)
	CloseSession(ctx context.Context, id string) error
}

// NewRouter wires the session API. stream, when not nil, serves /sessions/{id}/ws.
func NewRouter(logger *slog.Logger, uc sessionUseCase, defaultDifficulty entity.Difficulty, stream http.Handler) http.Handler {
	h := &handlers{
		logger:            logger.With("component", "rest"),
		uc:                uc,
		defaultDifficulty: defaultDifficulty,
	}

	r := chi.NewRouter()
	r.Get("/ping", pingHandler)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.closeSession)
			r.Post("/moves", h.makeMove)
			r.Put("/difficulty", h.setDifficulty)
			r.Post("/new-game", h.newGame)
			r.Post("/reset-board", h.resetBoard)

			if stream != nil {
				r.Get("/ws", stream.ServeHTTP)
			}
		})
	})

	return r
}

// Start - serves handler on port until ctx is done.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}
