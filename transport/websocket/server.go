package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const (
	actionGameState      = "game:state"
	actionGameTurn       = "game:turn"
	actionGameDifficulty = "game:difficulty"
	actionGameNew        = "game:new"
	actionGameReset      = "game:reset"

	readLimit = 4096
)

type sessionUseCase interface {
	GetSnapshot(ctx context.Context, id string) (*entity.Snapshot, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Snapshot, error)
	SetDifficulty(ctx context.Context, id string, difficulty entity.Difficulty) (*entity.Snapshot, error)
	NewGame(ctx context.Context, id string) (*entity.Snapshot, error)
	ResetBoard(ctx context.Context, id string) (*entity.Snapshot, error)
	Subscribe(ctx context.Context, id string) (<-chan entity.Snapshot, func(), error)
}

type handlerFunc func(ctx context.Context, sessionID string, message *Message, c *client) error

// Server streams one session's snapshots over a WebSocket and accepts game actions.
type Server struct {
	logger   *slog.Logger
	uc       sessionUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uc sessionUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uc:     uc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameDifficulty] = server.handleDifficulty
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameReset] = server.handleResetBoard

	return server
}

// ServeHTTP upgrades the request for the session named by the {id} URL parameter.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	log := that.logger.With("method", "ServeHTTP", "sessionID", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	updates, unsubscribe, err := that.uc.Subscribe(ctx, sessionID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		http.Error(w, apperror.ErrSessionNotFound.Error(), http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to subscribe", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer unsubscribe()

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn.SetReadLimit(readLimit)
	c := &client{conn: conn}
	defer c.close()

	log.Info("WebSocket connection established")

	snapshot, err := that.uc.GetSnapshot(ctx, sessionID)
	if err != nil {
		log.Error("failed to get snapshot", "error", err)
		return
	}

	if err = c.sendState(snapshot); err != nil {
		log.Error("failed to send snapshot", "error", err)
		return
	}

	go that.pushUpdates(c, updates)

	that.handleMessages(ctx, sessionID, c)
}

// pushUpdates forwards snapshots until the subscription ends. A closed session closes the connection.
func (that *Server) pushUpdates(c *client, updates <-chan entity.Snapshot) {
	for snapshot := range updates {
		if err := c.sendState(&snapshot); err != nil {
			that.logger.Debug("failed to push snapshot", "error", err)
		}
	}

	c.close()
}

// handleMessages processes messages from the client until the connection drops.
func (that *Server) handleMessages(ctx context.Context, sessionID string, c *client) {
	log := that.logger.With("method", "handleMessages", "sessionID", sessionID)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.reply(c.sendError("", "malformed message"))
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.reply(c.sendError(message.Action, "unknown action"))
			continue
		}

		if err = handler(ctx, sessionID, &message, c); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) reply(err error) {
	if err != nil {
		that.logger.Debug("failed to reply", "error", err)
	}
}
