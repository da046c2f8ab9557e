package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

const writeWait = 10 * time.Second

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload carries the arguments of client actions.
type RequestPayload struct {
	Cell       *int   `json:"cell,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// client serialises writes to one connection. gorilla allows a single concurrent writer.
type client struct {
	conn *websocket.Conn

	mu      sync.Mutex
	sent    bool
	version uint64
}

// sendState writes snapshot unless the client already saw it or a newer one.
func (that *client) sendState(snapshot *entity.Snapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.sent && snapshot.Version <= that.version {
		return nil
	}

	if err := that.writeLocked(actionGameState, snapshot); err != nil {
		return err
	}

	that.sent = true
	that.version = snapshot.Version

	return nil
}

func (that *client) sendError(action, errorMsg string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.writeLocked(action, ErrorPayload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func (that *client) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed")
	_ = that.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = that.conn.Close()
}

func (that *client) writeLocked(action string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
