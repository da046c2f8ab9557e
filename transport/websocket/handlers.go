package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

func (that *Server) handleGameTurn(ctx context.Context, sessionID string, msg *Message, c *client) error {
	var payloadReq RequestPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return c.sendError(msg.Action, "malformed payload")
	}

	if payloadReq.Cell == nil {
		return c.sendError(msg.Action, "cell is required")
	}

	snapshot, err := that.uc.MakeMove(ctx, sessionID, *payloadReq.Cell)

	return that.respond(c, msg.Action, snapshot, err)
}

func (that *Server) handleDifficulty(ctx context.Context, sessionID string, msg *Message, c *client) error {
	var payloadReq RequestPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return c.sendError(msg.Action, "malformed payload")
	}

	difficulty, err := entity.ParseDifficulty(payloadReq.Difficulty)
	if err != nil {
		return c.sendError(msg.Action, err.Error())
	}

	snapshot, err := that.uc.SetDifficulty(ctx, sessionID, difficulty)

	return that.respond(c, msg.Action, snapshot, err)
}

func (that *Server) handleNewGame(ctx context.Context, sessionID string, msg *Message, c *client) error {
	snapshot, err := that.uc.NewGame(ctx, sessionID)

	return that.respond(c, msg.Action, snapshot, err)
}

func (that *Server) handleResetBoard(ctx context.Context, sessionID string, msg *Message, c *client) error {
	snapshot, err := that.uc.ResetBoard(ctx, sessionID)

	return that.respond(c, msg.Action, snapshot, err)
}

// respond sends the resulting state, or the rejection reason for game rule errors.
func (that *Server) respond(c *client, action string, snapshot *entity.Snapshot, err error) error {
	switch {
	case err == nil:
		return c.sendState(snapshot)
	case errors.Is(err, apperror.ErrInvalidMove), errors.Is(err, apperror.ErrSessionNotFound):
		return c.sendError(action, err.Error())
	default:
		if sendErr := c.sendError(action, "internal error"); sendErr != nil {
			return errors.Join(err, sendErr)
		}

		return fmt.Errorf("%s failed: %w", action, err)
	}
}
