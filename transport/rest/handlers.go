package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-ai/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
)

var errCellRequired = errors.New("cell is required")

type handlers struct {
	logger            *slog.Logger
	uc                sessionUseCase
	defaultDifficulty entity.Difficulty
}

type difficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error    string           `json:"error"`
	Snapshot *entity.Snapshot `json:"snapshot,omitempty"`
}

func (that *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var req difficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		that.writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	difficulty := that.defaultDifficulty
	if req.Difficulty != "" {
		var err error
		if difficulty, err = entity.ParseDifficulty(req.Difficulty); err != nil {
			that.writeError(w, http.StatusBadRequest, err, nil)
			return
		}
	}

	snapshot, err := that.uc.CreateSession(r.Context(), difficulty)
	if err != nil {
		that.handleError(w, "createSession", err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, snapshot)
}

func (that *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.uc.GetSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.handleError(w, "getSession", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := that.uc.CloseSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.handleError(w, "closeSession", err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	if req.Cell == nil {
		that.writeError(w, http.StatusBadRequest, errCellRequired, nil)
		return
	}

	snapshot, err := that.uc.MakeMove(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		that.handleError(w, "makeMove", err, snapshot)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) setDifficulty(w http.ResponseWriter, r *http.Request) {
	var req difficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	difficulty, err := entity.ParseDifficulty(req.Difficulty)
	if err != nil {
		that.writeError(w, http.StatusBadRequest, err, nil)
		return
	}

	snapshot, err := that.uc.SetDifficulty(r.Context(), chi.URLParam(r, "id"), difficulty)
	if err != nil {
		that.handleError(w, "setDifficulty", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) newGame(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.uc.NewGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.handleError(w, "newGame", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) resetBoard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.uc.ResetBoard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.handleError(w, "resetBoard", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

// handleError maps use case errors to status codes.
func (that *handlers) handleError(w http.ResponseWriter, method string, err error, snapshot *entity.Snapshot) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		that.writeError(w, http.StatusNotFound, apperror.ErrSessionNotFound, nil)
	case errors.Is(err, apperror.ErrInvalidMove):
		that.writeError(w, http.StatusConflict, err, snapshot)
	case errors.Is(err, apperror.ErrUnknownDifficulty):
		that.writeError(w, http.StatusBadRequest, err, nil)
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeError(w, http.StatusInternalServerError, errors.New(http.StatusText(http.StatusInternalServerError)), nil)
	}
}

func (that *handlers) writeError(w http.ResponseWriter, status int, err error, snapshot *entity.Snapshot) {
	that.writeJSON(w, status, errorResponse{Error: err.Error(), Snapshot: snapshot})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
