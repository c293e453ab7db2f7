package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const maxBodySize = 4096

var (
	errMalformedBody = errors.New("malformed request body")
	errCellRequired  = errors.New("cell is required")
)

type BoardHandler interface {
	NewBoard(w http.ResponseWriter, r *http.Request)
	ApplyMove(w http.ResponseWriter, r *http.Request)
	Evaluate(w http.ResponseWriter, r *http.Request)
	BestMove(w http.ResponseWriter, r *http.Request)
}

type boardHandler struct {
	logger *slog.Logger

	defaultAlgorithm tictactoe.Algorithm
	defaultDepth     tictactoe.Depth
}

// NewBoardHandler serves the stateless engine. Searches that do not name an
// algorithm or depth use the given defaults.
func NewBoardHandler(logger *slog.Logger, defaultAlgorithm tictactoe.Algorithm, defaultDepth tictactoe.Depth) BoardHandler {
	return &boardHandler{
		logger:           logger.With("component", "rest"),
		defaultAlgorithm: defaultAlgorithm,
		defaultDepth:     defaultDepth,
	}
}

type boardResponse struct {
	Board  entity.Board `json:"board"`
	Result string       `json:"result"`
}

type moveRequest struct {
	Board entity.Board `json:"board"`
	Cell  *int         `json:"cell"`
	Mark  string       `json:"mark"`
}

type evaluateRequest struct {
	Board entity.Board `json:"board"`
}

type evaluateResponse struct {
	Result   string `json:"result"`
	Finished bool   `json:"finished"`
}

// bestMoveRequest: an absent or null depth falls back to the server default.
type bestMoveRequest struct {
	Board     entity.Board     `json:"board"`
	Mark      string           `json:"mark"`
	Algorithm string           `json:"algorithm"`
	Depth     *tictactoe.Depth `json:"depth"`
}

type bestMoveResponse struct {
	tictactoe.Move

	Algorithm tictactoe.Algorithm `json:"algorithm"`
	Depth     tictactoe.Depth     `json:"depth"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *boardHandler) NewBoard(w http.ResponseWriter, _ *http.Request) {
	board := tictactoe.ResetBoard()

	that.writeJSON(w, http.StatusOK, boardResponse{Board: board, Result: tictactoe.EvaluateTerminal(board)})
}

func (that *boardHandler) ApplyMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.Cell == nil {
		that.writeError(w, http.StatusBadRequest, errCellRequired)
		return
	}

	if err := req.Board.Validate(); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	board, err := tictactoe.ApplyMove(req.Board, *req.Cell, req.Mark)
	if err != nil {
		that.writeError(w, moveStatus(err), err)
		return
	}

	that.writeJSON(w, http.StatusOK, boardResponse{Board: board, Result: tictactoe.EvaluateTerminal(board)})
}

func (that *boardHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := req.Board.Validate(); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	result := tictactoe.EvaluateTerminal(req.Board)

	that.writeJSON(w, http.StatusOK, evaluateResponse{Result: result, Finished: result != entity.EmptyCell})
}

func (that *boardHandler) BestMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "BestMove")

	var req bestMoveRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := req.Board.Validate(); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	algorithm := that.defaultAlgorithm
	if req.Algorithm != "" {
		parsed, err := tictactoe.ParseAlgorithm(req.Algorithm)
		if err != nil {
			that.writeError(w, http.StatusBadRequest, err)
			return
		}

		algorithm = parsed
	}

	depth := that.defaultDepth
	if req.Depth != nil {
		depth = *req.Depth
	}

	move, err := tictactoe.ComputeBestMove(req.Board, req.Mark, algorithm, depth)
	if err != nil {
		that.writeError(w, bestMoveStatus(err), err)
		return
	}

	log.Debug("best move computed", "algorithm", algorithm, "depth", depth.String(), "cell", move.Cell, "nodes", move.Nodes)

	that.writeJSON(w, http.StatusOK, bestMoveResponse{Move: move, Algorithm: algorithm, Depth: depth})
}

// moveStatus maps a rejected move to a status: every InvalidMove is the
// client's fault but well formed.
func moveStatus(err error) int {
	if errors.Is(err, apperror.ErrInvalidMove) {
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

// bestMoveStatus maps search errors: a finished or full board is a
// precondition violation, an unknown mark is malformed input.
func bestMoveStatus(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameFinished), errors.Is(err, tictactoe.ErrNoAvailableMoves):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrInvalidMark), errors.Is(err, tictactoe.ErrUnknownAlgorithm):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}

	return nil
}

func (that *boardHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *boardHandler) writeError(w http.ResponseWriter, status int, err error) {
	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}
