package tictactoe

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// Move is the outcome of one search: the chosen cell, its score for the
// searching side and the number of visited nodes.
type Move struct {
	Cell  int `json:"cell"`
	Score int `json:"score"`
	Nodes int `json:"nodes"`
}

// ComputeBestMove picks the move for mark on board. The board is copied, the
// caller's value is never touched.
func ComputeBestMove(board entity.Board, mark string, algorithm Algorithm, depth Depth) (Move, error) {
	return bestMove(&board, mark, algorithm, depth)
}

// SelectMove picks the move for mark and commits it to board.
func SelectMove(board *entity.Board, mark string, algorithm Algorithm, depth Depth) (Move, error) {
	move, err := bestMove(board, mark, algorithm, depth)
	if err != nil {
		return Move{}, err
	}

	if err = board.Place(move.Cell, mark); err != nil {
		return Move{}, fmt.Errorf("failed to apply selected move: %w", err)
	}

	return move, nil
}

// ApplyMove returns a copy of board with mark placed on cell. On error the
// returned board equals the input.
func ApplyMove(board entity.Board, cell int, mark string) (entity.Board, error) {
	updated := board
	if err := updated.Place(cell, mark); err != nil {
		return board, err
	}

	return updated, nil
}

// EvaluateTerminal returns the winning mark, entity.PlayerTie for a draw or
// entity.EmptyCell when the game is not over.
func EvaluateTerminal(board entity.Board) string {
	return board.Result()
}

func ResetBoard() entity.Board {
	return entity.Board{}
}

func bestMove(board *entity.Board, mark string, algorithm Algorithm, depth Depth) (Move, error) {
	if mark != entity.PlayerX && mark != entity.PlayerO {
		return Move{}, fmt.Errorf("%w: %q", entity.ErrInvalidMark, mark)
	}

	if algorithm != AlgorithmMinimax && algorithm != AlgorithmAlphaBeta {
		return Move{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}

	if board.Result() != entity.EmptyCell {
		return Move{}, apperror.ErrGameFinished
	}

	cells := board.EmptyCells()
	if len(cells) == 0 {
		return Move{}, ErrNoAvailableMoves
	}

	// a move that completes a line ends the game, nothing can beat it
	for _, cell := range cells {
		board[cell] = mark
		won := board.Result() == mark
		board.Clear(cell)

		if won {
			return Move{Cell: cell, Score: WinScore}, nil
		}
	}

	search := newSearcher(board, mark)

	best := Move{Cell: cells[0], Score: -Infinity}
	for _, cell := range cells {
		board[cell] = mark
		score := search.run(algorithm, depth.Next(), false)
		board.Clear(cell)

		// strictly greater: the first of equally good moves wins
		if score > best.Score {
			best.Cell = cell
			best.Score = score
		}
	}

	best.Nodes = search.nodes

	return best, nil
}
