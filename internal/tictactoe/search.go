package tictactoe

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	WinScore  = 10
	LossScore = -10
	DrawScore = 0

	// Infinity bounds every score the search can produce.
	Infinity = math.MaxInt
)

// searcher walks the game tree on a single board buffer. Each node places a
// mark, recurses and clears the same cell before looking at the next one, so
// the board is back to its original state whenever a call returns.
type searcher struct {
	board     *entity.Board
	maximizer string
	minimizer string

	nodes int
}

func newSearcher(board *entity.Board, maximizer string) *searcher {
	return &searcher{
		board:     board,
		maximizer: maximizer,
		minimizer: entity.Opponent(maximizer),
	}
}

// Minimax scores board for maximizer with plain minimax. maximizing tells
// whose turn it is on board.
func Minimax(board *entity.Board, maximizer string, depth Depth, maximizing bool) int {
	return newSearcher(board, maximizer).minimax(depth, maximizing)
}

// AlphaBeta is Minimax with alpha-beta pruning. Called with the full window
// (-Infinity, Infinity) it returns exactly the Minimax score.
func AlphaBeta(board *entity.Board, maximizer string, depth Depth, alpha, beta int, maximizing bool) int {
	return newSearcher(board, maximizer).alphaBeta(depth, alpha, beta, maximizing)
}

func (that *searcher) run(algorithm Algorithm, depth Depth, maximizing bool) int {
	if algorithm == AlgorithmMinimax {
		return that.minimax(depth, maximizing)
	}

	return that.alphaBeta(depth, -Infinity, Infinity, maximizing)
}

// terminalScore maps a finished board to a score. Wins are not discounted by
// depth.
func (that *searcher) terminalScore() (int, bool) {
	switch that.board.Result() {
	case that.maximizer:
		return WinScore, true
	case that.minimizer:
		return LossScore, true
	case entity.PlayerTie:
		return DrawScore, true
	default:
		return 0, false
	}
}

func (that *searcher) mover(maximizing bool) string {
	if maximizing {
		return that.maximizer
	}
	return that.minimizer
}

func (that *searcher) minimax(depth Depth, maximizing bool) int {
	that.nodes++

	if score, ok := that.terminalScore(); ok {
		return score
	}

	if depth.Exhausted() {
		return HeuristicScore(that.board, that.maximizer)
	}

	mark := that.mover(maximizing)

	best := Infinity
	if maximizing {
		best = -Infinity
	}

	for _, cell := range that.board.EmptyCells() {
		that.board[cell] = mark
		score := that.minimax(depth.Next(), !maximizing)
		that.board.Clear(cell)

		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}

	return best
}

func (that *searcher) alphaBeta(depth Depth, alpha, beta int, maximizing bool) int {
	that.nodes++

	if score, ok := that.terminalScore(); ok {
		return score
	}

	if depth.Exhausted() {
		return HeuristicScore(that.board, that.maximizer)
	}

	mark := that.mover(maximizing)

	if maximizing {
		best := -Infinity
		for _, cell := range that.board.EmptyCells() {
			that.board[cell] = mark
			score := that.alphaBeta(depth.Next(), alpha, beta, false)
			that.board.Clear(cell)

			best = max(best, score)
			alpha = max(alpha, best)
			if alpha >= beta {
				break
			}
		}

		return best
	}

	best := Infinity
	for _, cell := range that.board.EmptyCells() {
		that.board[cell] = mark
		score := that.alphaBeta(depth.Next(), alpha, beta, true)
		that.board.Clear(cell)

		best = min(best, score)
		beta = min(beta, best)
		if alpha >= beta {
			break
		}
	}

	return best
}
