package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

const (
	fullLineScore = 10
	nearLineScore = 1
)

// HeuristicScore rates a board for maximizer by looking at every winning
// line: a full line is worth 10, two marks next to an empty cell are worth 1.
// The opponent's lines count negatively.
func HeuristicScore(board *entity.Board, maximizer string) int {
	minimizer := entity.Opponent(maximizer)

	score := 0
	for _, combo := range entity.WinCombos {
		var own, other, empty int
		for _, cell := range combo {
			switch board[cell] {
			case maximizer:
				own++
			case minimizer:
				other++
			default:
				empty++
			}
		}

		switch {
		case own == 3:
			score += fullLineScore
		case other == 3:
			score -= fullLineScore
		case own == 2 && empty == 1:
			score += nearLineScore
		case other == 2 && empty == 1:
			score -= nearLineScore
		}
	}

	return score
}
