package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

// BoardSize is the number of cells on the grid.
const BoardSize = 9

var (
	ErrInvalidCell = fmt.Errorf("%w: invalid cell index", apperror.ErrInvalidMove)
	ErrInvalidMark = fmt.Errorf("%w: unknown mark", apperror.ErrInvalidMove)

	// WinCombos lists every row, column and diagonal of the grid.
	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Board is the 3x3 grid in row-major order.
type Board [BoardSize]string

func (that *Board) IsEmpty(cell int) bool {
	return isValidCell(cell) && that[cell] == EmptyCell
}

// Place puts mark on cell. The board is left untouched on error.
func (that *Board) Place(cell int, mark string) error {
	if !isValidCell(cell) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if mark != PlayerX && mark != PlayerO {
		return fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}

	if that[cell] != EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that[cell] = mark

	return nil
}

// Clear empties cell; it undoes a Place during search.
func (that *Board) Clear(cell int) {
	if isValidCell(cell) {
		that[cell] = EmptyCell
	}
}

// EmptyCells returns the indices of the empty cells in ascending order.
func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) Reset() {
	*that = Board{}
}

// Result reports the terminal state of the board: the winning mark,
// PlayerTie for a draw or EmptyCell while the game goes on.
func (that *Board) Result() string {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	// the game will continue until all the squares are full
	if !that.IsFull() {
		return EmptyCell
	}

	return PlayerTie
}

// Validate checks that every cell is empty or holds a known mark.
func (that *Board) Validate() error {
	for i, cell := range that {
		if cell != EmptyCell && cell != PlayerX && cell != PlayerO {
			return fmt.Errorf("%w: %q at cell %d", ErrInvalidMark, cell, i)
		}
	}

	return nil
}

// Opponent returns the other mark.
func Opponent(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func isValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}
