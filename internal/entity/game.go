package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

const (
	// SingleMode is a human (X) against the computer (O).
	SingleMode = "single"
	// MultiMode is two humans sharing one connection.
	MultiMode = "multi"
)

var (
	ErrUnknownGameStatus = errors.New("unknown game status")
	ErrUnknownMode       = errors.New("unknown game mode")
)

type Game struct {
	ID        string    `json:"id"`
	Board     Board     `json:"board"`
	Winner    string    `json:"winner"`
	Status    string    `json:"status"`
	Turn      string    `json:"player_turn"`
	Mode      string    `json:"mode"`
	Algorithm string    `json:"algorithm,omitempty"`
	Depth     *int      `json:"depth"`
	Players   []*Player `json:"players,omitempty"`
}

// NewGame creates an ongoing game with X to move. A nil depth means the
// search runs until the end of the game.
func NewGame(id, mode, algorithm string, depth *int) *Game {
	return &Game{
		ID:        id,
		Board:     Board{},
		Turn:      PlayerX,
		Status:    StatusOngoing,
		Mode:      mode,
		Algorithm: algorithm,
		Depth:     depth,
	}
}

func ValidateMode(mode string) error {
	switch mode {
	case SingleMode, MultiMode:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

func (that *Game) DetermineGameResult() string {
	return that.Board.Result()
}

func (that *Game) UpdateGameState() {
	switch winner := that.DetermineGameResult(); winner {
	// one player wins
	case PlayerX, PlayerO:
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = ""
	// tie
	case PlayerTie:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = ""
	// game continue
	default:
		that.Status = StatusOngoing
	}
}

func (that *Game) MakeTurn(playerMark string, cell int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= BoardSize {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if err := that.Board.Place(cell, playerMark); err != nil {
		return err
	}

	that.Turn = Opponent(that.Turn)

	that.UpdateGameState()

	return nil
}

// Restart clears the board and hands the first move back to X. Mode,
// algorithm, depth and players are kept.
func (that *Game) Restart() {
	that.Board.Reset()
	that.Turn = PlayerX
	that.Winner = ""
	that.Status = StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsWithBot() bool {
	return that.Mode == SingleMode
}

func (that *Game) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}

	return nil
}

// IsBotTurn reports whether the computer has to move next.
func (that *Game) IsBotTurn() bool {
	if !that.IsWithBot() || !that.IsOngoing() {
		return false
	}

	bot := that.BotPlayer()

	return bot != nil && bot.Mark == that.Turn
}

// Settings are chosen once per game and survive restarts.
type Settings struct {
	Mode      string `json:"mode"`
	Algorithm string `json:"algorithm,omitempty"`
	Depth     *int   `json:"depth"`
}
