package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	actionConnect     = "connect"
	actionGameNew     = "game:new"
	actionGameTurn    = "game:turn"
	actionGameRestart = "game:restart"
	actionGameLeave   = "game:leave"
	actionError       = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player   *entity.Player  `json:"player,omitempty"`
	Game     *entity.Game    `json:"game,omitempty"`
	Settings *Settings       `json:"settings,omitempty"`
	Cell     *int            `json:"cell,omitempty"`
	Move     *tictactoe.Move `json:"move,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Settings of a new game. Depth is taken as typed by the user: empty or
// anything that is not a non-negative number means no limit.
type Settings struct {
	Mode      string  `json:"mode"`
	Algorithm string  `json:"algorithm,omitempty"`
	Depth     *string `json:"depth,omitempty"`
}

// maskGameDetails hides the seating details from the game payload.
func maskGameDetails(game *entity.Game) *entity.Game {
	masked := *game
	masked.Players = nil

	return &masked
}

// humanPlayer returns the first seat that is not the computer.
func humanPlayer(game *entity.Game) *entity.Player {
	for _, player := range game.Players {
		if !player.IsBot() {
			return player
		}
	}

	return nil
}
