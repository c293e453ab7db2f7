package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var ErrBotNotFound = errors.New("bot player not found")

type BotService interface {
	PlanTurn(game *entity.Game) (tictactoe.Move, error)
	CommitTurn(game *entity.Game, cell int) error
}

type botService struct {
	logger *slog.Logger
}

func NewBotService(logger *slog.Logger) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
	}
}

// PlanTurn searches the best move for the bot without touching the game.
func (that *botService) PlanTurn(game *entity.Game) (tictactoe.Move, error) {
	log := that.logger.With("method", "PlanTurn", "gameID", game.ID)

	bot := game.BotPlayer()
	if bot == nil {
		return tictactoe.Move{}, ErrBotNotFound
	}

	if game.Turn != bot.Mark {
		return tictactoe.Move{}, apperror.ErrNotYourTurn
	}

	algorithm, err := tictactoe.ParseAlgorithm(game.Algorithm)
	if err != nil {
		return tictactoe.Move{}, fmt.Errorf("bot can't search: %w", err)
	}

	depth := tictactoe.DepthFromPointer(game.Depth)

	started := time.Now()

	move, err := tictactoe.ComputeBestMove(game.Board, bot.Mark, algorithm, depth)
	if err != nil {
		return tictactoe.Move{}, fmt.Errorf("bot failed to find a move: %w", err)
	}

	log.Debug("bot move planned",
		"algorithm", algorithm,
		"depth", depth.String(),
		"cell", move.Cell,
		"score", move.Score,
		"nodes", move.Nodes,
		"elapsed", time.Since(started),
	)

	return move, nil
}

func (that *botService) CommitTurn(game *entity.Game, cell int) error {
	bot := game.BotPlayer()
	if bot == nil {
		return ErrBotNotFound
	}

	if err := game.MakeTurn(bot.Mark, cell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}
