package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type GameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	NewGame(ctx context.Context, playerID string, settings GameSettings) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)
	RestartGame(ctx context.Context, playerID string) (*entity.Game, error)
	LeaveGame(ctx context.Context, playerID string) error

	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	PlanBotTurn(ctx context.Context, playerID string) (BotPlan, error)
	CommitBotTurn(ctx context.Context, playerID string, plan BotPlan) (*entity.Game, error)
}

type playerService interface {
	CreatePlayer(ctx context.Context) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
}

type gamePlayService interface {
	StartGame(ctx context.Context, playerID string, settings entity.Settings) (*entity.Game, error)
	GetGameState(ctx context.Context, playerID string) (*entity.Game, error)
	RestartGame(ctx context.Context, playerID string) (*entity.Game, error)
	LeaveGame(ctx context.Context, playerID string) error

	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	PlanBotTurn(ctx context.Context, playerID string) (*entity.Game, tictactoe.Move, error)
	CommitBotTurn(ctx context.Context, playerID string, planned entity.Board, cell int) (*entity.Game, error)
}

// Defaults apply when a new game does not name its own algorithm or depth.
type Defaults struct {
	Algorithm tictactoe.Algorithm
	Depth     tictactoe.Depth
}

// GameSettings is what a client asks for. Empty fields fall back to Defaults;
// Depth is the raw user input, nil meaning "not given".
type GameSettings struct {
	Mode      string
	Algorithm string
	Depth     *string
}

// BotPlan is a computed but not yet committed bot move together with the
// board it was computed on.
type BotPlan struct {
	Board entity.Board
	Move  tictactoe.Move
}

type gameUseCase struct {
	playerService   playerService
	gamePlayService gamePlayService

	defaults Defaults
}

func NewGameUseCase(playerService playerService, gamePlayService gamePlayService, defaults Defaults) GameUseCase {
	return &gameUseCase{
		playerService:   playerService,
		gamePlayService: gamePlayService,
		defaults:        defaults,
	}
}

// GetOrCreatePlayer returns the player behind a session id. An empty or
// expired id gets a brand new player.
func (that *gameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID != "" {
		player, err := that.playerService.GetPlayerByID(ctx, playerID)
		if err == nil {
			return player, nil
		}

		if !errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, fmt.Errorf("failed to get player by id: %w", err)
		}
	}

	player, err := that.playerService.CreatePlayer(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create player: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) NewGame(ctx context.Context, playerID string, settings GameSettings) (*entity.Game, error) {
	resolved, err := that.resolveSettings(settings)
	if err != nil {
		return nil, err
	}

	game, err := that.gamePlayService.StartGame(ctx, playerID, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.GetGameState(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) RestartGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.RestartGame(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) LeaveGame(ctx context.Context, playerID string) error {
	if err := that.gamePlayService.LeaveGame(ctx, playerID); err != nil {
		return fmt.Errorf("failed to leave game: %w", err)
	}

	return nil
}

func (that *gameUseCase) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	game, err := that.gamePlayService.MakeTurn(ctx, playerID, cell)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) PlanBotTurn(ctx context.Context, playerID string) (BotPlan, error) {
	game, move, err := that.gamePlayService.PlanBotTurn(ctx, playerID)
	if err != nil {
		return BotPlan{}, fmt.Errorf("failed to plan bot turn: %w", err)
	}

	return BotPlan{Board: game.Board, Move: move}, nil
}

func (that *gameUseCase) CommitBotTurn(ctx context.Context, playerID string, plan BotPlan) (*entity.Game, error) {
	game, err := that.gamePlayService.CommitBotTurn(ctx, playerID, plan.Board, plan.Move.Cell)
	if err != nil {
		return nil, fmt.Errorf("failed to commit bot turn: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) resolveSettings(settings GameSettings) (entity.Settings, error) {
	mode := settings.Mode
	if mode == "" {
		mode = entity.SingleMode
	}

	if err := entity.ValidateMode(mode); err != nil {
		return entity.Settings{}, err
	}

	algorithm := that.defaults.Algorithm
	if settings.Algorithm != "" {
		parsed, err := tictactoe.ParseAlgorithm(settings.Algorithm)
		if err != nil {
			return entity.Settings{}, err
		}

		algorithm = parsed
	}

	depth := that.defaults.Depth
	if settings.Depth != nil {
		depth = tictactoe.ParseDepth(*settings.Depth)
	}

	return entity.Settings{
		Mode:      mode,
		Algorithm: algorithm.String(),
		Depth:     depth.Pointer(),
	}, nil
}
