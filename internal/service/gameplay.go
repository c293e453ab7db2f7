package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type GamePlayService interface {
	StartGame(ctx context.Context, playerID string, settings entity.Settings) (*entity.Game, error)
	GetGameState(ctx context.Context, playerID string) (*entity.Game, error)
	RestartGame(ctx context.Context, playerID string) (*entity.Game, error)
	LeaveGame(ctx context.Context, playerID string) error
	CleanupGame(ctx context.Context, game *entity.Game)

	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error)
	PlanBotTurn(ctx context.Context, playerID string) (*entity.Game, tictactoe.Move, error)
	CommitBotTurn(ctx context.Context, playerID string, planned entity.Board, cell int) (*entity.Game, error)
}

type gamePlayService struct {
	logger *slog.Logger

	playerService PlayerService
	gameService   GameService
	botService    BotService

	// playerLocks holds one *sync.Mutex per player. Every read-modify-write
	// of a player's game runs under it.
	playerLocks sync.Map
}

func NewGamePlayService(logger *slog.Logger, playerService PlayerService, gameService GameService, botService BotService) GamePlayService {
	return &gamePlayService{
		logger:        logger,
		playerService: playerService,
		gameService:   gameService,
		botService:    botService,
	}
}

// StartGame creates a fresh game for the player. A game the player was still
// sitting in is dropped first.
func (that *gamePlayService) StartGame(ctx context.Context, playerID string, settings entity.Settings) (*entity.Game, error) {
	if err := entity.ValidateMode(settings.Mode); err != nil {
		return nil, err
	}

	defer that.lockPlayer(playerID)()

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID != "" {
		if previous, err := that.gameService.GetGameByID(ctx, player.GameID); err == nil {
			that.CleanupGame(ctx, previous)
		}
	}

	game, err := that.gameService.CreateGame(ctx, player, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) GetGameState(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.gameOfPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return game, nil
}

// MakeTurn applies a human move. In multi mode both marks are played from the
// same seat, so the mark is whoever's turn it is.
func (that *gamePlayService) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	defer that.lockPlayer(playerID)()

	player, game, err := that.gameOfPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, err
	}

	mark := player.Mark
	if !game.IsWithBot() {
		mark = game.Turn
	}

	if err = game.MakeTurn(mark, cell); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// PlanBotTurn computes the computer's reply without committing it.
func (that *gamePlayService) PlanBotTurn(ctx context.Context, playerID string) (*entity.Game, tictactoe.Move, error) {
	_, game, err := that.gameOfPlayer(ctx, playerID)
	if err != nil {
		return nil, tictactoe.Move{}, err
	}

	move, err := that.botService.PlanTurn(game)
	if err != nil {
		return game, tictactoe.Move{}, fmt.Errorf("failed to plan bot turn: %w", err)
	}

	return game, move, nil
}

// CommitBotTurn applies a planned move. planned is the board the move was
// computed on; if the game moved on in the meantime the move is rejected.
func (that *gamePlayService) CommitBotTurn(ctx context.Context, playerID string, planned entity.Board, cell int) (*entity.Game, error) {
	defer that.lockPlayer(playerID)()

	_, game, err := that.gameOfPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if game.Board != planned || !game.IsBotTurn() {
		return game, apperror.ErrStaleMove
	}

	if err = that.botService.CommitTurn(game, cell); err != nil {
		return game, fmt.Errorf("failed to commit bot turn: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) RestartGame(ctx context.Context, playerID string) (*entity.Game, error) {
	defer that.lockPlayer(playerID)()

	_, game, err := that.gameOfPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	game.Restart()

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) LeaveGame(ctx context.Context, playerID string) error {
	defer that.lockPlayer(playerID)()

	_, game, err := that.gameOfPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	that.CleanupGame(ctx, game)

	return nil
}

// CleanupGame deletes the game and frees its human players. It takes no lock;
// callers acting for a player go through LeaveGame or StartGame.
func (that *gamePlayService) CleanupGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "CleanupGame", "gameID", game.ID)

	if err := that.gameService.DeleteGame(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		player.GameID = ""
		player.Mark = ""
		if err := that.playerService.UpdatePlayer(ctx, player); err != nil {
			log.Error("failed to update", "player", player.ID, "error", err)
		}
	}
}

// lockPlayer blocks until the player's lock is held and returns the unlock.
func (that *gamePlayService) lockPlayer(playerID string) func() {
	value, _ := that.playerLocks.LoadOrStore(playerID, &sync.Mutex{})

	mutex, _ := value.(*sync.Mutex)
	mutex.Lock()

	return mutex.Unlock
}

func (that *gamePlayService) gameOfPlayer(ctx context.Context, playerID string) (*entity.Player, *entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return player, nil, apperror.ErrNoActiveGames
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return player, nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return player, game, nil
}
