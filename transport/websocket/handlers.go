package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

var (
	errMalformedMessage = errors.New("malformed message")
	errUnknownAction    = errors.New("unknown action")
	errPlayerRequired   = errors.New("player is required")
	errCellRequired     = errors.New("cell is required")
	errInternal         = errors.New("internal error")
)

// publicErrors are reported to the client as is, most specific first.
var publicErrors = []error{
	errMalformedMessage,
	errUnknownAction,
	errPlayerRequired,
	errCellRequired,
	apperror.ErrCellOccupied,
	entity.ErrInvalidCell,
	apperror.ErrInvalidMove,
	apperror.ErrGameFinished,
	apperror.ErrNotYourTurn,
	apperror.ErrNoActiveGames,
	tictactoe.ErrUnknownAlgorithm,
	entity.ErrUnknownMode,
}

func (that *Server) handleConnect(ctx context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(client, msg.Action, errMalformedMessage)
		return err
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		that.sendError(client, msg.Action, err)
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	client.setPlayerID(player.ID)

	payloadResp := Payload{Player: player}

	var game *entity.Game
	if player.GameID != "" {
		game, err = that.gameUseCase.GetGame(ctx, player.ID)
		if err != nil {
			log.Warn("failed to restore game", "playerID", player.ID, "error", err)
		} else {
			payloadResp.Game = maskGameDetails(game)
		}
	}

	if err = client.sendMessage(msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	// the reply planned before a reconnect was lost with the old connection
	if game != nil && game.IsBotTurn() {
		that.scheduleBotTurn(ctx, client, player.ID)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, playerID, err := that.decodeRequest(client, msg)
	if err != nil {
		return err
	}

	var settings usecase.GameSettings
	if payloadReq.Settings != nil {
		settings = usecase.GameSettings{
			Mode:      payloadReq.Settings.Mode,
			Algorithm: payloadReq.Settings.Algorithm,
			Depth:     payloadReq.Settings.Depth,
		}
	}

	client.cancelBot()

	game, err := that.gameUseCase.NewGame(ctx, playerID, settings)
	if err != nil {
		that.sendError(client, msg.Action, err)
		return fmt.Errorf("failed to create a new game: %w", err)
	}

	payloadResp := Payload{
		Player: humanPlayer(game),
		Game:   maskGameDetails(game),
	}

	if err = client.sendMessage(msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("game created", "gameID", game.ID, "mode", game.Mode, "algorithm", game.Algorithm)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, playerID, err := that.decodeRequest(client, msg)
	if err != nil {
		return err
	}

	if payloadReq.Cell == nil {
		that.sendError(client, msg.Action, errCellRequired)
		return errCellRequired
	}

	game, err := that.gameUseCase.MakeTurn(ctx, playerID, *payloadReq.Cell)
	if err != nil {
		that.sendError(client, msg.Action, err)
		return fmt.Errorf("failed to make turn: %w", err)
	}

	if err = client.sendMessage(msg.Action, Payload{Game: maskGameDetails(game)}); err != nil {
		return fmt.Errorf("failed to send game update: %w", err)
	}

	log.Debug("player made a turn", "gameID", game.ID, "cell", *payloadReq.Cell)

	if game.IsBotTurn() {
		that.scheduleBotTurn(ctx, client, playerID)
	}

	return nil
}

func (that *Server) handleGameRestart(ctx context.Context, client *client, msg *Message) error {
	_, playerID, err := that.decodeRequest(client, msg)
	if err != nil {
		return err
	}

	client.cancelBot()

	game, err := that.gameUseCase.RestartGame(ctx, playerID)
	if err != nil {
		that.sendError(client, msg.Action, err)
		return fmt.Errorf("failed to restart game: %w", err)
	}

	if err = client.sendMessage(msg.Action, Payload{Game: maskGameDetails(game)}); err != nil {
		return fmt.Errorf("failed to send game update: %w", err)
	}

	return nil
}

func (that *Server) handleGameLeave(ctx context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleGameLeave")

	_, playerID, err := that.decodeRequest(client, msg)
	if err != nil {
		return err
	}

	client.cancelBot()

	if err = that.gameUseCase.LeaveGame(ctx, playerID); err != nil {
		that.sendError(client, msg.Action, err)
		return fmt.Errorf("failed to leave game: %w", err)
	}

	if err = client.sendMessage(msg.Action, Payload{Player: &entity.Player{ID: playerID}}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("player left the game", "playerID", playerID)

	return nil
}

// scheduleBotTurn computes the bot reply right away and commits it after the
// presentation delay. A reply overtaken by a restart or a new game is dropped.
func (that *Server) scheduleBotTurn(ctx context.Context, client *client, playerID string) {
	log := that.logger.With("method", "scheduleBotTurn", "playerID", playerID)

	plan, err := that.gameUseCase.PlanBotTurn(ctx, playerID)
	if err != nil {
		log.Error("failed to plan bot turn", "error", err)
		that.sendError(client, actionGameTurn, err)
		return
	}

	// cancelBot does not wait for a running callback; the commit is serialized
	// with restart and leave per player and turns stale if they got there first.
	client.scheduleBot(that.botDelay, func() {
		game, err := that.gameUseCase.CommitBotTurn(ctx, playerID, plan)
		if errors.Is(err, apperror.ErrStaleMove) {
			log.Debug("bot turn dropped", "cell", plan.Move.Cell)
			return
		}

		if err != nil {
			log.Error("failed to commit bot turn", "error", err)
			that.sendError(client, actionGameTurn, err)
			return
		}

		move := plan.Move
		if err = client.sendMessage(actionGameTurn, Payload{Game: maskGameDetails(game), Move: &move}); err != nil {
			log.Error("failed to send bot turn", "error", err)
		}
	})
}

// decodeRequest reads the payload and resolves the acting player: the one in
// the payload, else the one bound by connect.
func (that *Server) decodeRequest(client *client, msg *Message) (Payload, string, error) {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(client, msg.Action, errMalformedMessage)
		return Payload{}, "", err
	}

	playerID := client.getPlayerID()
	if payloadReq.Player != nil && payloadReq.Player.ID != "" {
		playerID = payloadReq.Player.ID
	}

	if playerID == "" {
		that.sendError(client, msg.Action, errPlayerRequired)
		return Payload{}, "", errPlayerRequired
	}

	return payloadReq, playerID, nil
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return Payload{}, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}

func (that *Server) sendError(client *client, action string, err error) {
	if sendErr := client.sendMessage(action, Payload{Error: publicMessage(err)}); sendErr != nil {
		that.logger.Error("failed to send error response", "action", action, "error", sendErr)
	}
}

func publicMessage(err error) string {
	for _, public := range publicErrors {
		if errors.Is(err, public) {
			return public.Error()
		}
	}

	return errInternal.Error()
}
