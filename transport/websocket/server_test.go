package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

type mockGameUseCase struct {
	mock.Mock
}

func (that *mockGameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	args := that.Called(ctx, playerID)

	player, _ := args.Get(0).(*entity.Player)

	return player, args.Error(1)
}

func (that *mockGameUseCase) NewGame(ctx context.Context, playerID string, settings usecase.GameSettings) (*entity.Game, error) {
	args := that.Called(ctx, playerID, settings)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameUseCase) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, playerID)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameUseCase) RestartGame(ctx context.Context, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, playerID)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameUseCase) LeaveGame(ctx context.Context, playerID string) error {
	return that.Called(ctx, playerID).Error(0)
}

func (that *mockGameUseCase) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	args := that.Called(ctx, playerID, cell)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameUseCase) PlanBotTurn(ctx context.Context, playerID string) (usecase.BotPlan, error) {
	args := that.Called(ctx, playerID)

	plan, _ := args.Get(0).(usecase.BotPlan)

	return plan, args.Error(1)
}

func (that *mockGameUseCase) CommitBotTurn(ctx context.Context, playerID string, plan usecase.BotPlan) (*entity.Game, error) {
	args := that.Called(ctx, playerID, plan)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func dial(t *testing.T, gameUseCase gameUseCase) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server := New(logger, gameUseCase, 10*time.Millisecond, []string{"*"})

	httpServer := httptest.NewServer(server.Handler(ctx))
	t.Cleanup(httpServer.Close)

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
		_ = conn.Close()
	})

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload Payload) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: raw}))
}

func receive(t *testing.T, conn *websocket.Conn) (string, Payload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	var payload Payload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return message.Action, payload
}

func singleGame() *entity.Game {
	game := entity.NewGame("g1", entity.SingleMode, "alpha_beta", nil)
	game.Players = []*entity.Player{
		{ID: "p1", Mark: entity.PlayerX, GameID: "g1"},
		entity.NewBotPlayer("g1", entity.PlayerO),
	}

	return game
}

func TestServer_Connect(t *testing.T) {
	t.Run("Creates a player for a new session", func(t *testing.T) {
		// Given: a use case creating player p1
		gameUseCase := &mockGameUseCase{}
		gameUseCase.On("GetOrCreatePlayer", mock.Anything, "").Return(&entity.Player{ID: "p1"}, nil).Once()
		conn := dial(t, gameUseCase)

		// When: connecting without a player
		send(t, conn, actionConnect, Payload{})

		// Then: the new player is returned
		action, payload := receive(t, conn)
		assert.Equal(t, actionConnect, action)
		require.NotNil(t, payload.Player)
		assert.Equal(t, "p1", payload.Player.ID)
		assert.Nil(t, payload.Game)
		gameUseCase.AssertExpectations(t)
	})

	t.Run("Restores the running game", func(t *testing.T) {
		// Given: a player seated in g1
		gameUseCase := &mockGameUseCase{}
		gameUseCase.On("GetOrCreatePlayer", mock.Anything, "p1").
			Return(&entity.Player{ID: "p1", GameID: "g1", Mark: entity.PlayerX}, nil).Once()
		gameUseCase.On("GetGame", mock.Anything, "p1").Return(singleGame(), nil).Once()
		conn := dial(t, gameUseCase)

		// When: reconnecting
		send(t, conn, actionConnect, Payload{Player: &entity.Player{ID: "p1"}})

		// Then: the game comes back without its seating
		_, payload := receive(t, conn)
		require.NotNil(t, payload.Game)
		assert.Equal(t, "g1", payload.Game.ID)
		assert.Empty(t, payload.Game.Players)
	})
}

func TestServer_GameTurn(t *testing.T) {
	t.Run("Pushes the bot reply after the human move", func(t *testing.T) {
		// Given: after X plays 4 the bot answers 0
		afterHuman := singleGame()
		afterHuman.Board[4] = entity.PlayerX
		afterHuman.Turn = entity.PlayerO

		afterBot := singleGame()
		afterBot.Board[4] = entity.PlayerX
		afterBot.Board[0] = entity.PlayerO

		plan := usecase.BotPlan{Board: afterHuman.Board, Move: tictactoe.Move{Cell: 0, Score: tictactoe.DrawScore, Nodes: 42}}

		gameUseCase := &mockGameUseCase{}
		gameUseCase.On("MakeTurn", mock.Anything, "p1", 4).Return(afterHuman, nil).Once()
		gameUseCase.On("PlanBotTurn", mock.Anything, "p1").Return(plan, nil).Once()
		gameUseCase.On("CommitBotTurn", mock.Anything, "p1", plan).Return(afterBot, nil).Once()
		conn := dial(t, gameUseCase)

		// When: the human plays the centre
		cell := 4
		send(t, conn, actionGameTurn, Payload{Player: &entity.Player{ID: "p1"}, Cell: &cell})

		// Then: the human move is echoed, then the bot move follows
		action, payload := receive(t, conn)
		assert.Equal(t, actionGameTurn, action)
		assert.Equal(t, entity.PlayerX, payload.Game.Board[4])
		assert.Nil(t, payload.Move)

		action, payload = receive(t, conn)
		assert.Equal(t, actionGameTurn, action)
		require.NotNil(t, payload.Move)
		assert.Equal(t, 0, payload.Move.Cell)
		assert.Equal(t, entity.PlayerO, payload.Game.Board[0])
		assert.Equal(t, entity.PlayerX, payload.Game.Turn)
	})

	t.Run("Reports an occupied cell", func(t *testing.T) {
		// Given: the cell is taken
		gameUseCase := &mockGameUseCase{}
		gameUseCase.On("MakeTurn", mock.Anything, "p1", 4).Return(nil, apperror.ErrCellOccupied).Once()
		conn := dial(t, gameUseCase)

		// When: playing it
		cell := 4
		send(t, conn, actionGameTurn, Payload{Player: &entity.Player{ID: "p1"}, Cell: &cell})

		// Then: the error names the cause
		action, payload := receive(t, conn)
		assert.Equal(t, actionGameTurn, action)
		assert.Equal(t, apperror.ErrCellOccupied.Error(), payload.Error)
	})

	t.Run("Requires a cell", func(t *testing.T) {
		// Given: no use case call is expected
		conn := dial(t, &mockGameUseCase{})

		// When: sending a turn without a cell
		send(t, conn, actionGameTurn, Payload{Player: &entity.Player{ID: "p1"}})

		// Then: the request is rejected
		_, payload := receive(t, conn)
		assert.Equal(t, errCellRequired.Error(), payload.Error)
	})

	t.Run("Requires a player", func(t *testing.T) {
		// Given: a connection that never said connect
		conn := dial(t, &mockGameUseCase{})

		// When: sending a turn
		cell := 0
		send(t, conn, actionGameTurn, Payload{Cell: &cell})

		// Then: the request is rejected
		_, payload := receive(t, conn)
		assert.Equal(t, errPlayerRequired.Error(), payload.Error)
	})
}

func TestServer_NewGame(t *testing.T) {
	t.Run("Passes the settings through", func(t *testing.T) {
		// Given: a request for minimax with depth 3
		depth := "3"
		settings := usecase.GameSettings{Mode: entity.SingleMode, Algorithm: "minimax", Depth: &depth}

		gameUseCase := &mockGameUseCase{}
		gameUseCase.On("NewGame", mock.Anything, "p1", settings).Return(singleGame(), nil).Once()
		conn := dial(t, gameUseCase)

		// When: starting a game
		send(t, conn, actionGameNew, Payload{
			Player:   &entity.Player{ID: "p1"},
			Settings: &Settings{Mode: entity.SingleMode, Algorithm: "minimax", Depth: &depth},
		})

		// Then: the human seat and the game are returned
		action, payload := receive(t, conn)
		assert.Equal(t, actionGameNew, action)
		require.NotNil(t, payload.Player)
		assert.Equal(t, entity.PlayerX, payload.Player.Mark)
		assert.Equal(t, "g1", payload.Game.ID)
		gameUseCase.AssertExpectations(t)
	})
}

func TestServer_LeaveGame(t *testing.T) {
	t.Run("Reports that there is nothing to leave", func(t *testing.T) {
		// Given: a player without a game
		gameUseCase := &mockGameUseCase{}
		gameUseCase.On("LeaveGame", mock.Anything, "p1").Return(apperror.ErrNoActiveGames).Once()
		conn := dial(t, gameUseCase)

		// When: leaving
		send(t, conn, actionGameLeave, Payload{Player: &entity.Player{ID: "p1"}})

		// Then: the error is reported
		_, payload := receive(t, conn)
		assert.Equal(t, apperror.ErrNoActiveGames.Error(), payload.Error)
	})
}

func TestServer_UnknownAction(t *testing.T) {
	t.Run("Replies with an error", func(t *testing.T) {
		// Given: an open connection
		conn := dial(t, &mockGameUseCase{})

		// When: sending an unsupported action
		send(t, conn, "game:join", Payload{})

		// Then: the action is rejected
		action, payload := receive(t, conn)
		assert.Equal(t, "game:join", action)
		assert.Equal(t, errUnknownAction.Error(), payload.Error)
	})
}
