package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type mockPlayerService struct {
	mock.Mock
}

func newMockPlayerService(t *testing.T) *mockPlayerService {
	t.Helper()

	svc := &mockPlayerService{}
	svc.Test(t)
	t.Cleanup(func() { svc.AssertExpectations(t) })

	return svc
}

func (that *mockPlayerService) CreatePlayer(ctx context.Context) (*entity.Player, error) {
	args := that.Called(ctx)

	player, _ := args.Get(0).(*entity.Player)

	return player, args.Error(1)
}

func (that *mockPlayerService) GetPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)

	player, _ := args.Get(0).(*entity.Player)

	return player, args.Error(1)
}

type mockGamePlayService struct {
	mock.Mock
}

func newMockGamePlayService(t *testing.T) *mockGamePlayService {
	t.Helper()

	svc := &mockGamePlayService{}
	svc.Test(t)
	t.Cleanup(func() { svc.AssertExpectations(t) })

	return svc
}

func (that *mockGamePlayService) StartGame(ctx context.Context, playerID string, settings entity.Settings) (*entity.Game, error) {
	args := that.Called(ctx, playerID, settings)

	return gameArg(args, 0), args.Error(1)
}

func (that *mockGamePlayService) GetGameState(ctx context.Context, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, playerID)

	return gameArg(args, 0), args.Error(1)
}

func (that *mockGamePlayService) RestartGame(ctx context.Context, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, playerID)

	return gameArg(args, 0), args.Error(1)
}

func (that *mockGamePlayService) LeaveGame(ctx context.Context, playerID string) error {
	args := that.Called(ctx, playerID)

	return args.Error(0)
}

func (that *mockGamePlayService) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	args := that.Called(ctx, playerID, cell)

	return gameArg(args, 0), args.Error(1)
}

func (that *mockGamePlayService) PlanBotTurn(ctx context.Context, playerID string) (*entity.Game, tictactoe.Move, error) {
	args := that.Called(ctx, playerID)

	move, _ := args.Get(1).(tictactoe.Move)

	return gameArg(args, 0), move, args.Error(2)
}

func (that *mockGamePlayService) CommitBotTurn(ctx context.Context, playerID string, planned entity.Board, cell int) (*entity.Game, error) {
	args := that.Called(ctx, playerID, planned, cell)

	return gameArg(args, 0), args.Error(1)
}

func gameArg(args mock.Arguments, index int) *entity.Game {
	game, _ := args.Get(index).(*entity.Game)

	return game
}
