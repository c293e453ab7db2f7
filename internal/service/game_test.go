package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func TestGameService_CreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Single mode adds the bot as O", func(t *testing.T) {
		// Given: a player and a repository accepting the game
		repo := newMockGameRepo(t)
		repo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Game")).Return(nil).Once()

		player := &entity.Player{ID: "p1"}
		depth := 3

		// When: creating a single game
		game, err := NewGameService(repo).CreateGame(ctx, player, entity.Settings{
			Mode:      entity.SingleMode,
			Algorithm: "minimax",
			Depth:     &depth,
		})

		// Then: the human is X, the bot is O and X moves first
		require.NoError(t, err)
		require.Len(t, game.Players, 2)
		assert.Equal(t, entity.PlayerX, player.Mark)
		assert.Equal(t, game.ID, player.GameID)
		assert.True(t, game.Players[1].IsBot())
		assert.Equal(t, entity.PlayerO, game.Players[1].Mark)
		assert.Equal(t, entity.PlayerX, game.Turn)
		assert.Equal(t, "minimax", game.Algorithm)
		require.NotNil(t, game.Depth)
		assert.Equal(t, 3, *game.Depth)
	})

	t.Run("Multi mode has no bot", func(t *testing.T) {
		// Given: a repository accepting the game
		repo := newMockGameRepo(t)
		repo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Game")).Return(nil).Once()

		// When: creating a multi game
		game, err := NewGameService(repo).CreateGame(ctx, &entity.Player{ID: "p1"}, entity.Settings{Mode: entity.MultiMode})

		// Then: only the human is seated
		require.NoError(t, err)
		assert.Len(t, game.Players, 1)
		assert.Nil(t, game.BotPlayer())
	})

	t.Run("Returns the storage error", func(t *testing.T) {
		// Given: a failing repository
		repo := newMockGameRepo(t)
		repo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Game")).Return(errStorageDown).Once()

		// When: creating a game
		game, err := NewGameService(repo).CreateGame(ctx, &entity.Player{ID: "p1"}, entity.Settings{Mode: entity.SingleMode})

		// Then: nothing is returned
		require.ErrorIs(t, err, errStorageDown)
		assert.Nil(t, game)
	})
}
