package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/rest"
	"github.com/rocketscienceinc/tictactoe-engine/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis host or port is empty")

// RunApp - runs the application until SIGINT/SIGTERM or a server failure.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defaults, err := botDefaults(conf.Bot)
	if err != nil {
		return err
	}

	redisAddrString, err := redisAddr(conf.Redis)
	if err != nil {
		return err
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	playerService := service.NewPlayerService(repository.NewPlayerRepository(redisStorage))
	gameService := service.NewGameService(repository.NewGameRepository(redisStorage))
	botService := service.NewBotService(logger)
	gamePlayService := service.NewGamePlayService(logger, playerService, gameService, botService)
	gameUseCase := usecase.NewGameUseCase(playerService, gamePlayService, defaults)

	router := rest.NewRouter(
		rest.NewPingHandler(logger, redisPinger(redisStorage)),
		rest.NewBoardHandler(logger, defaults.Algorithm, defaults.Depth),
		conf.CORS.AllowedOrigins,
	)
	wsServer := websocket.New(logger, gameUseCase, conf.Bot.Delay, conf.CORS.AllowedOrigins)

	group, groupCtx := errgroup.WithContext(ctx)

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if err := rest.Start(groupCtx, logger, conf.HTTPPort, router); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}

		return nil
	})

	// run Websocket server
	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if err := wsServer.Start(groupCtx, conf.SocketPort); err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}

		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shut down")

	return nil
}

func botDefaults(bot config.Bot) (usecase.Defaults, error) {
	algorithm, err := tictactoe.ParseAlgorithm(bot.Algorithm)
	if err != nil {
		return usecase.Defaults{}, fmt.Errorf("invalid bot config: %w", err)
	}

	return usecase.Defaults{
		Algorithm: algorithm,
		Depth:     tictactoe.ParseDepth(bot.Depth),
	}, nil
}

func redisAddr(conf config.Redis) (string, error) {
	if conf.Host == "" || conf.Port == "" {
		return "", ErrAddrNotFound
	}

	return conf.GetRedisAddr(), nil
}

func redisPinger(client *redis.Client) rest.Pinger {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
