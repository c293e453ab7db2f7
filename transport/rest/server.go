package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const shutdownTimeout = 5 * time.Second

// NewRouter wires the ping and board endpoints behind CORS.
func NewRouter(ping PingHandler, board BoardHandler, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/ping", ping.PingHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/board", board.NewBoard).Methods(http.MethodGet)
	api.HandleFunc("/board/move", board.ApplyMove).Methods(http.MethodPost)
	api.HandleFunc("/board/evaluate", board.Evaluate).Methods(http.MethodPost)
	api.HandleFunc("/board/best-move", board.BestMove).Methods(http.MethodPost)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return corsHandler.Handler(router)
}

// Start - starts HTTP server. It returns once ctx is cancelled and the server
// is shut down.
func Start(ctx context.Context, logger *slog.Logger, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
