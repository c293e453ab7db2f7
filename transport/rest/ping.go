package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger checks a backing store, usually Redis.
type Pinger func(ctx context.Context) error

type PingHandler interface {
	PingHandler(w http.ResponseWriter, r *http.Request)
}

type pingHandler struct {
	logger *slog.Logger
	pinger Pinger
}

// NewPingHandler answers "pong" while pinger succeeds. A nil pinger always
// succeeds.
func NewPingHandler(logger *slog.Logger, pinger Pinger) PingHandler {
	return &pingHandler{
		logger: logger,
		pinger: pinger,
	}
}

func (that *pingHandler) PingHandler(w http.ResponseWriter, r *http.Request) {
	if that.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := that.pinger(ctx); err != nil {
			that.logger.Error("storage is unavailable", "method", "PingHandler", "error", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Debug("failed to write pong", "error", err)
	}
}
