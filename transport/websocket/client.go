package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

// client is one browser connection. gorilla allows a single concurrent
// writer, and the delayed bot reply writes from a timer goroutine.
type client struct {
	conn *websocket.Conn

	writeMutex sync.Mutex

	stateMutex sync.Mutex
	playerID   string
	botTimer   *time.Timer
	closed     bool
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn}
}

func (that *client) sendMessage(action string, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) ping() error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	return that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (that *client) setPlayerID(playerID string) {
	that.stateMutex.Lock()
	defer that.stateMutex.Unlock()

	that.playerID = playerID
}

func (that *client) getPlayerID() string {
	that.stateMutex.Lock()
	defer that.stateMutex.Unlock()

	return that.playerID
}

// scheduleBot runs fn after delay, replacing any bot reply still pending.
func (that *client) scheduleBot(delay time.Duration, fn func()) {
	that.stateMutex.Lock()
	defer that.stateMutex.Unlock()

	if that.closed {
		return
	}

	if that.botTimer != nil {
		that.botTimer.Stop()
	}

	that.botTimer = time.AfterFunc(delay, fn)
}

func (that *client) cancelBot() {
	that.stateMutex.Lock()
	defer that.stateMutex.Unlock()

	if that.botTimer != nil {
		that.botTimer.Stop()
		that.botTimer = nil
	}
}

func (that *client) close() error {
	that.stateMutex.Lock()
	that.closed = true
	if that.botTimer != nil {
		that.botTimer.Stop()
	}
	that.stateMutex.Unlock()

	return that.conn.Close()
}
