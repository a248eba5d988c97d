package websocket

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
)

// ErrHubStopped is returned when a connection arrives after shutdown
var ErrHubStopped = errors.New("websocket hub stopped")

// Upgrader is shared by every live endpoint. CheckOrigin is left to the
// gorilla default, which requires the Origin host to match the request host.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Serve upgrades the request and attaches the connection to accountID. The
// caller must have authenticated the request.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, accountID string) error {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("accountID", accountID).Msg("Failed to upgrade connection to WebSocket")
		return err
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		accountID: accountID,
		logger:    h.logger,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return ErrHubStopped
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("accountID", accountID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
	return nil
}
