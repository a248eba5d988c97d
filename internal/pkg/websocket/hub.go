package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// delivery is one payload addressed to a set of accounts
type delivery struct {
	accountIDs []string
	data       []byte
}

// Hub keeps the live connections of signed-in members and pushes payloads to
// every connection of an account
type Hub struct {
	// Registered clients organized by account ID
	clients map[string]map[*Client]bool

	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	// done is closed when Run returns
	done chan struct{}

	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		deliver:    make(chan delivery, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "websocket").Logger(),
	}
}

// Run handles registrations and deliveries until ctx is done, then closes
// every connection
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.deliver:
			h.deliverMessage(d)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.accountID]; !ok {
		h.clients[client.accountID] = make(map[*Client]bool)
	}
	h.clients[client.accountID][client] = true

	h.logger.Info().
		Str("accountID", client.accountID).
		Int("connections", len(h.clients[client.accountID])).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops client and closes its send channel. h.mu must be held.
func (h *Hub) removeLocked(client *Client) {
	conns, ok := h.clients[client.accountID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.accountID)
	}

	h.logger.Info().Str("accountID", client.accountID).Msg("Client unregistered")
}

func (h *Hub) deliverMessage(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for _, id := range d.accountIDs {
		for client := range h.clients[id] {
			select {
			case client.send <- d.data:
				sent++
			default:
				// Slow consumer
				h.removeLocked(client)
			}
		}
	}

	h.logger.Debug().Strs("accountIDs", d.accountIDs).Int("connections", sent).Msg("Payload delivered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for client := range conns {
			h.removeLocked(client)
		}
	}
}

// Deliver queues payload for every live connection of the given accounts.
// Accounts without a connection are skipped; the payload is dropped when the
// queue is full.
func (h *Hub) Deliver(accountIDs []string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal payload")
		return
	}

	select {
	case h.deliver <- delivery{accountIDs: accountIDs, data: data}:
	default:
		h.logger.Warn().Strs("accountIDs", accountIDs).Msg("Delivery queue full, payload dropped")
	}
}

// ConnectionCount returns the number of live connections of an account
func (h *Hub) ConnectionCount(accountID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountID])
}
