package hub

import (
	"encoding/json"
	"sync"

	"github.com/glitchdraft/draftsync/internal/domain"
	"github.com/glitchdraft/draftsync/internal/logger"
)

// Event types pushed to connected overlay clients.
const (
	DraftsSynced    = "DRAFTS_SYNCED"    // Draft list changed on another device
	PositionsSynced = "POSITIONS_SYNCED" // Overlay should re-place its elements
	StatusChanged   = "STATUS_CHANGED"   // Sync configuration state changed
)

// Event is one push notification to the overlay layer. The overlay used
// to render these as in-page toasts; what it does with them is its
// business.
type Event struct {
	Type           string                `json:"type"`
	ConversationID string                `json:"conversation_id,omitempty"`
	Site           string                `json:"site,omitempty"`
	Message        string                `json:"message,omitempty"`
	Positions      *domain.UIPositionSet `json:"positions,omitempty"`
}

// Hub fans sync events out to every connected overlay client. Background
// flows publish; clients only listen, there is no inbound protocol.
type Hub struct {
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	logger     logger.Logger

	mu      sync.Mutex
	clients map[*Client]bool
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan Event, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     log,
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("overlay client connected",
				logger.Int("clients", h.clientCount()))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("overlay client disconnected",
				logger.Int("clients", h.clientCount()))

		case evt := <-h.broadcast:
			payload, err := json.Marshal(evt)
			if err != nil {
				h.logger.Errorf("error marshalling event: %v", err)
				continue
			}

			h.mu.Lock()
			recipients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				recipients = append(recipients, client)
			}
			h.mu.Unlock()

			for _, client := range recipients {
				select {
				case client.send <- payload:
				default:
					// Lagging client: drop it rather than block the
					// broadcast path.
					h.logger.Warn("overlay client send buffer full, unregistering")
					h.unregisterAsync(client)
				}
			}
		}
	}
}

// Publish queues an event for all connected clients. Non-blocking: if
// the hub itself is saturated the event is dropped, push delivery is
// best effort and polling remains the fallback.
func (h *Hub) Publish(evt Event) {
	select {
	case h.broadcast <- evt:
	default:
		h.logger.Warn("event hub saturated, dropping event",
			logger.String("type", evt.Type))
	}
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) unregisterAsync(client *Client) {
	go func() { h.unregister <- client }()
}
