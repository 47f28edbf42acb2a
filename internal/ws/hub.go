package ws

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"solarhub/internal/events"
)

// Notification is the JSON frame pushed to connected clients.
type Notification struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub tracks client connections per tenant and relays bus events to them.
type Hub struct {
	mu     sync.RWMutex
	conns  map[int64]map[*Connection]struct{}
	logger *zap.Logger
}

// NewHub builds connection hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[int64]map[*Connection]struct{}),
		logger: logger,
	}
}

// Add registers a new connection.
func (h *Hub) Add(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[conn.UserID()] == nil {
		h.conns[conn.UserID()] = make(map[*Connection]struct{})
	}
	h.conns[conn.UserID()][conn] = struct{}{}
}

// Remove drops a connection.
func (h *Hub) Remove(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[conn.UserID()]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.conns, conn.UserID())
		}
	}
}

// SendToUser pushes a notification to every connection of the tenant.
func (h *Hub) SendToUser(userID int64, notification Notification) {
	data, err := json.Marshal(notification)
	if err != nil {
		h.logger.Warn("failed to encode notification", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.conns[userID] {
		conn.Send(data)
	}
}

// Run consumes bus events until context cancellation, relaying each to the
// affected tenant's connections.
func (h *Hub) Run(ctx context.Context, subscriber events.Subscriber) {
	ch, cancel := subscriber.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			h.dispatch(event)
		}
	}
}

func (h *Hub) dispatch(event events.Event) {
	notification := Notification{Type: event.Name(), Data: event}
	switch e := event.(type) {
	case events.UserLoggedIn:
		h.SendToUser(e.UserID, notification)
	case events.BoxRegistered:
		h.SendToUser(e.UserID, notification)
	default:
		h.logger.Debug("unhandled event", zap.String("event", event.Name()))
	}
}
