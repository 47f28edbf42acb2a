package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solarhub/internal/events"
)

func TestHubSendToUserTargetsOnlyOwnConnections(t *testing.T) {
	hub := NewHub(zap.NewNop())

	mine := NewConnection(1, nil, time.Second, zap.NewNop(), nil)
	other := NewConnection(2, nil, time.Second, zap.NewNop(), nil)
	hub.Add(mine)
	hub.Add(other)

	hub.SendToUser(1, Notification{Type: "test", Data: "hello"})

	select {
	case raw := <-mine.send:
		var notification Notification
		require.NoError(t, json.Unmarshal(raw, &notification))
		assert.Equal(t, "test", notification.Type)
	case <-time.After(time.Second):
		t.Fatal("expected notification for user 1")
	}

	select {
	case <-other.send:
		t.Fatal("user 2 must not receive user 1 notifications")
	default:
	}
}

func TestHubRemove(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := NewConnection(1, nil, time.Second, zap.NewNop(), nil)

	hub.Add(conn)
	hub.Remove(conn)

	hub.SendToUser(1, Notification{Type: "test"})
	select {
	case <-conn.send:
		t.Fatal("removed connection must not receive notifications")
	default:
	}
}

func TestHubRelaysBusEvents(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := NewConnection(7, nil, time.Second, zap.NewNop(), nil)
	hub.Add(conn)

	bus := events.NewBus(4)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx, bus)

	bus.Publish(events.BoxRegistered{UserID: 7, BoxID: 3, SerialNumber: "SN-3"})

	select {
	case raw := <-conn.send:
		var notification struct {
			Type string               `json:"type"`
			Data events.BoxRegistered `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &notification))
		assert.Equal(t, "box.registered", notification.Type)
		assert.Equal(t, int64(3), notification.Data.BoxID)
	case <-time.After(time.Second):
		t.Fatal("expected relayed event")
	}
}
