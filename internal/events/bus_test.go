package events

import (
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus(4)
	defer bus.Close()

	first, cancelFirst := bus.Subscribe()
	defer cancelFirst()
	second, cancelSecond := bus.Subscribe()
	defer cancelSecond()

	bus.Publish(UserLoggedIn{UserID: 7, Email: "a@b.c"})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case event := <-ch:
			logged, ok := event.(UserLoggedIn)
			if !ok {
				t.Fatalf("unexpected event type %T", event)
			}
			if logged.UserID != 7 {
				t.Fatalf("expected user 7, got %d", logged.UserID)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus(1)
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	defer cancel()

	// Second publish must not block even though nobody is draining.
	done := make(chan struct{})
	go func() {
		bus.Publish(BoxRegistered{UserID: 1, BoxID: 1})
		bus.Publish(BoxRegistered{UserID: 1, BoxID: 2})
		close(done)
	}()

	waitFor(t, time.Second, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	})

	event := <-ch
	if registered, ok := event.(BoxRegistered); !ok || registered.BoxID != 1 {
		t.Fatalf("expected first registration, got %#v", event)
	}
}

func TestBusCancelStopsDelivery(t *testing.T) {
	bus := NewBus(4)
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	cancel()

	bus.Publish(UserLoggedIn{UserID: 1})

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after cancel")
	}
}

func TestBusCloseClosesSubscribers(t *testing.T) {
	bus := NewBus(4)
	ch, cancel := bus.Subscribe()
	defer cancel()

	bus.Close()

	waitFor(t, time.Second, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	})
}
