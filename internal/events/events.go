package events

import "time"

// Event is implemented by every published event variant. Variants are concrete
// structs so subscribers can type-switch instead of decoding loose payloads.
type Event interface {
	Name() string
}

// UserLoggedIn is published after a successful login.
type UserLoggedIn struct {
	UserID int64
	Email  string
	At     time.Time
}

// Name implements Event.
func (UserLoggedIn) Name() string { return "user.logged_in" }

// BoxRegistered is published when a tenant registers a new monitoring device.
type BoxRegistered struct {
	UserID       int64
	BoxID        int64
	SerialNumber string
	At           time.Time
}

// Name implements Event.
func (BoxRegistered) Name() string { return "box.registered" }

// Publisher emits events to all current subscribers.
type Publisher interface {
	Publish(event Event)
}

// Subscriber hands out receive channels with a cancel function.
type Subscriber interface {
	Subscribe() (<-chan Event, func())
}
