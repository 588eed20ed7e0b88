// Package notify defines the notification sink consumed by the booking
// engine. The engine emits one event per user-visible decision (deferral,
// scheduling, cancellation penalty, session invoice); implementations
// decide where the events go.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/evdock/internal/eventbus"
)

// Notification is a message addressed to a single user, optionally
// carrying a numeric value (a start time, a penalty, an energy amount or
// a cost).
type Notification struct {
	ID        string    `json:"id"`
	StationID int       `json:"station_id"`
	UserID    int       `json:"user_id"`
	Message   string    `json:"message"`
	Value     *float64  `json:"value,omitempty"`
	Time      time.Time `json:"time"`
}

// New builds a Notification with a fresh event ID.
func New(stationID, userID int, message string, value *float64) Notification {
	return Notification{
		ID:        uuid.NewString(),
		StationID: stationID,
		UserID:    userID,
		Message:   message,
		Value:     value,
		Time:      time.Now(),
	}
}

// Value returns a pointer to v, for filling the optional field inline.
func Value(v float64) *float64 { return &v }

// Notifier delivers notifications to users.
type Notifier interface {
	Send(Notification) error
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Send(Notification) error { return nil }

// BusNotifier publishes notifications on the in-process event bus.
type BusNotifier struct {
	bus eventbus.EventBus
}

// NewBusNotifier creates a notifier backed by bus.
func NewBusNotifier(bus eventbus.EventBus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

func (n *BusNotifier) Send(msg Notification) error {
	n.bus.Publish(msg)
	return nil
}

// Multi fans a notification out to several sinks, returning the first
// error encountered.
type Multi []Notifier

func (m Multi) Send(msg Notification) error {
	for _, n := range m {
		if err := n.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe returns a channel of notifications published on bus, plus a
// cancel function releasing the subscription. Non-notification events on
// the bus are ignored.
func Subscribe(bus eventbus.EventBus) (<-chan Notification, func()) {
	sub := bus.Subscribe()
	out := make(chan Notification, 16)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if n, isNotif := ev.(Notification); isNotif {
					select {
					case out <- n:
					default:
					}
				}
			}
		}
	}()
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			bus.Unsubscribe(sub)
		})
	}
	return out, cancel
}
