package notify

import (
	"testing"
	"time"

	"github.com/kilianp07/evdock/internal/eventbus"
)

func TestBusNotifier(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	out, cancel := Subscribe(bus)
	defer cancel()

	n := NewBusNotifier(bus)
	if err := n.Send(New(1, 42, "session scheduled", Value(13.0))); err != nil {
		t.Fatalf("send: %v", err)
	}
	bus.Publish("unrelated event")

	select {
	case got := <-out:
		if got.UserID != 42 || got.StationID != 1 {
			t.Fatalf("unexpected notification %+v", got)
		}
		if got.Value == nil || *got.Value != 13.0 {
			t.Fatalf("value not carried: %+v", got.Value)
		}
		if got.ID == "" {
			t.Fatalf("missing event ID")
		}
	case <-time.After(time.Second):
		t.Fatalf("notification not delivered")
	}

	select {
	case got, ok := <-out:
		if ok {
			t.Fatalf("non-notification event leaked: %+v", got)
		}
	default:
	}
}

func TestMulti(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	out, cancel := Subscribe(bus)
	defer cancel()

	m := Multi{Nop{}, NewBusNotifier(bus)}
	if err := m.Send(New(1, 7, "cancelled", nil)); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case got := <-out:
		if got.Value != nil {
			t.Fatalf("expected no value, got %v", *got.Value)
		}
	case <-time.After(time.Second):
		t.Fatalf("multi did not forward to bus notifier")
	}
}
