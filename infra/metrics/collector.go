package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/evdock/core/metrics"
	"github.com/kilianp07/evdock/core/notify"
	"github.com/kilianp07/evdock/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records a metric
// for every user notification published on it. It stops when the context
// is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.NotificationRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, received := <-sub:
				if !received {
					return
				}
				if n, isNotif := ev.(notify.Notification); isNotif {
					_ = rec.RecordNotification(n.StationID, n.UserID)
				}
			}
		}
	}()
}
