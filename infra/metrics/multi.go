package metrics

import coremetrics "github.com/kilianp07/evdock/core/metrics"

// MultiSink fans booking engine events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBooking forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordBooking(ev coremetrics.BookingEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordBooking(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSession forwards completed sessions.
func (m *MultiSink) RecordSession(ev coremetrics.SessionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.SessionRecorder); ok {
			if err := rec.RecordSession(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordOccupancy forwards dock pool snapshots.
func (m *MultiSink) RecordOccupancy(ev coremetrics.OccupancyEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.OccupancyRecorder); ok {
			if err := rec.RecordOccupancy(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordNotification forwards notification counts.
func (m *MultiSink) RecordNotification(stationID, userID int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.NotificationRecorder); ok {
			if err := rec.RecordNotification(stationID, userID); err != nil {
				return err
			}
		}
	}
	return nil
}
