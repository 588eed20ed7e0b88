// Package metrics defines the observability events emitted by the booking
// engine and the sink interfaces implemented under infra/metrics.
package metrics

import (
	"time"

	"github.com/kilianp07/evdock/core/model"
)

// BookingOutcome classifies booking lifecycle events for observability.
type BookingOutcome string

const (
	OutcomeAccepted  BookingOutcome = "accepted"
	OutcomeDeferred  BookingOutcome = "deferred"
	OutcomeRejected  BookingOutcome = "rejected"
	OutcomeCancelled BookingOutcome = "cancelled"
	OutcomeCompleted BookingOutcome = "completed"
)

// BookingEvent records one allocation decision.
type BookingEvent struct {
	StationID     int
	BookingID     int
	UserID        int
	VehicleID     int
	DockID        int
	Outcome       BookingOutcome
	Type          model.ChargingType
	StartHour     float64
	DurationHours float64
	Time          time.Time
}

// SessionEvent records a completed charging session with its invoice.
type SessionEvent struct {
	StationID int
	BookingID int
	UserID    int
	VehicleID int
	DockID    int
	Source    string
	Type      model.ChargingType
	EnergyKWh float64
	Cost      float64
	Time      time.Time
}

// OccupancyEvent is a snapshot of a station's dock pool.
type OccupancyEvent struct {
	StationID int
	Occupied  int
	Docks     int
	LoadKW    float64
	Time      time.Time
}

// MetricsSink records booking events for observability purposes.
type MetricsSink interface {
	RecordBooking(BookingEvent) error
}

// SessionRecorder records completed sessions.
type SessionRecorder interface {
	RecordSession(SessionEvent) error
}

// OccupancyRecorder records dock pool snapshots.
type OccupancyRecorder interface {
	RecordOccupancy(OccupancyEvent) error
}

// NotificationRecorder counts notifications delivered to users.
type NotificationRecorder interface {
	RecordNotification(stationID, userID int) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordBooking(BookingEvent) error     { return nil }
func (NopSink) RecordSession(SessionEvent) error     { return nil }
func (NopSink) RecordOccupancy(OccupancyEvent) error { return nil }
func (NopSink) RecordNotification(int, int) error    { return nil }
