package model

import "fmt"

// BookingStatus is the lifecycle state of a booking. Completion and
// cancellation are distinct terminal states with different side effects.
type BookingStatus int

const (
	StatusActive BookingStatus = iota
	StatusCompleted
	StatusCancelled
)

func (s BookingStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("BookingStatus(%d)", int(s))
	}
}

// Booking is a reservation of one dock for one vehicle over a time
// interval. Times are simulation hours within a day: StartHour lies in
// [0,24) and the occupied interval is the half-open
// [StartHour, StartHour+DurationHours).
//
// Bookings are never deleted from the ledger; terminal transitions only
// flip Status, so completed and cancelled records stay available for
// billing and reporting.
type Booking struct {
	ID            int
	UserID        int
	VehicleID     int
	DockID        int
	StationID     int
	StartHour     float64
	DurationHours float64
	Type          ChargingType
	Status        BookingStatus
	Cost          float64
	EnergyKWh     float64
}

// EndHour returns the exclusive end of the booked interval.
func (b Booking) EndHour() float64 {
	return b.StartHour + b.DurationHours
}

// Overlaps reports whether the booked interval intersects the half-open
// interval [start, start+duration). Boundary-touching intervals do not
// conflict.
func (b Booking) Overlaps(start, duration float64) bool {
	return start < b.EndHour() && b.StartHour < start+duration
}
