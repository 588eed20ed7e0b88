package station

import (
	"fmt"

	"github.com/kilianp07/evdock/core/metrics"
	"github.com/kilianp07/evdock/core/model"
	"github.com/kilianp07/evdock/core/notify"
)

// Invoice summarises the billing of a completed session.
type Invoice struct {
	BookingID  int
	EnergyKWh  float64
	RatePerKWh float64
	Cost       float64
}

// baseRate is the per-kWh rate before adjustments, by charging type.
func baseRate(t model.ChargingType) float64 {
	switch t {
	case model.ChargeSlow:
		return 0.2
	case model.ChargeMedium:
		return 0.3
	case model.ChargeFast:
		return 0.4
	case model.ChargeSolar:
		return 0.15
	default:
		return 0
	}
}

// CompleteBooking ends an active session: it computes delivered energy
// under the current weather, bills the user, credits the vehicle battery
// and transitions the booking to completed.
//
// Energy is the dock's available power times the booked duration; the
// weather at completion time applies to the whole session, whatever the
// conditions were when the booking was created. The peak surcharge is
// evaluated against the stored (possibly deferred) start time.
func (s *Station) CompleteBooking(bookingID int) (Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bookingByID(bookingID)
	if b == nil {
		return Invoice{}, fmt.Errorf("booking %d: %w", bookingID, model.ErrNotFound)
	}
	if b.Status != model.StatusActive {
		return Invoice{}, fmt.Errorf("booking %d is %s: %w", bookingID, b.Status, model.ErrInvalidState)
	}
	dock := s.dockByID(b.DockID)
	if dock == nil {
		return Invoice{}, fmt.Errorf("booking %d references unknown dock %d: %w", bookingID, b.DockID, model.ErrCorruptState)
	}

	energyKWh := dock.AvailablePower(s.weather.Current()) * b.DurationHours
	dock.OccupiedHours += b.DurationHours

	rate := baseRate(b.Type)
	if b.Type == model.ChargeSolar {
		rate *= 0.85 // solar discount
	}
	if InPeak(b.StartHour) {
		rate *= 1.2 // peak surcharge
	}
	rate *= dock.Source.RateAdjustment()

	cost := energyKWh * rate
	if user, err := s.dir.User(b.UserID); err == nil && user.Level == model.Premium {
		cost *= 0.85 // membership discount
	}

	if veh, err := s.dir.Vehicle(b.VehicleID); err == nil {
		veh.Recharge(energyKWh)
	} else {
		s.log.Errorf("station %d: booking %d references unknown vehicle %d", s.id, b.ID, b.VehicleID)
	}

	b.Status = model.StatusCompleted
	b.EnergyKWh = energyKWh
	b.Cost = cost
	s.releaseDock(b.DockID)

	s.notify(b.UserID, "Charging session completed. Energy consumed:", notify.Value(energyKWh))
	s.notify(b.UserID, "Total cost for the session:", notify.Value(cost))

	if r, ok := s.sink.(metrics.SessionRecorder); ok {
		err := r.RecordSession(metrics.SessionEvent{
			StationID: s.id, BookingID: b.ID, UserID: b.UserID, VehicleID: b.VehicleID,
			DockID: b.DockID, Source: dock.Source.String(), Type: b.Type,
			EnergyKWh: energyKWh, Cost: cost,
		})
		if err != nil {
			s.log.Warnf("station %d: record session: %v", s.id, err)
		}
	}
	s.recordBooking(metrics.BookingEvent{
		StationID: s.id, BookingID: b.ID, UserID: b.UserID, VehicleID: b.VehicleID,
		DockID: b.DockID, Outcome: metrics.OutcomeCompleted, Type: b.Type,
		StartHour: b.StartHour, DurationHours: b.DurationHours,
	})
	s.recordOccupancy()

	s.log.Debugw("session billed", map[string]any{
		"station": s.id, "booking": b.ID, "energy_kwh": energyKWh,
		"rate": rate, "cost": cost, "source": dock.Source.String(),
	})
	return Invoice{BookingID: b.ID, EnergyKWh: energyKWh, RatePerKWh: rate, Cost: cost}, nil
}
