package station

import (
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/evdock/core/energy"
	"github.com/kilianp07/evdock/core/model"
)

// Report aggregates the station's ledger and dock statistics. All values
// cover the station's full history since its clock anchor.
type Report struct {
	StationID       int     `json:"station_id"`
	UtilizationPct  float64 `json:"utilization_pct"`
	AvgSessionHours float64 `json:"avg_session_hours"`
	GridSharePct    float64 `json:"grid_share_pct"`
	SolarSharePct   float64 `json:"solar_share_pct"`
	RegularBookings int     `json:"regular_bookings"`
	PremiumBookings int     `json:"premium_bookings"`
	TotalRevenue    float64 `json:"total_revenue"`
	CO2SavingsKg    float64 `json:"co2_savings_kg"`
}

// Report computes the read-side aggregation over the ledger and the dock
// pool. Terminal bookings feed revenue, energy shares and emissions;
// cancelled bookings contribute zero to each since their cost and energy
// are never set. Booking counts by membership cover every booking,
// active ones included.
func (s *Station) Report() Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	rep := Report{StationID: s.id}

	// Utilisation over the elapsed span between the clock anchor and the
	// latest booked end time, across the whole pool.
	latestEnd := s.systemStart
	for _, b := range s.bookings {
		if end := b.EndHour(); end > latestEnd {
			latestEnd = end
		}
	}
	totalOccupied := 0.0
	for _, d := range s.docks {
		totalOccupied += d.OccupiedHours
	}
	if elapsed := latestEnd - s.systemStart; len(s.bookings) > 0 && elapsed > 0 {
		rep.UtilizationPct = totalOccupied / (elapsed * float64(len(s.docks))) * 100
	}

	var durations []float64
	gridEnergy, solarEnergy := 0.0, 0.0
	for _, b := range s.bookings {
		if b.Status == model.StatusActive {
			continue
		}
		durations = append(durations, b.DurationHours)
		rep.TotalRevenue += b.Cost
		dock := s.dockByID(b.DockID)
		if dock == nil {
			s.log.Errorf("station %d: booking %d references unknown dock %d", s.id, b.ID, b.DockID)
			continue
		}
		if dock.Source == energy.Solar {
			solarEnergy += b.EnergyKWh
		} else {
			gridEnergy += b.EnergyKWh
		}
		rep.CO2SavingsKg += dock.Source.CO2Emission(b.EnergyKWh)
	}
	if len(durations) > 0 {
		rep.AvgSessionHours = stat.Mean(durations, nil)
	}
	if total := gridEnergy + solarEnergy; total > 0 {
		rep.GridSharePct = gridEnergy / total * 100
		rep.SolarSharePct = solarEnergy / total * 100
	}

	for _, b := range s.bookings {
		user, err := s.dir.User(b.UserID)
		if err != nil {
			continue
		}
		if user.Level == model.Premium {
			rep.PremiumBookings++
		} else {
			rep.RegularBookings++
		}
	}
	return rep
}
