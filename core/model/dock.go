package model

import "github.com/kilianp07/evdock/core/energy"

// Dock is a single charging resource. Its power rating and energy source
// are fixed at construction; occupancy and the utilisation counter are
// mutated by the station engine.
//
// Invariant: Occupied is true iff exactly one active booking references
// the dock.
type Dock struct {
	ID            int
	PowerKW       float64
	Source        energy.Kind
	Occupied      bool
	VehicleID     int     // vehicle currently bound to the dock, 0 when free
	OccupiedHours float64 // cumulative session hours, fed into utilisation
}

// AvailablePower returns the power the dock can deliver under the given
// weather.
func (d Dock) AvailablePower(w energy.Weather) float64 {
	return d.Source.AvailablePower(d.PowerKW, w)
}

// DockStatus is a read-only snapshot of a dock for external callers.
type DockStatus struct {
	DockID    int     `json:"dock_id"`
	PowerKW   float64 `json:"power_kw"`
	Source    string  `json:"source"`
	Occupied  bool    `json:"occupied"`
	VehicleID int     `json:"vehicle_id,omitempty"`
}
