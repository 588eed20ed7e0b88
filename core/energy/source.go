// Package energy models the power sources backing charging docks and the
// weather conditions that constrain solar output.
package energy

import "fmt"

// GridCO2Factor is the emission factor for grid energy in kg CO2 per kWh.
const GridCO2Factor = 0.5

// Kind identifies a dock's energy source. The set is closed: a dock is
// backed either by the grid or by a solar array.
type Kind int

const (
	Grid Kind = iota
	Solar
)

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "grid":
		return Grid, nil
	case "solar":
		return Solar, nil
	default:
		return Grid, fmt.Errorf("unknown energy source %q", s)
	}
}

func (k Kind) String() string {
	switch k {
	case Grid:
		return "grid"
	case Solar:
		return "solar"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RateAdjustment returns the billing rate multiplier applied for energy
// drawn from this source.
func (k Kind) RateAdjustment() float64 {
	switch k {
	case Solar:
		return 0.9
	default:
		return 1.0
	}
}

// CO2Emission returns the emission in kg CO2 attributable to delivering
// energyKWh from this source. Solar energy is counted as zero-emission.
func (k Kind) CO2Emission(energyKWh float64) float64 {
	switch k {
	case Solar:
		return 0
	default:
		return energyKWh * GridCO2Factor
	}
}

// AvailablePower returns the power in kW the source can actually deliver
// given a dock's nominal rating and the current weather. Grid docks always
// deliver their full rating; solar docks are derated under clouds and
// produce nothing at night.
func (k Kind) AvailablePower(ratedKW float64, w Weather) float64 {
	if k != Solar {
		return ratedKW
	}
	switch w {
	case Cloudy:
		return ratedKW * 0.5
	case Night:
		return 0
	default:
		return ratedKW
	}
}
