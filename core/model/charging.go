// Package model defines the domain entities of the dock booking engine:
// users, vehicles, charging docks and bookings.
package model

import "fmt"

// ChargingType selects the charging speed of a booking and, for Solar, a
// constraint on the dock's energy source.
type ChargingType int

const (
	ChargeSlow ChargingType = iota + 1
	ChargeMedium
	ChargeFast
	ChargeSolar
)

// Nominal power ratings in kW per charging type.
const (
	SlowPowerKW   = 7
	MediumPowerKW = 22
	FastPowerKW   = 50
	SolarPowerKW  = 7
)

// ParseChargingType converts a numeric menu code (1-4) into a ChargingType.
func ParseChargingType(code int) (ChargingType, error) {
	t := ChargingType(code)
	if !t.Valid() {
		return 0, fmt.Errorf("unknown charging type code %d", code)
	}
	return t, nil
}

// Valid reports whether t is one of the four known charging types.
func (t ChargingType) Valid() bool {
	return t >= ChargeSlow && t <= ChargeSolar
}

// PowerKW returns the nominal power rating associated with the charging type.
func (t ChargingType) PowerKW() float64 {
	switch t {
	case ChargeSlow:
		return SlowPowerKW
	case ChargeMedium:
		return MediumPowerKW
	case ChargeFast:
		return FastPowerKW
	case ChargeSolar:
		return SolarPowerKW
	default:
		return 0
	}
}

func (t ChargingType) String() string {
	switch t {
	case ChargeSlow:
		return "slow"
	case ChargeMedium:
		return "medium"
	case ChargeFast:
		return "fast"
	case ChargeSolar:
		return "solar"
	default:
		return fmt.Sprintf("ChargingType(%d)", int(t))
	}
}
