package model

import "fmt"

// Vehicle is an electric vehicle owned by a registered user.
type Vehicle struct {
	ID          int
	UserID      int
	SoC         float64 // state of charge in percent, kept within [0,100]
	CapacityKWh float64 // total battery capacity, must be positive
	V2G         bool    // true if the vehicle can discharge back to the grid
}

// Validate checks that the vehicle configuration is sound.
// In particular CapacityKWh must be positive or the battery maths below
// is undefined.
func (v Vehicle) Validate() error {
	if v.CapacityKWh <= 0 {
		return fmt.Errorf("battery capacity must be positive")
	}
	if v.SoC < 0 || v.SoC > 100 {
		return fmt.Errorf("state of charge must be within [0,100]")
	}
	return nil
}

// Recharge adds energyKWh to the battery, clamping the state of charge
// at 100%.
func (v *Vehicle) Recharge(energyKWh float64) {
	v.SoC += energyKWh / v.CapacityKWh * 100
	if v.SoC > 100 {
		v.SoC = 100
	}
}

// Discharge feeds up to energyKWh back to the grid and returns the amount
// actually discharged. Vehicles without V2G support discharge nothing.
// The state of charge is floored at 0.
func (v *Vehicle) Discharge(energyKWh float64) float64 {
	if !v.V2G {
		return 0
	}
	available := v.SoC / 100 * v.CapacityKWh
	out := energyKWh
	if out > available {
		out = available
	}
	v.SoC -= out / v.CapacityKWh * 100
	if v.SoC < 0 {
		v.SoC = 0
	}
	return out
}
