// Package scenarios runs YAML-described booking days against an
// in-process station network and checks the outcomes.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evdock/core/model"
)

type UserDef struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Premium bool   `yaml:"premium"`
}

func (u UserDef) ToModel() model.User {
	level := model.Regular
	if u.Premium {
		level = model.Premium
	}
	return model.User{ID: u.ID, Name: u.Name, Level: level}
}

type VehicleDef struct {
	ID          int     `yaml:"id"`
	UserID      int     `yaml:"user_id"`
	SoC         float64 `yaml:"soc"`
	CapacityKWh float64 `yaml:"capacity_kwh"`
	V2G         bool    `yaml:"v2g"`
}

func (v VehicleDef) ToModel() model.Vehicle {
	return model.Vehicle{
		ID:          v.ID,
		UserID:      v.UserID,
		SoC:         v.SoC,
		CapacityKWh: v.CapacityKWh,
		V2G:         v.V2G,
	}
}

type DockDef struct {
	ID      int     `yaml:"id"`
	PowerKW float64 `yaml:"power_kw"`
	Source  string  `yaml:"source"`
}

type RequestDef struct {
	UserID    int     `yaml:"user_id"`
	VehicleID int     `yaml:"vehicle_id"`
	Start     float64 `yaml:"start"`
	Duration  float64 `yaml:"duration"`
	PowerKW   float64 `yaml:"power_kw"`
	Type      int     `yaml:"type"`
	// Expect is the outcome this request must produce:
	// "scheduled", "deferred" or "rejected". Empty skips the check.
	Expect string `yaml:"expect,omitempty"`
}

type Expected struct {
	Scheduled int      `yaml:"scheduled"`
	Deferred  int      `yaml:"deferred"`
	Rejected  int      `yaml:"rejected"`
	Revenue   *float64 `yaml:"revenue,omitempty"`
}

type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Weather     string       `yaml:"weather,omitempty"`
	Docks       []DockDef    `yaml:"docks,omitempty"`
	Users       []UserDef    `yaml:"users"`
	Vehicles    []VehicleDef `yaml:"vehicles"`
	Requests    []RequestDef `yaml:"requests"`
	CompleteAll bool         `yaml:"complete_all,omitempty"`
	Expected    Expected     `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
