package config

import (
	"fmt"

	"github.com/kilianp07/evdock/core/energy"
	"github.com/kilianp07/evdock/core/model"
	"github.com/kilianp07/evdock/core/network"
	"github.com/kilianp07/evdock/core/station"
)

// NetworkConfig describes the station network.
type NetworkConfig struct {
	// MaxStations bounds the station pool.
	MaxStations int `json:"max_stations"`
	// Weather is the initial weather condition: "sunny", "cloudy" or "night".
	Weather string `json:"weather"`
	// GridCapacityKW is the grid connection shared by the network,
	// reported alongside the live load.
	GridCapacityKW float64 `json:"grid_capacity_kw"`
	// Capacities bounds each station's registries and booking ledger.
	Capacities CapacitiesConfig `json:"capacities"`
	// Stations lists the stations to create at startup.
	Stations []StationConfig `json:"stations"`
}

// CapacitiesConfig bounds one station's pools.
type CapacitiesConfig struct {
	MaxUsers    int `json:"max_users"`
	MaxVehicles int `json:"max_vehicles"`
	MaxBookings int `json:"max_bookings"`
}

// StationConfig describes one station's dock pool.
type StationConfig struct {
	ID    int          `json:"id"`
	Docks []DockConfig `json:"docks"`
}

// DockConfig describes one dock.
type DockConfig struct {
	ID      int     `json:"id"`
	PowerKW float64 `json:"power_kw"`
	Source  string  `json:"source"`
}

// DefaultDocks is the dock layout used for stations configured without one.
func DefaultDocks() []DockConfig {
	return []DockConfig{
		{ID: 1, PowerKW: 7, Source: "grid"},
		{ID: 2, PowerKW: 7, Source: "solar"},
		{ID: 3, PowerKW: 22, Source: "grid"},
		{ID: 4, PowerKW: 22, Source: "solar"},
		{ID: 5, PowerKW: 50, Source: "grid"},
	}
}

// SetDefaults applies sane defaults.
func (c *NetworkConfig) SetDefaults() {
	if c.MaxStations <= 0 {
		c.MaxStations = network.DefaultMaxStations
	}
	if c.Weather == "" {
		c.Weather = "sunny"
	}
	if c.GridCapacityKW <= 0 {
		c.GridCapacityKW = 150
	}
	if c.Capacities.MaxUsers <= 0 {
		c.Capacities.MaxUsers = 10
	}
	if c.Capacities.MaxVehicles <= 0 {
		c.Capacities.MaxVehicles = 10
	}
	if c.Capacities.MaxBookings <= 0 {
		c.Capacities.MaxBookings = station.DefaultMaxBookings
	}
	if len(c.Stations) == 0 {
		c.Stations = []StationConfig{{ID: 1}}
	}
	for i := range c.Stations {
		if len(c.Stations[i].Docks) == 0 {
			c.Stations[i].Docks = DefaultDocks()
		}
	}
}

// Validate checks the network layout.
func (c NetworkConfig) Validate() error {
	if _, err := energy.ParseWeather(c.Weather); err != nil {
		return err
	}
	if len(c.Stations) > c.MaxStations {
		return fmt.Errorf("%d stations configured, at most %d allowed", len(c.Stations), c.MaxStations)
	}
	seen := make(map[int]bool, len(c.Stations))
	for _, st := range c.Stations {
		if seen[st.ID] {
			return fmt.Errorf("duplicate station ID %d", st.ID)
		}
		seen[st.ID] = true
		for _, d := range st.Docks {
			if d.PowerKW <= 0 {
				return fmt.Errorf("station %d dock %d: power must be positive", st.ID, d.ID)
			}
			if _, err := energy.ParseKind(d.Source); err != nil {
				return fmt.Errorf("station %d dock %d: %w", st.ID, d.ID, err)
			}
		}
	}
	return nil
}

// InitialWeather parses the configured weather condition.
func (c NetworkConfig) InitialWeather() (energy.Weather, error) {
	return energy.ParseWeather(c.Weather)
}

// StationConfigs converts the layout to the station package's form.
func (c NetworkConfig) StationConfigs() ([]station.Config, error) {
	out := make([]station.Config, 0, len(c.Stations))
	for _, st := range c.Stations {
		docks := make([]model.Dock, 0, len(st.Docks))
		for _, d := range st.Docks {
			src, err := energy.ParseKind(d.Source)
			if err != nil {
				return nil, fmt.Errorf("station %d dock %d: %w", st.ID, d.ID, err)
			}
			docks = append(docks, model.Dock{ID: d.ID, PowerKW: d.PowerKW, Source: src})
		}
		out = append(out, station.Config{ID: st.ID, Docks: docks, MaxBookings: c.Capacities.MaxBookings})
	}
	return out, nil
}
