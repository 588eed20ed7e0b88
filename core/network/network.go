// Package network groups charging stations under one roof. The network
// owns the shared weather state and the per-station user and vehicle
// registries, and is the entry point the application and CLI drive.
package network

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kilianp07/evdock/core/energy"
	"github.com/kilianp07/evdock/core/logger"
	"github.com/kilianp07/evdock/core/metrics"
	"github.com/kilianp07/evdock/core/model"
	"github.com/kilianp07/evdock/core/notify"
	"github.com/kilianp07/evdock/core/registry"
	"github.com/kilianp07/evdock/core/station"
)

// DefaultMaxStations bounds the station pool.
const DefaultMaxStations = 3

// Capacities bounds one station's registry pools.
type Capacities struct {
	MaxUsers    int
	MaxVehicles int
}

type member struct {
	station  *station.Station
	registry *registry.Registry
}

// Network is a fixed set of stations sharing weather conditions.
type Network struct {
	weather     *energy.WeatherStore
	notifier    notify.Notifier
	sink        metrics.MetricsSink
	log         logger.Logger
	maxStations int

	mu       sync.RWMutex
	stations map[int]*member
}

// New creates an empty network. maxStations <= 0 selects the default
// bound. A nil notifier or sink is replaced with a no-op implementation.
func New(weather *energy.WeatherStore, notifier notify.Notifier, sink metrics.MetricsSink, log logger.Logger, maxStations int) (*Network, error) {
	if weather == nil || log == nil {
		return nil, fmt.Errorf("network: nil dependency provided to New")
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if maxStations <= 0 {
		maxStations = DefaultMaxStations
	}
	return &Network{
		weather:     weather,
		notifier:    notifier,
		sink:        sink,
		log:         log,
		maxStations: maxStations,
		stations:    make(map[int]*member, maxStations),
	}, nil
}

// AddStation creates a station with its own registry and adds it to the
// network. It fails once the station pool is full or when the ID is
// already taken.
func (n *Network) AddStation(cfg station.Config, caps Capacities) (*station.Station, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stations) >= n.maxStations {
		return nil, fmt.Errorf("station pool full (%d): %w", n.maxStations, model.ErrCapacityExceeded)
	}
	if _, exists := n.stations[cfg.ID]; exists {
		return nil, fmt.Errorf("station %d: %w", cfg.ID, model.ErrDuplicateIdentity)
	}
	reg := registry.New(caps.MaxUsers, caps.MaxVehicles)
	st, err := station.New(cfg, reg, n.weather, n.notifier, n.sink, n.log)
	if err != nil {
		return nil, err
	}
	n.stations[cfg.ID] = &member{station: st, registry: reg}
	n.log.Infof("station %d added with %d docks", cfg.ID, len(cfg.Docks))
	return st, nil
}

// Station returns the station with the given ID.
func (n *Network) Station(id int) (*station.Station, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	m, ok := n.stations[id]
	if !ok {
		return nil, fmt.Errorf("station %d: %w", id, model.ErrNotFound)
	}
	return m.station, nil
}

// Stations returns all stations ordered by ID.
func (n *Network) Stations() []*station.Station {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*station.Station, 0, len(n.stations))
	for _, m := range n.stations {
		out = append(out, m.station)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// RegisterUser adds a user to the station's registry.
func (n *Network) RegisterUser(stationID int, u model.User) error {
	reg, err := n.registryFor(stationID)
	if err != nil {
		return err
	}
	return reg.RegisterUser(u)
}

// RegisterVehicle adds a vehicle to the station's registry.
func (n *Network) RegisterVehicle(stationID int, v model.Vehicle) error {
	reg, err := n.registryFor(stationID)
	if err != nil {
		return err
	}
	return reg.RegisterVehicle(v)
}

func (n *Network) registryFor(stationID int) (*registry.Registry, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	m, ok := n.stations[stationID]
	if !ok {
		return nil, fmt.Errorf("station %d: %w", stationID, model.ErrNotFound)
	}
	return m.registry, nil
}

// SetWeather updates the weather observed by every station.
func (n *Network) SetWeather(w energy.Weather) {
	n.weather.Set(w)
	n.log.Infof("weather set to %s", w)
}

// Weather returns the current weather.
func (n *Network) Weather() energy.Weather {
	return n.weather.Current()
}

// TotalLoad sums the live load of every station under the current
// weather.
func (n *Network) TotalLoad() float64 {
	var total float64
	for _, st := range n.Stations() {
		total += st.Load()
	}
	return total
}

// Reports produces one report per station, ordered by station ID.
func (n *Network) Reports() []station.Report {
	stations := n.Stations()
	out := make([]station.Report, 0, len(stations))
	for _, st := range stations {
		out = append(out, st.Report())
	}
	return out
}
