package network

import (
	"errors"
	"testing"

	"github.com/kilianp07/evdock/core/energy"
	"github.com/kilianp07/evdock/core/model"
	"github.com/kilianp07/evdock/core/station"
	"github.com/kilianp07/evdock/infra/logger"
)

func testCaps() Capacities { return Capacities{MaxUsers: 10, MaxVehicles: 10} }

func testStationConfig(id int) station.Config {
	return station.Config{
		ID: id,
		Docks: []model.Dock{
			{ID: 1, PowerKW: 7, Source: energy.Grid},
			{ID: 2, PowerKW: 22, Source: energy.Solar},
		},
	}
}

func newTestNetwork(t *testing.T) *Network {
	t.Helper()
	n, err := New(energy.NewWeatherStore(energy.Sunny), nil, nil, logger.NopLogger{}, 0)
	if err != nil {
		t.Fatalf("new network: %v", err)
	}
	return n
}

func TestAddStationAndLookup(t *testing.T) {
	n := newTestNetwork(t)

	st, err := n.AddStation(testStationConfig(1), testCaps())
	if err != nil {
		t.Fatalf("add station: %v", err)
	}
	got, err := n.Station(1)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != st {
		t.Fatalf("lookup returned a different station")
	}
	if _, err := n.Station(9); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddStationDuplicateID(t *testing.T) {
	n := newTestNetwork(t)
	if _, err := n.AddStation(testStationConfig(1), testCaps()); err != nil {
		t.Fatalf("add station: %v", err)
	}
	if _, err := n.AddStation(testStationConfig(1), testCaps()); !errors.Is(err, model.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestStationPoolBounded(t *testing.T) {
	n := newTestNetwork(t)
	for id := 1; id <= DefaultMaxStations; id++ {
		if _, err := n.AddStation(testStationConfig(id), testCaps()); err != nil {
			t.Fatalf("add station %d: %v", id, err)
		}
	}
	if _, err := n.AddStation(testStationConfig(99), testCaps()); !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestStationsOrderedByID(t *testing.T) {
	n := newTestNetwork(t)
	for _, id := range []int{3, 1, 2} {
		if _, err := n.AddStation(testStationConfig(id), testCaps()); err != nil {
			t.Fatalf("add station %d: %v", id, err)
		}
	}
	stations := n.Stations()
	for i, want := range []int{1, 2, 3} {
		if stations[i].ID() != want {
			t.Fatalf("station %d has ID %d, want %d", i, stations[i].ID(), want)
		}
	}
}

func TestRegistrationPerStation(t *testing.T) {
	n := newTestNetwork(t)
	if _, err := n.AddStation(testStationConfig(1), testCaps()); err != nil {
		t.Fatalf("add station: %v", err)
	}
	if _, err := n.AddStation(testStationConfig(2), testCaps()); err != nil {
		t.Fatalf("add station: %v", err)
	}

	if err := n.RegisterUser(1, model.User{ID: 10, Name: "ana", Level: model.Premium}); err != nil {
		t.Fatalf("register user: %v", err)
	}
	if err := n.RegisterVehicle(1, model.Vehicle{ID: 20, UserID: 10, SoC: 50, CapacityKWh: 40}); err != nil {
		t.Fatalf("register vehicle: %v", err)
	}

	// Registries are independent: the same user can enrol at another station.
	if err := n.RegisterUser(2, model.User{ID: 10, Name: "ana", Level: model.Premium}); err != nil {
		t.Fatalf("register user at second station: %v", err)
	}
	if err := n.RegisterUser(9, model.User{ID: 1}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	st, err := n.Station(1)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	booked, err := st.RequestBooking(station.Request{
		UserID: 10, VehicleID: 20, StartHour: 8, DurationHours: 2, PowerKW: 7, Type: model.ChargeSlow,
	})
	if err != nil {
		t.Fatalf("booking through network-owned registry: %v", err)
	}
	if booked.Status != model.StatusActive {
		t.Fatalf("expected active booking, got %v", booked.Status)
	}
}

func TestWeatherSharedAcrossStations(t *testing.T) {
	n := newTestNetwork(t)
	st1, err := n.AddStation(testStationConfig(1), testCaps())
	if err != nil {
		t.Fatalf("add station: %v", err)
	}
	if err := n.RegisterUser(1, model.User{ID: 10, Name: "bo"}); err != nil {
		t.Fatalf("register user: %v", err)
	}
	if err := n.RegisterVehicle(1, model.Vehicle{ID: 20, UserID: 10, SoC: 50, CapacityKWh: 40}); err != nil {
		t.Fatalf("register vehicle: %v", err)
	}

	n.SetWeather(energy.Night)
	if n.Weather() != energy.Night {
		t.Fatalf("weather not updated")
	}
	// Solar docks produce nothing at night, so a solar session is refused.
	_, err = st1.RequestBooking(station.Request{
		UserID: 10, VehicleID: 20, StartHour: 8, DurationHours: 1, PowerKW: 7, Type: model.ChargeSolar,
	})
	if !errors.Is(err, model.ErrNoAvailableResource) {
		t.Fatalf("expected ErrNoAvailableResource at night, got %v", err)
	}
}

func TestReportsCoverAllStations(t *testing.T) {
	n := newTestNetwork(t)
	for id := 1; id <= 2; id++ {
		if _, err := n.AddStation(testStationConfig(id), testCaps()); err != nil {
			t.Fatalf("add station %d: %v", id, err)
		}
	}
	reports := n.Reports()
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].StationID != 1 || reports[1].StationID != 2 {
		t.Fatalf("reports out of order: %+v", reports)
	}
}
