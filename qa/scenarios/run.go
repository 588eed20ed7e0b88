package scenarios

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/evdock/core/energy"
	coremetrics "github.com/kilianp07/evdock/core/metrics"
	"github.com/kilianp07/evdock/core/model"
	"github.com/kilianp07/evdock/core/network"
	"github.com/kilianp07/evdock/core/station"
	"github.com/kilianp07/evdock/infra/logger"
	"github.com/kilianp07/evdock/infra/metrics"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	weather := energy.Sunny
	if sc.Weather != "" {
		weather, err = energy.ParseWeather(sc.Weather)
		if err != nil {
			t.Fatalf("weather: %v", err)
		}
	}

	net, err := network.New(energy.NewWeatherStore(weather), nil, sink, logger.NopLogger{}, 0)
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	st, err := net.AddStation(station.Config{ID: 1, Docks: scenarioDocks(sc)}, network.Capacities{MaxUsers: 10, MaxVehicles: 10})
	if err != nil {
		t.Fatalf("station: %v", err)
	}

	for _, u := range sc.Users {
		if err := net.RegisterUser(1, u.ToModel()); err != nil {
			t.Fatalf("register user %d: %v", u.ID, err)
		}
	}
	for _, v := range sc.Vehicles {
		if err := net.RegisterVehicle(1, v.ToModel()); err != nil {
			t.Fatalf("register vehicle %d: %v", v.ID, err)
		}
	}

	var scheduled, deferred, rejected int
	var booked []int
	for i, req := range sc.Requests {
		b, err := st.RequestBooking(station.Request{
			UserID:        req.UserID,
			VehicleID:     req.VehicleID,
			StartHour:     req.Start,
			DurationHours: req.Duration,
			PowerKW:       req.PowerKW,
			Type:          model.ChargingType(req.Type),
		})
		outcome := "scheduled"
		switch {
		case err != nil:
			outcome = "rejected"
			rejected++
		case b.StartHour != req.Start:
			outcome = "deferred"
			deferred++
			booked = append(booked, b.ID)
		default:
			scheduled++
			booked = append(booked, b.ID)
		}
		if req.Expect != "" && req.Expect != outcome {
			t.Errorf("request %d: expected %s, got %s (err: %v)", i, req.Expect, outcome, err)
		}
	}

	var revenue float64
	if sc.CompleteAll {
		for _, id := range booked {
			inv, err := st.CompleteBooking(id)
			if err != nil {
				t.Fatalf("complete booking %d: %v", id, err)
			}
			revenue += inv.Cost
		}
	}

	if scheduled != sc.Expected.Scheduled {
		t.Errorf("scenario %s expected %d scheduled, got %d", sc.Name, sc.Expected.Scheduled, scheduled)
	}
	if deferred != sc.Expected.Deferred {
		t.Errorf("scenario %s expected %d deferred, got %d", sc.Name, sc.Expected.Deferred, deferred)
	}
	if rejected != sc.Expected.Rejected {
		t.Errorf("scenario %s expected %d rejected, got %d", sc.Name, sc.Expected.Rejected, rejected)
	}
	if sc.Expected.Revenue != nil && math.Abs(revenue-*sc.Expected.Revenue) > 1e-6 {
		t.Errorf("scenario %s expected revenue %.3f, got %.3f", sc.Name, *sc.Expected.Revenue, revenue)
	}
}

func scenarioDocks(sc *Scenario) []model.Dock {
	if len(sc.Docks) == 0 {
		return []model.Dock{
			{ID: 1, PowerKW: 7, Source: energy.Grid},
			{ID: 2, PowerKW: 7, Source: energy.Solar},
			{ID: 3, PowerKW: 22, Source: energy.Grid},
			{ID: 4, PowerKW: 22, Source: energy.Solar},
			{ID: 5, PowerKW: 50, Source: energy.Grid},
		}
	}
	docks := make([]model.Dock, 0, len(sc.Docks))
	for _, d := range sc.Docks {
		src := energy.Grid
		if k, err := energy.ParseKind(d.Source); err == nil {
			src = k
		}
		docks = append(docks, model.Dock{ID: d.ID, PowerKW: d.PowerKW, Source: src})
	}
	return docks
}
