package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/evdock/core/metrics"
)

// PromSink records booking engine events in Prometheus metrics.
type PromSink struct {
	bookings      *prometheus.CounterVec
	sessions      *prometheus.CounterVec
	energy        *prometheus.CounterVec
	revenue       *prometheus.CounterVec
	notifications *prometheus.CounterVec
	occupancy     *prometheus.GaugeVec
	load          *prometheus.GaugeVec
}

// NewPromSink registers booking metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evdock_bookings_total",
			Help: "Booking lifecycle events by outcome",
		}, []string{"station", "outcome", "charging_type"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evdock_sessions_total",
			Help: "Completed charging sessions",
		}, []string{"station", "source", "charging_type"}),
		energy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evdock_session_energy_kwh_total",
			Help: "Energy delivered by completed sessions",
		}, []string{"station", "source"}),
		revenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evdock_session_revenue_total",
			Help: "Revenue billed on completed sessions",
		}, []string{"station"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evdock_notifications_total",
			Help: "User notifications emitted by the engine",
		}, []string{"station"}),
		occupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evdock_docks_occupied",
			Help: "Docks currently occupied per station",
		}, []string{"station"}),
		load: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evdock_station_load_kw",
			Help: "Power drawn by occupied docks under current weather",
		}, []string{"station"}),
	}
	collectors := []prometheus.Collector{
		s.bookings, s.sessions, s.energy, s.revenue, s.notifications, s.occupancy, s.load,
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				s.bookings = are.ExistingCollector.(*prometheus.CounterVec)
			case 1:
				s.sessions = are.ExistingCollector.(*prometheus.CounterVec)
			case 2:
				s.energy = are.ExistingCollector.(*prometheus.CounterVec)
			case 3:
				s.revenue = are.ExistingCollector.(*prometheus.CounterVec)
			case 4:
				s.notifications = are.ExistingCollector.(*prometheus.CounterVec)
			case 5:
				s.occupancy = are.ExistingCollector.(*prometheus.GaugeVec)
			case 6:
				s.load = are.ExistingCollector.(*prometheus.GaugeVec)
			}
		}
	}
	return s, nil
}

// RecordBooking increments the outcome counter for the event.
func (s *PromSink) RecordBooking(ev coremetrics.BookingEvent) error {
	s.bookings.WithLabelValues(strconv.Itoa(ev.StationID), string(ev.Outcome), ev.Type.String()).Inc()
	return nil
}

// RecordSession accumulates session, energy and revenue counters.
func (s *PromSink) RecordSession(ev coremetrics.SessionEvent) error {
	station := strconv.Itoa(ev.StationID)
	s.sessions.WithLabelValues(station, ev.Source, ev.Type.String()).Inc()
	s.energy.WithLabelValues(station, ev.Source).Add(ev.EnergyKWh)
	s.revenue.WithLabelValues(station).Add(ev.Cost)
	return nil
}

// RecordOccupancy sets the per-station occupancy and load gauges.
func (s *PromSink) RecordOccupancy(ev coremetrics.OccupancyEvent) error {
	station := strconv.Itoa(ev.StationID)
	s.occupancy.WithLabelValues(station).Set(float64(ev.Occupied))
	s.load.WithLabelValues(station).Set(ev.LoadKW)
	return nil
}

// RecordNotification counts an emitted notification.
func (s *PromSink) RecordNotification(stationID, _ int) error {
	s.notifications.WithLabelValues(strconv.Itoa(stationID)).Inc()
	return nil
}
