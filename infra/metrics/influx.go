package metrics

import (
	"context"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/evdock/core/logger"
	coremetrics "github.com/kilianp07/evdock/core/metrics"
	infralogger "github.com/kilianp07/evdock/infra/logger"
)

// InfluxSink writes booking and session events to an InfluxDB instance
// using the official client. It feeds the external reporting renderer.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing reporting backend
// never blocks the engine.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordBooking writes one point per allocation decision.
func (s *InfluxSink) RecordBooking(ev coremetrics.BookingEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("booking_event").
		AddTag("station", strconv.Itoa(ev.StationID)).
		AddTag("outcome", string(ev.Outcome)).
		AddTag("charging_type", ev.Type.String()).
		AddField("booking_id", ev.BookingID).
		AddField("user_id", ev.UserID).
		AddField("vehicle_id", ev.VehicleID).
		AddField("dock_id", ev.DockID).
		AddField("start_hour", ev.StartHour).
		AddField("duration_hours", ev.DurationHours).
		SetTime(eventTime(ev.Time))
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSession writes the invoice of a completed session.
func (s *InfluxSink) RecordSession(ev coremetrics.SessionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("charging_session").
		AddTag("station", strconv.Itoa(ev.StationID)).
		AddTag("source", ev.Source).
		AddTag("charging_type", ev.Type.String()).
		AddField("booking_id", ev.BookingID).
		AddField("user_id", ev.UserID).
		AddField("vehicle_id", ev.VehicleID).
		AddField("energy_kwh", ev.EnergyKWh).
		AddField("cost", ev.Cost).
		SetTime(eventTime(ev.Time))
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordOccupancy writes a dock pool snapshot.
func (s *InfluxSink) RecordOccupancy(ev coremetrics.OccupancyEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dock_occupancy").
		AddTag("station", strconv.Itoa(ev.StationID)).
		AddField("occupied", ev.Occupied).
		AddField("docks", ev.Docks).
		AddField("load_kw", ev.LoadKW).
		SetTime(eventTime(ev.Time))
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func eventTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
