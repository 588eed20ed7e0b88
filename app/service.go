package app

import (
	"context"
	"fmt"

	"github.com/kilianp07/evdock/config"
	"github.com/kilianp07/evdock/core/energy"
	coremetrics "github.com/kilianp07/evdock/core/metrics"
	"github.com/kilianp07/evdock/core/network"
	corenotify "github.com/kilianp07/evdock/core/notify"
	"github.com/kilianp07/evdock/infra/logger"
	"github.com/kilianp07/evdock/infra/metrics"
	"github.com/kilianp07/evdock/infra/notify"
	"github.com/kilianp07/evdock/internal/eventbus"
)

// Service wires the station network to its notification and metrics
// adapters.
type Service struct {
	Network *network.Network
	bus     eventbus.EventBus
	mqtt    *notify.MQTTNotifier
	influx  *metrics.InfluxSink
	sink    coremetrics.MetricsSink
	log     logger.Logger

	promEnabled bool
	promPort    string
	gridKW      float64
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.Configure(cfg.Logging.Level, cfg.Logging.Env)
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	var influx *metrics.InfluxSink
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics)
		if is, ok := sink.(*metrics.InfluxSink); ok {
			influx = is
		}
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	notifiers := corenotify.Multi{corenotify.NewBusNotifier(bus)}
	var mqttNotifier *notify.MQTTNotifier
	if cfg.MQTT.Enabled {
		n, err := notify.NewMQTTNotifier(cfg.MQTT.Notifier)
		if err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		mqttNotifier = n
		notifiers = append(notifiers, n)
	}

	weather, err := cfg.Network.InitialWeather()
	if err != nil {
		return nil, err
	}
	net, err := network.New(energy.NewWeatherStore(weather), notifiers, sink, logg, cfg.Network.MaxStations)
	if err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}
	stationCfgs, err := cfg.Network.StationConfigs()
	if err != nil {
		return nil, err
	}
	caps := network.Capacities{
		MaxUsers:    cfg.Network.Capacities.MaxUsers,
		MaxVehicles: cfg.Network.Capacities.MaxVehicles,
	}
	for _, sc := range stationCfgs {
		if _, err := net.AddStation(sc, caps); err != nil {
			return nil, fmt.Errorf("station %d: %w", sc.ID, err)
		}
	}

	return &Service{
		Network:     net,
		bus:         bus,
		mqtt:        mqttNotifier,
		influx:      influx,
		sink:        sink,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
		gridKW:      cfg.Network.GridCapacityKW,
	}, nil
}

// Bus exposes the notification bus to in-process consumers.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// Run starts the background adapters and blocks until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	s.log.Infof("service running with %d stations, %.0f kW grid capacity", len(s.Network.Stations()), s.gridKW)
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.mqtt != nil {
		s.mqtt.Close()
	}
	if s.influx != nil {
		s.influx.Close()
	}
	return nil
}
