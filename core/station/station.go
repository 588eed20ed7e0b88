// Package station implements the booking allocation and lifecycle engine
// for a single charging station: dock selection, overlap conflict
// detection, peak-hour deferral, booking state transitions and the
// billing performed at session completion.
package station

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kilianp07/evdock/core/energy"
	"github.com/kilianp07/evdock/core/logger"
	"github.com/kilianp07/evdock/core/metrics"
	"github.com/kilianp07/evdock/core/model"
	"github.com/kilianp07/evdock/core/notify"
)

// Peak window in simulation hours. Non-critical demand inside the window
// is deferred to its end, and completed sessions that started inside it
// carry a surcharge.
const (
	PeakStartHour = 12.0
	PeakEndHour   = 18.0
)

// DefaultMaxBookings bounds the ledger when the configuration does not
// say otherwise.
const DefaultMaxBookings = 20

// InPeak reports whether the given hour falls inside the half-open peak
// window [PeakStartHour, PeakEndHour).
func InPeak(hour float64) bool {
	return hour >= PeakStartHour && hour < PeakEndHour
}

// Directory is the registry view the engine consumes: user and vehicle
// lookups. Vehicles are returned as shared pointers so billing can update
// battery state; all mutation happens under the station lock.
type Directory interface {
	User(id int) (model.User, error)
	Vehicle(id int) (*model.Vehicle, error)
}

// Config describes a station's fixed resources.
type Config struct {
	ID          int
	Docks       []model.Dock
	MaxBookings int
}

// Request is a booking request as received from the front end.
type Request struct {
	UserID        int
	VehicleID     int
	StartHour     float64
	DurationHours float64
	PowerKW       float64
	Type          model.ChargingType
}

// Station owns one dock pool and one booking ledger. All operations are
// serialised by a single station lock; independent stations can be driven
// concurrently without coordination.
type Station struct {
	id          int
	maxBookings int
	docks       []*model.Dock
	bookings    []*model.Booking
	systemStart float64
	dir         Directory
	weather     *energy.WeatherStore
	notifier    notify.Notifier
	sink        metrics.MetricsSink
	log         logger.Logger
	mu          sync.Mutex
}

// New creates a Station from the configuration. A nil notifier or sink is
// replaced with a no-op implementation.
func New(cfg Config, dir Directory, weather *energy.WeatherStore, notifier notify.Notifier, sink metrics.MetricsSink, log logger.Logger) (*Station, error) {
	if dir == nil || weather == nil || log == nil {
		return nil, fmt.Errorf("station: nil dependency provided to New")
	}
	if len(cfg.Docks) == 0 {
		return nil, fmt.Errorf("station %d: no docks configured", cfg.ID)
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if cfg.MaxBookings <= 0 {
		cfg.MaxBookings = DefaultMaxBookings
	}
	docks := make([]*model.Dock, 0, len(cfg.Docks))
	seen := make(map[int]bool, len(cfg.Docks))
	for _, d := range cfg.Docks {
		if d.PowerKW <= 0 {
			return nil, fmt.Errorf("station %d: dock %d has non-positive power rating", cfg.ID, d.ID)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("station %d: duplicate dock ID %d", cfg.ID, d.ID)
		}
		seen[d.ID] = true
		dock := d
		dock.Occupied = false
		dock.VehicleID = 0
		dock.OccupiedHours = 0
		docks = append(docks, &dock)
	}
	sort.Slice(docks, func(i, j int) bool { return docks[i].ID < docks[j].ID })
	return &Station{
		id:          cfg.ID,
		maxBookings: cfg.MaxBookings,
		docks:       docks,
		dir:         dir,
		weather:     weather,
		notifier:    notifier,
		sink:        sink,
		log:         log,
	}, nil
}

// ID returns the station identifier.
func (s *Station) ID() int { return s.id }

// RequestBooking validates the request, applies the peak deferral policy,
// picks a dock and appends an active booking to the ledger. The returned
// booking carries the effective start time, which differs from the
// requested one when the request was deferred.
//
// The first request to reach the station anchors the simulation clock at
// its requested start hour, even if that request is then rejected for
// lack of a dock.
func (s *Station) RequestBooking(req Request) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.bookings) >= s.maxBookings {
		return model.Booking{}, fmt.Errorf("station %d: booking ledger full: %w", s.id, model.ErrCapacityExceeded)
	}
	if req.StartHour < 0 || req.StartHour >= 24 {
		return model.Booking{}, fmt.Errorf("start time %.2f out of range: %w", req.StartHour, model.ErrInvalidRequest)
	}
	if req.DurationHours <= 0 {
		return model.Booking{}, fmt.Errorf("duration %.2f must be positive: %w", req.DurationHours, model.ErrInvalidRequest)
	}
	if !req.Type.Valid() {
		return model.Booking{}, fmt.Errorf("charging type %d: %w", int(req.Type), model.ErrInvalidRequest)
	}
	user, err := s.dir.User(req.UserID)
	if err != nil {
		return model.Booking{}, err
	}
	veh, err := s.dir.Vehicle(req.VehicleID)
	if err != nil {
		return model.Booking{}, err
	}
	if veh.UserID != req.UserID {
		return model.Booking{}, fmt.Errorf("vehicle %d not owned by user %d: %w", req.VehicleID, req.UserID, model.ErrNotFound)
	}

	if len(s.bookings) == 0 {
		s.systemStart = req.StartHour
	}

	start := req.StartHour
	if InPeak(start) && !critical(user, veh) {
		start = PeakEndHour
		s.notify(req.UserID, "Booking deferred due to peak hours. New start time:", notify.Value(start))
		s.recordBooking(metrics.BookingEvent{
			StationID: s.id, UserID: req.UserID, VehicleID: req.VehicleID,
			Outcome: metrics.OutcomeDeferred, Type: req.Type,
			StartHour: start, DurationHours: req.DurationHours,
		})
		s.log.Debugw("booking deferred", map[string]any{
			"station": s.id, "user": req.UserID, "requested": req.StartHour, "effective": start,
		})
	}

	dock := s.findDock(req.PowerKW, start, req.DurationHours, req.Type == model.ChargeSolar)
	if dock == nil {
		s.recordBooking(metrics.BookingEvent{
			StationID: s.id, UserID: req.UserID, VehicleID: req.VehicleID,
			Outcome: metrics.OutcomeRejected, Type: req.Type,
			StartHour: start, DurationHours: req.DurationHours,
		})
		return model.Booking{}, fmt.Errorf("station %d: %w", s.id, model.ErrNoAvailableResource)
	}

	b := &model.Booking{
		ID:            len(s.bookings) + 1,
		UserID:        req.UserID,
		VehicleID:     req.VehicleID,
		DockID:        dock.ID,
		StationID:     s.id,
		StartHour:     start,
		DurationHours: req.DurationHours,
		Type:          req.Type,
		Status:        model.StatusActive,
	}
	s.bookings = append(s.bookings, b)
	dock.Occupied = true
	dock.VehicleID = veh.ID

	s.notify(req.UserID, "Charging session scheduled at:", notify.Value(start))
	s.recordBooking(metrics.BookingEvent{
		StationID: s.id, BookingID: b.ID, UserID: b.UserID, VehicleID: b.VehicleID,
		DockID: b.DockID, Outcome: metrics.OutcomeAccepted, Type: b.Type,
		StartHour: b.StartHour, DurationHours: b.DurationHours,
	})
	s.recordOccupancy()
	s.log.Infof("station %d: booking %d on dock %d at %.2f for %.2fh", s.id, b.ID, b.DockID, b.StartHour, b.DurationHours)
	return *b, nil
}

// CancelBooking transitions an active booking to cancelled, frees its
// dock and returns the flat penalty charged to the user. The penalty
// depends on how close the booked start is to the station's clock anchor:
// 5.0 under one hour, 2.0 under four, free otherwise.
func (s *Station) CancelBooking(bookingID int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bookingByID(bookingID)
	if b == nil {
		return 0, fmt.Errorf("booking %d: %w", bookingID, model.ErrNotFound)
	}
	if b.Status != model.StatusActive {
		return 0, fmt.Errorf("booking %d is %s: %w", bookingID, b.Status, model.ErrInvalidState)
	}

	penalty := cancellationPenalty(b.StartHour - s.systemStart)
	b.Status = model.StatusCancelled
	s.releaseDock(b.DockID)

	s.notify(b.UserID, "Booking cancelled. Penalty charged:", notify.Value(penalty))
	s.recordBooking(metrics.BookingEvent{
		StationID: s.id, BookingID: b.ID, UserID: b.UserID, VehicleID: b.VehicleID,
		DockID: b.DockID, Outcome: metrics.OutcomeCancelled, Type: b.Type,
		StartHour: b.StartHour, DurationHours: b.DurationHours,
	})
	s.recordOccupancy()
	s.log.Infof("station %d: booking %d cancelled, penalty %.2f", s.id, bookingID, penalty)
	return penalty, nil
}

// DischargeToGrid feeds energy from a V2G-capable vehicle back to the
// grid and returns the amount actually discharged. It is independent of
// any booking or dock state.
func (s *Station) DischargeToGrid(vehicleID int, energyKWh float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if energyKWh < 0 {
		return 0, fmt.Errorf("negative discharge request: %w", model.ErrInvalidRequest)
	}
	veh, err := s.dir.Vehicle(vehicleID)
	if err != nil {
		return 0, err
	}
	out := veh.Discharge(energyKWh)
	s.log.Debugf("station %d: vehicle %d discharged %.2f kWh", s.id, vehicleID, out)
	return out, nil
}

// DockStatus returns a snapshot of every dock in ID order.
func (s *Station) DockStatus() []model.DockStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.DockStatus, 0, len(s.docks))
	for _, d := range s.docks {
		out = append(out, model.DockStatus{
			DockID:    d.ID,
			PowerKW:   d.PowerKW,
			Source:    d.Source.String(),
			Occupied:  d.Occupied,
			VehicleID: d.VehicleID,
		})
	}
	return out
}

// UserBookings returns copies of every booking held by the given user,
// whatever their status.
func (s *Station) UserBookings(userID int) []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out
}

// Load returns the power currently drawn by occupied docks under the
// present weather.
func (s *Station) Load() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// LiveSession describes the progress of an active booking at a given
// simulation time.
type LiveSession struct {
	BookingID      int
	VehicleID      int
	DockID         int
	DeliveredKWh   float64
	RemainingHours float64
}

// LiveSessions reports delivered energy and remaining time for each
// active booking as of nowHour, assuming constant delivery at the dock's
// current available power.
func (s *Station) LiveSessions(nowHour float64) []LiveSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.weather.Current()
	var out []LiveSession
	for _, b := range s.bookings {
		if b.Status != model.StatusActive {
			continue
		}
		dock := s.dockByID(b.DockID)
		if dock == nil {
			s.log.Errorf("station %d: booking %d references unknown dock %d", s.id, b.ID, b.DockID)
			continue
		}
		elapsed := nowHour - b.StartHour
		if elapsed < 0 {
			elapsed = 0
		}
		if elapsed > b.DurationHours {
			elapsed = b.DurationHours
		}
		out = append(out, LiveSession{
			BookingID:      b.ID,
			VehicleID:      b.VehicleID,
			DockID:         b.DockID,
			DeliveredKWh:   dock.AvailablePower(w) * elapsed,
			RemainingHours: b.DurationHours - elapsed,
		})
	}
	return out
}

// findDock returns the preferred free dock for the window, or nil.
// Candidates must be unoccupied, deliver at least powerKW under the
// current weather, be solar-backed when solarOnly is set, and have no
// active booking overlapping the window. During peak hours a non-solar
// request prefers a solar-backed candidate; otherwise the lowest dock ID
// wins.
func (s *Station) findDock(powerKW, start, duration float64, solarOnly bool) *model.Dock {
	w := s.weather.Current()
	var candidates []*model.Dock
	for _, d := range s.docks {
		if d.Occupied {
			continue
		}
		if d.AvailablePower(w) < powerKW {
			continue
		}
		if solarOnly && d.Source != energy.Solar {
			continue
		}
		if !s.windowFree(d.ID, start, duration) {
			continue
		}
		candidates = append(candidates, d)
	}
	if len(candidates) == 0 {
		return nil
	}
	if InPeak(start) && !solarOnly {
		for _, d := range candidates {
			if d.Source == energy.Solar {
				return d
			}
		}
	}
	return candidates[0]
}

// windowFree reports whether no active booking on the dock overlaps the
// half-open interval [start, start+duration).
func (s *Station) windowFree(dockID int, start, duration float64) bool {
	for _, b := range s.bookings {
		if b.Status != model.StatusActive || b.DockID != dockID {
			continue
		}
		if b.Overlaps(start, duration) {
			return false
		}
	}
	return true
}

func (s *Station) bookingByID(id int) *model.Booking {
	for _, b := range s.bookings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (s *Station) dockByID(id int) *model.Dock {
	for _, d := range s.docks {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (s *Station) releaseDock(dockID int) {
	if d := s.dockByID(dockID); d != nil {
		d.Occupied = false
		d.VehicleID = 0
	}
}

func (s *Station) loadLocked() float64 {
	w := s.weather.Current()
	total := 0.0
	for _, d := range s.docks {
		if d.Occupied {
			total += d.AvailablePower(w)
		}
	}
	return total
}

// notify delivers one user notification. Counting happens downstream,
// on the bus, so sinks see each notification exactly once.
func (s *Station) notify(userID int, msg string, value *float64) {
	if err := s.notifier.Send(notify.New(s.id, userID, msg, value)); err != nil {
		s.log.Warnf("station %d: notify user %d: %v", s.id, userID, err)
	}
}

func (s *Station) recordBooking(ev metrics.BookingEvent) {
	if err := s.sink.RecordBooking(ev); err != nil {
		s.log.Warnf("station %d: record booking event: %v", s.id, err)
	}
}

func (s *Station) recordOccupancy() {
	r, ok := s.sink.(metrics.OccupancyRecorder)
	if !ok {
		return
	}
	occupied := 0
	for _, d := range s.docks {
		if d.Occupied {
			occupied++
		}
	}
	ev := metrics.OccupancyEvent{
		StationID: s.id,
		Occupied:  occupied,
		Docks:     len(s.docks),
		LoadKW:    s.loadLocked(),
	}
	if err := r.RecordOccupancy(ev); err != nil {
		s.log.Warnf("station %d: record occupancy: %v", s.id, err)
	}
}

// critical requests are exempt from peak deferral: premium members and
// vehicles below 20% charge.
func critical(u model.User, v *model.Vehicle) bool {
	return u.Level == model.Premium || v.SoC < 20
}

func cancellationPenalty(timeToStart float64) float64 {
	switch {
	case timeToStart < 1:
		return 5.0
	case timeToStart < 4:
		return 2.0
	default:
		return 0
	}
}
