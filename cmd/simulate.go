package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evdock/app"
	"github.com/kilianp07/evdock/core/energy"
	"github.com/kilianp07/evdock/core/model"
	"github.com/kilianp07/evdock/core/notify"
	"github.com/kilianp07/evdock/core/station"
	"github.com/kilianp07/evdock/infra/logger"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted booking day against the configured network",
	RunE:  simulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

// simulate drives one station through a full day: registrations, an
// off-peak booking, a peak request that gets deferred, a completion, a
// cancellation and the closing report.
func simulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.MQTT.Enabled = false
	cfg.Metrics.PrometheusEnabled = false
	cfg.Metrics.InfluxEnabled = false

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("simulate").Errorf("service close: %v", err)
		}
	}()

	events, cancelSub := notify.Subscribe(svc.Bus())
	defer cancelSub()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for n := range events {
			if n.Value != nil {
				fmt.Printf("notify user %d: %s (%.3f)\n", n.UserID, n.Message, *n.Value)
			} else {
				fmt.Printf("notify user %d: %s\n", n.UserID, n.Message)
			}
		}
	}()

	net := svc.Network
	st := net.Stations()[0]
	stID := st.ID()

	users := []model.User{
		{ID: 1, Name: "alice", Level: model.Premium},
		{ID: 2, Name: "bob", Level: model.Regular},
	}
	for _, u := range users {
		if err := net.RegisterUser(stID, u); err != nil {
			return fmt.Errorf("register user %d: %w", u.ID, err)
		}
	}
	vehicles := []model.Vehicle{
		{ID: 1, UserID: 1, SoC: 50, CapacityKWh: 40, V2G: true},
		{ID: 2, UserID: 2, SoC: 65, CapacityKWh: 60},
	}
	for _, v := range vehicles {
		if err := net.RegisterVehicle(stID, v); err != nil {
			return fmt.Errorf("register vehicle %d: %w", v.ID, err)
		}
	}

	// Off-peak fast charge, starts immediately.
	morning, err := st.RequestBooking(station.Request{
		UserID: 2, VehicleID: 2, StartHour: 8, DurationHours: 2, PowerKW: 50, Type: model.ChargeFast,
	})
	if err != nil {
		return fmt.Errorf("morning booking: %w", err)
	}
	fmt.Printf("booking %d on dock %d at %.1f\n", morning.ID, morning.DockID, morning.StartHour)

	// Peak-hour request from a regular user with a healthy battery; the
	// start is pushed to the end of the peak window.
	deferred, err := st.RequestBooking(station.Request{
		UserID: 2, VehicleID: 2, StartHour: 14, DurationHours: 1, PowerKW: 7, Type: model.ChargeSlow,
	})
	if err != nil {
		return fmt.Errorf("peak booking: %w", err)
	}
	fmt.Printf("booking %d on dock %d at %.1f\n", deferred.ID, deferred.DockID, deferred.StartHour)

	// A premium member keeps the requested peak slot.
	premium, err := st.RequestBooking(station.Request{
		UserID: 1, VehicleID: 1, StartHour: 13, DurationHours: 2, PowerKW: 22, Type: model.ChargeMedium,
	})
	if err != nil {
		return fmt.Errorf("premium booking: %w", err)
	}
	fmt.Printf("booking %d on dock %d at %.1f\n", premium.ID, premium.DockID, premium.StartHour)

	printJSON("live sessions at 13.5", st.LiveSessions(13.5))
	printJSON("dock status", st.DockStatus())
	fmt.Printf("network load %.1f kW of %.0f kW grid capacity\n", net.TotalLoad(), cfg.Network.GridCapacityKW)

	// Clouds roll in before the sessions end.
	net.SetWeather(energy.Cloudy)

	if _, err := st.CompleteBooking(morning.ID); err != nil {
		return fmt.Errorf("complete booking %d: %w", morning.ID, err)
	}
	if _, err := st.CompleteBooking(premium.ID); err != nil {
		return fmt.Errorf("complete booking %d: %w", premium.ID, err)
	}
	penalty, err := st.CancelBooking(deferred.ID)
	if err != nil {
		return fmt.Errorf("cancel booking %d: %w", deferred.ID, err)
	}
	fmt.Printf("booking %d cancelled, penalty %.2f\n", deferred.ID, penalty)

	returned, err := st.DischargeToGrid(1, 5)
	if err != nil {
		return fmt.Errorf("discharge: %w", err)
	}
	fmt.Printf("vehicle 1 returned %.1f kWh to the grid\n", returned)

	printJSON("bookings for user 2", st.UserBookings(2))
	printJSON("report", st.Report())

	cancelSub()
	<-done
	return nil
}

func printJSON(title string, v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	fmt.Printf("%s:\n", title)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode %s: %v\n", title, err)
	}
}
