package energy

import (
	"fmt"
	"sync"
)

// Weather describes the environmental condition affecting solar docks.
type Weather int

const (
	Sunny Weather = iota
	Cloudy
	Night
)

// ParseWeather converts a configuration string into a Weather value.
func ParseWeather(s string) (Weather, error) {
	switch s {
	case "sunny":
		return Sunny, nil
	case "cloudy":
		return Cloudy, nil
	case "night":
		return Night, nil
	default:
		return Sunny, fmt.Errorf("unknown weather condition %q", s)
	}
}

func (w Weather) String() string {
	switch w {
	case Sunny:
		return "sunny"
	case Cloudy:
		return "cloudy"
	case Night:
		return "night"
	default:
		return fmt.Sprintf("Weather(%d)", int(w))
	}
}

// WeatherStore holds the current weather shared by every station in the
// network. Updates are last-writer-wins and immediately visible: a booking
// completed after a weather change is billed against the new conditions,
// whatever the conditions were when it was created.
type WeatherStore struct {
	mu sync.RWMutex
	w  Weather
}

// NewWeatherStore creates a store initialised to w.
func NewWeatherStore(w Weather) *WeatherStore {
	return &WeatherStore{w: w}
}

// Current returns the weather as of the last Set.
func (s *WeatherStore) Current() Weather {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w
}

// Set replaces the current weather.
func (s *WeatherStore) Set(w Weather) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}
