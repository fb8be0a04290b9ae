package weather

import (
	"time"
)

// Celsius is a whole-degree temperature.
type Celsius int

// Coordinates is a geocoded point. Resolvers are the only producers.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Weather is the normalized current-conditions view for one lookup.
// Sunrise and Sunset only carry hour and minute.
type Weather struct {
	Temperature Celsius   `json:"temperatureC"`
	Condition   Condition `json:"condition"`
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
	City        string    `json:"city"`
}
