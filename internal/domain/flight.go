package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusDeparted  FlightStatus = "departed"
	FlightStatusArrived   FlightStatus = "arrived"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusCancelled FlightStatus = "cancelled"
)

func (s FlightStatus) IsValid() bool {
	switch s {
	case FlightStatusScheduled, FlightStatusDeparted, FlightStatusArrived, FlightStatusDelayed, FlightStatusCancelled:
		return true
	}
	return false
}

type Flight struct {
	ID              int64
	FlightNumber    string
	Origin          string
	Destination     string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	DurationMinutes int
	AircraftType    string
	SeatsTotal      int
	SeatsAvailable  int
	Status          FlightStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProcessID       *string
}

// DurationMinutesBetween returns the whole minutes between departure and
// arrival, floored.
func DurationMinutesBetween(departure, arrival time.Time) int {
	return int(arrival.Sub(departure) / time.Minute)
}
