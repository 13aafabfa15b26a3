package repository

import (
	"context"
	"strings"
	"time"

	"github.com/mpetrenko/flightsched/internal/domain"
)

type CreateFlightParams struct {
	FlightNumber   string
	Origin         string
	Destination    string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	AircraftType   string
	SeatsTotal     int
	SeatsAvailable *int
	Status         domain.FlightStatus
	ProcessID      *string
}

// UpdateFlightParams carries a partial update. Only fields whose Optional is
// Set are written; ProcessID additionally honors an explicit null as "clear".
type UpdateFlightParams struct {
	FlightNumber   domain.Optional[string]
	Origin         domain.Optional[string]
	Destination    domain.Optional[string]
	DepartureTime  domain.Optional[time.Time]
	ArrivalTime    domain.Optional[time.Time]
	AircraftType   domain.Optional[string]
	SeatsTotal     domain.Optional[int]
	SeatsAvailable domain.Optional[int]
	Status         domain.Optional[domain.FlightStatus]
	ProcessID      domain.Optional[string]
}

type ListFlightsParams struct {
	Origin      string
	Destination string
	Status      domain.FlightStatus
	ProcessID   string
	SortBy      string
	SortOrder   string
	Page        int
	PageSize    int
}

type FlightRepository interface {
	Create(ctx context.Context, params CreateFlightParams) (*domain.Flight, error)
	// GetByID returns (nil, nil) when the id does not exist so callers decide
	// how to surface the absence.
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	// List returns the matching page plus the total count before pagination.
	List(ctx context.Context, params ListFlightsParams) ([]domain.Flight, int64, error)
	Update(ctx context.Context, id int64, params UpdateFlightParams) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

const flightColumns = "id, flight_number, origin, destination, departure_time, arrival_time, duration_minutes, aircraft_type, seats_total, seats_available, status, created_at, updated_at, process_id"

var sortableColumns = map[string]string{
	"flight_number":   "flight_number",
	"departure_time":  "departure_time",
	"arrival_time":    "arrival_time",
	"created_at":      "created_at",
	"updated_at":      "updated_at",
	"seats_available": "seats_available",
}

// orderClause validates the sort field against the allow-list. Unrecognized
// fields fall back to departure_time without erroring.
func orderClause(sortBy, sortOrder string) string {
	col, ok := sortableColumns[sortBy]
	if !ok {
		col = "departure_time"
	}
	dir := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		dir = "DESC"
	}
	return col + " " + dir
}

func resolveCreateDefaults(p CreateFlightParams) (seatsAvailable int, status domain.FlightStatus) {
	seatsAvailable = p.SeatsTotal
	if p.SeatsAvailable != nil {
		seatsAvailable = *p.SeatsAvailable
	}
	status = p.Status
	if status == "" {
		status = domain.FlightStatusScheduled
	}
	return seatsAvailable, status
}

// applyUpdate merges a partial update into the current row and recomputes the
// duration when either time field changed.
func applyUpdate(f *domain.Flight, p UpdateFlightParams, now time.Time) {
	if p.FlightNumber.Set {
		f.FlightNumber = p.FlightNumber.Value
	}
	if p.Origin.Set {
		f.Origin = p.Origin.Value
	}
	if p.Destination.Set {
		f.Destination = p.Destination.Value
	}
	if p.DepartureTime.Set {
		f.DepartureTime = p.DepartureTime.Value
	}
	if p.ArrivalTime.Set {
		f.ArrivalTime = p.ArrivalTime.Value
	}
	if p.AircraftType.Set {
		f.AircraftType = p.AircraftType.Value
	}
	if p.SeatsTotal.Set {
		f.SeatsTotal = p.SeatsTotal.Value
	}
	if p.SeatsAvailable.Set {
		f.SeatsAvailable = p.SeatsAvailable.Value
	}
	if p.Status.Set {
		f.Status = p.Status.Value
	}
	if p.ProcessID.Set {
		if p.ProcessID.Null {
			f.ProcessID = nil
		} else {
			v := p.ProcessID.Value
			f.ProcessID = &v
		}
	}
	if (p.DepartureTime.Set || p.ArrivalTime.Set) && !f.DepartureTime.IsZero() && !f.ArrivalTime.IsZero() {
		f.DurationMinutes = domain.DurationMinutesBetween(f.DepartureTime, f.ArrivalTime)
	}
	f.UpdatedAt = now
}
