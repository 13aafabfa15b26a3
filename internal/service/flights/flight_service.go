package flights

import (
	"context"
	"time"

	"github.com/mpetrenko/flightsched/internal/domain"
	"github.com/mpetrenko/flightsched/internal/repository"
	"github.com/mpetrenko/flightsched/pkg/logger"
)

const (
	maxFlightNumberLen = 20
	maxAirportLen      = 10
	maxAircraftTypeLen = 50
	maxProcessIDLen    = 20

	defaultPage     = 1
	defaultPageSize = 10
)

// FlightPage is the paginated list result returned to the API layer.
type FlightPage struct {
	Items    []domain.Flight
	Total    int64
	Page     int
	PageSize int
}

type FlightUseCase interface {
	Create(ctx context.Context, params repository.CreateFlightParams) (*domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	List(ctx context.Context, params repository.ListFlightsParams) (*FlightPage, error)
	Update(ctx context.Context, id int64, params repository.UpdateFlightParams) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

type FlightService struct {
	repo repository.FlightRepository
	log  logger.Logger
}

func NewFlightService(repo repository.FlightRepository, log logger.Logger) *FlightService {
	return &FlightService{repo: repo, log: log}
}

func (s *FlightService) Create(ctx context.Context, params repository.CreateFlightParams) (*domain.Flight, error) {
	if err := validateCreate(params); err != nil {
		return nil, err
	}
	flight, err := s.repo.Create(ctx, params)
	if err != nil {
		s.log.Warn("create flight failed", "flight_number", params.FlightNumber, "error", err)
		return nil, err
	}
	s.log.Info("flight created", "id", flight.ID, "flight_number", flight.FlightNumber)
	return flight, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, domain.ErrFlightNotFound
	}
	return flight, nil
}

func (s *FlightService) List(ctx context.Context, params repository.ListFlightsParams) (*FlightPage, error) {
	if params.Page < 1 {
		params.Page = defaultPage
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &FlightPage{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

func (s *FlightService) Update(ctx context.Context, id int64, params repository.UpdateFlightParams) (*domain.Flight, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrFlightNotFound
	}
	if err := validateUpdate(params, existing); err != nil {
		return nil, err
	}
	flight, err := s.repo.Update(ctx, id, params)
	if err != nil {
		s.log.Warn("update flight failed", "id", id, "error", err)
		return nil, err
	}
	s.log.Info("flight updated", "id", flight.ID)
	return flight, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrFlightNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("flight deleted", "id", id)
	return nil
}

func validateCreate(p repository.CreateFlightParams) error {
	if p.FlightNumber == "" {
		return domain.NewValidationError("flight_number", "is required")
	}
	if len(p.FlightNumber) > maxFlightNumberLen {
		return domain.NewValidationError("flight_number", "must be at most 20 characters")
	}
	if p.Origin == "" {
		return domain.NewValidationError("origin", "is required")
	}
	if len(p.Origin) > maxAirportLen {
		return domain.NewValidationError("origin", "must be at most 10 characters")
	}
	if p.Destination == "" {
		return domain.NewValidationError("destination", "is required")
	}
	if len(p.Destination) > maxAirportLen {
		return domain.NewValidationError("destination", "must be at most 10 characters")
	}
	if p.DepartureTime.IsZero() {
		return domain.NewValidationError("departure_time", "is required")
	}
	if p.ArrivalTime.IsZero() {
		return domain.NewValidationError("arrival_time", "is required")
	}
	if !p.ArrivalTime.After(p.DepartureTime) {
		return domain.NewValidationError("arrival_time", "must be after departure_time")
	}
	if p.AircraftType == "" {
		return domain.NewValidationError("aircraft_type", "is required")
	}
	if len(p.AircraftType) > maxAircraftTypeLen {
		return domain.NewValidationError("aircraft_type", "must be at most 50 characters")
	}
	if p.SeatsTotal <= 0 {
		return domain.NewValidationError("seats_total", "must be greater than zero")
	}
	if p.SeatsAvailable != nil && *p.SeatsAvailable < 0 {
		return domain.NewValidationError("seats_available", "must not be negative")
	}
	if p.Status != "" && !p.Status.IsValid() {
		return domain.NewValidationError("status", "is not a valid flight status")
	}
	if p.ProcessID != nil && len(*p.ProcessID) > maxProcessIDLen {
		return domain.NewValidationError("process_id", "must be at most 20 characters")
	}
	return nil
}

func validateUpdate(p repository.UpdateFlightParams, current *domain.Flight) error {
	if p.FlightNumber.Set {
		if p.FlightNumber.Null || p.FlightNumber.Value == "" {
			return domain.NewValidationError("flight_number", "must not be empty")
		}
		if len(p.FlightNumber.Value) > maxFlightNumberLen {
			return domain.NewValidationError("flight_number", "must be at most 20 characters")
		}
	}
	if p.Origin.Set {
		if p.Origin.Null || p.Origin.Value == "" {
			return domain.NewValidationError("origin", "must not be empty")
		}
		if len(p.Origin.Value) > maxAirportLen {
			return domain.NewValidationError("origin", "must be at most 10 characters")
		}
	}
	if p.Destination.Set {
		if p.Destination.Null || p.Destination.Value == "" {
			return domain.NewValidationError("destination", "must not be empty")
		}
		if len(p.Destination.Value) > maxAirportLen {
			return domain.NewValidationError("destination", "must be at most 10 characters")
		}
	}
	if p.DepartureTime.Set && p.DepartureTime.Null {
		return domain.NewValidationError("departure_time", "must not be null")
	}
	if p.ArrivalTime.Set && p.ArrivalTime.Null {
		return domain.NewValidationError("arrival_time", "must not be null")
	}
	if p.DepartureTime.Set || p.ArrivalTime.Set {
		departure, arrival := mergedTimes(p, current)
		if !arrival.After(departure) {
			return domain.NewValidationError("arrival_time", "must be after departure_time")
		}
	}
	if p.AircraftType.Set {
		if p.AircraftType.Null || p.AircraftType.Value == "" {
			return domain.NewValidationError("aircraft_type", "must not be empty")
		}
		if len(p.AircraftType.Value) > maxAircraftTypeLen {
			return domain.NewValidationError("aircraft_type", "must be at most 50 characters")
		}
	}
	if p.SeatsTotal.Set {
		if p.SeatsTotal.Null || p.SeatsTotal.Value <= 0 {
			return domain.NewValidationError("seats_total", "must be greater than zero")
		}
	}
	if p.SeatsAvailable.Set {
		if p.SeatsAvailable.Null || p.SeatsAvailable.Value < 0 {
			return domain.NewValidationError("seats_available", "must not be negative")
		}
	}
	if p.Status.Set {
		if p.Status.Null || !p.Status.Value.IsValid() {
			return domain.NewValidationError("status", "is not a valid flight status")
		}
	}
	// Explicit null clears process_id, the only nullable column.
	if p.ProcessID.Set && !p.ProcessID.Null && len(p.ProcessID.Value) > maxProcessIDLen {
		return domain.NewValidationError("process_id", "must be at most 20 characters")
	}
	return nil
}

func mergedTimes(p repository.UpdateFlightParams, current *domain.Flight) (departure, arrival time.Time) {
	departure = current.DepartureTime
	if p.DepartureTime.Set {
		departure = p.DepartureTime.Value
	}
	arrival = current.ArrivalTime
	if p.ArrivalTime.Set {
		arrival = p.ArrivalTime.Value
	}
	return departure, arrival
}

var _ FlightUseCase = (*FlightService)(nil)
