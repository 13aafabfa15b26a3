package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/flightsched/internal/domain"
	"github.com/mpetrenko/flightsched/internal/repository"
	"github.com/mpetrenko/flightsched/pkg/logger"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, params repository.CreateFlightParams) (*domain.Flight, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) List(ctx context.Context, params repository.ListFlightsParams) ([]domain.Flight, int64, error) {
	args := m.Called(ctx, params)
	var flights []domain.Flight
	if args.Get(0) != nil {
		flights = args.Get(0).([]domain.Flight)
	}
	return flights, args.Get(1).(int64), args.Error(2)
}

func (m *MockFlightRepository) Update(ctx context.Context, id int64, params repository.UpdateFlightParams) (*domain.Flight, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newService(repo repository.FlightRepository) *FlightService {
	return NewFlightService(repo, logger.NewNop())
}

func validCreateParams() repository.CreateFlightParams {
	departure := time.Date(2025, 11, 10, 10, 0, 0, 0, time.UTC)
	return repository.CreateFlightParams{
		FlightNumber:  "SP9999",
		Origin:        "IKA",
		Destination:   "MHD",
		DepartureTime: departure,
		ArrivalTime:   departure.Add(90 * time.Minute),
		AircraftType:  "A320",
		SeatsTotal:    150,
	}
}

func existingFlight() *domain.Flight {
	departure := time.Date(2025, 11, 10, 10, 0, 0, 0, time.UTC)
	return &domain.Flight{
		ID:              7,
		FlightNumber:    "SP9999",
		Origin:          "IKA",
		Destination:     "MHD",
		DepartureTime:   departure,
		ArrivalTime:     departure.Add(90 * time.Minute),
		DurationMinutes: 90,
		AircraftType:    "A320",
		SeatsTotal:      150,
		SeatsAvailable:  150,
		Status:          domain.FlightStatusScheduled,
	}
}

func TestCreate_Valid(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	params := validCreateParams()
	mockRepo.On("Create", ctx, params).Return(existingFlight(), nil).Once()

	flight, err := service.Create(ctx, params)
	require.NoError(t, err)
	assert.EqualValues(t, 7, flight.ID)

	mockRepo.AssertExpectations(t)
}

func TestCreate_ArrivalNotAfterDeparture(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)

	params := validCreateParams()
	params.ArrivalTime = params.DepartureTime

	_, err := service.Create(context.Background(), params)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "arrival_time", vErr.Field)

	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreate_InvalidInputs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*repository.CreateFlightParams)
		field  string
	}{
		{"missing flight number", func(p *repository.CreateFlightParams) { p.FlightNumber = "" }, "flight_number"},
		{"flight number too long", func(p *repository.CreateFlightParams) { p.FlightNumber = "SP99999999999999999999" }, "flight_number"},
		{"missing origin", func(p *repository.CreateFlightParams) { p.Origin = "" }, "origin"},
		{"origin too long", func(p *repository.CreateFlightParams) { p.Origin = "ABCDEFGHIJK" }, "origin"},
		{"missing destination", func(p *repository.CreateFlightParams) { p.Destination = "" }, "destination"},
		{"missing aircraft type", func(p *repository.CreateFlightParams) { p.AircraftType = "" }, "aircraft_type"},
		{"zero seats", func(p *repository.CreateFlightParams) { p.SeatsTotal = 0 }, "seats_total"},
		{"negative seats available", func(p *repository.CreateFlightParams) { v := -1; p.SeatsAvailable = &v }, "seats_available"},
		{"bad status", func(p *repository.CreateFlightParams) { p.Status = "boarding" }, "status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &MockFlightRepository{}
			service := newService(mockRepo)

			params := validCreateParams()
			tc.mutate(&params)

			_, err := service.Create(context.Background(), params)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreate_DuplicatePropagates(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	params := validCreateParams()
	mockRepo.On("Create", ctx, params).Return(nil, domain.ErrDuplicateFlightNumber).Once()

	_, err := service.Create(ctx, params)
	assert.ErrorIs(t, err, domain.ErrDuplicateFlightNumber)
	mockRepo.AssertExpectations(t)
}

func TestGetByID_Found(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(7)).Return(existingFlight(), nil).Once()

	flight, err := service.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "SP9999", flight.FlightNumber)
	mockRepo.AssertExpectations(t)
}

func TestGetByID_Absent(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(404)).Return(nil, nil).Once()

	_, err := service.GetByID(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	mockRepo.AssertExpectations(t)
}

func TestList_WrapsPage(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	params := repository.ListFlightsParams{Origin: "IKA", Page: 2, PageSize: 5}
	mockRepo.On("List", ctx, params).Return([]domain.Flight{*existingFlight()}, int64(11), nil).Once()

	page, err := service.List(ctx, params)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.EqualValues(t, 11, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PageSize)
	mockRepo.AssertExpectations(t)
}

func TestList_DefaultsPageAndSize(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	expected := repository.ListFlightsParams{Page: 1, PageSize: 10}
	mockRepo.On("List", ctx, expected).Return([]domain.Flight{}, int64(0), nil).Once()

	page, err := service.List(ctx, repository.ListFlightsParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PageSize)
	mockRepo.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(404)).Return(nil, nil).Once()

	_, err := service.Update(ctx, 404, repository.UpdateFlightParams{})
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestUpdate_MergedTimesValidated(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	current := existingFlight()
	mockRepo.On("GetByID", ctx, current.ID).Return(current, nil).Once()

	// New arrival lands before the record's existing departure.
	params := repository.UpdateFlightParams{
		ArrivalTime: domain.Some(current.DepartureTime.Add(-time.Hour)),
	}
	_, err := service.Update(ctx, current.ID, params)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "arrival_time", vErr.Field)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestUpdate_NullRejectedForRequiredField(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	current := existingFlight()
	mockRepo.On("GetByID", ctx, current.ID).Return(current, nil).Once()

	params := repository.UpdateFlightParams{
		Origin: domain.Optional[string]{Set: true, Null: true},
	}
	_, err := service.Update(ctx, current.ID, params)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "origin", vErr.Field)
}

func TestUpdate_Delegates(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	current := existingFlight()
	params := repository.UpdateFlightParams{
		Status: domain.Some(domain.FlightStatusDeparted),
	}
	updated := *current
	updated.Status = domain.FlightStatusDeparted

	mockRepo.On("GetByID", ctx, current.ID).Return(current, nil).Once()
	mockRepo.On("Update", ctx, current.ID, params).Return(&updated, nil).Once()

	flight, err := service.Update(ctx, current.ID, params)
	require.NoError(t, err)
	assert.Equal(t, domain.FlightStatusDeparted, flight.Status)
	mockRepo.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(404)).Return(nil, nil).Once()

	err := service.Delete(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	mockRepo.AssertNotCalled(t, "Delete")
}

func TestDelete_Existing(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	current := existingFlight()
	mockRepo.On("GetByID", ctx, current.ID).Return(current, nil).Once()
	mockRepo.On("Delete", ctx, current.ID).Return(nil).Once()

	require.NoError(t, service.Delete(ctx, current.ID))
	mockRepo.AssertExpectations(t)
}

func TestGetByID_RepoErrorPropagates(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := newService(mockRepo)
	ctx := context.Background()

	repoErr := errors.New("connection reset")
	mockRepo.On("GetByID", ctx, int64(7)).Return(nil, repoErr).Once()

	_, err := service.GetByID(ctx, 7)
	assert.ErrorIs(t, err, repoErr)
}
