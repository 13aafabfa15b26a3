package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpetrenko/flightsched/internal/domain"
	"github.com/mpetrenko/flightsched/internal/repository"
	"github.com/mpetrenko/flightsched/internal/service/flights"
	"github.com/mpetrenko/flightsched/pkg/metrics"
)

const maxPageSize = 100

type FlightHandler struct {
	service flights.FlightUseCase
	metrics *metrics.Metrics
}

func NewFlightHandler(service flights.FlightUseCase, m *metrics.Metrics) *FlightHandler {
	return &FlightHandler{service: service, metrics: m}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// apiTime accepts RFC3339 timestamps with or without a timezone offset, so
// payloads like "2025-11-10T10:00:00" parse as given.
type apiTime struct {
	time.Time
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

type createFlightRequest struct {
	FlightNumber   string  `json:"flight_number"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DepartureTime  apiTime `json:"departure_time"`
	ArrivalTime    apiTime `json:"arrival_time"`
	AircraftType   string  `json:"aircraft_type"`
	SeatsTotal     int     `json:"seats_total"`
	SeatsAvailable *int    `json:"seats_available"`
	Status         string  `json:"status"`
	ProcessID      *string `json:"process_id"`
}

type updateFlightRequest struct {
	FlightNumber   domain.Optional[string]  `json:"flight_number"`
	Origin         domain.Optional[string]  `json:"origin"`
	Destination    domain.Optional[string]  `json:"destination"`
	DepartureTime  domain.Optional[apiTime] `json:"departure_time"`
	ArrivalTime    domain.Optional[apiTime] `json:"arrival_time"`
	AircraftType   domain.Optional[string]  `json:"aircraft_type"`
	SeatsTotal     domain.Optional[int]     `json:"seats_total"`
	SeatsAvailable domain.Optional[int]     `json:"seats_available"`
	Status         domain.Optional[string]  `json:"status"`
	ProcessID      domain.Optional[string]  `json:"process_id"`
}

type listFlightsQuery struct {
	Page        int    `form:"page,default=1"`
	PageSize    int    `form:"page_size,default=10"`
	Origin      string `form:"origin"`
	Destination string `form:"destination"`
	Status      string `form:"status"`
	ProcessID   string `form:"process_id"`
	SortBy      string `form:"sort_by,default=departure_time"`
	SortOrder   string `form:"sort_order,default=asc"`
}

type flightResponse struct {
	FlightID        int64     `json:"flight_id"`
	FlightNumber    string    `json:"flight_number"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time"`
	DurationMinutes int       `json:"duration_minutes"`
	AircraftType    string    `json:"aircraft_type"`
	SeatsTotal      int       `json:"seats_total"`
	SeatsAvailable  int       `json:"seats_available"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	ProcessID       *string   `json:"process_id"`
}

type paginatedFlights struct {
	Items    []flightResponse `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Status: "error", Message: err.Error()})
		return
	}

	flight, err := h.service.Create(c.Request.Context(), repository.CreateFlightParams{
		FlightNumber:   req.FlightNumber,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartureTime:  req.DepartureTime.Time,
		ArrivalTime:    req.ArrivalTime.Time,
		AircraftType:   req.AircraftType,
		SeatsTotal:     req.SeatsTotal,
		SeatsAvailable: req.SeatsAvailable,
		Status:         domain.FlightStatus(req.Status),
		ProcessID:      req.ProcessID,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.metrics.FlightsCreated.Inc()
	c.JSON(http.StatusCreated, apiResponse{
		Status:  "success",
		Message: "Flight created",
		Data:    toFlightResponse(flight),
	})
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := h.flightID(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiResponse{
		Status:  "success",
		Message: "Flight retrieved",
		Data:    toFlightResponse(flight),
	})
}

func (h *FlightHandler) list(c *gin.Context) {
	var q listFlightsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Status: "error", Message: err.Error()})
		return
	}
	if q.Page < 1 {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Status: "error", Message: "page must be at least 1"})
		return
	}
	if q.PageSize < 1 || q.PageSize > maxPageSize {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Status: "error", Message: "page_size must be between 1 and 100"})
		return
	}
	if q.SortOrder != "asc" && q.SortOrder != "desc" {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Status: "error", Message: "sort_order must be asc or desc"})
		return
	}
	if q.Status != "" && !domain.FlightStatus(q.Status).IsValid() {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Status: "error", Message: "status is not a valid flight status"})
		return
	}

	page, err := h.service.List(c.Request.Context(), repository.ListFlightsParams{
		Origin:      q.Origin,
		Destination: q.Destination,
		Status:      domain.FlightStatus(q.Status),
		ProcessID:   q.ProcessID,
		SortBy:      q.SortBy,
		SortOrder:   q.SortOrder,
		Page:        q.Page,
		PageSize:    q.PageSize,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	items := make([]flightResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toFlightResponse(&page.Items[i]))
	}
	c.JSON(http.StatusOK, apiResponse{
		Status:  "success",
		Message: "Flights list",
		Data: paginatedFlights{
			Items:    items,
			Total:    page.Total,
			Page:     page.Page,
			PageSize: page.PageSize,
		},
	})
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := h.flightID(c)
	if !ok {
		return
	}
	var req updateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Status: "error", Message: err.Error()})
		return
	}

	flight, err := h.service.Update(c.Request.Context(), id, toUpdateParams(req))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, apiResponse{
		Status:  "success",
		Message: "Flight updated",
		Data:    toFlightResponse(flight),
	})
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := h.flightID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}
	h.metrics.FlightsDeleted.Inc()
	c.Status(http.StatusNoContent)
}

func (h *FlightHandler) flightID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Status: "error", Message: "id must be an integer"})
		return 0, false
	}
	return id, true
}

func (h *FlightHandler) renderError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Status: "error", Message: "Flight not found"})
	case errors.Is(err, domain.ErrDuplicateFlightNumber):
		c.JSON(http.StatusConflict, errorResponse{Status: "error", Message: "Flight number already exists"})
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Status: "error", Message: vErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Status: "error", Message: "internal server error"})
	}
}

func toUpdateParams(req updateFlightRequest) repository.UpdateFlightParams {
	return repository.UpdateFlightParams{
		FlightNumber:   req.FlightNumber,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartureTime:  optionalTime(req.DepartureTime),
		ArrivalTime:    optionalTime(req.ArrivalTime),
		AircraftType:   req.AircraftType,
		SeatsTotal:     req.SeatsTotal,
		SeatsAvailable: req.SeatsAvailable,
		Status:         optionalStatus(req.Status),
		ProcessID:      req.ProcessID,
	}
}

func optionalTime(o domain.Optional[apiTime]) domain.Optional[time.Time] {
	return domain.Optional[time.Time]{Value: o.Value.Time, Set: o.Set, Null: o.Null}
}

func optionalStatus(o domain.Optional[string]) domain.Optional[domain.FlightStatus] {
	return domain.Optional[domain.FlightStatus]{Value: domain.FlightStatus(o.Value), Set: o.Set, Null: o.Null}
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		FlightID:        f.ID,
		FlightNumber:    f.FlightNumber,
		Origin:          f.Origin,
		Destination:     f.Destination,
		DepartureTime:   f.DepartureTime,
		ArrivalTime:     f.ArrivalTime,
		DurationMinutes: f.DurationMinutes,
		AircraftType:    f.AircraftType,
		SeatsTotal:      f.SeatsTotal,
		SeatsAvailable:  f.SeatsAvailable,
		Status:          string(f.Status),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
		ProcessID:       f.ProcessID,
	}
}
