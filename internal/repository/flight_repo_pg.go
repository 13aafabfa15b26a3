package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetrenko/flightsched/internal/domain"
)

const pgUniqueViolation = "23505"

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewPGFlightRepository(db *pgxpool.Pool) *PGFlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) Create(ctx context.Context, params CreateFlightParams) (*domain.Flight, error) {
	now := time.Now().UTC()
	seatsAvailable, status := resolveCreateDefaults(params)

	f := domain.Flight{
		FlightNumber:    params.FlightNumber,
		Origin:          params.Origin,
		Destination:     params.Destination,
		DepartureTime:   params.DepartureTime,
		ArrivalTime:     params.ArrivalTime,
		DurationMinutes: domain.DurationMinutesBetween(params.DepartureTime, params.ArrivalTime),
		AircraftType:    params.AircraftType,
		SeatsTotal:      params.SeatsTotal,
		SeatsAvailable:  seatsAvailable,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
		ProcessID:       params.ProcessID,
	}

	err := r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, origin, destination, departure_time, arrival_time, duration_minutes, aircraft_type, seats_total, seats_available, status, created_at, updated_at, process_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, f.DurationMinutes, f.AircraftType, f.SeatsTotal, f.SeatsAvailable, f.Status, f.CreatedAt, f.UpdatedAt, f.ProcessID).
		Scan(&f.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrDuplicateFlightNumber
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	f, err := scanPGFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFlightRepository) List(ctx context.Context, params ListFlightsParams) ([]domain.Flight, int64, error) {
	var conds []string
	var args []any
	addCond := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Origin != "" {
		addCond("origin", params.Origin)
	}
	if params.Destination != "" {
		addCond("destination", params.Destination)
	}
	if params.Status != "" {
		addCond("status", params.Status)
	}
	if params.ProcessID != "" {
		addCond("process_id", params.ProcessID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM flights`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.PageSize
	query := fmt.Sprintf(`SELECT %s FROM flights%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		flightColumns, where, orderClause(params.SortBy, params.SortOrder), len(args)+1, len(args)+2)
	args = append(args, params.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanPGFlight(rows)
		if err != nil {
			return nil, 0, err
		}
		flights = append(flights, *f)
	}
	return flights, total, rows.Err()
}

func (r *PGFlightRepository) Update(ctx context.Context, id int64, params UpdateFlightParams) (*domain.Flight, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1 FOR UPDATE`, id)
	f, err := scanPGFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}

	applyUpdate(f, params, time.Now().UTC())

	_, err = tx.Exec(ctx, `UPDATE flights SET flight_number=$1, origin=$2, destination=$3, departure_time=$4, arrival_time=$5, duration_minutes=$6, aircraft_type=$7, seats_total=$8, seats_available=$9, status=$10, updated_at=$11, process_id=$12 WHERE id=$13`,
		f.FlightNumber, f.Origin, f.Destination, f.DepartureTime, f.ArrivalTime, f.DurationMinutes, f.AircraftType, f.SeatsTotal, f.SeatsAvailable, f.Status, f.UpdatedAt, f.ProcessID, f.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrDuplicateFlightNumber
		}
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	return err
}

func scanPGFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.DurationMinutes, &f.AircraftType, &f.SeatsTotal, &f.SeatsAvailable, &f.Status, &f.CreatedAt, &f.UpdatedAt, &f.ProcessID); err != nil {
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
