package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mpetrenko/flightsched/internal/domain"
)

// sqliteTimeLayout is fixed-width (no trailing-zero trimming) so ORDER BY on
// the text columns matches chronological order for UTC values.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const sqliteUniqueViolation = "UNIQUE constraint failed: flights.flight_number"

// OpenSQLite opens or creates the sqlite database at path and ensures the
// flights schema exists. Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

type SQLiteFlightRepository struct {
	db *sql.DB
}

func NewSQLiteFlightRepository(db *sql.DB) *SQLiteFlightRepository {
	return &SQLiteFlightRepository{db: db}
}

func (r *SQLiteFlightRepository) Create(ctx context.Context, params CreateFlightParams) (*domain.Flight, error) {
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

	res, err := r.db.ExecContext(ctx, `INSERT INTO flights (flight_number, origin, destination, departure_time, arrival_time, duration_minutes, aircraft_type, seats_total, seats_available, status, created_at, updated_at, process_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.FlightNumber, f.Origin, f.Destination,
		f.DepartureTime.UTC().Format(sqliteTimeLayout), f.ArrivalTime.UTC().Format(sqliteTimeLayout),
		f.DurationMinutes, f.AircraftType, f.SeatsTotal, f.SeatsAvailable, string(f.Status),
		f.CreatedAt.Format(sqliteTimeLayout), f.UpdatedAt.Format(sqliteTimeLayout),
		nullableString(f.ProcessID))
	if err != nil {
		if strings.Contains(err.Error(), sqliteUniqueViolation) {
			return nil, domain.ErrDuplicateFlightNumber
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	f.ID = id
	return &f, nil
}

func (r *SQLiteFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=?`, id)
	f, err := scanSQLiteFlight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func (r *SQLiteFlightRepository) List(ctx context.Context, params ListFlightsParams) ([]domain.Flight, int64, error) {
	var conds []string
	var args []any
	if params.Origin != "" {
		conds = append(conds, "origin = ?")
		args = append(args, params.Origin)
	}
	if params.Destination != "" {
		conds = append(conds, "destination = ?")
		args = append(args, params.Destination)
	}
	if params.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(params.Status))
	}
	if params.ProcessID != "" {
		conds = append(conds, "process_id = ?")
		args = append(args, params.ProcessID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flights`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.PageSize
	query := fmt.Sprintf(`SELECT %s FROM flights%s ORDER BY %s LIMIT ? OFFSET ?`,
		flightColumns, where, orderClause(params.SortBy, params.SortOrder))
	args = append(args, params.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanSQLiteFlight(rows)
		if err != nil {
			return nil, 0, err
		}
		flights = append(flights, *f)
	}
	return flights, total, rows.Err()
}

func (r *SQLiteFlightRepository) Update(ctx context.Context, id int64, params UpdateFlightParams) (*domain.Flight, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=?`, id)
	f, err := scanSQLiteFlight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}

	applyUpdate(f, params, time.Now().UTC())

	_, err = tx.ExecContext(ctx, `UPDATE flights SET flight_number=?, origin=?, destination=?, departure_time=?, arrival_time=?, duration_minutes=?, aircraft_type=?, seats_total=?, seats_available=?, status=?, updated_at=?, process_id=? WHERE id=?`,
		f.FlightNumber, f.Origin, f.Destination,
		f.DepartureTime.UTC().Format(sqliteTimeLayout), f.ArrivalTime.UTC().Format(sqliteTimeLayout),
		f.DurationMinutes, f.AircraftType, f.SeatsTotal, f.SeatsAvailable, string(f.Status),
		f.UpdatedAt.Format(sqliteTimeLayout), nullableString(f.ProcessID), f.ID)
	if err != nil {
		if strings.Contains(err.Error(), sqliteUniqueViolation) {
			return nil, domain.ErrDuplicateFlightNumber
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *SQLiteFlightRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM flights WHERE id=?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteFlight(row rowScanner) (*domain.Flight, error) {
	var f domain.Flight
	var departure, arrival, created, updated, status string
	var processID sql.NullString
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.Origin, &f.Destination, &departure, &arrival, &f.DurationMinutes, &f.AircraftType, &f.SeatsTotal, &f.SeatsAvailable, &status, &created, &updated, &processID); err != nil {
		return nil, err
	}
	var err error
	if f.DepartureTime, err = time.Parse(sqliteTimeLayout, departure); err != nil {
		return nil, fmt.Errorf("parse departure_time: %w", err)
	}
	if f.ArrivalTime, err = time.Parse(sqliteTimeLayout, arrival); err != nil {
		return nil, fmt.Errorf("parse arrival_time: %w", err)
	}
	if f.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if f.UpdatedAt, err = time.Parse(sqliteTimeLayout, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	f.Status = domain.FlightStatus(status)
	if processID.Valid {
		f.ProcessID = &processID.String
	}
	return &f, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

var _ FlightRepository = (*SQLiteFlightRepository)(nil)
