package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shipment-compliance-service/internal/domain"
)

// SQLite-backed implementation of the ShipmentRepository port.
// Reading and location histories are append-only and always listed ordered
// by timestamp ascending, which is the contract the status deriver assumes.
type SqliteShipmentRepository struct{ DB *sql.DB }

func NewSqliteShipmentRepository(db *sql.DB) *SqliteShipmentRepository {
	return &SqliteShipmentRepository{DB: db}
}

var ErrShipmentNotFound = errors.New("shipment not found")

func (s *SqliteShipmentRepository) GetShipment(ctx context.Context, id string) (*domain.Shipment, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite shipment repository: DB is nil")
	}

	query := `
	SELECT shipment_id, route_id, status, start_time, estimated_end, actual_end
	FROM shipments
	WHERE shipment_id = ?;
	`
	var (
		shipment         domain.Shipment
		status           string
		start, estimated string
		actual           sql.NullString
	)
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&shipment.ID, &shipment.RouteID, &status, &start, &estimated, &actual,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get shipment %q: %w", id, ErrShipmentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get shipment %q: %w", id, err)
	}

	shipment.Status = domain.ShipmentState(status)
	if shipment.StartTime, err = parseTime(start); err != nil {
		return nil, fmt.Errorf("get shipment %q: parse start_time: %w", id, err)
	}
	if shipment.EstimatedEnd, err = parseTime(estimated); err != nil {
		return nil, fmt.Errorf("get shipment %q: parse estimated_end: %w", id, err)
	}
	if actual.Valid {
		t, err := parseTime(actual.String)
		if err != nil {
			return nil, fmt.Errorf("get shipment %q: parse actual_end: %w", id, err)
		}
		shipment.ActualEnd = &t
	}

	return &shipment, nil
}

func (s *SqliteShipmentRepository) SaveShipment(ctx context.Context, shipment *domain.Shipment) error {
	if s.DB == nil {
		return errors.New("sqlite shipment repository: DB is nil")
	}
	if shipment == nil || shipment.ID == "" {
		return errors.New("save shipment: shipment must have an id")
	}

	var actual any
	if shipment.ActualEnd != nil {
		actual = shipment.ActualEnd.UTC().Format(time.RFC3339Nano)
	}

	query := `
	INSERT OR REPLACE INTO shipments (
		shipment_id, route_id, status, start_time, estimated_end, actual_end
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := s.DB.ExecContext(
		ctx, query,
		shipment.ID,
		shipment.RouteID,
		string(shipment.Status),
		shipment.StartTime.UTC().Format(time.RFC3339Nano),
		shipment.EstimatedEnd.UTC().Format(time.RFC3339Nano),
		actual,
	)
	if err != nil {
		return fmt.Errorf("save shipment %q: %w", shipment.ID, err)
	}

	return nil
}

func (s *SqliteShipmentRepository) UpdateStatus(ctx context.Context, id string, status domain.ShipmentState) error {
	if s.DB == nil {
		return errors.New("sqlite shipment repository: DB is nil")
	}

	res, err := s.DB.ExecContext(
		ctx,
		`UPDATE shipments SET status = ? WHERE shipment_id = ?;`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("update status for %q: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status for %q: rows affected: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("update status for %q: %w", id, ErrShipmentNotFound)
	}

	return nil
}

func (s *SqliteShipmentRepository) AppendReading(ctx context.Context, shipmentID string, r domain.EnvironmentalReading) error {
	if s.DB == nil {
		return errors.New("sqlite shipment repository: DB is nil")
	}

	query := `
	INSERT INTO readings (reading_id, shipment_id, temperature, humidity, location, timestamp)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := s.DB.ExecContext(
		ctx, query,
		r.ID, shipmentID, r.Temperature, r.Humidity, r.Location,
		r.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append reading for %q: %w", shipmentID, err)
	}

	return nil
}

func (s *SqliteShipmentRepository) AppendLocation(ctx context.Context, shipmentID string, loc domain.ShipmentLocation) error {
	if s.DB == nil {
		return errors.New("sqlite shipment repository: DB is nil")
	}

	var lat, lng any
	if loc.Coordinates != nil {
		lat = loc.Coordinates.Lat
		lng = loc.Coordinates.Lng
	}

	var departure any
	if loc.DepartureTime != nil {
		departure = loc.DepartureTime.UTC().Format(time.RFC3339Nano)
	}

	query := `
	INSERT OR REPLACE INTO shipment_locations (
		location_id, shipment_id, stop_id, location, lat, lng,
		arrival_time, departure_time, handler_id
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := s.DB.ExecContext(
		ctx, query,
		loc.ID, shipmentID, loc.StopID, loc.Location, lat, lng,
		loc.ArrivalTime.UTC().Format(time.RFC3339Nano), departure, loc.HandlerID,
	)
	if err != nil {
		return fmt.Errorf("append location for %q: %w", shipmentID, err)
	}

	return nil
}

func (s *SqliteShipmentRepository) ListReadings(ctx context.Context, shipmentID string) ([]domain.EnvironmentalReading, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite shipment repository: DB is nil")
	}

	query := `
	SELECT reading_id, temperature, humidity, location, timestamp
	FROM readings
	WHERE shipment_id = ?
	ORDER BY timestamp;
	`
	rows, err := s.DB.QueryContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list readings for %q: %w", shipmentID, err)
	}
	defer rows.Close()

	readings := make([]domain.EnvironmentalReading, 0, 64)
	for rows.Next() {
		var (
			r  domain.EnvironmentalReading
			ts string
		)
		if err := rows.Scan(&r.ID, &r.Temperature, &r.Humidity, &r.Location, &ts); err != nil {
			return nil, fmt.Errorf("list readings for %q: scan row: %w", shipmentID, err)
		}
		if r.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("list readings for %q: parse timestamp: %w", shipmentID, err)
		}
		readings = append(readings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list readings for %q: row iteration: %w", shipmentID, err)
	}

	return readings, nil
}

func (s *SqliteShipmentRepository) ListLocations(ctx context.Context, shipmentID string) ([]domain.ShipmentLocation, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite shipment repository: DB is nil")
	}

	query := `
	SELECT location_id, stop_id, location, lat, lng, arrival_time, departure_time, handler_id
	FROM shipment_locations
	WHERE shipment_id = ?
	ORDER BY arrival_time;
	`
	rows, err := s.DB.QueryContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list locations for %q: %w", shipmentID, err)
	}
	defer rows.Close()

	locations := make([]domain.ShipmentLocation, 0, 16)
	for rows.Next() {
		var loc domain.ShipmentLocation
		var stopID, departure, handlerID sql.NullString
		var lat, lng sql.NullFloat64
		var arrival string

		err := rows.Scan(&loc.ID, &stopID, &loc.Location, &lat, &lng, &arrival, &departure, &handlerID)
		if err != nil {
			return nil, fmt.Errorf("list locations for %q: scan row: %w", shipmentID, err)
		}

		loc.StopID = stopID.String
		loc.HandlerID = handlerID.String
		if lat.Valid && lng.Valid {
			loc.Coordinates = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
		}
		if loc.ArrivalTime, err = parseTime(arrival); err != nil {
			return nil, fmt.Errorf("list locations for %q: parse arrival_time: %w", shipmentID, err)
		}
		if departure.Valid {
			t, err := parseTime(departure.String)
			if err != nil {
				return nil, fmt.Errorf("list locations for %q: parse departure_time: %w", shipmentID, err)
			}
			loc.DepartureTime = &t
		}

		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations for %q: row iteration: %w", shipmentID, err)
	}

	return locations, nil
}
