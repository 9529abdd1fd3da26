package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipment-compliance-service/internal/domain"
)

// SQLite-backed implementation of the RouteRepository port.
// Stops are stored as a JSON column: a route's stop sequence is always read
// and written as a unit, which keeps edit-plus-propagate atomic per route.
type SqliteRouteRepository struct{ DB *sql.DB }

func NewSqliteRouteRepository(db *sql.DB) *SqliteRouteRepository {
	return &SqliteRouteRepository{DB: db}
}

var ErrRouteNotFound = errors.New("route not found")

func (s *SqliteRouteRepository) GetRoute(ctx context.Context, id string) (*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	query := `
	SELECT route_id, name, stops, created_at, updated_at
	FROM routes
	WHERE route_id = ?;
	`
	row := s.DB.QueryRowContext(ctx, query, id)

	route, err := scanRoute(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route %q: %w", id, ErrRouteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route %q: %w", id, err)
	}

	return route, nil
}

func (s *SqliteRouteRepository) SaveRoute(ctx context.Context, route *domain.Route) error {
	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}
	if route == nil || route.ID == "" {
		return errors.New("save route: route must have an id")
	}

	stops, err := json.Marshal(route.Stops)
	if err != nil {
		return fmt.Errorf("save route %q: marshal stops: %w", route.ID, err)
	}

	query := `
	INSERT OR REPLACE INTO routes (route_id, name, stops, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(
		ctx, query,
		route.ID,
		route.Name,
		string(stops),
		route.CreatedAt.UTC().Format(time.RFC3339Nano),
		route.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save route %q: %w", route.ID, err)
	}

	return nil
}

func (s *SqliteRouteRepository) ListRoutes(ctx context.Context) ([]*domain.Route, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	query := `
	SELECT route_id, name, stops, created_at, updated_at
	FROM routes
	ORDER BY created_at;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]*domain.Route, 0, 16)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		routes = append(routes, route)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return routes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoute(row rowScanner) (*domain.Route, error) {
	var (
		route              domain.Route
		stops              string
		createdAt, updated string
	)
	if err := row.Scan(&route.ID, &route.Name, &stops, &createdAt, &updated); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(stops), &route.Stops); err != nil {
		return nil, fmt.Errorf("unmarshal stops: %w", err)
	}

	var err error
	if route.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if route.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &route, nil
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
