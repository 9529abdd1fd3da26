package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects to Postgres through the pgx stdlib driver and verifies the
// connection before handing the pool back.
func Open(databaseURL string) (*sql.DB, error) {
	pool, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db.Open: open postgres: %w", err)
	}

	pool.SetMaxOpenConns(10)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(30 * time.Minute)

	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("db.Open: ping postgres: %w", err)
	}

	return pool, nil
}
