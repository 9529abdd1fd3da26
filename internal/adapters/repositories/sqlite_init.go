package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"shipment-compliance-service/internal/domain"
)

// Dialect selects the SQL flavor for the statements that differ between the
// local SQLite file and Postgres. The DDL itself is portable.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Initialize the database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		route_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		stops TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	createShipmentsQuery := `
	CREATE TABLE IF NOT EXISTS shipments (
		shipment_id TEXT PRIMARY KEY,
		route_id TEXT NOT NULL,
		status TEXT NOT NULL,
		start_time TEXT NOT NULL,
		estimated_end TEXT NOT NULL,
		actual_end TEXT
	);
	`

	createReadingsQuery := `
	CREATE TABLE IF NOT EXISTS readings (
		reading_id TEXT PRIMARY KEY,
		shipment_id TEXT NOT NULL,
		temperature REAL NOT NULL,
		humidity REAL NOT NULL,
		location TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);
	`

	createLocationsQuery := `
	CREATE TABLE IF NOT EXISTS shipment_locations (
		location_id TEXT PRIMARY KEY,
		shipment_id TEXT NOT NULL,
		stop_id TEXT,
		location TEXT NOT NULL,
		lat REAL,
		lng REAL,
		arrival_time TEXT NOT NULL,
		departure_time TEXT,
		handler_id TEXT
	);
	`

	createStaffQuery := `
	CREATE TABLE IF NOT EXISTS staff_contacts (
		contact_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL,
		alert_preference TEXT NOT NULL
	);
	`

	createReadingIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_readings_shipment_timestamp
	ON readings(shipment_id, timestamp);
	`

	createLocationIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_locations_shipment_arrival
	ON shipment_locations(shipment_id, arrival_time);
	`

	statements := []string{
		createRoutesQuery,
		createShipmentsQuery,
		createReadingsQuery,
		createLocationsQuery,
		createStaffQuery,
		createReadingIndexQuery,
		createLocationIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// seedStaffQuery is the roster upsert in the target dialect: INSERT OR
// REPLACE with ? placeholders on SQLite, ON CONFLICT with $n on Postgres.
func seedStaffQuery(dialect Dialect) string {
	if dialect == DialectPostgres {
		return `
		INSERT INTO staff_contacts (contact_id, name, phone, email, alert_preference)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (contact_id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			alert_preference = EXCLUDED.alert_preference;
		`
	}
	return `
	INSERT OR REPLACE INTO staff_contacts (
		contact_id,
		name,
		phone,
		email,
		alert_preference
	)
	VALUES (?, ?, ?, ?, ?);
	`
}

type StaffSeed struct {
	ContactID  string `json:"contact_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Preference string `json:"alert_preference"`
}

// Populate the staff roster from a JSON file.
func SeedStaffFromJSON(db *sql.DB, jsonPath string, dialect Dialect) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed staff: read %q: %w", jsonPath, err)
	}

	var data []StaffSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed staff: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.ContactID) == "" {
			return fmt.Errorf("seed staff: missing contact_id at index %d", i+1)
		}

		switch domain.AlertPreference(item.Preference) {
		case domain.PreferenceAll, domain.PreferenceCriticalOnly:
		default:
			return fmt.Errorf(
				"seed staff: contact_id=%s: unknown alert_preference %q",
				item.ContactID, item.Preference,
			)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed staff: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(seedStaffQuery(dialect))
	if err != nil {
		return fmt.Errorf("seed staff: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range data {
		if _, err := stmt.Exec(c.ContactID, c.Name, c.Phone, c.Email, c.Preference); err != nil {
			return fmt.Errorf("seed staff: insert contact_id=%s: %w", c.ContactID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed staff: commit tx: %w", err)
	}

	return nil
}
