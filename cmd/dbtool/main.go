package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"shipment-compliance-service/internal/adapters/ingest"
	"shipment-compliance-service/internal/adapters/repositories"
	"shipment-compliance-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// dbtool initializes the database schema, seeds the staff roster, and can
// batch-import a data-logger CSV export into a shipment's reading history:
//
//	dbtool [import <shipment_id> <export.csv>]
//
// It targets Postgres when DATABASE_URL is set, the local SQLite file
// otherwise.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	conn, dialect, err := open()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := getEnv("STAFF_SEED_PATH", "data/seeds/staff.json")
	if err := initAndSeed(conn, seedPath, dialect); err != nil {
		log.Fatal(err)
	}

	args := os.Args[1:]
	if len(args) == 0 {
		return
	}
	if args[0] != "import" || len(args) != 3 {
		log.Fatalf("usage: dbtool [import <shipment_id> <export.csv>]")
	}

	if err := importReadings(conn, args[1], args[2]); err != nil {
		log.Fatal(err)
	}
}

func open() (*sql.DB, repositories.Dialect, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		log.Println("Using Postgres")
		conn, err := db.Open(databaseURL)
		return conn, repositories.DialectPostgres, err
	}

	dbPath := getEnv("DB_PATH", "data/app.db")
	log.Printf("Using SQLite path=%s", dbPath)
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("open sqlite database %q: %w", dbPath, err)
	}
	if err := conn.Ping(); err != nil {
		return nil, "", fmt.Errorf("verify sqlite connection to %q: %w", dbPath, err)
	}
	return conn, repositories.DialectSQLite, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func initAndSeed(conn *sql.DB, seedPath string, dialect repositories.Dialect) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding staff roster...")
	if err := repositories.SeedStaffFromJSON(conn, seedPath, dialect); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}

// importReadings parses a logger CSV export and appends every reading to the
// shipment's history.
func importReadings(conn *sql.DB, shipmentID, csvPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("import readings: open %q: %w", csvPath, err)
	}
	defer f.Close()

	readings, err := ingest.ParseLoggerCSV(f)
	if err != nil {
		return fmt.Errorf("import readings: %w", err)
	}

	repo := repositories.NewSqliteShipmentRepository(conn)
	ctx := context.Background()
	for _, r := range readings {
		if err := repo.AppendReading(ctx, shipmentID, r); err != nil {
			return fmt.Errorf("import readings: %w", err)
		}
	}

	log.Printf("Imported %d readings shipment=%s", len(readings), shipmentID)
	return nil
}
