package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"shipment-compliance-service/internal/adapters/cache"
	"shipment-compliance-service/internal/adapters/notify"
	"shipment-compliance-service/internal/adapters/repositories"
	"shipment-compliance-service/internal/api"
	"shipment-compliance-service/internal/domain"
	"shipment-compliance-service/internal/ports"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis, SMS gateway) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := getEnv("DB_PATH", "data/app.db")
	staffSeedPath := getEnv("STAFF_SEED_PATH", "data/seeds/staff.json")
	port := getEnv("PORT", "8080")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed the staff roster on startup for local runs.
	if err := initAndSeed(db, staffSeedPath); err != nil {
		log.Fatal(err)
	}

	notifier, err := buildNotifier()
	if err != nil {
		log.Fatal(err)
	}

	deps := api.RouterDeps{
		Routes:     repositories.NewSqliteRouteRepository(db),
		Shipments:  repositories.NewSqliteShipmentRepository(db),
		Staff:      repositories.NewSqliteStaffRepository(db),
		Notifier:   notifier,
		Thresholds: domain.DefaultThresholds,
		CacheTTL:   15 * time.Second,
	}

	// Status caching is optional; without REDIS_ADDR every poll re-derives.
	if addr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(addr) != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		deps.Cache = cache.NewRedisStatusCache(client)
		log.Printf("Status cache enabled addr=%s", addr)
	}

	router := api.NewRouter(deps)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, staffSeedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedStaffFromJSON(db, staffSeedPath, repositories.DialectSQLite); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// buildNotifier selects the alert transport: the SMS gateway when configured,
// otherwise an in-memory recorder so alert evaluation still runs locally.
func buildNotifier() (ports.Notifier, error) {
	gatewayURL := os.Getenv("SMS_GATEWAY_URL")
	if strings.TrimSpace(gatewayURL) == "" {
		log.Println("SMS_GATEWAY_URL not set; alerts will be recorded, not delivered")
		return notify.NewMockNotifier(), nil
	}

	apiKey := os.Getenv("SMS_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("SMS_API_KEY is required when SMS_GATEWAY_URL is set")
	}

	return notify.NewHTTPSMSNotifier(gatewayURL, apiKey, getEnv("SMS_FROM", "COMPLIANCE"))
}
