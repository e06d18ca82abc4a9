package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/kvist-io/settingstore/pkg/debug"
	"github.com/kvist-io/settingstore/pkg/env"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// Connect establishes a connection to the PostgreSQL database using
// environment variables and validates it with a ping before returning.
func Connect() (*sql.DB, error) {
	debug.Info("Attempting database connection")

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	sslMode := env.GetOrDefault("DB_SSLMODE", "disable")

	debug.Debug("Database configuration - Host: %s, Port: %s, User: %s, Database: %s",
		dbHost, dbPort, dbUser, dbName)

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbHost, dbPort, dbUser, dbPassword, dbName, sslMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		debug.Error("Failed to open database connection: %v", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		debug.Error("Failed to ping database: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	debug.Info("Successfully connected to database")
	return db, nil
}

// RunMigrations executes all pending migrations from db/migrations.
// Returns nil if no migrations are pending.
func RunMigrations() error {
	debug.Info("Starting database migrations")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_NAME"),
		env.GetOrDefault("DB_SSLMODE", "disable"))

	m, err := migrate.New("file://db/migrations", connStr)
	if err != nil {
		debug.Error("Failed to create migration instance: %v", err)
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		debug.Error("Migration failed: %v", err)
		return err
	}

	debug.Info("Database migrations completed successfully")
	return nil
}
