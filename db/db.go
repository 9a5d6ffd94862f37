package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxOpenConns = 50
	maxIdleConns = 10
	connMaxLife  = time.Minute * 15

	DefaultMigrationDir = "file://db/migration"
)

// Migrate brings the analytics schema up to the latest version in migrationDir.
func Migrate(db *sql.DB, migrationDir string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationDir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is dirty at version %d", version)
	}
	log.Info().Uint("version", version).Msg("current migration version")

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("migration: no change")
			return nil
		}
		return fmt.Errorf("migration up: %w", err)
	}
	log.Info().Msg("migration successful")
	return nil
}

// ConnectToDb opens the Postgres pool, pings it and applies migrations.
func ConnectToDb(psqlUrl, migrationDir string) (*sql.DB, error) {
	db, err := sql.Open("postgres", psqlUrl)
	if err != nil {
		return nil, err
	}

	// Open only validates its arguments
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLife)

	if err := Migrate(db, migrationDir); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func MustConnectToDb(psqlUrl, migrationDir string) *sql.DB {
	db, err := ConnectToDb(psqlUrl, migrationDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	return db
}
