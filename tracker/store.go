package tracker

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// Store persists sun position samples to PostgreSQL. An empty connection
// string disables persistence; inserts then become no-ops.
type Store struct {
	db       *sql.DB
	logger   *log.Logger
	deviceID int
	dryRun   bool
}

// NewStore opens a connection to the sample database. The sun_positions
// table is expected to exist:
//
//	CREATE TABLE sun_positions (
//	    timestamp   timestamptz NOT NULL,
//	    device_id   integer     NOT NULL,
//	    azimuth     double precision NOT NULL,
//	    altitude    double precision NOT NULL
//	);
func NewStore(connString string, deviceID int, dryRun bool, logger *log.Logger) (*Store, error) {
	store := &Store{
		logger:   logger,
		deviceID: deviceID,
		dryRun:   dryRun,
	}

	if connString == "" {
		return store, nil
	}

	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store.db = db
	return store, nil
}

// Enabled reports whether samples are written to a database.
func (s *Store) Enabled() bool {
	return s.db != nil
}

// Insert writes one sample. In dry-run mode the write is logged instead.
func (s *Store) Insert(sample *Sample) error {
	if s.db == nil {
		return nil
	}

	if s.dryRun {
		s.logger.Printf("Store [DRY-RUN]: would save azimuth=%.6f altitude=%.6f for device_id=%d at %s",
			sample.Azimuth, sample.Altitude, s.deviceID, sample.Time.Format(time.RFC3339))
		return nil
	}

	_, err := s.db.Exec(
		`INSERT INTO sun_positions (timestamp, device_id, azimuth, altitude) VALUES ($1, $2, $3, $4)`,
		sample.Time, s.deviceID, sample.Azimuth, sample.Altitude,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
