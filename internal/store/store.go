// Package store handles SQLite persistence of parsed trip data.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/bikeshare/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store caches parsed datasets so unchanged CSV files are not re-parsed
// on every run. Entries are keyed by file path and invalidated when the
// file size or modification time changes.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite cache and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			id INTEGER PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			file_size INTEGER NOT NULL,
			file_mtime TEXT NOT NULL,
			has_user_type INTEGER NOT NULL,
			has_gender INTEGER NOT NULL,
			has_birth_year INTEGER NOT NULL,
			imported_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS trips (
			dataset_id INTEGER NOT NULL,
			start_time TEXT NOT NULL,
			start_station TEXT NOT NULL,
			end_station TEXT NOT NULL,
			duration_sec REAL NOT NULL,
			user_type TEXT NOT NULL,
			gender TEXT NOT NULL,
			birth_year INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trips_dataset_id ON trips(dataset_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the cached trips for path when the stored fingerprint
// matches size and modTime. The bool reports whether the cache hit.
func (s *Store) Get(ctx context.Context, path string, size int64, modTime time.Time) ([]model.Trip, model.Columns, bool, error) {
	var (
		datasetID int64
		fileSize  int64
		fileMtime string
		cols      model.Columns
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, file_size, file_mtime, has_user_type, has_gender, has_birth_year
		 FROM datasets WHERE path = ?`, path).
		Scan(&datasetID, &fileSize, &fileMtime, &cols.HasUserType, &cols.HasGender, &cols.HasBirthYear)
	if err == sql.ErrNoRows {
		return nil, model.Columns{}, false, nil
	}
	if err != nil {
		return nil, model.Columns{}, false, err
	}
	if fileSize != size || fileMtime != modTime.UTC().Format(time.RFC3339Nano) {
		return nil, model.Columns{}, false, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT start_time, start_station, end_station, duration_sec, user_type, gender, birth_year
		 FROM trips WHERE dataset_id = ? ORDER BY rowid`, datasetID)
	if err != nil {
		return nil, model.Columns{}, false, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var trips []model.Trip
	for rows.Next() {
		var (
			trip      model.Trip
			startTime string
			birthYear sql.NullInt64
		)
		if err := rows.Scan(&startTime, &trip.StartStation, &trip.EndStation, &trip.DurationSec, &trip.UserType, &trip.Gender, &birthYear); err != nil {
			return nil, model.Columns{}, false, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, startTime)
		if err != nil {
			return nil, model.Columns{}, false, err
		}
		trip.StartTime = parsed
		if birthYear.Valid {
			trip.BirthYear = int(birthYear.Int64)
			trip.BirthYearSet = true
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Columns{}, false, err
	}
	return trips, cols, true, nil
}

// Put replaces the cached trips for path with a fresh import.
func (s *Store) Put(ctx context.Context, path string, size int64, modTime time.Time, trips []model.Trip, cols model.Columns) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM trips WHERE dataset_id IN (SELECT id FROM datasets WHERE path = ?)`, path); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM datasets WHERE path = ?`, path); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (path, file_size, file_mtime, has_user_type, has_gender, has_birth_year, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		path,
		size,
		modTime.UTC().Format(time.RFC3339Nano),
		cols.HasUserType,
		cols.HasGender,
		cols.HasBirthYear,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}
	datasetID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if len(trips) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO trips (dataset_id, start_time, start_station, end_station, duration_sec, user_type, gender, birth_year)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, trip := range trips {
			var birthYear sql.NullInt64
			if trip.BirthYearSet {
				birthYear = sql.NullInt64{Int64: int64(trip.BirthYear), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx,
				datasetID,
				trip.StartTime.Format(time.RFC3339Nano),
				trip.StartStation,
				trip.EndStation,
				trip.DurationSec,
				trip.UserType,
				trip.Gender,
				birthYear,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
