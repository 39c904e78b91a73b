// Package snapshot keeps periodic copies of listing rows in a local SQLite
// database. Snapshots back the export subsystem and the dashboard summary;
// they are disposable derived data; the platform API stays the system of
// record.
package snapshot

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/medrush/opsconsole/internal/listing"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNoSnapshot is returned when an entity has never been snapshotted.
var ErrNoSnapshot = errors.New("snapshot: none taken yet")

// Store is a snapshot database handle.
type Store struct {
	db *sql.DB
}

// Info describes one stored snapshot.
type Info struct {
	Entity   string    `json:"entity"`
	TakenAt  time.Time `json:"takenAt"`
	RowCount int       `json:"rowCount"`
}

// Open opens (creating if needed) the snapshot database and applies embedded
// migrations.
func Open(filename string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate snapshot database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored snapshot for an entity.
func (s *Store) Save(ctx context.Context, entity string, rows []listing.Row) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode snapshot rows: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (entity, taken_at, row_count, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entity) DO UPDATE SET
			taken_at = excluded.taken_at,
			row_count = excluded.row_count,
			payload = excluded.payload
	`, entity, time.Now().UTC().Format(time.RFC3339), len(rows), string(payload))
	if err != nil {
		return fmt.Errorf("save snapshot for %s: %w", entity, err)
	}
	return nil
}

// Latest returns the most recent snapshot for an entity.
func (s *Store) Latest(ctx context.Context, entity string) (Info, []listing.Row, error) {
	var (
		takenAt  string
		rowCount int
		payload  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT taken_at, row_count, payload FROM snapshots WHERE entity = ?
	`, entity).Scan(&takenAt, &rowCount, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, nil, ErrNoSnapshot
	}
	if err != nil {
		return Info{}, nil, fmt.Errorf("load snapshot for %s: %w", entity, err)
	}

	info := Info{Entity: entity, RowCount: rowCount}
	if t, err := time.Parse(time.RFC3339, takenAt); err == nil {
		info.TakenAt = t
	}
	var rows []listing.Row
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return Info{}, nil, fmt.Errorf("decode snapshot for %s: %w", entity, err)
	}
	return info, rows, nil
}

// Summary lists every stored snapshot's metadata.
func (s *Store) Summary(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entity, taken_at, row_count FROM snapshots ORDER BY entity
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var takenAt string
		if err := rows.Scan(&info.Entity, &takenAt, &info.RowCount); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, takenAt); err == nil {
			info.TakenAt = t
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}
