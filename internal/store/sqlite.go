package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/rlowrie/cairn/internal/apperr"
	"github.com/rlowrie/cairn/internal/models"
)

// TunedDSN holds the connection options used by the first SQLite probe.
// The second probe opens the file with no options at all.
const TunedDSN = "?_journal_mode=WAL&_busy_timeout=5000"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS hikes (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	location    TEXT NOT NULL,
	date        TEXT NOT NULL,
	parking     TEXT NOT NULL,
	length      TEXT NOT NULL,
	difficulty  TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	weather     TEXT NOT NULL DEFAULT '',
	rating      TEXT NOT NULL DEFAULT '',
	companions  TEXT NOT NULL DEFAULT '',
	createdAt   TEXT NOT NULL
);
`

// SQLite is the native engine backend: a thin pass-through that renders
// each tagged operation as one SQL statement against an embedded SQLite
// database. No business logic lives here.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at path+dsn and
// verifies the connection. The schema is applied by the CreateSchema
// operation, not here.
func OpenSQLite(path, dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", path+dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Name identifies the backend in logs.
func (s *SQLite) Name() string { return "sqlite" }

// Ready reports whether the connection is usable.
func (s *SQLite) Ready() bool {
	return s != nil && s.conn != nil && s.conn.Ping() == nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error { return s.conn.Close() }

// Exec renders and runs one tagged operation.
func (s *SQLite) Exec(ctx context.Context, op Op) (Rows, error) {
	switch op.Kind {
	case KindCreateSchema:
		_, err := s.conn.ExecContext(ctx, schemaSQL)
		return Rows{}, err

	case KindDropSchema:
		_, err := s.conn.ExecContext(ctx, `DROP TABLE IF EXISTS hikes`)
		return Rows{}, err

	case KindInsert:
		h := op.Hike
		_, err := s.conn.ExecContext(ctx, `
			INSERT INTO hikes (id, name, location, date, parking, length,
				difficulty, description, weather, rating, companions, createdAt)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.Name, h.Location, h.Date, h.Parking, h.Length,
			h.Difficulty, h.Description, h.Weather, h.Rating, h.Companions, h.CreatedAt)
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrConstraint {
			return Rows{}, apperr.ErrDuplicateID
		}
		return Rows{}, err

	case KindSelectAll:
		// rowid preserves insertion order for equal dates.
		return s.query(ctx, `SELECT `+hikeColumns+` FROM hikes ORDER BY date DESC, rowid ASC`)

	case KindSelectByID:
		return s.query(ctx, `SELECT `+hikeColumns+` FROM hikes WHERE id = ?`, op.ID)

	case KindUpdate:
		h := op.Hike
		// createdAt is deliberately absent: assigned once, never mutated.
		_, err := s.conn.ExecContext(ctx, `
			UPDATE hikes SET name = ?, location = ?, date = ?, parking = ?,
				length = ?, difficulty = ?, description = ?, weather = ?,
				rating = ?, companions = ?
			WHERE id = ?`,
			h.Name, h.Location, h.Date, h.Parking, h.Length, h.Difficulty,
			h.Description, h.Weather, h.Rating, h.Companions, h.ID)
		return Rows{}, err

	case KindDeleteByID:
		_, err := s.conn.ExecContext(ctx, `DELETE FROM hikes WHERE id = ?`, op.ID)
		return Rows{}, err

	case KindDeleteAll:
		_, err := s.conn.ExecContext(ctx, `DELETE FROM hikes`)
		return Rows{}, err

	case KindCount:
		var n int
		if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM hikes`).Scan(&n); err != nil {
			return Rows{}, err
		}
		return Rows{Count: n}, nil

	default:
		return Rows{}, errUnknownOp(op.Kind)
	}
}

const hikeColumns = `id, name, location, date, parking, length, difficulty,
	description, weather, rating, companions, createdAt`

func (s *SQLite) query(ctx context.Context, q string, args ...any) (Rows, error) {
	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return Rows{}, err
	}
	defer rows.Close()

	var out []models.Hike
	for rows.Next() {
		var h models.Hike
		if err := rows.Scan(&h.ID, &h.Name, &h.Location, &h.Date, &h.Parking,
			&h.Length, &h.Difficulty, &h.Description, &h.Weather, &h.Rating,
			&h.Companions, &h.CreatedAt); err != nil {
			return Rows{}, err
		}
		out = append(out, h)
	}
	return Rows{Hikes: out}, rows.Err()
}
