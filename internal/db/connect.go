package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:hrcore.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/hrcore?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Attempts deliberately carry no foreign key to assignments: the ledger is
// append-only and survives assignment deletion. The unique index over
// (assignment_id, employee_id, attempt_number) backs the numbering
// guarantee; the store retries on violation.

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS employees (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  team TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Active',
  password_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS assignments (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_by TEXT NOT NULL,
  cutoff REAL NOT NULL,
  deadline INTEGER,
  questions_json TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS assignment_assignees (
  assignment_id TEXT NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
  employee_id TEXT NOT NULL,
  PRIMARY KEY (assignment_id, employee_id)
);

CREATE TABLE IF NOT EXISTS attempts (
  id TEXT PRIMARY KEY,
  assignment_id TEXT NOT NULL,
  employee_id TEXT NOT NULL,
  answers_json TEXT NOT NULL,
  score REAL NOT NULL DEFAULT 0,
  passed INTEGER NOT NULL DEFAULT 0,
  attempt_number INTEGER NOT NULL,
  completed_at INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS attempts_pair_number
  ON attempts (assignment_id, employee_id, attempt_number);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS employees (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  team TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Active',
  password_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS assignments (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_by TEXT NOT NULL,
  cutoff DOUBLE PRECISION NOT NULL,
  deadline BIGINT,
  questions_json TEXT NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS assignment_assignees (
  assignment_id TEXT NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
  employee_id TEXT NOT NULL,
  PRIMARY KEY (assignment_id, employee_id)
);

CREATE TABLE IF NOT EXISTS attempts (
  id TEXT PRIMARY KEY,
  assignment_id TEXT NOT NULL,
  employee_id TEXT NOT NULL,
  answers_json TEXT NOT NULL,
  score DOUBLE PRECISION NOT NULL DEFAULT 0,
  passed BOOLEAN NOT NULL DEFAULT FALSE,
  attempt_number INTEGER NOT NULL,
  completed_at BIGINT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS attempts_pair_number
  ON attempts (assignment_id, employee_id, attempt_number);
`
