package employee

import (
	"context"
	"database/sql"
	"errors"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, id string) (Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,email,team,status,password_hash FROM employees WHERE id=$1`, id)
	return scanEmployee(row)
}

func (s *SQLStore) GetByEmail(ctx context.Context, email string) (Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,name,email,team,status,password_hash FROM employees WHERE email=$1`, email)
	return scanEmployee(row)
}

func (s *SQLStore) ListActiveIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM employees WHERE status=$1 ORDER BY id`, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLStore) Put(ctx context.Context, e Employee) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id,name,email,team,status,password_hash)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, email=EXCLUDED.email,
		   team=EXCLUDED.team, status=EXCLUDED.status, password_hash=EXCLUDED.password_hash`,
		e.ID, e.Name, e.Email, e.Team, e.Status, e.PasswordHash)
	return err
}

func scanEmployee(row *sql.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Team, &e.Status, &e.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}
