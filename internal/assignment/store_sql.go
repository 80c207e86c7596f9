package assignment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) PutAssignment(ctx context.Context, a Assignment) error {
	qj, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO assignments (id,title,description,created_by,cutoff,deadline,questions_json,is_active,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.Title, a.Description, a.CreatedBy, a.Cutoff, unixOrNil(a.Deadline), string(qj), a.IsActive, a.CreatedAt)
	if err != nil {
		return err
	}
	for _, emp := range a.AssignedTo {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO assignment_assignees (assignment_id,employee_id) VALUES ($1,$2)`,
			a.ID, emp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) GetAssignment(ctx context.Context, id string) (Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,created_by,cutoff,deadline,questions_json,is_active,created_at
		 FROM assignments WHERE id=$1`, id)
	a, err := scanAssignment(row)
	if err != nil {
		return Assignment{}, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id FROM assignment_assignees WHERE assignment_id=$1 ORDER BY employee_id`, id)
	if err != nil {
		return Assignment{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var emp string
		if err := rows.Scan(&emp); err != nil {
			return Assignment{}, err
		}
		a.AssignedTo = append(a.AssignedTo, emp)
	}
	return a, rows.Err()
}

func (s *SQLStore) UpdateAssignment(ctx context.Context, a Assignment) error {
	qj, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE assignments SET title=$1, description=$2, cutoff=$3, deadline=$4, questions_json=$5, is_active=$6
		 WHERE id=$7`,
		a.Title, a.Description, a.Cutoff, unixOrNil(a.Deadline), string(qj), a.IsActive, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAssignment is hard: the definition and its roster go away, attempts
// stay. Orphaned assignment references in the ledger are acceptable.
func (s *SQLStore) DeleteAssignment(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM assignment_assignees WHERE assignment_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *SQLStore) ListAssignments(ctx context.Context, opts ListOpts) ([]AssignmentSummary, error) {
	q := `SELECT id,title,description,created_by,cutoff,deadline,is_active,created_at FROM assignments`
	args := []interface{}{}
	switch opts.Scope {
	case ScopeMine:
		q += ` WHERE created_by=$1`
		args = append(args, opts.ViewerID)
	case ScopeAvailable:
		q += ` WHERE is_active AND id IN (SELECT assignment_id FROM assignment_assignees WHERE employee_id=$1)`
		args = append(args, opts.ViewerID)
	case ScopeAll, "":
	}
	q += ` ORDER BY created_at DESC, id`
	if opts.Limit > 0 {
		q += ` LIMIT ` + strconv.Itoa(opts.Limit)
	}
	if opts.Offset > 0 {
		q += ` OFFSET ` + strconv.Itoa(opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AssignmentSummary{}
	for rows.Next() {
		var sm AssignmentSummary
		var deadline sql.NullInt64
		if err := rows.Scan(&sm.ID, &sm.Title, &sm.Description, &sm.CreatedBy, &sm.Cutoff, &deadline, &sm.IsActive, &sm.CreatedAt); err != nil {
			return nil, err
		}
		sm.Deadline = timeOrNil(deadline)
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) CountAssignments(ctx context.Context, createdBy string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assignments WHERE created_by=$1`, createdBy).Scan(&n)
	return n, err
}

// maxNumberRetries bounds how often a submission re-reads the attempt count
// after losing the numbering race to a concurrent submission.
const maxNumberRetries = 3

// CreateAttempt assigns attempt_number = count(prior attempts for the pair)+1
// inside a transaction. The unique index over
// (assignment_id, employee_id, attempt_number) rejects the loser of a
// concurrent race; we then re-read and retry rather than ever persisting a
// duplicate number.
func (s *SQLStore) CreateAttempt(ctx context.Context, a Attempt) (Attempt, error) {
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return Attempt{}, err
	}
	for i := 0; i < maxNumberRetries; i++ {
		att, err := s.insertAttempt(ctx, a, string(aj))
		if err == nil {
			return att, nil
		}
		if !isUniqueViolation(err) {
			return Attempt{}, err
		}
	}
	return Attempt{}, ErrConflict
}

func (s *SQLStore) insertAttempt(ctx context.Context, a Attempt, answersJSON string) (Attempt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Attempt{}, err
	}
	defer tx.Rollback()

	var prior int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attempts WHERE assignment_id=$1 AND employee_id=$2`,
		a.AssignmentID, a.EmployeeID).Scan(&prior); err != nil {
		return Attempt{}, err
	}
	a.AttemptNumber = prior + 1

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO attempts (id,assignment_id,employee_id,answers_json,score,passed,attempt_number,completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.AssignmentID, a.EmployeeID, answersJSON, a.Score, a.Passed, a.AttemptNumber, a.CompletedAt.Unix()); err != nil {
		return Attempt{}, err
	}
	if err := tx.Commit(); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) ListAttempts(ctx context.Context, assignmentID, employeeID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,assignment_id,employee_id,answers_json,score,passed,attempt_number,completed_at
		 FROM attempts WHERE assignment_id=$1 AND employee_id=$2 ORDER BY attempt_number`,
		assignmentID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListAllAttempts(ctx context.Context, assignmentID string) ([]RosterAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id,a.assignment_id,a.employee_id,a.answers_json,a.score,a.passed,a.attempt_number,a.completed_at,
		        COALESCE(e.name,''), COALESCE(e.email,'')
		 FROM attempts a LEFT JOIN employees e ON e.id = a.employee_id
		 WHERE a.assignment_id=$1 ORDER BY a.employee_id, a.attempt_number`,
		assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []RosterAttempt{}
	for rows.Next() {
		var ra RosterAttempt
		var aj string
		var completed int64
		if err := rows.Scan(&ra.ID, &ra.AssignmentID, &ra.EmployeeID, &aj, &ra.Score, &ra.Passed,
			&ra.AttemptNumber, &completed, &ra.EmployeeName, &ra.EmployeeEmail); err != nil {
			return nil, err
		}
		ra.CompletedAt = time.Unix(completed, 0).UTC()
		if err := json.Unmarshal([]byte(aj), &ra.Answers); err != nil {
			ra.Answers = nil
		}
		out = append(out, ra)
	}
	return out, rows.Err()
}

// ---- scanning / helpers ----

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssignment(row rowScanner) (Assignment, error) {
	var a Assignment
	var deadline sql.NullInt64
	var qj string
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.CreatedBy, &a.Cutoff, &deadline, &qj, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Assignment{}, ErrNotFound
	}
	if err != nil {
		return Assignment{}, err
	}
	if err := json.Unmarshal([]byte(qj), &a.Questions); err != nil {
		return Assignment{}, err
	}
	a.Deadline = timeOrNil(deadline)
	return a, nil
}

func scanAttempt(row rowScanner) (Attempt, error) {
	var a Attempt
	var aj string
	var completed int64
	if err := row.Scan(&a.ID, &a.AssignmentID, &a.EmployeeID, &aj, &a.Score, &a.Passed, &a.AttemptNumber, &completed); err != nil {
		return Attempt{}, err
	}
	a.CompletedAt = time.Unix(completed, 0).UTC()
	if err := json.Unmarshal([]byte(aj), &a.Answers); err != nil {
		a.Answers = nil
	}
	return a, nil
}

func unixOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

// isUniqueViolation recognizes the attempt-number uniqueness constraint
// firing on either backend: SQLSTATE 23505 from postgres, constraint text
// from sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || // sqlite
		strings.Contains(msg, "constraint failed: unique") // modernc phrasing
}
