package employee

import (
	"context"
	"errors"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

var ErrNotFound = errors.New("employee not found")

// Employee is the minimal directory record the assignment core needs:
// login identity, team for the allow-list gate, status for roster
// snapshots, and name/email for report enrichment.
type Employee struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Team         string `json:"team"`
	Status       string `json:"status"`
	PasswordHash string `json:"-"`
}

type Store interface {
	Get(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	// ListActiveIDs returns the ids of all employees with Active status,
	// used to snapshot the eligible population at assignment creation.
	ListActiveIDs(ctx context.Context) ([]string, error)
	Put(ctx context.Context, e Employee) error
}
