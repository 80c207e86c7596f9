package assignment

import "context"

// ListScope selects which assignments a listing returns.
type ListScope string

const (
	ScopeMine      ListScope = "mine"      // created by the viewer
	ScopeAll       ListScope = "all"       // every assignment
	ScopeAvailable ListScope = "available" // active and assigned to the viewer
)

type ListOpts struct {
	Scope    ListScope
	ViewerID string
	Limit    int
	Offset   int
}

// Store persists assignments and their attempt ledger.
//
// CreateAttempt must assign the next attempt number for the
// (assignment, employee) pair atomically: either by running the count and
// insert in one transaction or by retrying on the unique index over
// (assignment_id, employee_id, attempt_number). Duplicate numbers must never
// be persisted.
type Store interface {
	PutAssignment(ctx context.Context, a Assignment) error
	GetAssignment(ctx context.Context, id string) (Assignment, error)
	UpdateAssignment(ctx context.Context, a Assignment) error
	DeleteAssignment(ctx context.Context, id string) error
	ListAssignments(ctx context.Context, opts ListOpts) ([]AssignmentSummary, error)
	CountAssignments(ctx context.Context, createdBy string) (int, error)

	CreateAttempt(ctx context.Context, a Attempt) (Attempt, error)
	ListAttempts(ctx context.Context, assignmentID, employeeID string) ([]Attempt, error)
	ListAllAttempts(ctx context.Context, assignmentID string) ([]RosterAttempt, error)
}
