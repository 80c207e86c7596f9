package assignment

import (
	"context"
	"sort"
	"sync"

	"github.com/teamops/hrcore/internal/employee"
)

type memoryStore struct {
	mu          sync.RWMutex
	assignments map[string]Assignment
	attempts    []Attempt
	employees   employee.Store // identity for roster enrichment; may be nil
}

// NewInMemoryStore keeps everything in process-local maps, for dev and
// tests. Attempt numbering is serialized under the store mutex, which gives
// the same uniqueness guarantee the SQL store gets from its unique index.
func NewInMemoryStore(employees employee.Store) Store {
	return &memoryStore{
		assignments: map[string]Assignment{},
		employees:   employees,
	}
}

func (m *memoryStore) PutAssignment(_ context.Context, a Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.ID] = a
	return nil
}

func (m *memoryStore) GetAssignment(_ context.Context, id string) (Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assignments[id]
	if !ok {
		return Assignment{}, ErrNotFound
	}
	return a, nil
}

func (m *memoryStore) UpdateAssignment(_ context.Context, a Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignments[a.ID]; !ok {
		return ErrNotFound
	}
	m.assignments[a.ID] = a
	return nil
}

func (m *memoryStore) DeleteAssignment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignments[id]; !ok {
		return ErrNotFound
	}
	delete(m.assignments, id)
	// attempts are kept: the ledger outlives the assignment
	return nil
}

func (m *memoryStore) ListAssignments(_ context.Context, opts ListOpts) ([]AssignmentSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []AssignmentSummary{}
	for _, a := range m.assignments {
		switch opts.Scope {
		case ScopeMine:
			if a.CreatedBy != opts.ViewerID {
				continue
			}
		case ScopeAvailable:
			if !a.IsActive || !contains(a.AssignedTo, opts.ViewerID) {
				continue
			}
		case ScopeAll, "":
		}
		out = append(out, AssignmentSummary{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			CreatedBy:   a.CreatedBy,
			Cutoff:      a.Cutoff,
			Deadline:    a.Deadline,
			IsActive:    a.IsActive,
			CreatedAt:   a.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) CountAssignments(_ context.Context, createdBy string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, a := range m.assignments {
		if a.CreatedBy == createdBy {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) CreateAttempt(_ context.Context, a Attempt) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := 1
	for _, prev := range m.attempts {
		if prev.AssignmentID == a.AssignmentID && prev.EmployeeID == a.EmployeeID {
			next++
		}
	}
	a.AttemptNumber = next
	m.attempts = append(m.attempts, a)
	return a, nil
}

func (m *memoryStore) ListAttempts(_ context.Context, assignmentID, employeeID string) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Attempt{}
	for _, a := range m.attempts {
		if a.AssignmentID == assignmentID && a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptNumber < out[j].AttemptNumber })
	return out, nil
}

func (m *memoryStore) ListAllAttempts(ctx context.Context, assignmentID string) ([]RosterAttempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []RosterAttempt{}
	for _, a := range m.attempts {
		if a.AssignmentID != assignmentID {
			continue
		}
		ra := RosterAttempt{Attempt: a}
		if m.employees != nil {
			if e, err := m.employees.Get(ctx, a.EmployeeID); err == nil {
				ra.EmployeeName = e.Name
				ra.EmployeeEmail = e.Email
			}
		}
		out = append(out, ra)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].AttemptNumber < out[j].AttemptNumber
	})
	return out, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func page[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return []T{}
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
