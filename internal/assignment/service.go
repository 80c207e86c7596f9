package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teamops/hrcore/internal/employee"
	"github.com/teamops/hrcore/internal/grading"
)

// RosterPolicy selects how the eligible population is bound at creation.
type RosterPolicy string

const (
	// RosterExplicit uses the caller-supplied employee id list.
	RosterExplicit RosterPolicy = "explicit"
	// RosterSnapshotActive snapshots all currently Active employees.
	RosterSnapshotActive RosterPolicy = "snapshot-active"
)

// Service orchestrates assignment lifecycle, grading and the attempt ledger.
type Service struct {
	store     Store
	employees employee.Store
	engine    *grading.Engine
	now       func() time.Time
}

func NewService(store Store, employees employee.Store, engine *grading.Engine) *Service {
	return &Service{store: store, employees: employees, engine: engine, now: time.Now}
}

type CreateInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Cutoff      float64      `json:"cutoff"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	Questions   []Question   `json:"questions"`
	Roster      RosterPolicy `json:"roster_policy"`
	AssignedTo  []string     `json:"assigned_to,omitempty"`
}

// Create persists a new assignment owned by creatorID. The roster policy is
// a per-call choice: an explicit employee list, or a snapshot of the Active
// population taken now.
func (s *Service) Create(ctx context.Context, creatorID string, in CreateInput) (Assignment, error) {
	if in.Title == "" {
		return Assignment{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Cutoff < 0 {
		return Assignment{}, fmt.Errorf("%w: cutoff must not be negative", ErrInvalidInput)
	}
	if len(in.Questions) == 0 {
		return Assignment{}, fmt.Errorf("%w: at least one question is required", ErrInvalidInput)
	}
	questions, err := prepareQuestions(in.Questions)
	if err != nil {
		return Assignment{}, err
	}

	var roster []string
	switch in.Roster {
	case RosterSnapshotActive:
		roster, err = s.employees.ListActiveIDs(ctx)
		if err != nil {
			return Assignment{}, err
		}
	case RosterExplicit, "":
		roster = dedupe(in.AssignedTo)
	default:
		return Assignment{}, fmt.Errorf("%w: unknown roster policy %q", ErrInvalidInput, in.Roster)
	}

	a := Assignment{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		CreatedBy:   creatorID,
		Cutoff:      in.Cutoff,
		Deadline:    in.Deadline,
		Questions:   questions,
		AssignedTo:  roster,
		IsActive:    true,
		CreatedAt:   s.now().Unix(),
	}
	if err := s.store.PutAssignment(ctx, a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Assignment, error) {
	return s.store.GetAssignment(ctx, id)
}

func (s *Service) List(ctx context.Context, opts ListOpts) ([]AssignmentSummary, error) {
	return s.store.ListAssignments(ctx, opts)
}

func (s *Service) Count(ctx context.Context, creatorID string) (int, error) {
	return s.store.CountAssignments(ctx, creatorID)
}

type EditInput struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Cutoff      *float64    `json:"cutoff,omitempty"`
	Deadline    *time.Time  `json:"deadline,omitempty"`
	Questions   *[]Question `json:"questions,omitempty"`
	IsActive    *bool       `json:"is_active,omitempty"`
}

// Edit applies a partial update. Only the creator may edit. Omitted fields
// keep their prior values; IsActive is tri-state so an explicit false takes
// effect.
func (s *Service) Edit(ctx context.Context, editorID, id string, in EditInput) (Assignment, error) {
	a, err := s.store.GetAssignment(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	if a.CreatedBy != editorID {
		return Assignment{}, fmt.Errorf("%w: only the creator may edit", ErrForbidden)
	}
	if in.Title != nil {
		if *in.Title == "" {
			return Assignment{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		a.Title = *in.Title
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.Cutoff != nil {
		if *in.Cutoff < 0 {
			return Assignment{}, fmt.Errorf("%w: cutoff must not be negative", ErrInvalidInput)
		}
		a.Cutoff = *in.Cutoff
	}
	if in.Deadline != nil {
		a.Deadline = in.Deadline
	}
	if in.Questions != nil {
		qs, err := prepareQuestions(*in.Questions)
		if err != nil {
			return Assignment{}, err
		}
		a.Questions = qs
	}
	if in.IsActive != nil {
		a.IsActive = *in.IsActive
	}
	if err := s.store.UpdateAssignment(ctx, a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// Delete removes the assignment outright. Only the creator may delete.
// Existing attempts are left in place.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	a, err := s.store.GetAssignment(ctx, id)
	if err != nil {
		return err
	}
	if a.CreatedBy != callerID {
		return fmt.Errorf("%w: only the creator may delete", ErrForbidden)
	}
	return s.store.DeleteAssignment(ctx, id)
}

// Submit grades answers against the question snapshot read at the start of
// the call and appends an attempt with the next number for the
// (assignment, employee) pair. Validation failures create nothing.
func (s *Service) Submit(ctx context.Context, employeeID, assignmentID string, answers []Answer) (Attempt, error) {
	a, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return Attempt{}, err
	}
	if !a.IsActive {
		return Attempt{}, ErrUnavailable
	}
	now := s.now()
	if a.Deadline != nil && now.After(*a.Deadline) {
		return Attempt{}, fmt.Errorf("%w: deadline has passed", ErrUnavailable)
	}

	qs := make([]grading.Q, len(a.Questions))
	for i, q := range a.Questions {
		qs[i] = grading.Q{ID: q.ID, Type: q.Type, Marks: q.Marks, Key: q.CorrectAnswer}
	}
	resp := make([]grading.Response, len(answers))
	for i, ans := range answers {
		resp[i] = grading.Response{QuestionID: ans.QuestionID, Value: ans.Value}
	}
	out := s.engine.Grade(qs, resp, a.Cutoff)

	return s.store.CreateAttempt(ctx, Attempt{
		ID:           uuid.NewString(),
		AssignmentID: assignmentID,
		EmployeeID:   employeeID,
		Answers:      answers,
		Score:        out.Score,
		Passed:       out.Passed,
		CompletedAt:  now,
	})
}

// History returns the employee's own attempts ordered by attempt number.
// No prior attempts is an empty list, not an error.
func (s *Service) History(ctx context.Context, employeeID, assignmentID string) ([]Attempt, error) {
	return s.store.ListAttempts(ctx, assignmentID, employeeID)
}

// Roster returns every employee's attempts for one assignment, enriched
// with employee identity. Access is gated upstream to supervisory teams.
func (s *Service) Roster(ctx context.Context, assignmentID string) ([]RosterAttempt, error) {
	if _, err := s.store.GetAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}
	return s.store.ListAllAttempts(ctx, assignmentID)
}

// prepareQuestions validates a question list and fixes ids: questions keep
// the id they came with so attempts stay resolvable, new ones get a UUID.
func prepareQuestions(in []Question) ([]Question, error) {
	out := make([]Question, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, q := range in {
		if q.Text == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrInvalidInput, i)
		}
		switch q.Type {
		case TypeMCQ, TypeMAQ, TypeTrueFalse, TypeBlank, TypeShortAnswer:
		default:
			return nil, fmt.Errorf("%w: question %d has unknown type %q", ErrInvalidInput, i, q.Type)
		}
		if q.CorrectAnswer == nil {
			return nil, fmt.Errorf("%w: question %d has no correct answer", ErrInvalidInput, i)
		}
		if q.Marks == 0 {
			q.Marks = 1
		}
		if q.Marks < 0 {
			return nil, fmt.Errorf("%w: question %d has negative marks", ErrInvalidInput, i)
		}
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidInput, q.ID)
		}
		seen[q.ID] = struct{}{}
		out[i] = q
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
