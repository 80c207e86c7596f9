package assignment

import "time"

// Question types supported by the grading engine.
const (
	TypeMCQ         = "MCQ"
	TypeMAQ         = "MAQ"
	TypeTrueFalse   = "TrueFalse"
	TypeBlank       = "Blank"
	TypeShortAnswer = "ShortAnswer"
)

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"` // MCQ, MAQ, TrueFalse, Blank, ShortAnswer
	Options []string `json:"options,omitempty"`
	// CorrectAnswer is a string for single-answer types and a []string
	// (JSON array) for MAQ.
	CorrectAnswer interface{} `json:"correct_answer,omitempty"`
	Marks         float64     `json:"marks"`
}

type Assignment struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatedBy   string     `json:"created_by"`
	Cutoff      float64    `json:"cutoff"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Questions   []Question `json:"questions"`
	AssignedTo  []string   `json:"assigned_to,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   int64      `json:"created_at,omitempty"`
}

// Answer is one submitted response, matched to a question by ID.
// Value is a string for single-answer types and a []string for MAQ.
type Answer struct {
	QuestionID string      `json:"question_id"`
	Value      interface{} `json:"answer"`
}

type Attempt struct {
	ID            string    `json:"id"`
	AssignmentID  string    `json:"assignment_id"`
	EmployeeID    string    `json:"employee_id"`
	Answers       []Answer  `json:"answers"`
	Score         float64   `json:"score"`
	Passed        bool      `json:"passed"`
	AttemptNumber int       `json:"attempt_number"`
	CompletedAt   time.Time `json:"completed_at"`
}

// RosterAttempt is an attempt enriched with employee identity for
// supervisory report views.
type RosterAttempt struct {
	Attempt
	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
}

// AssignmentSummary is the listing projection: no questions, no roster.
type AssignmentSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatedBy   string     `json:"created_by"`
	Cutoff      float64    `json:"cutoff"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   int64      `json:"created_at,omitempty"`
}
