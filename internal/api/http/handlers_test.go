package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/teamops/hrcore/internal/api/http"
	"github.com/teamops/hrcore/internal/assignment"
	auth "github.com/teamops/hrcore/internal/auth/middleware"
	"github.com/teamops/hrcore/internal/employee"
	"github.com/teamops/hrcore/internal/grading"
	"github.com/teamops/hrcore/internal/rbac"
)

type env struct {
	router  *chi.Mux
	authSvc *auth.AuthService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	emps := employee.NewInMemoryStore()
	ctx := context.Background()
	for _, e := range []employee.Employee{
		{ID: "boss", Name: "Dana Ops", Email: "dana@corp.test", Team: "Executive", Status: employee.StatusActive},
		{ID: "e1", Name: "Avery One", Email: "avery@corp.test", Team: "Engineering", Status: employee.StatusActive},
	} {
		if err := emps.Put(ctx, e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	svc := assignment.NewService(assignment.NewInMemoryStore(emps), emps, grading.NewEngine())
	authSvc := auth.NewAuthService("test-secret")

	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Route("/assignments", func(ar chi.Router) {
			ar.With(rbac.RequireSupervisory()).Post("/", api.CreateAssignmentHandler(svc))
			ar.Get("/", api.ListAssignmentsHandler(svc))
			ar.Get("/count", api.AssignmentCountHandler(svc))
			ar.Get("/{assignmentID}", api.GetAssignmentHandler(svc))
			ar.Patch("/{assignmentID}", api.EditAssignmentHandler(svc))
			ar.Delete("/{assignmentID}", api.DeleteAssignmentHandler(svc))
			ar.Post("/{assignmentID}/attempts", api.SubmitAttemptHandler(svc))
			ar.Get("/{assignmentID}/attempts", api.AttemptHistoryHandler(svc))
			ar.With(rbac.RequireSupervisory()).Get("/{assignmentID}/report", api.AllAttemptsHandler(svc))
		})
	})
	return &env{router: r, authSvc: authSvc}
}

func (e *env) do(t *testing.T, method, path, body, sub, team string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if sub != "" {
		tok, err := e.authSvc.IssueJWT(sub, team)
		if err != nil {
			t.Fatalf("issue jwt: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

const createBody = `{
	"title": "Onboarding quiz",
	"cutoff": 5,
	"roster_policy": "explicit",
	"assigned_to": ["e1"],
	"questions": [
		{"id": "q1", "text": "Pick A", "type": "MCQ", "options": ["A","B"], "correct_answer": "A", "marks": 3},
		{"id": "q2", "text": "Pick B", "type": "MCQ", "options": ["A","B"], "correct_answer": "B", "marks": 3}
	]
}`

func createAssignment(t *testing.T, e *env) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/assignments/", createBody, "boss", "Executive")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d: %s", rec.Code, rec.Body.String())
	}
	var a assignment.Assignment
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return a.ID
}

func TestCreate_RequiresSupervisoryTeam(t *testing.T) {
	e := newEnv(t)
	if rec := e.do(t, http.MethodPost, "/assignments/", createBody, "e1", "Engineering"); rec.Code != http.StatusForbidden {
		t.Fatalf("non-supervisory create: got %d, want 403", rec.Code)
	}
	if rec := e.do(t, http.MethodPost, "/assignments/", createBody, "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: got %d, want 401", rec.Code)
	}
	createAssignment(t, e)
}

func TestSubmitAndHistoryFlow(t *testing.T) {
	e := newEnv(t)
	id := createAssignment(t, e)

	rec := e.do(t, http.MethodPost, "/assignments/"+id+"/attempts",
		`{"answers":[{"question_id":"q1","answer":"A"},{"question_id":"q2","answer":"X"}]}`,
		"e1", "Engineering")
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Score         float64 `json:"score"`
		Passed        bool    `json:"passed"`
		AttemptNumber int     `json:"attempt_number"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Score != 3 || resp.Passed || resp.AttemptNumber != 1 {
		t.Fatalf("unexpected grading result: %+v", resp)
	}

	rec = e.do(t, http.MethodGet, "/assignments/"+id+"/attempts", "", "e1", "Engineering")
	if rec.Code != http.StatusOK {
		t.Fatalf("history: got %d", rec.Code)
	}
	var attempts []assignment.Attempt
	if err := json.Unmarshal(rec.Body.Bytes(), &attempts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(attempts) != 1 || attempts[0].AttemptNumber != 1 {
		t.Fatalf("unexpected history: %+v", attempts)
	}

	// another employee sees an empty history, never e1's attempts
	rec = e.do(t, http.MethodGet, "/assignments/"+id+"/attempts", "", "boss", "Executive")
	_ = json.Unmarshal(rec.Body.Bytes(), &attempts)
	if len(attempts) != 0 {
		t.Fatalf("history must be scoped to the caller, got %+v", attempts)
	}
}

func TestSubmit_MalformedPayload(t *testing.T) {
	e := newEnv(t)
	id := createAssignment(t, e)
	for _, body := range []string{`{}`, `{"answers":"nope"}`, `nonsense`} {
		rec := e.do(t, http.MethodPost, "/assignments/"+id+"/attempts", body, "e1", "Engineering")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: got %d, want 400", body, rec.Code)
		}
	}
}

func TestRosterGate(t *testing.T) {
	e := newEnv(t)
	id := createAssignment(t, e)
	e.do(t, http.MethodPost, "/assignments/"+id+"/attempts", `{"answers":[]}`, "e1", "Engineering")

	if rec := e.do(t, http.MethodGet, "/assignments/"+id+"/report", "", "e1", "Engineering"); rec.Code != http.StatusForbidden {
		t.Fatalf("non-supervisory roster: got %d, want 403", rec.Code)
	}
	rec := e.do(t, http.MethodGet, "/assignments/"+id+"/report", "", "boss", "Executive")
	if rec.Code != http.StatusOK {
		t.Fatalf("roster: got %d", rec.Code)
	}
	var roster []assignment.RosterAttempt
	if err := json.Unmarshal(rec.Body.Bytes(), &roster); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(roster) != 1 || roster[0].EmployeeName != "Avery One" {
		t.Fatalf("roster must be enriched with identity: %+v", roster)
	}
}

func TestEditDeleteAuthorization(t *testing.T) {
	e := newEnv(t)
	id := createAssignment(t, e)

	if rec := e.do(t, http.MethodPatch, "/assignments/"+id, `{"title":"x"}`, "e1", "Engineering"); rec.Code != http.StatusForbidden {
		t.Fatalf("non-creator edit: got %d, want 403", rec.Code)
	}
	if rec := e.do(t, http.MethodPatch, "/assignments/"+id, `{"is_active":false}`, "boss", "Executive"); rec.Code != http.StatusOK {
		t.Fatalf("creator edit: got %d", rec.Code)
	}
	// deactivated assignments reject new attempts
	if rec := e.do(t, http.MethodPost, "/assignments/"+id+"/attempts", `{"answers":[]}`, "e1", "Engineering"); rec.Code != http.StatusConflict {
		t.Fatalf("inactive submit: got %d, want 409", rec.Code)
	}
	if rec := e.do(t, http.MethodDelete, "/assignments/"+id, "", "e1", "Engineering"); rec.Code != http.StatusForbidden {
		t.Fatalf("non-creator delete: got %d, want 403", rec.Code)
	}
	if rec := e.do(t, http.MethodDelete, "/assignments/"+id, "", "boss", "Executive"); rec.Code != http.StatusNoContent {
		t.Fatalf("creator delete: got %d", rec.Code)
	}
	if rec := e.do(t, http.MethodGet, "/assignments/"+id, "", "boss", "Executive"); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted get: got %d, want 404", rec.Code)
	}
}

func TestListScopesAndCount(t *testing.T) {
	e := newEnv(t)
	id := createAssignment(t, e)

	var list []assignment.AssignmentSummary
	rec := e.do(t, http.MethodGet, "/assignments/?scope=available", "", "e1", "Engineering")
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].ID != id {
		t.Fatalf("available scope: got %+v", list)
	}

	rec = e.do(t, http.MethodGet, "/assignments/?scope=mine", "", "e1", "Engineering")
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 0 {
		t.Fatalf("mine scope for non-creator: got %+v", list)
	}

	if rec := e.do(t, http.MethodGet, "/assignments/?scope=bogus", "", "e1", "Engineering"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus scope: got %d, want 400", rec.Code)
	}

	rec = e.do(t, http.MethodGet, "/assignments/count", "", "boss", "Executive")
	var count map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &count); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if count["count"] != 1 {
		t.Fatalf("count: got %d, want 1", count["count"])
	}
}
