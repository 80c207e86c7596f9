package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teamops/hrcore/internal/assignment"
	"github.com/teamops/hrcore/internal/rbac"
)

// POST /assignments/{assignmentID}/attempts  { "answers": [ { "question_id": "...", "answer": ... } ] }
func SubmitAttemptHandler(svc *assignment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Answers *[]assignment.Answer `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Answers == nil {
			http.Error(w, "answers must be a list", http.StatusBadRequest)
			return
		}
		att, err := svc.Submit(r.Context(), rbac.SubjectFromContext(r.Context()),
			chi.URLParam(r, "assignmentID"), *req.Answers)
		if err != nil {
			writeError(w, err)
			return
		}
		msg := "assignment failed, please reattempt"
		if att.Passed {
			msg = "assignment passed"
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":        msg,
			"score":          att.Score,
			"passed":         att.Passed,
			"attempt_number": att.AttemptNumber,
			"attempt":        att,
		})
	}
}

// GET /assignments/{assignmentID}/attempts returns the caller's own history,
// ordered by attempt number. The employee filter is always the subject, so
// there is no cross-employee access through this path.
func AttemptHistoryHandler(svc *assignment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempts, err := svc.History(r.Context(), rbac.SubjectFromContext(r.Context()),
			chi.URLParam(r, "assignmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, attempts)
	}
}

// GET /assignments/{assignmentID}/report returns every employee's attempts,
// enriched with name/email. Gated to supervisory teams by the router.
func AllAttemptsHandler(svc *assignment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roster, err := svc.Roster(r.Context(), chi.URLParam(r, "assignmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, roster)
	}
}
