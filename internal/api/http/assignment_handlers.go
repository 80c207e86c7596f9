package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teamops/hrcore/internal/assignment"
	"github.com/teamops/hrcore/internal/rbac"
)

func CreateAssignmentHandler(svc *assignment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in assignment.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		a, err := svc.Create(r.Context(), rbac.SubjectFromContext(r.Context()), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

// GET /assignments?scope=mine|all|available&limit=50&offset=0
func ListAssignmentsHandler(svc *assignment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := assignment.ListScope(r.URL.Query().Get("scope"))
		switch scope {
		case assignment.ScopeMine, assignment.ScopeAll, assignment.ScopeAvailable:
		case "":
			scope = assignment.ScopeMine
		default:
			http.Error(w, "unknown scope", http.StatusBadRequest)
			return
		}
		list, err := svc.List(r.Context(), assignment.ListOpts{
			Scope:    scope,
			ViewerID: rbac.SubjectFromContext(r.Context()),
			Limit:    parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:   parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetAssignmentHandler(svc *assignment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Get(r.Context(), chi.URLParam(r, "assignmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func EditAssignmentHandler(svc *assignment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in assignment.EditInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		a, err := svc.Edit(r.Context(), rbac.SubjectFromContext(r.Context()), chi.URLParam(r, "assignmentID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func DeleteAssignmentHandler(svc *assignment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), rbac.SubjectFromContext(r.Context()), chi.URLParam(r, "assignmentID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /assignments/count returns the number of assignments created by the caller.
func AssignmentCountHandler(svc *assignment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.Count(r.Context(), rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"count": n})
	}
}
