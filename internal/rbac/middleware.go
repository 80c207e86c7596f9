package rbac

import "net/http"

var defaultPolicy Policy = AllowListPolicy{}

// RequireTeams rejects requests whose principal's team is not in the
// allow-list.
func RequireTeams(teams ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			team := TeamFromContext(r.Context())
			if !defaultPolicy.Allow(team, teams) {
				http.Error(w, "access denied: insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSupervisory is RequireTeams over the supervisory allow-list.
func RequireSupervisory() func(http.Handler) http.Handler {
	return RequireTeams(SupervisoryTeams...)
}
