package rbac

import "context"

// Policy decides whether a principal's team may perform an operation gated
// to the given allow-list. It is a capability composed in front of the
// lifecycle operations, not a property of the entities themselves.
type Policy interface {
	Allow(team string, allowed []string) bool
}

// AllowListPolicy grants access iff the team appears in the allow-list.
type AllowListPolicy struct{}

func (AllowListPolicy) Allow(team string, allowed []string) bool {
	if team == "" {
		return false
	}
	for _, t := range allowed {
		if t == team {
			return true
		}
	}
	return false
}

// SupervisoryTeams gate assignment creation and cross-employee reporting.
var SupervisoryTeams = []string{"Executive", "Operations"}

// ---- principal in context ----

type ctxKey int

const (
	ctxKeySubject ctxKey = iota
	ctxKeyTeam
)

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySubject, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeySubject).(string); ok {
		return s
	}
	return ""
}

func WithTeam(ctx context.Context, team string) context.Context {
	return context.WithValue(ctx, ctxKeyTeam, team)
}

func TeamFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyTeam).(string); ok {
		return s
	}
	return ""
}
