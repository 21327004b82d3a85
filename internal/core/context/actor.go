package context

import (
	"context"
)

// Actor identifies who performs a privileged mutation.
// Resolved by the HTTP layer from the bearer token and consumed by the
// audit trail recorder; never trusted from request bodies.
type Actor struct {
	ID   string
	Name string
}

type actorKey struct{}

// WithActor stores the acting collaborator in context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor returns the acting collaborator from context, or nil.
func GetActor(ctx context.Context) *Actor {
	if a, ok := ctx.Value(actorKey{}).(*Actor); ok {
		return a
	}
	return nil
}

// ActorID returns the acting collaborator id, or empty string.
func ActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.ID
	}
	return ""
}
