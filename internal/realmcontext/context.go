// Package realmcontext carries the authenticated actor through the request
// context. The web boundary resolves identity; everything below only reads it.
package realmcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Actor is the authenticated user acting on behalf of a realm.
type Actor struct {
	UserID         snowflake.ID
	RealmID        snowflake.ID
	Email          string
	IsBillingAdmin bool
}

type actorContextKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor from context, if set.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	if !ok || actor.RealmID == 0 {
		return Actor{}, false
	}
	return actor, true
}
