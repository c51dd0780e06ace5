package api

import (
	"context"

	"github.com/rpupo63/baglist-backend/services"
)

type keyType string

const actorKey keyType = "actor"

// ctxWithActor adds the acting identity to the context
func ctxWithActor(ctx context.Context, actor services.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ctxGetActor returns the acting identity, or an anonymous actor when the request carried no token.
func ctxGetActor(ctx context.Context) services.Actor {
	if actor, ok := ctx.Value(actorKey).(services.Actor); ok {
		return actor
	}
	return services.Anonymous()
}
