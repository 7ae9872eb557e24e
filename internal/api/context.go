package api

import (
	"context"

	"rentalboard/internal/schema"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

func WithActor(ctx context.Context, a schema.Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, a)
}

func ActorFromContext(ctx context.Context) (schema.Actor, bool) {
	a, ok := ctx.Value(ctxKeyActor).(schema.Actor)
	return a, ok
}
