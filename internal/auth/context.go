package auth

import "context"

type stateContextKey struct{}

// ContextWithState stores the resolved state in context.
func ContextWithState(ctx context.Context, state State) context.Context {
	return context.WithValue(ctx, stateContextKey{}, state)
}

// StateFromContext extracts the resolved state. Missing state reads as loading.
func StateFromContext(ctx context.Context) State {
	state, ok := ctx.Value(stateContextKey{}).(State)
	if !ok {
		return Loading()
	}
	return state
}
