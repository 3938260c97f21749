package auth

import "context"

type contextKey string

const storeKey contextKey = "activities-auth-store"

// WithStore attaches the store to the context. It is the provider boundary:
// code below it reaches the session through FromContext.
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeKey, store)
}

// FromContext retrieves the store attached by WithStore.
func FromContext(ctx context.Context) (*Store, error) {
	store, ok := ctx.Value(storeKey).(*Store)
	if !ok || store == nil {
		return nil, ErrNoProvider
	}
	return store, nil
}
