package app

import "context"

// EntityService is the CRUD contract every catalog entity service
// satisfies. Each implementation keeps its own validation; the shape is
// shared so handlers and tests can treat the services uniformly.
type EntityService[T any, C any, P any] interface {
	Create(ctx context.Context, ident *Identity, in C) (T, error)
	Get(ctx context.Context, id int64) (T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, ident *Identity, id int64, patch P) (T, error)
	Delete(ctx context.Context, ident *Identity, id int64) error
}
