package dao

import (
	"context"
)

// Service is the generic storage port shared by all entity stores. Keys are
// entity identifiers; List accepts optional parameters for server-side
// filtering (map id, status).
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
