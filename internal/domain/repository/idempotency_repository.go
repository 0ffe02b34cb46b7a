package repository

import (
	"context"

	"github.com/kikibeach/kiki-pos/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves a key within a scope (user ID or client IP)
	GetByKey(ctx context.Context, key, scope string) (*entity.IdempotencyKey, error)
	// Reserve inserts a pending key. It reports false when a live key already exists.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Complete stores the response on a reserved key
	Complete(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Release drops a pending key so the request can be retried
	Release(ctx context.Context, key, scope string) error
	// DeleteExpired removes expired keys
	DeleteExpired(ctx context.Context) error
}
