package port

import (
	"context"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

type ShirtRepository interface {
	// Get returns domain.ErrNotFound when the id does not exist
	Get(ctx context.Context, id string) (*domain.Shirt, error)

	// List returns every shirt matching filter
	List(ctx context.Context, filter domain.Filter) ([]domain.Shirt, error)

	// Insert persists a new shirt; ID, CreatedAt and UpdatedAt are set by the caller
	Insert(ctx context.Context, shirt domain.Shirt) error

	// Replace overwrites the patched fields and returns the stored record
	Replace(ctx context.Context, id string, patch domain.ShirtPatch) (*domain.Shirt, error)

	// AdjustStock atomically adds delta to stock, refusing with
	// domain.ErrInsufficientStock when the result would be negative
	AdjustStock(ctx context.Context, id string, delta int) (*domain.Shirt, error)

	// Remove deletes by id, domain.ErrNotFound when absent
	Remove(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}
