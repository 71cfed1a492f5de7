package order

import (
	"context"

	"license-storefront/internal/domain"
)

// Repository persists cart orders. The cart service owns all mutation logic
// and treats the repository purely as a snapshot store, so persistence can
// be swapped (memory vs Postgres) without touching the state machine.
type Repository interface {
	// GetOpenByCustomer returns the customer's open order, or
	// domain.ErrNotFound when none is open.
	GetOpenByCustomer(ctx context.Context, customerID string) (*domain.CartOrder, error)
	// GetLatestByCustomer returns the customer's most recent order in any
	// status, or domain.ErrNotFound when the customer has none.
	GetLatestByCustomer(ctx context.Context, customerID string) (*domain.CartOrder, error)
	// Save writes the full order snapshot, replacing any previous state for
	// that order id.
	Save(ctx context.Context, o *domain.CartOrder) error
}
