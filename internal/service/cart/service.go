package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"license-storefront/internal/domain"
	"github.com/google/uuid"
)

type orderStore interface {
	GetOpenByCustomer(ctx context.Context, customerID string) (*domain.CartOrder, error)
	GetLatestByCustomer(ctx context.Context, customerID string) (*domain.CartOrder, error)
	Save(ctx context.Context, o *domain.CartOrder) error
}

// Service maintains the single open CartOrder per identity and keeps
// total_amount consistent across mutations. Mutations for one customer are
// serialized so two concurrent requests cannot interleave on the same order.
type Service struct {
	store  orderStore
	logger *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Service over the given order store.
func New(store orderStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		store:  store,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// NewItemDraft captures the fields needed to add a line item.
type NewItemDraft struct {
	LicenseID        string `json:"license_id"`
	LicenseName      string `json:"license_name"`
	Quantity         int    `json:"quantity"`
	PriceAtOrderTime int64  `json:"price_at_order_time"`
}

// Get returns the identity's current open order, or domain.ErrNotFound when
// none is open.
func (s *Service) Get(ctx context.Context, identity *domain.Identity) (*domain.CartOrder, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.store.GetOpenByCustomer(ctx, identity.CustomerID)
}

// AddItem appends a new line item to the identity's open order, creating the
// order lazily when the identity has none yet. The item is stamped with the
// identity's display name and the current time. Mutating a checked-out order
// fails with domain.ErrOrderClosed.
func (s *Service) AddItem(ctx context.Context, identity *domain.Identity, draft NewItemDraft) (*domain.CartOrder, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	unlock := s.lockCustomer(identity.CustomerID)
	defer unlock()

	now := time.Now().UTC()
	order, err := s.store.GetLatestByCustomer(ctx, identity.CustomerID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		order = &domain.CartOrder{
			OrderID:      uuid.NewString(),
			CustomerID:   identity.CustomerID,
			CustomerName: identity.CustomerName,
			Status:       domain.StatusOpen,
			CreatedDate:  now,
			Items:        []domain.OrderItem{},
		}
	case err != nil:
		return nil, err
	case !order.Open():
		return nil, domain.ErrOrderClosed
	}

	order.Items = append(order.Items, domain.OrderItem{
		ID:               uuid.NewString(),
		LicenseID:        draft.LicenseID,
		LicenseName:      draft.LicenseName,
		Quantity:         draft.Quantity,
		PriceAtOrderTime: draft.PriceAtOrderTime,
		CreatedBy:        identity.CustomerName,
		CreatedDate:      now,
	})
	order.RecomputeTotal()
	order.UpdatedDate = now

	if err := s.store.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Printf("cart: add customer_id=%s license_id=%s qty=%d total=%d", identity.CustomerID, draft.LicenseID, draft.Quantity, order.TotalAmount)
	return order, nil
}

// RemoveItem removes a line item by id from the open order and recomputes
// the total. An absent id is a no-op, not an error.
func (s *Service) RemoveItem(ctx context.Context, identity *domain.Identity, itemID string) (*domain.CartOrder, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	unlock := s.lockCustomer(identity.CustomerID)
	defer unlock()

	order, err := s.store.GetLatestByCustomer(ctx, identity.CustomerID)
	if err != nil {
		return nil, err
	}
	if !order.Open() {
		return nil, domain.ErrOrderClosed
	}

	kept := order.Items[:0]
	for _, it := range order.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(order.Items) {
		// Nothing removed; leave the stored order untouched.
		return order, nil
	}
	order.Items = kept
	order.RecomputeTotal()
	order.UpdatedDate = time.Now().UTC()

	if err := s.store.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Printf("cart: remove customer_id=%s item_id=%s total=%d", identity.CustomerID, itemID, order.TotalAmount)
	return order, nil
}

// Checkout transitions the open order to closed. The transition is terminal;
// repeating it on the already-closed order is a no-op success returning the
// same order.
func (s *Service) Checkout(ctx context.Context, identity *domain.Identity) (*domain.CartOrder, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	unlock := s.lockCustomer(identity.CustomerID)
	defer unlock()

	order, err := s.store.GetLatestByCustomer(ctx, identity.CustomerID)
	if err != nil {
		return nil, err
	}
	if !order.Open() {
		return order, nil
	}

	now := time.Now().UTC()
	order.Status = domain.StatusClosed
	order.Comment = fmt.Sprintf("order completed at %s", now.Format(time.RFC3339))
	order.UpdatedDate = now

	if err := s.store.Save(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Printf("cart: checkout customer_id=%s order_id=%s total=%d", identity.CustomerID, order.OrderID, order.TotalAmount)
	return order, nil
}

func validateDraft(d NewItemDraft) error {
	if strings.TrimSpace(d.LicenseID) == "" {
		return errors.New("license_id required")
	}
	if d.Quantity < 1 {
		return errors.New("quantity must be at least 1")
	}
	if d.PriceAtOrderTime < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}

func (s *Service) lockCustomer(customerID string) func() {
	s.mu.Lock()
	l, ok := s.locks[customerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[customerID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}
