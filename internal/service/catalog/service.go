package catalog

import (
	"context"
	"strings"

	"license-storefront/internal/domain"
)

type fetcher interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Service retrieves the product collection and resolves single products.
// The upstream exposes no single-item endpoint, so Get scans the collection
// client-side; the scan stays behind this service so a dedicated lookup can
// replace it without touching callers.
type Service struct {
	fetcher fetcher
}

func New(fetcher fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// List returns the catalog. Failures are reported, never swallowed into an
// empty result, so callers can distinguish "no products" from a fetch error.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.fetcher.ListProducts(ctx)
}

// Get resolves a single product by license id. Returns domain.ErrNotFound
// when the id is absent from the catalog and the underlying fetch error when
// the collection request itself fails.
func (s *Service) Get(ctx context.Context, licenseID string) (*domain.Product, error) {
	licenseID = strings.TrimSpace(licenseID)
	if licenseID == "" {
		return nil, domain.ErrNotFound
	}
	products, err := s.fetcher.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].LicenseID == licenseID {
			return &products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
