package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meridian-tours/meridian/internal/shared"
)

var (
	// ErrDetailMismatch indicates the detail record does not match the
	// offering's category.
	ErrDetailMismatch = errors.New("catalog: detail does not match category")
	// ErrInvalidCategory indicates an unknown category value.
	ErrInvalidCategory = errors.New("catalog: invalid category")
)

// Store abstracts persistence for the catalog service.
type Store interface {
	CreateSupplier(ctx context.Context, s Supplier) (*Supplier, error)
	GetSupplier(ctx context.Context, tenantID, id int64) (*Supplier, error)
	ListSuppliers(ctx context.Context, tenantID int64) ([]Supplier, error)
	CreateOffering(ctx context.Context, o ServiceOffering) (*ServiceOffering, error)
	GetOffering(ctx context.Context, tenantID, id int64) (*ServiceOffering, error)
	ListOfferings(ctx context.Context, tenantID int64, category *Category, limit, offset int) ([]ServiceOffering, int, error)
}

// Service owns catalog business rules.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs the catalog service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateSupplier registers a supplier for the tenant.
func (s *Service) CreateSupplier(ctx context.Context, sup Supplier) (*Supplier, error) {
	if sup.Name == "" {
		return nil, errors.New("catalog: supplier name required")
	}
	return s.store.CreateSupplier(ctx, sup)
}

// GetSupplier loads one supplier.
func (s *Service) GetSupplier(ctx context.Context, tenantID, id int64) (*Supplier, error) {
	return s.store.GetSupplier(ctx, tenantID, id)
}

// ListSuppliers lists the tenant's suppliers.
func (s *Service) ListSuppliers(ctx context.Context, tenantID int64) ([]Supplier, error) {
	return s.store.ListSuppliers(ctx, tenantID)
}

// CreateOffering validates and inserts an offering with its detail record.
func (s *Service) CreateOffering(ctx context.Context, o ServiceOffering) (*ServiceOffering, error) {
	if !o.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, o.Category)
	}
	if o.Detail != nil && !o.Detail.Matches(o.Category) {
		return nil, ErrDetailMismatch
	}
	if o.MarkupPct != nil && o.MarkupPct.IsNegative() {
		return nil, errors.New("catalog: markup must not be negative")
	}
	if _, err := s.store.GetSupplier(ctx, o.TenantID, o.SupplierID); err != nil {
		return nil, fmt.Errorf("verify supplier: %w", err)
	}
	created, err := s.store.CreateOffering(ctx, o)
	if err != nil {
		return nil, err
	}
	s.logger.Info("offering created",
		slog.Int64("tenant_id", created.TenantID),
		slog.Int64("offering_id", created.ID),
		slog.String("category", string(created.Category)))
	return created, nil
}

// GetOffering loads one offering with its detail record.
func (s *Service) GetOffering(ctx context.Context, tenantID, id int64) (*ServiceOffering, error) {
	return s.store.GetOffering(ctx, tenantID, id)
}

// ListOfferings lists active offerings with pagination, optionally
// filtered by category.
func (s *Service) ListOfferings(ctx context.Context, tenantID int64, category *Category, page, perPage int) ([]ServiceOffering, shared.Pagination, error) {
	if category != nil && !category.Valid() {
		return nil, shared.Pagination{}, fmt.Errorf("%w: %q", ErrInvalidCategory, *category)
	}
	p := shared.NewPagination(page, perPage, 0)
	offerings, total, err := s.store.ListOfferings(ctx, tenantID, category, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return offerings, shared.NewPagination(p.Page, p.PerPage, total), nil
}
