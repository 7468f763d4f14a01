package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	suppliers map[int64]*Supplier
	offerings map[int64]*ServiceOffering
	nextID    int64

	createOfferingError error
}

func newMockStore() *mockStore {
	return &mockStore{
		suppliers: make(map[int64]*Supplier),
		offerings: make(map[int64]*ServiceOffering),
		nextID:    1,
	}
}

func (m *mockStore) CreateSupplier(ctx context.Context, s Supplier) (*Supplier, error) {
	s.ID = m.nextID
	m.nextID++
	m.suppliers[s.ID] = &s
	cp := s
	return &cp, nil
}

func (m *mockStore) GetSupplier(ctx context.Context, tenantID, id int64) (*Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok || s.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockStore) ListSuppliers(ctx context.Context, tenantID int64) ([]Supplier, error) {
	var out []Supplier
	for _, s := range m.suppliers {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockStore) CreateOffering(ctx context.Context, o ServiceOffering) (*ServiceOffering, error) {
	if m.createOfferingError != nil {
		return nil, m.createOfferingError
	}
	o.ID = m.nextID
	m.nextID++
	m.offerings[o.ID] = &o
	cp := o
	return &cp, nil
}

func (m *mockStore) GetOffering(ctx context.Context, tenantID, id int64) (*ServiceOffering, error) {
	o, ok := m.offerings[id]
	if !ok || o.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockStore) ListOfferings(ctx context.Context, tenantID int64, category *Category, limit, offset int) ([]ServiceOffering, int, error) {
	var out []ServiceOffering
	for _, o := range m.offerings {
		if o.TenantID != tenantID {
			continue
		}
		if category != nil && o.Category != *category {
			continue
		}
		out = append(out, *o)
	}
	total := len(out)
	if offset > total {
		offset = total
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func testService(store *mockStore) *Service {
	return NewService(store, slog.Default())
}

func seedSupplier(t *testing.T, svc *Service) *Supplier {
	t.Helper()
	sup, err := svc.CreateSupplier(context.Background(), Supplier{TenantID: 10, Name: "Grand Anatolia"})
	require.NoError(t, err)
	return sup
}

func TestCreateSupplierRequiresName(t *testing.T) {
	svc := testService(newMockStore())
	_, err := svc.CreateSupplier(context.Background(), Supplier{TenantID: 10})
	assert.Error(t, err)
}

func TestCreateOffering(t *testing.T) {
	svc := testService(newMockStore())
	sup := seedSupplier(t, svc)

	created, err := svc.CreateOffering(context.Background(), ServiceOffering{
		TenantID:   10,
		SupplierID: sup.ID,
		Category:   CategoryHotelRoom,
		Name:       "Standard Double",
		IsActive:   true,
		Detail: &OfferingDetail{
			HotelRoom: &HotelRoomDetail{RoomType: "DOUBLE", BoardBasis: "BB", MinStay: 1},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, CategoryHotelRoom, created.Category)
}

func TestCreateOfferingInvalidCategory(t *testing.T) {
	svc := testService(newMockStore())
	sup := seedSupplier(t, svc)

	_, err := svc.CreateOffering(context.Background(), ServiceOffering{
		TenantID:   10,
		SupplierID: sup.ID,
		Category:   "SPA_DAY",
		Name:       "Spa",
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestCreateOfferingDetailMismatch(t *testing.T) {
	svc := testService(newMockStore())
	sup := seedSupplier(t, svc)

	_, err := svc.CreateOffering(context.Background(), ServiceOffering{
		TenantID:   10,
		SupplierID: sup.ID,
		Category:   CategoryHotelRoom,
		Name:       "Standard Double",
		Detail: &OfferingDetail{
			Transfer: &TransferDetail{VehicleClass: "MINIVAN", MaxPax: 6},
		},
	})
	assert.ErrorIs(t, err, ErrDetailMismatch)
}

func TestCreateOfferingNegativeMarkup(t *testing.T) {
	svc := testService(newMockStore())
	sup := seedSupplier(t, svc)

	markup := decimal.NewFromInt(-5)
	_, err := svc.CreateOffering(context.Background(), ServiceOffering{
		TenantID:   10,
		SupplierID: sup.ID,
		Category:   CategoryTransfer,
		Name:       "Airport Run",
		MarkupPct:  &markup,
	})
	assert.Error(t, err)
}

func TestCreateOfferingUnknownSupplier(t *testing.T) {
	svc := testService(newMockStore())

	_, err := svc.CreateOffering(context.Background(), ServiceOffering{
		TenantID:   10,
		SupplierID: 99,
		Category:   CategoryTransfer,
		Name:       "Airport Run",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOfferingsCategoryFilter(t *testing.T) {
	store := newMockStore()
	svc := testService(store)
	sup := seedSupplier(t, svc)
	ctx := context.Background()

	_, err := svc.CreateOffering(ctx, ServiceOffering{
		TenantID: 10, SupplierID: sup.ID, Category: CategoryTransfer, Name: "Airport Run",
	})
	require.NoError(t, err)
	_, err = svc.CreateOffering(ctx, ServiceOffering{
		TenantID: 10, SupplierID: sup.ID, Category: CategoryActivity, Name: "Balloon Flight",
	})
	require.NoError(t, err)

	cat := CategoryTransfer
	list, page, err := svc.ListOfferings(ctx, 10, &cat, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Airport Run", list[0].Name)
	assert.Equal(t, 1, page.Total)

	bad := Category("SPA_DAY")
	_, _, err = svc.ListOfferings(ctx, 10, &bad, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestListOfferingsPagination(t *testing.T) {
	store := newMockStore()
	svc := testService(store)
	sup := seedSupplier(t, svc)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.CreateOffering(ctx, ServiceOffering{
			TenantID: 10, SupplierID: sup.ID, Category: CategoryActivity,
			Name: fmt.Sprintf("Tour %d", i),
		})
		require.NoError(t, err)
	}

	list, page, err := svc.ListOfferings(ctx, 10, nil, 2, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	list, page, err = svc.ListOfferings(ctx, 10, nil, 0, -1)
	require.NoError(t, err)
	assert.Len(t, list, 5)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
}
