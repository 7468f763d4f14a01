package booking

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tours/meridian/internal/money"
	"github.com/meridian-tours/meridian/internal/pricing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type mockStore struct {
	bookings map[int64]*Booking
	items    map[int64][]Item
	nextID   int64

	addItemError error
}

func newMockStore() *mockStore {
	return &mockStore{
		bookings: make(map[int64]*Booking),
		items:    make(map[int64][]Item),
		nextID:   1,
	}
}

func (m *mockStore) Create(ctx context.Context, b Booking) (*Booking, error) {
	b.ID = m.nextID
	m.nextID++
	b.TotalSellEur = decimal.Zero
	b.CreatedAt = time.Now()
	m.bookings[b.ID] = &b
	cp := b
	return &cp, nil
}

func (m *mockStore) Get(ctx context.Context, tenantID, id int64) (*Booking, error) {
	b, ok := m.bookings[id]
	if !ok || b.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *b
	cp.Items = m.items[id]
	return &cp, nil
}

func (m *mockStore) AddItem(ctx context.Context, item Item) (*Item, error) {
	if m.addItemError != nil {
		return nil, m.addItemError
	}
	b, ok := m.bookings[item.BookingID]
	if !ok || b.TenantID != item.TenantID {
		return nil, ErrNotFound
	}
	item.ID = m.nextID
	m.nextID++
	m.items[item.BookingID] = append(m.items[item.BookingID], item)
	b.TotalSellEur = b.TotalSellEur.Add(item.LineTotal())
	cp := item
	return &cp, nil
}

func (m *mockStore) UpdateStatus(ctx context.Context, tenantID, id int64, status Status) error {
	b, ok := m.bookings[id]
	if !ok || b.TenantID != tenantID {
		return ErrNotFound
	}
	b.Status = status
	return nil
}

type mockQuoter struct {
	quote     *pricing.Quote
	quoteErr  error
	rate      pricing.ExchangeRate
	rateErr   error
	quoteReqs []pricing.QuoteRequest
}

func (m *mockQuoter) GetQuote(ctx context.Context, tenantID int64, req pricing.QuoteRequest) (*pricing.Quote, error) {
	m.quoteReqs = append(m.quoteReqs, req)
	if m.quoteErr != nil {
		return nil, m.quoteErr
	}
	return m.quote, nil
}

func (m *mockQuoter) ResolveRate(ctx context.Context, tenantID int64, at time.Time) (pricing.ExchangeRate, error) {
	if m.rateErr != nil {
		return pricing.ExchangeRate{}, m.rateErr
	}
	return m.rate, nil
}

func standardQuote() *pricing.Quote {
	return &pricing.Quote{
		Cost:             money.Amount{Value: dec("9000"), Currency: "TRY"},
		SellPrice:        money.Amount{Value: dec("316.90"), Currency: "EUR"},
		ExchangeRateUsed: dec("35.5"),
		ExchangeRateID:   3,
		MarkupPct:        dec("25"),
		RateID:           5,
	}
}

func testService(store *mockStore, quoter *mockQuoter) *Service {
	svc := NewService(store, quoter, slog.Default())
	svc.now = func() time.Time {
		return time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestCreateBookingLocksExchangeRate(t *testing.T) {
	store := newMockStore()
	quoter := &mockQuoter{rate: pricing.ExchangeRate{ID: 3, Rate: dec("35.5")}}
	svc := testService(store, quoter)

	b, err := svc.Create(context.Background(), 10, "Acme Travel")
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, b.Status)
	assert.True(t, dec("35.5").Equal(b.LockedExchangeRate))
}

func TestCreateBookingRequiresClientName(t *testing.T) {
	svc := testService(newMockStore(), &mockQuoter{})
	_, err := svc.Create(context.Background(), 10, "")
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestCreateBookingFailsWithoutExchangeRate(t *testing.T) {
	quoter := &mockQuoter{rateErr: pricing.ErrNoRatesAvailable}
	svc := testService(newMockStore(), quoter)
	_, err := svc.Create(context.Background(), 10, "Acme Travel")
	assert.ErrorIs(t, err, pricing.ErrNoRatesAvailable)
}

func TestAddCatalogItemFreezesQuote(t *testing.T) {
	store := newMockStore()
	quoter := &mockQuoter{rate: pricing.ExchangeRate{ID: 3, Rate: dec("35.5")}, quote: standardQuote()}
	svc := testService(store, quoter)
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, "Acme Travel")
	require.NoError(t, err)

	serviceDate := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	item, err := svc.AddCatalogItem(ctx, 10, b.ID, pricing.QuoteRequest{
		OfferingID:  1,
		ServiceDate: serviceDate,
		Params:      pricing.TripParams{Pax: 2, Nights: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, item.Qty)
	require.NotNil(t, item.OfferingID)
	assert.Equal(t, int64(1), *item.OfferingID)
	assert.True(t, dec("9000").Equal(item.UnitCostTry))
	assert.True(t, dec("316.90").Equal(item.UnitPriceEur))

	require.NotNil(t, item.Snapshot)
	assert.Equal(t, serviceDate, item.Snapshot.ServiceDate)
	assert.Equal(t, int64(5), item.Snapshot.Quote.RateID)
	assert.False(t, item.Snapshot.QuotedAt.IsZero())
}

func TestAddCatalogItemSnapshotSurvivesRateChanges(t *testing.T) {
	store := newMockStore()
	quoter := &mockQuoter{rate: pricing.ExchangeRate{ID: 3, Rate: dec("35.5")}, quote: standardQuote()}
	svc := testService(store, quoter)
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, "Acme Travel")
	require.NoError(t, err)

	item, err := svc.AddCatalogItem(ctx, 10, b.ID, pricing.QuoteRequest{
		OfferingID:  1,
		ServiceDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		Params:      pricing.TripParams{Pax: 2, Nights: 3},
	})
	require.NoError(t, err)

	// Simulate a later catalog reprice; the stored item must not move.
	quoter.quote = &pricing.Quote{
		Cost:      money.Amount{Value: dec("12000"), Currency: "TRY"},
		SellPrice: money.Amount{Value: dec("422.54"), Currency: "EUR"},
	}

	loaded, err := svc.Get(ctx, 10, b.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.True(t, dec("316.90").Equal(loaded.Items[0].UnitPriceEur))
	assert.Equal(t, item.ID, loaded.Items[0].ID)
}

func TestAddCatalogItemQuoteFailurePropagates(t *testing.T) {
	store := newMockStore()
	quoter := &mockQuoter{rate: pricing.ExchangeRate{ID: 3, Rate: dec("35.5")}, quoteErr: pricing.ErrNoApplicableRate}
	svc := testService(store, quoter)
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, "Acme Travel")
	require.NoError(t, err)

	_, err = svc.AddCatalogItem(ctx, 10, b.ID, pricing.QuoteRequest{OfferingID: 1, ServiceDate: time.Now()})
	assert.ErrorIs(t, err, pricing.ErrNoApplicableRate)
}

func TestAddManualItem(t *testing.T) {
	store := newMockStore()
	quoter := &mockQuoter{rate: pricing.ExchangeRate{ID: 3, Rate: dec("35.5")}}
	svc := testService(store, quoter)
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, "Acme Travel")
	require.NoError(t, err)

	item, err := svc.AddManualItem(ctx, 10, b.ID, 3, dec("500"), dec("20"))
	require.NoError(t, err)
	assert.Equal(t, 3, item.Qty)
	assert.Nil(t, item.OfferingID)
	assert.Nil(t, item.Snapshot)
	assert.True(t, dec("60").Equal(item.LineTotal()))

	loaded, err := svc.Get(ctx, 10, b.ID)
	require.NoError(t, err)
	assert.True(t, dec("60").Equal(loaded.TotalSellEur))
}

func TestAddManualItemValidation(t *testing.T) {
	svc := testService(newMockStore(), &mockQuoter{})
	ctx := context.Background()

	_, err := svc.AddManualItem(ctx, 10, 1, 0, dec("500"), dec("20"))
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = svc.AddManualItem(ctx, 10, 1, 1, dec("-1"), dec("20"))
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = svc.AddManualItem(ctx, 10, 1, 1, dec("500"), dec("-1"))
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestUpdateBookingStatusTransitions(t *testing.T) {
	store := newMockStore()
	quoter := &mockQuoter{rate: pricing.ExchangeRate{ID: 3, Rate: dec("35.5")}}
	svc := testService(store, quoter)
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, "Acme Travel")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, 10, b.ID, StatusConfirmed))
	require.NoError(t, svc.UpdateStatus(ctx, 10, b.ID, StatusCancelled))

	// Cancelled is terminal.
	err = svc.UpdateStatus(ctx, 10, b.ID, StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestUpdateBookingStatusDraftCanCancel(t *testing.T) {
	store := newMockStore()
	quoter := &mockQuoter{rate: pricing.ExchangeRate{ID: 3, Rate: dec("35.5")}}
	svc := testService(store, quoter)
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, "Acme Travel")
	require.NoError(t, err)
	assert.NoError(t, svc.UpdateStatus(ctx, 10, b.ID, StatusCancelled))
}

func TestBookingTenantIsolation(t *testing.T) {
	store := newMockStore()
	quoter := &mockQuoter{rate: pricing.ExchangeRate{ID: 3, Rate: dec("35.5")}}
	svc := testService(store, quoter)
	ctx := context.Background()

	b, err := svc.Create(ctx, 10, "Acme Travel")
	require.NoError(t, err)

	_, err = svc.Get(ctx, 11, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
