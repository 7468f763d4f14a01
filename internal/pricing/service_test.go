package pricing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tours/meridian/internal/catalog"
)

type mockRateRepo struct {
	mockRateStore
	created   []SeasonalRate
	fxCreated []ExchangeRate
	nextID    int64
}

func newMockRateRepo() *mockRateRepo {
	return &mockRateRepo{
		mockRateStore: *newMockRateStore(),
		nextID:        1,
	}
}

func (m *mockRateRepo) CreateRate(ctx context.Context, rate SeasonalRate) (*SeasonalRate, error) {
	rate.ID = m.nextID
	m.nextID++
	rate.IsActive = true
	m.created = append(m.created, rate)
	m.rates[rate.OfferingID] = append(m.rates[rate.OfferingID], rate)
	return &rate, nil
}

func (m *mockRateRepo) ListRates(ctx context.Context, tenantID, offeringID int64) ([]SeasonalRate, error) {
	return m.rates[offeringID], nil
}

func (m *mockRateRepo) DeactivateRate(ctx context.Context, tenantID, rateID int64) error {
	for offeringID, list := range m.rates {
		for i := range list {
			if list[i].ID == rateID && list[i].TenantID == tenantID {
				m.rates[offeringID][i].IsActive = false
				return nil
			}
		}
	}
	return ErrNoApplicableRate
}

func (m *mockRateRepo) CreateExchangeRate(ctx context.Context, fx ExchangeRate) (*ExchangeRate, error) {
	fx.ID = m.nextID
	m.nextID++
	m.fxCreated = append(m.fxCreated, fx)
	m.fxRates = append(m.fxRates, fx)
	return &fx, nil
}

func newRateService(repo *mockRateRepo) *Service {
	return NewService(repo, &repo.mockRateStore, slog.Default())
}

func hotelOffering() *catalog.ServiceOffering {
	return &catalog.ServiceOffering{
		ID:       1,
		TenantID: 10,
		Category: catalog.CategoryHotelRoom,
		IsActive: true,
		Detail: &catalog.OfferingDetail{
			HotelRoom: &catalog.HotelRoomDetail{RoomType: "DOUBLE", BoardBasis: "BB", MinStay: 1},
		},
	}
}

func validHotelSeasonRate() SeasonalRate {
	return SeasonalRate{
		TenantID:   10,
		OfferingID: 1,
		SeasonFrom: day(2026, 4, 1),
		SeasonTo:   day(2026, 10, 31),
		Payload:    RatePayload{Hotel: &HotelRate{PerPersonDouble: dec("1500")}},
	}
}

func TestCreateRate(t *testing.T) {
	repo := newMockRateRepo()
	repo.offerings[1] = hotelOffering()
	svc := newRateService(repo)

	created, err := svc.CreateRate(context.Background(), validHotelSeasonRate())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, catalog.CategoryHotelRoom, created.Category)
	assert.True(t, created.IsActive)
}

func TestCreateRateSeasonOrder(t *testing.T) {
	repo := newMockRateRepo()
	repo.offerings[1] = hotelOffering()
	svc := newRateService(repo)

	rate := validHotelSeasonRate()
	rate.SeasonFrom, rate.SeasonTo = rate.SeasonTo, rate.SeasonFrom
	_, err := svc.CreateRate(context.Background(), rate)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestCreateRateSingleDaySeasonAllowed(t *testing.T) {
	repo := newMockRateRepo()
	repo.offerings[1] = hotelOffering()
	svc := newRateService(repo)

	rate := validHotelSeasonRate()
	rate.SeasonTo = rate.SeasonFrom
	_, err := svc.CreateRate(context.Background(), rate)
	assert.NoError(t, err)
}

func TestCreateRateUnknownOffering(t *testing.T) {
	repo := newMockRateRepo()
	svc := newRateService(repo)

	_, err := svc.CreateRate(context.Background(), validHotelSeasonRate())
	assert.ErrorIs(t, err, ErrOfferingNotFound)
}

func TestCreateRateMissingDetail(t *testing.T) {
	repo := newMockRateRepo()
	offering := hotelOffering()
	offering.Detail = nil
	repo.offerings[1] = offering
	svc := newRateService(repo)

	_, err := svc.CreateRate(context.Background(), validHotelSeasonRate())
	assert.ErrorIs(t, err, ErrMissingDetail)
}

func TestCreateRatePayloadMismatch(t *testing.T) {
	repo := newMockRateRepo()
	repo.offerings[1] = hotelOffering()
	svc := newRateService(repo)

	rate := validHotelSeasonRate()
	rate.Payload = RatePayload{Transfer: &TransferRate{BaseCost: dec("2500")}}
	_, err := svc.CreateRate(context.Background(), rate)
	assert.ErrorIs(t, err, ErrCategoryMismatch)
}

func TestCreateRateCategoryDefaultsFromOffering(t *testing.T) {
	repo := newMockRateRepo()
	repo.offerings[1] = hotelOffering()
	svc := newRateService(repo)

	rate := validHotelSeasonRate()
	rate.Category = ""
	created, err := svc.CreateRate(context.Background(), rate)
	require.NoError(t, err)
	assert.Equal(t, catalog.CategoryHotelRoom, created.Category)
}

func TestCreateExchangeRateValidation(t *testing.T) {
	repo := newMockRateRepo()
	svc := newRateService(repo)
	ctx := context.Background()

	fx := ExchangeRate{
		TenantID:     10,
		FromCurrency: "EUR",
		ToCurrency:   "TRY",
		Rate:         dec("35.5"),
		RateDate:     day(2026, 6, 15),
	}

	created, err := svc.CreateExchangeRate(ctx, fx)
	require.NoError(t, err)
	assert.Equal(t, "manual", created.Source)

	bad := fx
	bad.FromCurrency = "EURO"
	_, err = svc.CreateExchangeRate(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidParams)

	bad = fx
	bad.Rate = dec("0")
	_, err = svc.CreateExchangeRate(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidRate)

	bad = fx
	bad.RateDate = time.Time{}
	_, err = svc.CreateExchangeRate(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestDeactivateRateHidesFromQuoting(t *testing.T) {
	repo := newMockRateRepo()
	repo.offerings[1] = hotelOffering()
	svc := newRateService(repo)
	ctx := context.Background()

	created, err := svc.CreateRate(ctx, validHotelSeasonRate())
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateRate(ctx, 10, created.ID))

	active, err := repo.ListActiveRates(ctx, 10, 1)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListRates(ctx, 10, 1)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
