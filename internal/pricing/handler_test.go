package pricing

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tours/meridian/internal/shared"
)

func newQuoteRouter(store *mockRateStore) http.Handler {
	calc := testCalculator(store)
	handler := NewHandler(slog.Default(), calc, nil)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func doQuoteRequest(t *testing.T, router http.Handler, tenantID int64, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(shared.ContextWithTenant(req.Context(), tenantID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestQuoteEndpoint(t *testing.T) {
	store := newMockRateStore()
	seedHotelOffering(store)
	router := newQuoteRouter(store)

	rec := doQuoteRequest(t, router, 10, `{
		"offering_id": 1,
		"service_date": "2026-06-15",
		"params": {"pax": 2, "nights": 3}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var quote Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.True(t, dec("316.90").Equal(quote.SellPrice.Value), "sell %s", quote.SellPrice.Value)
	assert.Equal(t, "EUR", quote.SellPrice.Currency)
}

func TestQuoteEndpointUnknownOffering(t *testing.T) {
	router := newQuoteRouter(newMockRateStore())

	rec := doQuoteRequest(t, router, 10, `{
		"offering_id": 99,
		"service_date": "2026-06-15",
		"params": {"pax": 2, "nights": 3}
	}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuoteEndpointNoRateForDate(t *testing.T) {
	store := newMockRateStore()
	seedHotelOffering(store)
	router := newQuoteRouter(store)

	rec := doQuoteRequest(t, router, 10, `{
		"offering_id": 1,
		"service_date": "2026-12-15",
		"params": {"pax": 2, "nights": 3}
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestQuoteEndpointBadDate(t *testing.T) {
	store := newMockRateStore()
	seedHotelOffering(store)
	router := newQuoteRouter(store)

	rec := doQuoteRequest(t, router, 10, `{
		"offering_id": 1,
		"service_date": "15/06/2026",
		"params": {"pax": 2, "nights": 3}
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteEndpointValidation(t *testing.T) {
	store := newMockRateStore()
	seedHotelOffering(store)
	router := newQuoteRouter(store)

	rec := doQuoteRequest(t, router, 10, `{"service_date": "2026-06-15"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doQuoteRequest(t, router, 10, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
