package pricing

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/platform/httpx"
	"github.com/meridian-tours/meridian/internal/shared"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// Handler manages pricing endpoints: quoting, seasonal rates and exchange
// rates.
type Handler struct {
	logger     *slog.Logger
	calculator *Calculator
	service    *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, calculator *Calculator, service *Service) *Handler {
	return &Handler{logger: logger, calculator: calculator, service: service}
}

// MountRoutes registers pricing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/quotes", h.createQuote)
	r.Route("/offerings/{offeringID}/rates", func(r chi.Router) {
		r.Get("/", h.listRates)
		r.Post("/", h.createRate)
	})
	r.Delete("/rates/{id}", h.deactivateRate)
	r.Route("/exchange-rates", func(r chi.Router) {
		r.Get("/", h.listExchangeRates)
		r.Post("/", h.createExchangeRate)
	})
}

type quoteRequest struct {
	OfferingID  int64      `json:"offering_id" validate:"required,gt=0"`
	ServiceDate string     `json:"service_date" validate:"required"`
	Params      TripParams `json:"params"`
}

func (h *Handler) createQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	serviceDate, err := time.Parse(dateLayout, req.ServiceDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "service_date must be YYYY-MM-DD")
		return
	}

	quote, err := h.calculator.GetQuote(r.Context(), shared.TenantFromContext(r.Context()), QuoteRequest{
		OfferingID:  req.OfferingID,
		ServiceDate: serviceDate,
		Params:      req.Params,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

type createRateRequest struct {
	SeasonFrom string      `json:"season_from" validate:"required"`
	SeasonTo   string      `json:"season_to" validate:"required"`
	Payload    RatePayload `json:"payload" validate:"required"`
}

func (h *Handler) createRate(w http.ResponseWriter, r *http.Request) {
	offeringID, err := strconv.ParseInt(chi.URLParam(r, "offeringID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "invalid offering id")
		return
	}
	var req createRateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	from, err := time.Parse(dateLayout, req.SeasonFrom)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "season_from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse(dateLayout, req.SeasonTo)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "season_to must be YYYY-MM-DD")
		return
	}

	created, err := h.service.CreateRate(r.Context(), SeasonalRate{
		TenantID:   shared.TenantFromContext(r.Context()),
		OfferingID: offeringID,
		SeasonFrom: from,
		SeasonTo:   to,
		Payload:    req.Payload,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listRates(w http.ResponseWriter, r *http.Request) {
	offeringID, err := strconv.ParseInt(chi.URLParam(r, "offeringID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "invalid offering id")
		return
	}
	rates, err := h.service.ListRates(r.Context(), shared.TenantFromContext(r.Context()), offeringID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rates)
}

func (h *Handler) deactivateRate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "invalid rate id")
		return
	}
	if err := h.service.DeactivateRate(r.Context(), shared.TenantFromContext(r.Context()), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createExchangeRateRequest struct {
	FromCurrency string  `json:"from_currency" validate:"required,len=3"`
	ToCurrency   string  `json:"to_currency" validate:"required,len=3"`
	Rate         float64 `json:"rate" validate:"required,gt=0"`
	RateDate     string  `json:"rate_date" validate:"required"`
	Source       string  `json:"source,omitempty"`
}

func (h *Handler) createExchangeRate(w http.ResponseWriter, r *http.Request) {
	var req createExchangeRateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	rateDate, err := time.Parse(dateLayout, req.RateDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "rate_date must be YYYY-MM-DD")
		return
	}
	created, err := h.service.CreateExchangeRate(r.Context(), ExchangeRate{
		TenantID:     shared.TenantFromContext(r.Context()),
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		Rate:         decimal.NewFromFloat(req.Rate),
		RateDate:     rateDate,
		Source:       req.Source,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) listExchangeRates(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "from and to query parameters required")
		return
	}
	rates, err := h.service.ListExchangeRates(r.Context(), shared.TenantFromContext(r.Context()), from, to)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rates)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOfferingNotFound), errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrNoApplicableRate):
		// Distinct from 404: a data gap the operator can close by adding
		// a rate for the period.
		httpx.Problem(w, http.StatusUnprocessableEntity, "No Applicable Rate", err.Error())
	case errors.Is(err, ErrNoRatesAvailable), errors.Is(err, ErrNoRateOnOrBefore):
		httpx.Problem(w, http.StatusUnprocessableEntity, "No Exchange Rate", err.Error())
	case errors.Is(err, ErrInvalidParams), errors.Is(err, ErrBelowMinStay), errors.Is(err, ErrBelowMinPax),
		errors.Is(err, ErrAbovePaxCapacity), errors.Is(err, ErrPaxOutOfTierRange),
		errors.Is(err, ErrCategoryMismatch), errors.Is(err, ErrMissingDetail):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.Is(err, ErrInvalidRate):
		h.logger.Error("corrupted rate data", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Data Integrity Fault", err.Error())
	default:
		h.logger.Error("pricing request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
