package booking

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
	"github.com/meridian-tours/meridian/internal/pricing"
	"github.com/meridian-tours/meridian/internal/shared"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// Handler manages booking endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers booking routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Post("/{id}/items", h.addItem)
		r.Post("/{id}/status", h.updateStatus)
	})
}

type createBookingRequest struct {
	ClientName string `json:"client_name" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), shared.TenantFromContext(r.Context()), req.ClientName)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "invalid booking id")
		return
	}
	b, err := h.service.Get(r.Context(), shared.TenantFromContext(r.Context()), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// addItemRequest creates either a catalog-driven item (offering_id and
// service_date set) or a manual item (cost/price/qty set).
type addItemRequest struct {
	OfferingID  *int64             `json:"offering_id,omitempty"`
	ServiceDate string             `json:"service_date,omitempty"`
	Params      pricing.TripParams `json:"params"`

	Qty          *int     `json:"qty,omitempty"`
	UnitCostTry  *float64 `json:"unit_cost_try,omitempty"`
	UnitPriceEur *float64 `json:"unit_price_eur,omitempty"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "invalid booking id")
		return
	}
	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	tenantID := shared.TenantFromContext(r.Context())

	if req.OfferingID != nil {
		if req.ServiceDate == "" {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "service_date required with offering_id")
			return
		}
		serviceDate, err := time.Parse(dateLayout, req.ServiceDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "service_date must be YYYY-MM-DD")
			return
		}
		item, err := h.service.AddCatalogItem(r.Context(), tenantID, bookingID, pricing.QuoteRequest{
			OfferingID:  *req.OfferingID,
			ServiceDate: serviceDate,
			Params:      req.Params,
		})
		if err != nil {
			h.respondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, item)
		return
	}

	if req.Qty == nil || req.UnitCostTry == nil || req.UnitPriceEur == nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "manual items require qty, unit_cost_try and unit_price_eur")
		return
	}
	item, err := h.service.AddManualItem(r.Context(), tenantID, bookingID, *req.Qty,
		decimal.NewFromFloat(*req.UnitCostTry), decimal.NewFromFloat(*req.UnitPriceEur))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "invalid booking id")
		return
	}
	var req updateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	if err := h.service.UpdateStatus(r.Context(), shared.TenantFromContext(r.Context()), id, Status(req.Status)); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidItem):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.Is(err, pricing.ErrOfferingNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, pricing.ErrNoApplicableRate):
		httpx.Problem(w, http.StatusUnprocessableEntity, "No Applicable Rate", err.Error())
	case errors.Is(err, pricing.ErrNoRatesAvailable), errors.Is(err, pricing.ErrNoRateOnOrBefore):
		httpx.Problem(w, http.StatusUnprocessableEntity, "No Exchange Rate", err.Error())
	case errors.Is(err, pricing.ErrInvalidParams), errors.Is(err, pricing.ErrBelowMinStay),
		errors.Is(err, pricing.ErrBelowMinPax), errors.Is(err, pricing.ErrAbovePaxCapacity),
		errors.Is(err, pricing.ErrPaxOutOfTierRange):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	default:
		h.logger.Error("booking request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
