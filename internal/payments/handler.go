package payments

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/platform/httpx"
	"github.com/meridian-tours/meridian/internal/shared"
)

var validate = validator.New()

// Handler manages payment endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers payment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/bookings/{bookingID}/payments", h.create)
	r.Get("/bookings/{bookingID}/payments", h.listByBooking)
	r.Post("/payments/{id}/status", h.updateStatus)
}

type createPaymentRequest struct {
	AmountEur      float64 `json:"amount_eur" validate:"required,gt=0"`
	IdempotencyKey string  `json:"idempotency_key,omitempty" validate:"omitempty,uuid4"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "invalid booking id")
		return
	}
	var req createPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	key := uuid.Nil
	if req.IdempotencyKey != "" {
		key, err = uuid.Parse(req.IdempotencyKey)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "idempotency_key must be a UUID")
			return
		}
	}
	created, err := h.service.Create(r.Context(), shared.TenantFromContext(r.Context()), bookingID,
		decimal.NewFromFloat(req.AmountEur), key)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

type paymentListResponse struct {
	Payments   []Payment       `json:"payments"`
	CountedSum decimal.Decimal `json:"counted_sum_eur"`
}

func (h *Handler) listByBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "invalid booking id")
		return
	}
	list, sum, err := h.service.ListByBooking(r.Context(), shared.TenantFromContext(r.Context()), bookingID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, paymentListResponse{Payments: list, CountedSum: sum})
}

type updatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "invalid payment id")
		return
	}
	var req updatePaymentStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	updated, err := h.service.UpdateStatus(r.Context(), shared.TenantFromContext(r.Context()), id, Status(req.Status))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrExceedsBalance):
		// The detail carries the exact remaining balance.
		httpx.Problem(w, http.StatusConflict, "Payment Exceeds Balance", err.Error())
	case errors.Is(err, ErrNonPositiveAmount), errors.Is(err, ErrInvalidTransition):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	default:
		h.logger.Error("payment request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
