package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/platform/httpx"
	"github.com/meridian-tours/meridian/internal/shared"
)

var validate = validator.New()

// Handler manages catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", h.listSuppliers)
		r.Post("/", h.createSupplier)
		r.Get("/{id}", h.getSupplier)
	})
	r.Route("/offerings", func(r chi.Router) {
		r.Get("/", h.listOfferings)
		r.Post("/", h.createOffering)
		r.Get("/{id}", h.getOffering)
	})
}

type createSupplierRequest struct {
	Name    string  `json:"name" validate:"required"`
	Contact *string `json:"contact,omitempty"`
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req createSupplierRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	sup, err := h.service.CreateSupplier(r.Context(), Supplier{
		TenantID: shared.TenantFromContext(r.Context()),
		Name:     req.Name,
		Contact:  req.Contact,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sup)
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "invalid supplier id")
		return
	}
	sup, err := h.service.GetSupplier(r.Context(), shared.TenantFromContext(r.Context()), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sup)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.ListSuppliers(r.Context(), shared.TenantFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, suppliers)
}

type createOfferingRequest struct {
	SupplierID int64           `json:"supplier_id" validate:"required,gt=0"`
	Category   string          `json:"category" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	MarkupPct  *float64        `json:"markup_pct,omitempty" validate:"omitempty,gte=0"`
	Detail     *OfferingDetail `json:"detail,omitempty"`
}

func (h *Handler) createOffering(w http.ResponseWriter, r *http.Request) {
	var req createOfferingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
		return
	}
	offering := ServiceOffering{
		TenantID:   shared.TenantFromContext(r.Context()),
		SupplierID: req.SupplierID,
		Category:   Category(req.Category),
		Name:       req.Name,
		Detail:     req.Detail,
	}
	if req.MarkupPct != nil {
		m := decimal.NewFromFloat(*req.MarkupPct)
		offering.MarkupPct = &m
	}
	created, err := h.service.CreateOffering(r.Context(), offering)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) getOffering(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "invalid offering id")
		return
	}
	offering, err := h.service.GetOffering(r.Context(), shared.TenantFromContext(r.Context()), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, offering)
}

type offeringListResponse struct {
	Offerings  []ServiceOffering `json:"offerings"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
}

func (h *Handler) listOfferings(w http.ResponseWriter, r *http.Request) {
	var category *Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c := Category(raw)
		category = &c
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	offerings, pagination, err := h.service.ListOfferings(r.Context(), shared.TenantFromContext(r.Context()), category, page, perPage)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, offeringListResponse{
		Offerings:  offerings,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		Total:      pagination.Total,
		TotalPages: pagination.TotalPages,
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDetailMismatch), errors.Is(err, ErrInvalidCategory):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	default:
		h.logger.Error("catalog request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
