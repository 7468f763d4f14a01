package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"

	"github.com/meridian-tours/meridian/internal/booking"
	"github.com/meridian-tours/meridian/internal/catalog"
	"github.com/meridian-tours/meridian/internal/observability"
	"github.com/meridian-tours/meridian/internal/payments"
	"github.com/meridian-tours/meridian/internal/platform/httpx"
	"github.com/meridian-tours/meridian/internal/pricing"
	"github.com/meridian-tours/meridian/jobs"
)

// FXEnqueuer submits an on-demand exchange-rate import to the job queue.
type FXEnqueuer interface {
	EnqueueFXSync(ctx context.Context, payload jobs.FXSyncPayload) (*asynq.TaskInfo, error)
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	CatalogHandler  *catalog.Handler
	PricingHandler  *pricing.Handler
	BookingHandler  *booking.Handler
	PaymentsHandler *payments.Handler
	FXEnqueuer      FXEnqueuer
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	// Cross-tenant operations live outside the tenant-scoped API tree.
	if params.FXEnqueuer != nil {
		r.Post("/ops/fx-sync", fxSyncHandler(params.Logger, params.FXEnqueuer))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(TenantMiddleware(params.Logger))
		if params.CatalogHandler != nil {
			params.CatalogHandler.MountRoutes(r)
		}
		if params.PricingHandler != nil {
			params.PricingHandler.MountRoutes(r)
		}
		if params.BookingHandler != nil {
			params.BookingHandler.MountRoutes(r)
		}
		if params.PaymentsHandler != nil {
			params.PaymentsHandler.MountRoutes(r)
		}
	})

	return r
}

type fxSyncRequest struct {
	Force bool `json:"force"`
}

type fxSyncResponse struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
}

// fxSyncHandler enqueues an on-demand exchange-rate import. The body is
// optional; an empty body enqueues a cache-respecting run.
func fxSyncHandler(logger *slog.Logger, enqueuer FXEnqueuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fxSyncRequest
		if err := httpx.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Input", "malformed JSON body")
			return
		}
		info, err := enqueuer.EnqueueFXSync(r.Context(), jobs.FXSyncPayload{Force: req.Force})
		if err != nil {
			logger.Error("enqueue fx sync failed", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		httpx.JSON(w, http.StatusAccepted, fxSyncResponse{TaskID: info.ID, Queue: info.Queue})
	}
}
