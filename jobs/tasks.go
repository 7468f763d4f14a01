package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-tours/meridian/internal/fxsync"
	"github.com/meridian-tours/meridian/internal/observability"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeFXSync is the task type for the daily exchange-rate import.
	TaskTypeFXSync = "fx:sync"
)

// FXSyncPayload parametrises a single exchange-rate import run.
type FXSyncPayload struct {
	// Force bypasses the provider response cache when true.
	Force bool `json:"force"`
}

// NewFXSyncTask constructs an Asynq task for the exchange-rate import.
func NewFXSyncTask(payload FXSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeFXSync, data), nil
}

// FXSyncJob runs the exchange-rate import against the configured provider.
type FXSyncJob struct {
	Importer *fxsync.Service
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// NewFXSyncJob initialises the FX sync handler.
func NewFXSyncJob(importer *fxsync.Service, logger *slog.Logger, metrics *observability.Metrics) *FXSyncJob {
	return &FXSyncJob{Importer: importer, Logger: logger, Metrics: metrics}
}

// Handle executes the import and records the run outcome.
func (j *FXSyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Importer == nil {
		return errors.New("fx sync: handler not configured")
	}
	var payload FXSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger()
	start := time.Now()
	logger.Info("starting fx sync", slog.Bool("force", payload.Force))

	imported, err := j.Importer.Import(ctx, payload.Force)
	if err != nil {
		if j.Metrics != nil {
			j.Metrics.FXImportsTotal.WithLabelValues("error").Inc()
		}
		logger.Error("fx sync failed", slog.Any("error", err))
		return err
	}

	if j.Metrics != nil {
		j.Metrics.FXImportsTotal.WithLabelValues("ok").Inc()
	}
	logger.Info("completed fx sync",
		slog.Int("tenants", imported),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *FXSyncJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeFXSync))
	}
	return slog.Default().With(slog.String("job", TaskTypeFXSync))
}
