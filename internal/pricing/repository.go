package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-tours/meridian/internal/platform/db"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("pricing: not found")

// Repository provides PostgreSQL backed persistence for seasonal and
// exchange rates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateRate inserts a seasonal rate with its category payload.
func (r *Repository) CreateRate(ctx context.Context, rate SeasonalRate) (*SeasonalRate, error) {
	payload, err := json.Marshal(rate.Payload)
	if err != nil {
		return nil, fmt.Errorf("pricing: marshal payload: %w", err)
	}
	err = r.pool.QueryRow(ctx, `INSERT INTO seasonal_rates (tenant_id, offering_id, category, season_from, season_to, is_active, payload, created_at)
VALUES ($1, $2, $3, $4, $5, TRUE, $6, NOW()) RETURNING id, created_at`,
		rate.TenantID, rate.OfferingID, rate.Category, DateOnly(rate.SeasonFrom), DateOnly(rate.SeasonTo), payload).
		Scan(&rate.ID, &rate.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("pricing: create rate: %w", err)
	}
	rate.IsActive = true
	return &rate, nil
}

// ListActiveRates returns the active rates for an offering. Soft-deleted
// rows never reach the resolver.
func (r *Repository) ListActiveRates(ctx context.Context, tenantID, offeringID int64) ([]SeasonalRate, error) {
	return r.listRates(ctx, tenantID, offeringID, true)
}

// ListRates returns all rates for an offering, including soft-deleted ones.
func (r *Repository) ListRates(ctx context.Context, tenantID, offeringID int64) ([]SeasonalRate, error) {
	return r.listRates(ctx, tenantID, offeringID, false)
}

func (r *Repository) listRates(ctx context.Context, tenantID, offeringID int64, activeOnly bool) ([]SeasonalRate, error) {
	query := `SELECT id, tenant_id, offering_id, category, season_from, season_to, is_active, payload, created_at
FROM seasonal_rates WHERE tenant_id = $1 AND offering_id = $2`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY season_from, id`
	rows, err := r.pool.Query(ctx, query, tenantID, offeringID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SeasonalRate
	for rows.Next() {
		var sr SeasonalRate
		var payload []byte
		if err := rows.Scan(&sr.ID, &sr.TenantID, &sr.OfferingID, &sr.Category, &sr.SeasonFrom, &sr.SeasonTo, &sr.IsActive, &payload, &sr.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &sr.Payload); err != nil {
			return nil, fmt.Errorf("pricing: unmarshal payload rate id=%d: %w", sr.ID, err)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// DeactivateRate soft-deletes a rate, removing it from resolution.
func (r *Repository) DeactivateRate(ctx context.Context, tenantID, rateID int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE seasonal_rates SET is_active = FALSE WHERE id = $1 AND tenant_id = $2`, rateID, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateExchangeRate appends one row to the tenant's rate history.
func (r *Repository) CreateExchangeRate(ctx context.Context, fx ExchangeRate) (*ExchangeRate, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO exchange_rates (tenant_id, from_currency, to_currency, rate, rate_date, source, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id, created_at`,
		fx.TenantID, fx.FromCurrency, fx.ToCurrency, db.DecimalToNumeric(fx.Rate), DateOnly(fx.RateDate), fx.Source).
		Scan(&fx.ID, &fx.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("pricing: create exchange rate: %w", err)
	}
	return &fx, nil
}

// ListExchangeRates returns the full history for a currency pair, newest
// first. The resolver works over the slice in memory.
func (r *Repository) ListExchangeRates(ctx context.Context, tenantID int64, from, to string) ([]ExchangeRate, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, tenant_id, from_currency, to_currency, rate, rate_date, source, created_at
FROM exchange_rates WHERE tenant_id = $1 AND from_currency = $2 AND to_currency = $3
ORDER BY rate_date DESC, id DESC`, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ExchangeRate
	for rows.Next() {
		var fx ExchangeRate
		var rate pgtype.Numeric
		if err := rows.Scan(&fx.ID, &fx.TenantID, &fx.FromCurrency, &fx.ToCurrency, &rate, &fx.RateDate, &fx.Source, &fx.CreatedAt); err != nil {
			return nil, err
		}
		fx.Rate = db.NumericToDecimal(rate)
		out = append(out, fx)
	}
	return out, rows.Err()
}

// ListTenantIDs returns every tenant known to the system. The FX import
// job inserts one row per tenant per run.
func (r *Repository) ListTenantIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM tenants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
