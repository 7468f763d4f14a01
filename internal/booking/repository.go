package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-tours/meridian/internal/platform/db"
	"github.com/meridian-tours/meridian/internal/pricing"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("booking: not found")

// Repository provides PostgreSQL backed persistence for bookings.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a booking with its locked exchange rate.
func (r *Repository) Create(ctx context.Context, b Booking) (*Booking, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO bookings (tenant_id, client_name, status, locked_exchange_rate, total_sell_eur, created_at)
VALUES ($1, $2, $3, $4, 0, NOW()) RETURNING id, created_at`,
		b.TenantID, b.ClientName, b.Status, db.DecimalToNumeric(b.LockedExchangeRate)).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("booking: create: %w", err)
	}
	return &b, nil
}

// Get loads a booking with its items, scoped to its tenant.
func (r *Repository) Get(ctx context.Context, tenantID, id int64) (*Booking, error) {
	var b Booking
	var lockedRate, total pgtype.Numeric
	err := r.pool.QueryRow(ctx, `SELECT id, tenant_id, client_name, status, locked_exchange_rate, total_sell_eur, created_at
FROM bookings WHERE id = $1 AND tenant_id = $2`, id, tenantID).
		Scan(&b.ID, &b.TenantID, &b.ClientName, &b.Status, &lockedRate, &total, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.LockedExchangeRate = db.NumericToDecimal(lockedRate)
	b.TotalSellEur = db.NumericToDecimal(total)

	items, err := r.listItems(ctx, r.pool, tenantID, id)
	if err != nil {
		return nil, err
	}
	b.Items = items
	return &b, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *Repository) listItems(ctx context.Context, q queryer, tenantID, bookingID int64) ([]Item, error) {
	rows, err := q.Query(ctx, `SELECT id, tenant_id, booking_id, offering_id, qty, unit_cost_try, unit_price_eur, pricing_snapshot, created_at
FROM booking_items WHERE booking_id = $1 AND tenant_id = $2 ORDER BY id`, bookingID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		var offeringID pgtype.Int8
		var cost, price pgtype.Numeric
		var snapshot []byte
		if err := rows.Scan(&it.ID, &it.TenantID, &it.BookingID, &offeringID, &it.Qty, &cost, &price, &snapshot, &it.CreatedAt); err != nil {
			return nil, err
		}
		if offeringID.Valid {
			it.OfferingID = &offeringID.Int64
		}
		it.UnitCostTry = db.NumericToDecimal(cost)
		it.UnitPriceEur = db.NumericToDecimal(price)
		if len(snapshot) > 0 {
			var snap pricing.PricingSnapshot
			if err := json.Unmarshal(snapshot, &snap); err != nil {
				return nil, fmt.Errorf("booking: unmarshal snapshot item id=%d: %w", it.ID, err)
			}
			it.Snapshot = &snap
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// AddItem inserts an item and recomputes the booking total in one
// transaction, so the total payments are checked against never drifts from
// the item rows.
func (r *Repository) AddItem(ctx context.Context, item Item) (*Item, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT TRUE FROM bookings WHERE id = $1 AND tenant_id = $2 FOR UPDATE`,
			item.BookingID, item.TenantID).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		var offeringID pgtype.Int8
		if item.OfferingID != nil {
			offeringID = pgtype.Int8{Int64: *item.OfferingID, Valid: true}
		}
		var snapshot []byte
		if item.Snapshot != nil {
			var err error
			snapshot, err = json.Marshal(item.Snapshot)
			if err != nil {
				return fmt.Errorf("booking: marshal snapshot: %w", err)
			}
		}
		if err := tx.QueryRow(ctx, `INSERT INTO booking_items (tenant_id, booking_id, offering_id, qty, unit_cost_try, unit_price_eur, pricing_snapshot, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING id, created_at`,
			item.TenantID, item.BookingID, offeringID, item.Qty,
			db.DecimalToNumeric(item.UnitCostTry), db.DecimalToNumeric(item.UnitPriceEur), snapshot).
			Scan(&item.ID, &item.CreatedAt); err != nil {
			return fmt.Errorf("booking: insert item: %w", err)
		}

		_, err := tx.Exec(ctx, `UPDATE bookings SET total_sell_eur = (
SELECT COALESCE(SUM(qty * unit_price_eur), 0) FROM booking_items WHERE booking_id = $1
) WHERE id = $1`, item.BookingID)
		if err != nil {
			return fmt.Errorf("booking: recompute total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateStatus transitions a booking's lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE bookings SET status = $1 WHERE id = $2 AND tenant_id = $3`, status, id, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
