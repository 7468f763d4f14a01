package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/meridian-tours/meridian/internal/platform/db"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("payments: not found")

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for the payment ledger.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateGuarded runs the ledger check and the insert as one atomic unit.
// The booking row lock serialises concurrent submissions for the same
// booking, and under read committed the ledger sum that follows the lock
// sees every payment committed while waiting for it, so two under-limit
// reads cannot both commit past the total.
// A repeated idempotency key returns the previously recorded payment.
func (r *Repository) CreateGuarded(ctx context.Context, p Payment) (*Payment, error) {
	var created *Payment
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var total pgtype.Numeric
		err := tx.QueryRow(ctx, `SELECT total_sell_eur FROM bookings WHERE id = $1 AND tenant_id = $2 FOR UPDATE`,
			p.BookingID, p.TenantID).Scan(&total)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var sum pgtype.Numeric
		err = tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount_eur), 0) FROM payments_client
WHERE booking_id = $1 AND status IN ($2, $3)`, p.BookingID, StatusPending, StatusCompleted).Scan(&sum)
		if err != nil {
			return fmt.Errorf("payments: sum ledger: %w", err)
		}

		if _, err := CheckLedger(db.NumericToDecimal(total), db.NumericToDecimal(sum), p.AmountEur); err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `INSERT INTO payments_client (tenant_id, booking_id, idempotency_key, amount_eur, status, created_at)
VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`,
			p.TenantID, p.BookingID, p.IdempotencyKey, db.DecimalToNumeric(p.AmountEur), p.Status).
			Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("payments: insert: %w", err)
		}
		created = &p
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return r.GetByIdempotencyKey(ctx, p.TenantID, p.IdempotencyKey)
		}
		return nil, err
	}
	return created, nil
}

// GetByIdempotencyKey loads the payment previously recorded for a key.
func (r *Repository) GetByIdempotencyKey(ctx context.Context, tenantID int64, key uuid.UUID) (*Payment, error) {
	return r.getBy(ctx, `SELECT id, tenant_id, booking_id, idempotency_key, amount_eur, status, created_at
FROM payments_client WHERE tenant_id = $1 AND idempotency_key = $2`, tenantID, key)
}

// Get loads one payment scoped to its tenant.
func (r *Repository) Get(ctx context.Context, tenantID, id int64) (*Payment, error) {
	return r.getBy(ctx, `SELECT id, tenant_id, booking_id, idempotency_key, amount_eur, status, created_at
FROM payments_client WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *Repository) getBy(ctx context.Context, query string, args ...any) (*Payment, error) {
	var p Payment
	var amount pgtype.Numeric
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&p.ID, &p.TenantID, &p.BookingID, &p.IdempotencyKey, &amount, &p.Status, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.AmountEur = db.NumericToDecimal(amount)
	return &p, nil
}

// ListByBooking returns a booking's payments, oldest first.
func (r *Repository) ListByBooking(ctx context.Context, tenantID, bookingID int64) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, tenant_id, booking_id, idempotency_key, amount_eur, status, created_at
FROM payments_client WHERE tenant_id = $1 AND booking_id = $2 ORDER BY id`, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		var p Payment
		var amount pgtype.Numeric
		if err := rows.Scan(&p.ID, &p.TenantID, &p.BookingID, &p.IdempotencyKey, &amount, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.AmountEur = db.NumericToDecimal(amount)
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus moves a payment between ledger states.
func (r *Repository) UpdateStatus(ctx context.Context, tenantID, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE payments_client SET status = $1 WHERE id = $2 AND tenant_id = $3`, status, id, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SumCounted returns the running total of PENDING and COMPLETED payments
// for a booking, read outside any transaction. For display only; the
// guard recomputes inside its own transaction.
func (r *Repository) SumCounted(ctx context.Context, tenantID, bookingID int64) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount_eur), 0) FROM payments_client
WHERE tenant_id = $1 AND booking_id = $2 AND status IN ($3, $4)`,
		tenantID, bookingID, StatusPending, StatusCompleted).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return db.NumericToDecimal(sum), nil
}
