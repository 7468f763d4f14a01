package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-tours/meridian/internal/platform/db"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("catalog: not found")

// Repository provides PostgreSQL backed persistence for the catalog.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateSupplier inserts a supplier.
func (r *Repository) CreateSupplier(ctx context.Context, s Supplier) (*Supplier, error) {
	var contact pgtype.Text
	if s.Contact != nil {
		contact = pgtype.Text{String: *s.Contact, Valid: true}
	}
	err := r.pool.QueryRow(ctx, `INSERT INTO suppliers (tenant_id, name, contact, created_at)
VALUES ($1, $2, $3, NOW()) RETURNING id, created_at`, s.TenantID, s.Name, contact).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("catalog: create supplier: %w", err)
	}
	return &s, nil
}

// GetSupplier loads a supplier scoped to its tenant.
func (r *Repository) GetSupplier(ctx context.Context, tenantID, id int64) (*Supplier, error) {
	var s Supplier
	var contact pgtype.Text
	err := r.pool.QueryRow(ctx, `SELECT id, tenant_id, name, contact, created_at
FROM suppliers WHERE id = $1 AND tenant_id = $2`, id, tenantID).
		Scan(&s.ID, &s.TenantID, &s.Name, &contact, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if contact.Valid {
		s.Contact = &contact.String
	}
	return &s, nil
}

// ListSuppliers returns suppliers for a tenant ordered by name.
func (r *Repository) ListSuppliers(ctx context.Context, tenantID int64) ([]Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, tenant_id, name, contact, created_at
FROM suppliers WHERE tenant_id = $1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Supplier
	for rows.Next() {
		var s Supplier
		var contact pgtype.Text
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &contact, &s.CreatedAt); err != nil {
			return nil, err
		}
		if contact.Valid {
			s.Contact = &contact.String
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateOffering inserts the offering and its detail record in one
// transaction so that a half-created offering can never receive rates.
func (r *Repository) CreateOffering(ctx context.Context, o ServiceOffering) (*ServiceOffering, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var markup pgtype.Numeric
		if o.MarkupPct != nil {
			markup = db.DecimalToNumeric(*o.MarkupPct)
		}
		if err := tx.QueryRow(ctx, `INSERT INTO service_offerings (tenant_id, supplier_id, category, name, markup_pct, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, TRUE, NOW()) RETURNING id, created_at`,
			o.TenantID, o.SupplierID, o.Category, o.Name, markup).Scan(&o.ID, &o.CreatedAt); err != nil {
			return fmt.Errorf("catalog: create offering: %w", err)
		}
		o.IsActive = true
		if o.Detail == nil {
			return nil
		}
		return insertDetail(ctx, tx, o.ID, o.Category, o.Detail)
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func insertDetail(ctx context.Context, tx pgx.Tx, offeringID int64, cat Category, d *OfferingDetail) error {
	var err error
	switch cat {
	case CategoryHotelRoom:
		_, err = tx.Exec(ctx, `INSERT INTO hotel_rooms (offering_id, room_type, board_basis, min_stay, allotment, release_days)
VALUES ($1, $2, $3, $4, $5, $6)`, offeringID, d.HotelRoom.RoomType, d.HotelRoom.BoardBasis, d.HotelRoom.MinStay, d.HotelRoom.Allotment, d.HotelRoom.ReleaseDays)
	case CategoryTransfer:
		_, err = tx.Exec(ctx, `INSERT INTO transfers (offering_id, vehicle_class, route_from, route_to, max_pax)
VALUES ($1, $2, $3, $4, $5)`, offeringID, d.Transfer.VehicleClass, d.Transfer.RouteFrom, d.Transfer.RouteTo, d.Transfer.MaxPax)
	case CategoryVehicleHire:
		_, err = tx.Exec(ctx, `INSERT INTO vehicles (offering_id, make_model, seats, transmission)
VALUES ($1, $2, $3, $4)`, offeringID, d.Vehicle.MakeModel, d.Vehicle.Seats, d.Vehicle.Transmission)
	case CategoryGuideService:
		_, err = tx.Exec(ctx, `INSERT INTO guides (offering_id, languages, licence_no)
VALUES ($1, $2, $3)`, offeringID, d.Guide.Languages, d.Guide.LicenceNo)
	case CategoryActivity:
		_, err = tx.Exec(ctx, `INSERT INTO activities (offering_id, location, duration_hours, min_pax, max_pax)
VALUES ($1, $2, $3, $4, $5)`, offeringID, d.Activity.Location, d.Activity.DurationHours, d.Activity.MinPax, d.Activity.MaxPax)
	}
	if err != nil {
		return fmt.Errorf("catalog: insert detail: %w", err)
	}
	return nil
}

// GetOffering loads an offering with its detail record, scoped to tenant.
func (r *Repository) GetOffering(ctx context.Context, tenantID, id int64) (*ServiceOffering, error) {
	var o ServiceOffering
	var markup pgtype.Numeric
	err := r.pool.QueryRow(ctx, `SELECT id, tenant_id, supplier_id, category, name, markup_pct, is_active, created_at
FROM service_offerings WHERE id = $1 AND tenant_id = $2`, id, tenantID).
		Scan(&o.ID, &o.TenantID, &o.SupplierID, &o.Category, &o.Name, &markup, &o.IsActive, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if markup.Valid {
		m := db.NumericToDecimal(markup)
		o.MarkupPct = &m
	}
	detail, err := r.loadDetail(ctx, o.ID, o.Category)
	if err != nil {
		return nil, err
	}
	o.Detail = detail
	return &o, nil
}

func (r *Repository) loadDetail(ctx context.Context, offeringID int64, cat Category) (*OfferingDetail, error) {
	d := &OfferingDetail{}
	var err error
	switch cat {
	case CategoryHotelRoom:
		h := &HotelRoomDetail{}
		err = r.pool.QueryRow(ctx, `SELECT room_type, board_basis, min_stay, allotment, release_days FROM hotel_rooms WHERE offering_id = $1`, offeringID).
			Scan(&h.RoomType, &h.BoardBasis, &h.MinStay, &h.Allotment, &h.ReleaseDays)
		d.HotelRoom = h
	case CategoryTransfer:
		t := &TransferDetail{}
		err = r.pool.QueryRow(ctx, `SELECT vehicle_class, route_from, route_to, max_pax FROM transfers WHERE offering_id = $1`, offeringID).
			Scan(&t.VehicleClass, &t.RouteFrom, &t.RouteTo, &t.MaxPax)
		d.Transfer = t
	case CategoryVehicleHire:
		v := &VehicleDetail{}
		err = r.pool.QueryRow(ctx, `SELECT make_model, seats, transmission FROM vehicles WHERE offering_id = $1`, offeringID).
			Scan(&v.MakeModel, &v.Seats, &v.Transmission)
		d.Vehicle = v
	case CategoryGuideService:
		g := &GuideDetail{}
		err = r.pool.QueryRow(ctx, `SELECT languages, licence_no FROM guides WHERE offering_id = $1`, offeringID).
			Scan(&g.Languages, &g.LicenceNo)
		d.Guide = g
	case CategoryActivity:
		a := &ActivityDetail{}
		err = r.pool.QueryRow(ctx, `SELECT location, duration_hours, min_pax, max_pax FROM activities WHERE offering_id = $1`, offeringID).
			Scan(&a.Location, &a.DurationHours, &a.MinPax, &a.MaxPax)
		d.Activity = a
	}
	if errors.Is(err, pgx.ErrNoRows) {
		// Offering exists without its detail record yet.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListOfferings returns active offerings for a tenant, optionally filtered
// by category, together with the total count before paging.
func (r *Repository) ListOfferings(ctx context.Context, tenantID int64, category *Category, limit, offset int) ([]ServiceOffering, int, error) {
	where := ` WHERE tenant_id = $1 AND is_active`
	args := []any{tenantID}
	if category != nil {
		where += ` AND category = $2`
		args = append(args, *category)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM service_offerings`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, tenant_id, supplier_id, category, name, markup_pct, is_active, created_at
FROM service_offerings` + where + ` ORDER BY name`
	if limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, limit, offset)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []ServiceOffering
	for rows.Next() {
		var o ServiceOffering
		var markup pgtype.Numeric
		if err := rows.Scan(&o.ID, &o.TenantID, &o.SupplierID, &o.Category, &o.Name, &markup, &o.IsActive, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		if markup.Valid {
			m := db.NumericToDecimal(markup)
			o.MarkupPct = &m
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}
