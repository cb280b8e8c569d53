// repository/order/orderRepository.go
package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/macs03/dynamicweb/model"
	"github.com/macs03/dynamicweb/util/database"
)

var ErrNotFound = errors.New("order not found")

type Repo interface {
	// Bookings
	CreateBookingOrder(ctx context.Context, billing *model.BillingAddress, o *model.BookingOrder) error
	BookingOrderByID(ctx context.Context, id int64) (order *model.BookingOrder, ownerID int64, err error)
	ListBookingOrders(ctx context.Context, userID int64) ([]model.BookingOrder, error)
	FreeDaysUsed(ctx context.Context, userID int64, from, to time.Time) (int, error)

	// Memberships
	CreateMembershipOrder(ctx context.Context, billing *model.BillingAddress, o *model.MembershipOrder) error
	MembershipOrderByID(ctx context.Context, id int64) (order *model.MembershipOrder, ownerID int64, err error)
	ListMembershipOrders(ctx context.Context, userID int64) ([]model.MembershipOrder, error)
	LatestMembershipOrder(ctx context.Context, userID int64) (*model.MembershipOrder, error)
}

// pool is the part of *pgxpool.Pool the ledger uses.
type pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ pool = (*pgxpool.Pool)(nil)

type repo struct{ db pool }

func New(db *database.DB) Repo { return &repo{db: db.Pool} }

func insertBilling(ctx context.Context, tx pgx.Tx, b *model.BillingAddress) error {
	const q = `
INSERT INTO billing_addresses (user_id, street_address, city, postal_code, country)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, created_at`
	return tx.QueryRow(ctx, q, b.UserID, b.StreetAddress, b.City, b.PostalCode, b.Country).
		Scan(&b.ID, &b.CreatedAt)
}

// Bookings

// CreateBookingOrder stores the billing address, the booking and the order
// in one transaction and fills in their ids.
func (r *repo) CreateBookingOrder(ctx context.Context, billing *model.BillingAddress, o *model.BookingOrder) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = insertBilling(ctx, tx, billing); err != nil {
		return err
	}

	b := &o.Booking
	const qBooking = `
INSERT INTO bookings (start_date, end_date, free_days, price, final_price)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, created_at`
	if err = tx.QueryRow(ctx, qBooking, b.StartDate, b.EndDate, b.FreeDays, b.Price, b.FinalPrice).
		Scan(&b.ID, &b.CreatedAt); err != nil {
		return err
	}

	o.BillingAddressID = billing.ID
	const qOrder = `
INSERT INTO booking_orders (booking_id, customer_id, billing_address_id, charge_id, amount, original_price, special_month_price)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id, created_at`
	if err = tx.QueryRow(ctx, qOrder,
		b.ID, o.CustomerID, o.BillingAddressID, o.ChargeID, o.Amount, o.OriginalPrice, o.SpecialMonthPrice,
	).Scan(&o.ID, &o.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const bookingOrderCols = `
SELECT o.id, o.customer_id, o.billing_address_id, o.charge_id, o.amount, o.original_price,
       o.special_month_price, o.created_at,
       b.id, b.start_date, b.end_date, b.free_days, b.price, b.final_price, b.created_at,
       c.user_id
FROM booking_orders o
JOIN bookings b ON b.id = o.booking_id
JOIN payment_customers c ON c.id = o.customer_id`

func scanBookingOrder(row pgx.Row) (*model.BookingOrder, int64, error) {
	var o model.BookingOrder
	var owner int64
	b := &o.Booking
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.BillingAddressID, &o.ChargeID, &o.Amount, &o.OriginalPrice,
		&o.SpecialMonthPrice, &o.CreatedAt,
		&b.ID, &b.StartDate, &b.EndDate, &b.FreeDays, &b.Price, &b.FinalPrice, &b.CreatedAt,
		&owner,
	)
	if err != nil {
		return nil, 0, err
	}
	return &o, owner, nil
}

func (r *repo) BookingOrderByID(ctx context.Context, id int64) (*model.BookingOrder, int64, error) {
	o, owner, err := scanBookingOrder(r.db.QueryRow(ctx, bookingOrderCols+` WHERE o.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	return o, owner, err
}

func (r *repo) ListBookingOrders(ctx context.Context, userID int64) ([]model.BookingOrder, error) {
	rows, err := r.db.Query(ctx, bookingOrderCols+`
WHERE c.user_id = $1
ORDER BY o.created_at DESC, o.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookingOrder
	for rows.Next() {
		o, _, err := scanBookingOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// FreeDaysUsed sums the free days of the user's bookings starting in [from, to).
func (r *repo) FreeDaysUsed(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	const q = `
SELECT COALESCE(SUM(b.free_days), 0)::INT
FROM bookings b
JOIN booking_orders o ON o.booking_id = b.id
JOIN payment_customers c ON c.id = o.customer_id
WHERE c.user_id = $1
  AND b.start_date >= $2
  AND b.start_date < $3`
	var used int
	if err := r.db.QueryRow(ctx, q, userID, from, to).Scan(&used); err != nil {
		return 0, err
	}
	return used, nil
}

// Memberships

func (r *repo) CreateMembershipOrder(ctx context.Context, billing *model.BillingAddress, o *model.MembershipOrder) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = insertBilling(ctx, tx, billing); err != nil {
		return err
	}

	m := &o.Membership
	const qMembership = `
INSERT INTO memberships (type_id)
VALUES ($1)
RETURNING id, created_at`
	if err = tx.QueryRow(ctx, qMembership, m.Type.ID).Scan(&m.ID, &m.CreatedAt); err != nil {
		return err
	}

	o.BillingAddressID = billing.ID
	const qOrder = `
INSERT INTO membership_orders (membership_id, customer_id, billing_address_id, charge_id, amount)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, created_at`
	if err = tx.QueryRow(ctx, qOrder, m.ID, o.CustomerID, o.BillingAddressID, o.ChargeID, o.Amount).
		Scan(&o.ID, &o.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const membershipOrderCols = `
SELECT o.id, o.customer_id, o.billing_address_id, o.charge_id, o.amount, o.created_at,
       m.id, m.created_at, t.id, t.name, t.first_month_price,
       c.user_id
FROM membership_orders o
JOIN memberships m ON m.id = o.membership_id
JOIN membership_types t ON t.id = m.type_id
JOIN payment_customers c ON c.id = o.customer_id`

func scanMembershipOrder(row pgx.Row) (*model.MembershipOrder, int64, error) {
	var o model.MembershipOrder
	var owner int64
	m := &o.Membership
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.BillingAddressID, &o.ChargeID, &o.Amount, &o.CreatedAt,
		&m.ID, &m.CreatedAt, &m.Type.ID, &m.Type.Name, &m.Type.FirstMonthPrice,
		&owner,
	)
	if err != nil {
		return nil, 0, err
	}
	return &o, owner, nil
}

func (r *repo) MembershipOrderByID(ctx context.Context, id int64) (*model.MembershipOrder, int64, error) {
	o, owner, err := scanMembershipOrder(r.db.QueryRow(ctx, membershipOrderCols+` WHERE o.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	return o, owner, err
}

func (r *repo) ListMembershipOrders(ctx context.Context, userID int64) ([]model.MembershipOrder, error) {
	rows, err := r.db.Query(ctx, membershipOrderCols+`
WHERE c.user_id = $1
ORDER BY o.created_at DESC, o.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MembershipOrder
	for rows.Next() {
		o, _, err := scanMembershipOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *repo) LatestMembershipOrder(ctx context.Context, userID int64) (*model.MembershipOrder, error) {
	o, _, err := scanMembershipOrder(r.db.QueryRow(ctx, membershipOrderCols+`
WHERE c.user_id = $1
ORDER BY o.created_at DESC, o.id DESC
LIMIT 1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}
