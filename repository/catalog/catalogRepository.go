package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/macs03/dynamicweb/model"
	"github.com/macs03/dynamicweb/util/database"
)

var ErrNotFound = errors.New("catalog entry not found")

type Repo interface {
	// CurrentBookingPrice returns the most recently created booking price.
	CurrentBookingPrice(ctx context.Context) (*model.BookingPrice, error)
	MembershipTypeByName(ctx context.Context, name string) (*model.MembershipType, error)
	MembershipTypeByID(ctx context.Context, id int64) (*model.MembershipType, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

func (r *repo) CurrentBookingPrice(ctx context.Context) (*model.BookingPrice, error) {
	const q = `
SELECT id, price_per_day, special_month_price, created_at
FROM booking_prices
ORDER BY created_at DESC, id DESC
LIMIT 1`
	var p model.BookingPrice
	err := r.db.Pool.QueryRow(ctx, q).Scan(&p.ID, &p.PricePerDay, &p.SpecialMonthPrice, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) MembershipTypeByName(ctx context.Context, name string) (*model.MembershipType, error) {
	const q = `SELECT id, name, first_month_price FROM membership_types WHERE name=$1`
	return r.scanType(r.db.Pool.QueryRow(ctx, q, name))
}

func (r *repo) MembershipTypeByID(ctx context.Context, id int64) (*model.MembershipType, error) {
	const q = `SELECT id, name, first_month_price FROM membership_types WHERE id=$1`
	return r.scanType(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *repo) scanType(row pgx.Row) (*model.MembershipType, error) {
	var t model.MembershipType
	err := row.Scan(&t.ID, &t.Name, &t.FirstMonthPrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
