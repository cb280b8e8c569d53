package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/macs03/dynamicweb/model"
	"github.com/macs03/dynamicweb/util/database"
)

var (
	ErrNotFound  = errors.New("payment customer not found")
	ErrDuplicate = errors.New("payment customer already exists for email")
)

type Repo interface {
	ByEmail(ctx context.Context, email string) (*model.Customer, error)
	// Insert fails with ErrDuplicate when the email is already mapped.
	Insert(ctx context.Context, c *model.Customer) error
	UpdateRemoteID(ctx context.Context, id int64, remoteID string) error
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

func (r *repo) ByEmail(ctx context.Context, email string) (*model.Customer, error) {
	const q = `
SELECT id, user_id, email, remote_id, created_at
FROM payment_customers
WHERE lower(email) = lower($1)`
	var c model.Customer
	err := r.db.Pool.QueryRow(ctx, q, email).Scan(&c.ID, &c.UserID, &c.Email, &c.RemoteID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) Insert(ctx context.Context, c *model.Customer) error {
	const q = `
INSERT INTO payment_customers (user_id, email, remote_id)
VALUES ($1,$2,$3)
RETURNING id, created_at`
	err := r.db.Pool.QueryRow(ctx, q, c.UserID, c.Email, c.RemoteID).Scan(&c.ID, &c.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (r *repo) UpdateRemoteID(ctx context.Context, id int64, remoteID string) error {
	const q = `UPDATE payment_customers SET remote_id=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, remoteID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
