package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer maps a user to the payment gateway's customer record.
type Customer struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	RemoteID  string    `json:"remote_id"`
	CreatedAt time.Time `json:"created_at"`
}

type BillingAddress struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	StreetAddress string    `json:"street_address" validate:"required,max=255"`
	City          string    `json:"city" validate:"required,max=128"`
	PostalCode    string    `json:"postal_code" validate:"required,max=32"`
	Country       string    `json:"country" validate:"required,max=64"`
	CreatedAt     time.Time `json:"created_at"`
}

// Charge is a captured payment.
type Charge struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// FreeChargeID marks orders that needed no gateway charge.
const FreeChargeID = "free"
