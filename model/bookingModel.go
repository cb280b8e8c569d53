package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingPrice is reference data; the latest row is the one in effect.
type BookingPrice struct {
	ID                int64           `json:"id"`
	PricePerDay       decimal.Decimal `json:"price_per_day"`
	SpecialMonthPrice decimal.Decimal `json:"special_month_price"`
	CreatedAt         time.Time       `json:"created_at"`
}

type Booking struct {
	ID         int64           `json:"id"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	FreeDays   int             `json:"free_days"`
	Price      decimal.Decimal `json:"price"`
	FinalPrice decimal.Decimal `json:"final_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (b Booking) Days() int { return NewDateRange(b.StartDate, b.EndDate).Days() }

func (b Booking) TotalDiscount() decimal.Decimal { return b.Price.Sub(b.FinalPrice) }

type BookingOrder struct {
	ID                int64           `json:"id"`
	Booking           Booking         `json:"booking"`
	CustomerID        int64           `json:"customer_id"`
	BillingAddressID  int64           `json:"billing_address_id"`
	ChargeID          string          `json:"charge_id"`
	Amount            decimal.Decimal `json:"amount"`
	OriginalPrice     decimal.Decimal `json:"original_price"`
	SpecialMonthPrice decimal.Decimal `json:"special_month_price"`
	CreatedAt         time.Time       `json:"created_at"`
}
