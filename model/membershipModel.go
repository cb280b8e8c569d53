package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const StandardMembership = "standard"

type MembershipType struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	FirstMonthPrice decimal.Decimal `json:"first_month_price"`
}

// FirstMonthRange is the period a membership bought today covers.
func (t MembershipType) FirstMonthRange(today time.Time) DateRange {
	return MonthWindow(today)
}

func (t MembershipType) FirstMonthFormattedRange(today time.Time) string {
	return FormatRange(t.FirstMonthRange(today))
}

// FormatRange renders r as "Jan, 02 2006 - Feb, 01 2006".
func FormatRange(r DateRange) string {
	const layout = "Jan, 02 2006"
	return fmt.Sprintf("%s - %s", r.Start.Format(layout), r.End.Format(layout))
}

type Membership struct {
	ID        int64          `json:"id"`
	Type      MembershipType `json:"type"`
	CreatedAt time.Time      `json:"created_at"`
}

type MembershipOrder struct {
	ID               int64           `json:"id"`
	Membership       Membership      `json:"membership"`
	CustomerID       int64           `json:"customer_id"`
	BillingAddressID int64           `json:"billing_address_id"`
	ChargeID         string          `json:"charge_id"`
	Amount           decimal.Decimal `json:"amount"`
	CreatedAt        time.Time       `json:"created_at"`
}

// MembershipRange is the period this order paid for.
func (o MembershipOrder) MembershipRange() DateRange {
	return MonthWindow(o.CreatedAt)
}
