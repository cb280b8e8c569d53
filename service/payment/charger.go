package paymentsvc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/macs03/dynamicweb/model"
	omiserepo "github.com/macs03/dynamicweb/repository/omise"
)

// Declined is a charge that did not go through. Reason is safe to show to
// the user.
type Declined struct {
	Reason string
	Code   string
}

func (d *Declined) Error() string {
	if d.Code == "" {
		return "charge declined: " + d.Reason
	}
	return fmt.Sprintf("charge declined (%s): %s", d.Code, d.Reason)
}

func (d *Declined) UserReason() string { return d.Reason }

type Charger interface {
	Charge(ctx context.Context, amount decimal.Decimal, customer model.Customer, description string) (*model.Charge, error)
}

type charger struct {
	gw       omiserepo.Repo
	currency string
	log      *slog.Logger
}

func NewCharger(gw omiserepo.Repo, currency string, log *slog.Logger) Charger {
	return &charger{gw: gw, currency: currency, log: log}
}

// MinorUnits converts a decimal amount to the smallest currency unit.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func (c *charger) Charge(ctx context.Context, amount decimal.Decimal, customer model.Customer, description string) (*model.Charge, error) {
	units := MinorUnits(amount)
	if units <= 0 {
		return nil, &Declined{Reason: "amount must be positive"}
	}

	resp, err := c.gw.Charge(ctx, omiserepo.ChargeReq{
		CustomerID:  customer.RemoteID,
		Amount:      units,
		Currency:    c.currency,
		Description: description,
		Metadata:    map[string]any{"customer_id": customer.ID, "user_id": customer.UserID},
	})
	if err != nil {
		c.log.Error("charge request failed", "err", err, "customer_id", customer.ID, "amount", amount.String())
		return nil, &Declined{Reason: "payment gateway unavailable, please try again later"}
	}

	switch resp.Status {
	case "successful":
		return &model.Charge{ID: resp.ChargeID, Amount: decimal.New(resp.Amount, -2)}, nil
	case "failed":
		reason := resp.FailureMessage
		if reason == "" {
			reason = "card was declined"
		}
		return nil, &Declined{Reason: reason, Code: resp.FailureCode}
	default:
		c.log.Warn("charge not captured", "charge_id", resp.ChargeID, "status", resp.Status, "customer_id", customer.ID)
		return nil, &Declined{Reason: "payment requires additional authorization", Code: resp.Status}
	}
}
