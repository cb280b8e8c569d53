package ordersvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/macs03/dynamicweb/model"
	orderrepo "github.com/macs03/dynamicweb/repository/order"
)

// CreateBookingOrder prices the range again, charges the user's card and
// records the booking. Nothing is recorded unless the charge succeeded.
func (s *service) CreateBookingOrder(ctx context.Context, in BookingOrderInput) (*model.BookingOrder, error) {
	if in.CardToken == "" {
		return nil, NewError(ErrValidation, "card token is required")
	}

	q, err := s.QuoteBooking(ctx, in.User, in.Range)
	if err != nil {
		return nil, err
	}
	if in.DisplayedPrice != nil && !in.DisplayedPrice.Equal(q.DiscountedPrice) {
		s.log.Warn("displayed booking price differs from server price",
			"user_id", in.User.ID,
			"displayed", in.DisplayedPrice.String(),
			"server", q.DiscountedPrice.String(),
		)
	}

	desc := fmt.Sprintf("booking %s to %s (%d days)",
		q.Range.Start.Format(model.DateLayout), q.Range.End.Format(model.DateLayout), q.BookingDays)
	customer, charge, err := s.pay(ctx, in.User, in.CardToken, q.DiscountedPrice, desc)
	if err != nil {
		return nil, err
	}

	o := &model.BookingOrder{
		Booking: model.Booking{
			StartDate:  q.Range.Start,
			EndDate:    q.Range.End,
			FreeDays:   q.FreeDays,
			Price:      q.OriginalPrice,
			FinalPrice: q.DiscountedPrice,
		},
		CustomerID:        customer.ID,
		ChargeID:          charge.ID,
		Amount:            charge.Amount,
		OriginalPrice:     q.OriginalPrice,
		SpecialMonthPrice: q.SpecialMonthPrice,
	}
	if err := s.ledger.CreateBookingOrder(ctx, billingFor(in.User, in.Billing), o); err != nil {
		return nil, s.unreconciled(ctx, in.User, charge, "booking", err)
	}

	s.log.Info("booking order created", "order_id", o.ID, "user_id", in.User.ID, "charge_id", o.ChargeID, "amount", o.Amount.String())
	s.publish(ctx, KeyBookingOrderCreated, map[string]any{
		"order_id":   o.ID,
		"user_id":    in.User.ID,
		"charge_id":  o.ChargeID,
		"amount":     o.Amount,
		"start_date": o.Booking.StartDate.Format(model.DateLayout),
		"end_date":   o.Booking.EndDate.Format(model.DateLayout),
		"free_days":  o.Booking.FreeDays,
	})
	return o, nil
}

func (s *service) BookingOrders(ctx context.Context, userID int64) ([]model.BookingOrder, error) {
	out, err := s.ledger.ListBookingOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.BookingOrder{}
	}
	return out, nil
}

func (s *service) BookingOrder(ctx context.Context, userID, orderID int64) (*model.BookingOrder, error) {
	o, owner, err := s.ledger.BookingOrderByID(ctx, orderID)
	if errors.Is(err, orderrepo.ErrNotFound) {
		return nil, NewError(ErrNotFound, "booking order not found")
	}
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, NewError(ErrNotOwner, "order belongs to another user")
	}
	return o, nil
}
