package ordersvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/macs03/dynamicweb/model"
	catalogrepo "github.com/macs03/dynamicweb/repository/catalog"
)

// Quote is the price of a booking range for one user.
type Quote struct {
	Range             model.DateRange `json:"range"`
	BookingDays       int             `json:"booking_days"`
	FreeDays          int             `json:"free_days"`
	PricePerDay       decimal.Decimal `json:"price_per_day"`
	OriginalPrice     decimal.Decimal `json:"original_price"`
	DiscountedPrice   decimal.Decimal `json:"discounted_price"`
	TotalDiscount     decimal.Decimal `json:"total_discount"`
	SpecialMonthPrice decimal.Decimal `json:"special_month_price"`
}

// BookingPrice prices totalDays days at pricePerDay with freeDays of them not
// charged. freeDays is clamped to [0, totalDays].
func BookingPrice(pricePerDay decimal.Decimal, totalDays, freeDays int) (original, discounted decimal.Decimal, free int) {
	free = min(max(freeDays, 0), totalDays)
	original = pricePerDay.Mul(decimal.NewFromInt(int64(totalDays)))
	discounted = original.Sub(pricePerDay.Mul(decimal.NewFromInt(int64(free))))
	return original, discounted, free
}

func (s *service) QuoteBooking(ctx context.Context, user model.User, r model.DateRange) (*Quote, error) {
	r = model.NewDateRange(r.Start, r.End)
	if !r.Valid() {
		return nil, NewError(ErrValidation, "end date must not be before start date")
	}
	days := r.Days()
	if days > s.maxDays {
		return nil, NewError(ErrValidation, fmt.Sprintf("booking is limited to %d days", s.maxDays))
	}

	price, err := s.prices.CurrentBookingPrice(ctx)
	if errors.Is(err, catalogrepo.ErrNotFound) {
		return nil, NewError(ErrPricingUnavailable, "no booking price configured")
	}
	if err != nil {
		return nil, err
	}
	if price.PricePerDay.IsNegative() {
		return nil, NewError(ErrPricingUnavailable, "booking price is negative")
	}

	eligible, err := s.policy.EligibleFreeDays(ctx, user, r)
	if err != nil {
		return nil, err
	}
	original, discounted, free := BookingPrice(price.PricePerDay, days, eligible)

	return &Quote{
		Range:             r,
		BookingDays:       days,
		FreeDays:          free,
		PricePerDay:       price.PricePerDay,
		OriginalPrice:     original,
		DiscountedPrice:   discounted,
		TotalDiscount:     original.Sub(discounted),
		SpecialMonthPrice: price.SpecialMonthPrice,
	}, nil
}
