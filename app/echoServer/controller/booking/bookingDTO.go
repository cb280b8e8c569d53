package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/macs03/dynamicweb/model"
)

type QuoteReq struct {
	StartDate string `json:"start_date" validate:"required,date"`
	EndDate   string `json:"end_date" validate:"required,date"`
}

func (r QuoteReq) Range() model.DateRange {
	start, _ := time.Parse(model.DateLayout, r.StartDate)
	end, _ := time.Parse(model.DateLayout, r.EndDate)
	return model.NewDateRange(start, end)
}

type CreateOrderReq struct {
	QuoteReq
	CardToken string               `json:"card_token" validate:"required"`
	Billing   model.BillingAddress `json:"billing"`
	// DisplayedPrice is the price the client showed before submitting.
	DisplayedPrice *decimal.Decimal `json:"displayed_price"`
}

type OrderResp struct {
	model.BookingOrder
	BookingDays   int             `json:"booking_days"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	FinalPrice    decimal.Decimal `json:"final_price"`
}

func toResp(o model.BookingOrder) OrderResp {
	return OrderResp{
		BookingOrder:  o,
		BookingDays:   o.Booking.Days(),
		TotalDiscount: o.Booking.TotalDiscount(),
		FinalPrice:    o.Booking.FinalPrice,
	}
}
