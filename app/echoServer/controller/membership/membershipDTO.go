package membership

import (
	"github.com/macs03/dynamicweb/model"
)

type CreateOrderReq struct {
	// TypeID is optional; the standard plan is used when it is zero.
	TypeID    int64                `json:"membership_type_id" validate:"gte=0"`
	CardToken string               `json:"card_token" validate:"required"`
	Billing   model.BillingAddress `json:"billing"`
}

type OrderResp struct {
	model.MembershipOrder
	Range          model.DateRange `json:"membership_range"`
	FormattedRange string          `json:"formatted_range"`
}

func toResp(o model.MembershipOrder) OrderResp {
	r := o.MembershipRange()
	return OrderResp{MembershipOrder: o, Range: r, FormattedRange: model.FormatRange(r)}
}
