package ordersvc

import (
	"context"
	"errors"

	"github.com/macs03/dynamicweb/model"
	catalogrepo "github.com/macs03/dynamicweb/repository/catalog"
	orderrepo "github.com/macs03/dynamicweb/repository/order"
)

func (s *service) membershipType(ctx context.Context, id int64) (*model.MembershipType, error) {
	var (
		t   *model.MembershipType
		err error
	)
	if id == 0 {
		t, err = s.prices.MembershipTypeByName(ctx, model.StandardMembership)
	} else {
		t, err = s.prices.MembershipTypeByID(ctx, id)
	}
	if errors.Is(err, catalogrepo.ErrNotFound) {
		return nil, NewError(ErrNotFound, "membership type not found")
	}
	if err != nil {
		return nil, err
	}
	if t.FirstMonthPrice.IsNegative() {
		return nil, NewError(ErrPricingUnavailable, "membership price is negative")
	}
	return t, nil
}

func (s *service) MembershipPricing(ctx context.Context) (*MembershipPricing, error) {
	t, err := s.membershipType(ctx, 0)
	if err != nil {
		return nil, err
	}
	today := s.now()
	return &MembershipPricing{
		Type:           *t,
		FirstMonth:     t.FirstMonthRange(today),
		FormattedRange: t.FirstMonthFormattedRange(today),
	}, nil
}

// CreateMembershipOrder charges exactly the plan's first month price.
func (s *service) CreateMembershipOrder(ctx context.Context, in MembershipOrderInput) (*model.MembershipOrder, error) {
	if in.CardToken == "" {
		return nil, NewError(ErrValidation, "card token is required")
	}
	t, err := s.membershipType(ctx, in.TypeID)
	if err != nil {
		return nil, err
	}

	customer, charge, err := s.pay(ctx, in.User, in.CardToken, t.FirstMonthPrice, t.Name+" membership, first month")
	if err != nil {
		return nil, err
	}

	o := &model.MembershipOrder{
		Membership: model.Membership{Type: *t},
		CustomerID: customer.ID,
		ChargeID:   charge.ID,
		Amount:     charge.Amount,
	}
	if err := s.ledger.CreateMembershipOrder(ctx, billingFor(in.User, in.Billing), o); err != nil {
		return nil, s.unreconciled(ctx, in.User, charge, "membership", err)
	}

	s.log.Info("membership order created", "order_id", o.ID, "user_id", in.User.ID, "charge_id", o.ChargeID, "amount", o.Amount.String())
	r := o.MembershipRange()
	s.publish(ctx, KeyMembershipOrderCreated, map[string]any{
		"order_id":   o.ID,
		"user_id":    in.User.ID,
		"charge_id":  o.ChargeID,
		"amount":     o.Amount,
		"type":       t.Name,
		"start_date": r.Start.Format(model.DateLayout),
		"end_date":   r.End.Format(model.DateLayout),
	})
	return o, nil
}

func (s *service) CurrentMembershipWindow(ctx context.Context, user model.User) (model.DateRange, bool, error) {
	o, err := s.ledger.LatestMembershipOrder(ctx, user.ID)
	if errors.Is(err, orderrepo.ErrNotFound) {
		return model.DateRange{}, false, nil
	}
	if err != nil {
		return model.DateRange{}, false, err
	}
	r := o.MembershipRange()
	if r.End.Before(model.Day(s.now())) {
		return model.DateRange{}, false, nil
	}
	return r, true, nil
}

func (s *service) MembershipOrders(ctx context.Context, userID int64) ([]model.MembershipOrder, error) {
	out, err := s.ledger.ListMembershipOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.MembershipOrder{}
	}
	return out, nil
}

func (s *service) MembershipOrder(ctx context.Context, userID, orderID int64) (*model.MembershipOrder, error) {
	o, owner, err := s.ledger.MembershipOrderByID(ctx, orderID)
	if errors.Is(err, orderrepo.ErrNotFound) {
		return nil, NewError(ErrNotFound, "membership order not found")
	}
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, NewError(ErrNotOwner, "order belongs to another user")
	}
	return o, nil
}
