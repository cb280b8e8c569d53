package ordersvc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/macs03/dynamicweb/model"
)

type CustomerDirectory interface {
	GetOrCreate(ctx context.Context, user model.User, cardToken string) (*model.Customer, error)
}

type ChargeService interface {
	Charge(ctx context.Context, amount decimal.Decimal, customer model.Customer, description string) (*model.Charge, error)
}

type PriceBook interface {
	CurrentBookingPrice(ctx context.Context) (*model.BookingPrice, error)
	MembershipTypeByName(ctx context.Context, name string) (*model.MembershipType, error)
	MembershipTypeByID(ctx context.Context, id int64) (*model.MembershipType, error)
}

// Ledger stores orders. Each Create call is atomic.
type Ledger interface {
	CreateBookingOrder(ctx context.Context, billing *model.BillingAddress, o *model.BookingOrder) error
	BookingOrderByID(ctx context.Context, id int64) (*model.BookingOrder, int64, error)
	ListBookingOrders(ctx context.Context, userID int64) ([]model.BookingOrder, error)

	CreateMembershipOrder(ctx context.Context, billing *model.BillingAddress, o *model.MembershipOrder) error
	MembershipOrderByID(ctx context.Context, id int64) (*model.MembershipOrder, int64, error)
	ListMembershipOrders(ctx context.Context, userID int64) ([]model.MembershipOrder, error)
	LatestMembershipOrder(ctx context.Context, userID int64) (*model.MembershipOrder, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Event routing keys.
const (
	KeyBookingOrderCreated    = "order.booking.created"
	KeyMembershipOrderCreated = "order.membership.created"
	KeyPaymentUnreconciled    = "payment.unreconciled"
)

// dto

type BookingOrderInput struct {
	User      model.User
	Range     model.DateRange
	CardToken string
	Billing   model.BillingAddress
	// DisplayedPrice is what the client showed the user. It is only compared
	// with the server price, never charged.
	DisplayedPrice *decimal.Decimal
}

type MembershipOrderInput struct {
	User model.User
	// TypeID selects the plan; zero means the standard plan.
	TypeID    int64
	CardToken string
	Billing   model.BillingAddress
}

type MembershipPricing struct {
	Type           model.MembershipType `json:"membership_type"`
	FirstMonth     model.DateRange      `json:"first_month"`
	FormattedRange string               `json:"formatted_range"`
}

type Service interface {
	QuoteBooking(ctx context.Context, user model.User, r model.DateRange) (*Quote, error)
	CreateBookingOrder(ctx context.Context, in BookingOrderInput) (*model.BookingOrder, error)
	BookingOrders(ctx context.Context, userID int64) ([]model.BookingOrder, error)
	BookingOrder(ctx context.Context, userID, orderID int64) (*model.BookingOrder, error)

	MembershipPricing(ctx context.Context) (*MembershipPricing, error)
	CreateMembershipOrder(ctx context.Context, in MembershipOrderInput) (*model.MembershipOrder, error)
	// CurrentMembershipWindow reports false when the user has no membership
	// order or the latest one has run out.
	CurrentMembershipWindow(ctx context.Context, user model.User) (model.DateRange, bool, error)
	MembershipOrders(ctx context.Context, userID int64) ([]model.MembershipOrder, error)
	MembershipOrder(ctx context.Context, userID, orderID int64) (*model.MembershipOrder, error)
}

type Deps struct {
	Prices    PriceBook
	Policy    FreeDayPolicy
	Customers CustomerDirectory
	Charges   ChargeService
	Ledger    Ledger
	Publisher Publisher // optional
	Log       *slog.Logger
	Now       func() time.Time
	// MaxBookingDays caps the length of a booking range.
	MaxBookingDays int
}

// DefaultMaxBookingDays is used when Deps.MaxBookingDays is not set.
const DefaultMaxBookingDays = 366

type service struct {
	prices    PriceBook
	policy    FreeDayPolicy
	customers CustomerDirectory
	charges   ChargeService
	ledger    Ledger
	pub       Publisher
	log       *slog.Logger
	now       func() time.Time
	maxDays   int
}

func New(d Deps) Service {
	s := &service{
		prices:    d.Prices,
		policy:    d.Policy,
		customers: d.Customers,
		charges:   d.Charges,
		ledger:    d.Ledger,
		pub:       d.Publisher,
		log:       d.Log,
		now:       d.Now,
		maxDays:   d.MaxBookingDays,
	}
	if s.policy == nil {
		s.policy = NoFreeDays{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.maxDays <= 0 {
		s.maxDays = DefaultMaxBookingDays
	}
	return s
}

// pay runs the customer and charge steps. Nothing is stored when it fails.
func (s *service) pay(ctx context.Context, user model.User, token string, amount decimal.Decimal, description string) (*model.Customer, *model.Charge, error) {
	customer, err := s.customers.GetOrCreate(ctx, user, token)
	if err != nil || customer == nil {
		s.log.Warn("payment customer rejected", "user_id", user.ID, "err", err)
		return nil, nil, &PaymentError{Reason: "invalid card", Err: err}
	}

	if amount.IsZero() {
		return customer, &model.Charge{ID: model.FreeChargeID, Amount: decimal.Zero}, nil
	}

	charge, err := s.charges.Charge(ctx, amount, *customer, description)
	if err != nil || charge == nil {
		reason := "payment could not be processed"
		var ur interface{ UserReason() string }
		if errors.As(err, &ur) {
			reason = ur.UserReason()
		}
		s.log.Warn("charge failed", "user_id", user.ID, "customer_id", customer.ID, "amount", amount.String(), "err", err)
		return nil, nil, &PaymentError{Reason: reason, Err: err}
	}
	return customer, charge, nil
}

// unreconciled reports a captured charge with no order behind it.
func (s *service) unreconciled(ctx context.Context, user model.User, charge *model.Charge, kind string, cause error) error {
	ie := &InconsistencyError{ChargeID: charge.ID, Amount: charge.Amount, UserID: user.ID, Err: cause}
	s.log.Error("charge captured but order not recorded",
		"kind", kind,
		"charge_id", charge.ID,
		"amount", charge.Amount.String(),
		"user_id", user.ID,
		"email", user.Email,
		"err", cause,
	)
	s.publish(ctx, KeyPaymentUnreconciled, map[string]any{
		"kind":      kind,
		"charge_id": charge.ID,
		"amount":    charge.Amount,
		"user_id":   user.ID,
		"email":     user.Email,
		"error":     cause.Error(),
	})
	return ie
}

// publish is best effort and outlives the request context.
func (s *service) publish(ctx context.Context, key string, v map[string]any) {
	if s.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	v["occurred_at"] = s.now().UTC().Format(time.RFC3339)
	if err := s.pub.PublishJSON(ctx, key, v); err != nil {
		s.log.Error("publish event failed", "key", key, "err", err)
	}
}

func billingFor(user model.User, b model.BillingAddress) *model.BillingAddress {
	b.ID = 0
	b.UserID = user.ID
	return &b
}
