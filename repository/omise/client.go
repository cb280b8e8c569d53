package omiserepo

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
	"github.com/sony/gobreaker"

	"github.com/macs03/dynamicweb/util/httpx"
)

type client struct {
	omc *omise.Client
	cb  *gobreaker.CircuitBreaker
}

// NewClient builds a gateway client with the given keys. Calls go through a
// circuit breaker that opens after five consecutive transport failures.
func NewClient(publicKey, secretKey string) (Repo, error) {
	omc, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, err
	}
	omc.Client = httpx.Client()
	omc.SetDebug(false)
	return newClient(omc), nil
}

func newClient(omc *omise.Client) *client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "omise",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		IsSuccessful: gatewayUp,
	})
	return &client{omc: omc, cb: cb}
}

// gatewayUp reports whether err still counts as a healthy gateway.
// Declines and 4xx answers mean the gateway is up.
func gatewayUp(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var oe *omise.Error
	return errors.As(err, &oe) && oe.StatusCode < http.StatusInternalServerError
}

// exec runs call through the circuit breaker with a client bound to ctx.
func (c *client) exec(ctx context.Context, call func(omc *omise.Client) error) error {
	omc := *c.omc
	omc.WithContext(ctx)
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, call(&omc)
	})
	return err
}

func (c *client) CreateCustomer(ctx context.Context, email, cardToken string) (string, error) {
	cust := &omise.Customer{}
	op := &operations.CreateCustomer{Email: email, Card: cardToken}
	if err := c.exec(ctx, func(omc *omise.Client) error { return omc.Do(cust, op) }); err != nil {
		return "", err
	}
	if cust.ID == "" {
		return "", errors.New("omise: empty customer id")
	}
	return cust.ID, nil
}

func (c *client) AttachCard(ctx context.Context, customerID, cardToken string) error {
	cust := &omise.Customer{}
	op := &operations.UpdateCustomer{CustomerID: customerID, Card: cardToken}
	err := c.exec(ctx, func(omc *omise.Client) error { return omc.Do(cust, op) })
	var oe *omise.Error
	if errors.As(err, &oe) && oe.StatusCode == http.StatusNotFound {
		return ErrCustomerNotFound
	}
	return err
}

func (c *client) Charge(ctx context.Context, req ChargeReq) (*ChargeResp, error) {
	if req.Amount <= 0 || req.CustomerID == "" || req.Currency == "" {
		return nil, errors.New("omise: invalid charge params")
	}
	ch := &omise.Charge{}
	op := &operations.CreateCharge{
		Customer:    req.CustomerID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		Metadata:    req.Metadata,
	}
	// a charge in flight is not abandoned when the caller goes away
	ctx = context.WithoutCancel(ctx)
	if err := c.exec(ctx, func(omc *omise.Client) error { return omc.Do(ch, op) }); err != nil {
		return nil, err
	}

	out := &ChargeResp{
		ChargeID: ch.ID,
		Status:   string(ch.Status),
		Amount:   ch.Amount,
		Currency: ch.Currency,
	}
	if ch.FailureCode != nil {
		out.FailureCode = *ch.FailureCode
	}
	if ch.FailureMessage != nil {
		out.FailureMessage = *ch.FailureMessage
	}
	return out, nil
}
