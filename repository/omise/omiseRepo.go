package omiserepo

import (
	"context"
	"errors"
)

// ErrCustomerNotFound is returned when the gateway no longer knows a customer.
var ErrCustomerNotFound = errors.New("omise: customer not found")

type ChargeReq struct {
	CustomerID  string
	Amount      int64 // minor units
	Currency    string
	Description string
	Metadata    map[string]any
}

type ChargeResp struct {
	ChargeID       string
	Status         string // successful | failed | pending | reversed | expired
	Amount         int64
	Currency       string
	FailureCode    string
	FailureMessage string
}

type Repo interface {
	CreateCustomer(ctx context.Context, email, cardToken string) (customerID string, err error)
	// AttachCard makes the card behind cardToken the customer's default card.
	AttachCard(ctx context.Context, customerID, cardToken string) error
	Charge(ctx context.Context, req ChargeReq) (*ChargeResp, error)
}
