package ordersvc

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// errors used by controllers

type ErrCode string

const (
	ErrValidation               ErrCode = "VALIDATION"
	ErrPayment                  ErrCode = "PAYMENT"
	ErrPersistenceInconsistency ErrCode = "PERSISTENCE_INCONSISTENCY"
	ErrNotFound                 ErrCode = "NOT_FOUND"
	ErrNotOwner                 ErrCode = "NOT_OWNER"
	ErrPricingUnavailable       ErrCode = "PRICING_UNAVAILABLE"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg == "" {
		return string(e.code)
	}
	return string(e.code) + ": " + e.msg
}
func (e codedError) Code() ErrCode { return e.code }

// NewError builds an error carrying code c.
func NewError(c ErrCode, msg string) error { return codedError{code: c, msg: msg} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// PaymentError means nothing was charged and nothing was recorded. Reason is
// shown to the user.
type PaymentError struct {
	Reason string
	Err    error
}

func (e *PaymentError) Error() string { return "payment failed: " + e.Reason }
func (e *PaymentError) Code() ErrCode { return ErrPayment }
func (e *PaymentError) Unwrap() error { return e.Err }

// InconsistencyError means the customer was charged but the order could not
// be recorded. It needs manual reconciliation and must not be retried.
type InconsistencyError struct {
	ChargeID string
	Amount   decimal.Decimal
	UserID   int64
	Err      error
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("charge %s of %s for user %d not recorded: %v", e.ChargeID, e.Amount, e.UserID, e.Err)
}
func (e *InconsistencyError) Code() ErrCode { return ErrPersistenceInconsistency }
func (e *InconsistencyError) Unwrap() error { return e.Err }
