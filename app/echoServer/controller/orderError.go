// app/echoServer/controller/orderError.go
package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	ordersvc "github.com/macs03/dynamicweb/service/order"
)

// SupportMessage is returned when a charge went through but the order was not saved.
const SupportMessage = "your payment was received but the order could not be saved; please contact support with this reference"

// OrderError writes the response for an error returned by the order service.
func OrderError(c echo.Context, log *slog.Logger, op string, err error) error {
	rid := c.Response().Header().Get(echo.HeaderXRequestID)

	switch ordersvc.Code(err) {
	case ordersvc.ErrValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	case ordersvc.ErrPayment:
		var pe *ordersvc.PaymentError
		reason := "payment failed"
		if errors.As(err, &pe) {
			reason = pe.Reason
		}
		return c.JSON(http.StatusPaymentRequired, echo.Map{"message": "payment failed", "reason": reason})
	case ordersvc.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case ordersvc.ErrNotOwner:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case ordersvc.ErrPersistenceInconsistency:
		var ie *ordersvc.InconsistencyError
		ref := rid
		if errors.As(err, &ie) {
			ref = ie.ChargeID
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": SupportMessage, "reference": ref})
	default:
		log.Error(op+" failed",
			"err", err,
			"req_id", rid,
			"path", c.Path(),
			"method", c.Request().Method,
		)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// ParseID reads a positive int64 path parameter.
func ParseID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
