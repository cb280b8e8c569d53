package booking

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/macs03/dynamicweb/app/echoServer/controller"
	"github.com/macs03/dynamicweb/app/echoServer/jwtx"
	ordersvc "github.com/macs03/dynamicweb/service/order"
)

type Controller struct {
	Svc ordersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func (h *Controller) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		h.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		h.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	return nil
}

// Quote prices a booking range for the current user
// @Summary      Quote booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  QuoteReq  true  "Booking range"
// @Success      200  {object}  ordersvc.Quote
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any "membership required"
// @Router       /v1/bookings/quote [post]
func (h *Controller) Quote(c echo.Context) error {
	var req QuoteReq
	if err := h.bind(c, &req); err != nil {
		return err
	}
	u, _ := jwtx.User(c)

	q, err := h.Svc.QuoteBooking(c.Request().Context(), u, req.Range())
	if err != nil {
		return controller.OrderError(c, h.Log, "quote booking", err)
	}
	return c.JSON(http.StatusOK, q)
}

// Create charges the card and records the booking
// @Summary      Create booking order
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  CreateOrderReq  true  "Booking order"
// @Success      201  {object}  OrderResp
// @Failure      400  {object}  map[string]any
// @Failure      402  {object}  map[string]any "payment failed"
// @Failure      403  {object}  map[string]any "membership required"
// @Failure      500  {object}  map[string]any
// @Router       /v1/bookings/orders [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateOrderReq
	if err := h.bind(c, &req); err != nil {
		return err
	}
	u, _ := jwtx.User(c)

	o, err := h.Svc.CreateBookingOrder(c.Request().Context(), ordersvc.BookingOrderInput{
		User:           u,
		Range:          req.Range(),
		CardToken:      req.CardToken,
		Billing:        req.Billing,
		DisplayedPrice: req.DisplayedPrice,
	})
	if err != nil {
		return controller.OrderError(c, h.Log, "create booking order", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "booking created",
		"order":   toResp(*o),
	})
}

// GET /v1/bookings/orders
func (h *Controller) List(c echo.Context) error {
	u, _ := jwtx.User(c)
	rows, err := h.Svc.BookingOrders(c.Request().Context(), u.ID)
	if err != nil {
		return controller.OrderError(c, h.Log, "list booking orders", err)
	}
	out := make([]OrderResp, 0, len(rows))
	for _, o := range rows {
		out = append(out, toResp(o))
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/bookings/orders/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	u, _ := jwtx.User(c)

	o, err := h.Svc.BookingOrder(c.Request().Context(), u.ID, id)
	if err != nil {
		return controller.OrderError(c, h.Log, "booking order detail", err)
	}
	return c.JSON(http.StatusOK, toResp(*o))
}
