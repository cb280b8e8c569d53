package membership

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

// Pricing shows the standard plan and the period a purchase today covers
// @Summary      Membership pricing
// @Tags         memberships
// @Produce      json
// @Success      200  {object}  ordersvc.MembershipPricing
// @Failure      404  {object}  map[string]any
// @Router       /v1/memberships/pricing [get]
func (h *Controller) Pricing(c echo.Context) error {
	p, err := h.Svc.MembershipPricing(c.Request().Context())
	if err != nil {
		return controller.OrderError(c, h.Log, "membership pricing", err)
	}
	return c.JSON(http.StatusOK, p)
}

// Create charges the first month and activates the membership
// @Summary      Create membership order
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  CreateOrderReq  true  "Membership order"
// @Success      201  {object}  OrderResp
// @Failure      400  {object}  map[string]any
// @Failure      402  {object}  map[string]any "payment failed"
// @Failure      409  {object}  map[string]any "membership already active"
// @Failure      500  {object}  map[string]any
// @Router       /v1/memberships/orders [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateOrderReq
	if err := c.Bind(&req); err != nil {
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
	u, _ := jwtx.User(c)

	o, err := h.Svc.CreateMembershipOrder(c.Request().Context(), ordersvc.MembershipOrderInput{
		User:      u,
		TypeID:    req.TypeID,
		CardToken: req.CardToken,
		Billing:   req.Billing,
	})
	if err != nil {
		return controller.OrderError(c, h.Log, "create membership order", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "membership activated",
		"order":   toResp(*o),
	})
}

// GET /v1/memberships/orders
func (h *Controller) List(c echo.Context) error {
	u, _ := jwtx.User(c)
	rows, err := h.Svc.MembershipOrders(c.Request().Context(), u.ID)
	if err != nil {
		return controller.OrderError(c, h.Log, "list membership orders", err)
	}
	out := make([]OrderResp, 0, len(rows))
	for _, o := range rows {
		out = append(out, toResp(o))
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/memberships/orders/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	u, _ := jwtx.User(c)

	o, err := h.Svc.MembershipOrder(c.Request().Context(), u.ID, id)
	if err != nil {
		return controller.OrderError(c, h.Log, "membership order detail", err)
	}
	return c.JSON(http.StatusOK, toResp(*o))
}
