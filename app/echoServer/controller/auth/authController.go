package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/macs03/dynamicweb/model"
	authsvc "github.com/macs03/dynamicweb/service/auth"
)

type Controller struct {
	Svc authsvc.Service
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

// authError maps auth service errors to responses.
func (h *Controller) authError(c echo.Context, op string, err error) error {
	switch authsvc.Code(err) {
	case authsvc.ErrEmailTaken:
		return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
	case authsvc.ErrUsernameTaken:
		return c.JSON(http.StatusConflict, echo.Map{"message": "username already taken"})
	case authsvc.ErrInvalidCreds:
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid email or password"})
	case authsvc.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
	default:
		h.Log.Error(op+" failed",
			"err", err,
			"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"path", c.Path(),
		)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// Register creates an account and signs the user in
// @Summary      Register user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  model.AuthResp
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "email/username already taken"
// @Router       /v1/users/register [post]
func (h *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := h.bind(c, &req); err != nil {
		return err
	}

	u, token, err := h.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return h.authError(c, "register", err)
	}
	return c.JSON(http.StatusCreated, model.AuthResp{Message: "registered", User: u, Token: token})
}

// Login
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  model.AuthResp
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /v1/users/login [post]
func (h *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := h.bind(c, &req); err != nil {
		return err
	}

	_, token, err := h.Svc.Login(c.Request().Context(), req)
	if err != nil {
		return h.authError(c, "login", err)
	}
	return c.JSON(http.StatusOK, model.AuthResp{Message: "login success", Token: token})
}
