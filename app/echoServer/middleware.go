// app/echoServer/middleware.go
package echoServer

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/macs03/dynamicweb/app/echoServer/jwtx"
	"github.com/macs03/dynamicweb/model"
	ordersvc "github.com/macs03/dynamicweb/service/order"
)

func RegisterMiddlewares(e *echo.Echo, log *slog.Logger) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog(log))
}

func Slog(log *slog.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			log.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
				"ua", c.Request().UserAgent(),
			)
			return nil
		}
	}
}

// Authenticate turns the verified token claims into the request user.
func Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := jwtx.UserIDFromContext(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			email, err := jwtx.EmailFromContext(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			jwtx.SetUser(c, model.User{ID: id, Email: email})
			return next(c)
		}
	}
}

// MembershipChecker is the part of the order service the capability checks need.
type MembershipChecker interface {
	CurrentMembershipWindow(ctx context.Context, user model.User) (model.DateRange, bool, error)
}

// RequireMembership lets the request through only while the user has an
// active membership window.
func RequireMembership(svc MembershipChecker, log *slog.Logger) echo.MiddlewareFunc {
	return membershipGate(svc, log, true)
}

// RequireNotMember rejects users that already have an active membership.
func RequireNotMember(svc MembershipChecker, log *slog.Logger) echo.MiddlewareFunc {
	return membershipGate(svc, log, false)
}

func membershipGate(svc MembershipChecker, log *slog.Logger, wantMember bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := jwtx.User(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			_, active, err := svc.CurrentMembershipWindow(c.Request().Context(), u)
			if err != nil {
				log.Error("membership lookup failed", "err", err, "user_id", u.ID)
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
			}
			switch {
			case wantMember && !active:
				return c.JSON(http.StatusForbidden, echo.Map{"message": "an active membership is required"})
			case !wantMember && active:
				return c.JSON(http.StatusConflict, echo.Map{"message": "membership already active"})
			}
			return next(c)
		}
	}
}

var _ MembershipChecker = (ordersvc.Service)(nil)
