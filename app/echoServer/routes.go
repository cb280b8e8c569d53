package echoServer

import (
	"log/slog"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/macs03/dynamicweb/app/echoServer/controller/auth"
	"github.com/macs03/dynamicweb/app/echoServer/controller/booking"
	"github.com/macs03/dynamicweb/app/echoServer/controller/membership"
	"github.com/macs03/dynamicweb/app/echoServer/jwtx"
	jwtutil "github.com/macs03/dynamicweb/util/jwt"
)

type C struct {
	Auth       *auth.Controller
	Booking    *booking.Controller
	Membership *membership.Controller
	// Members backs the membership capability checks.
	Members   MembershipChecker
	JWTSecret string
	Log       *slog.Logger
}

func Register(e *echo.Echo, c C) {
	log := c.Log
	if log == nil {
		log = slog.Default()
	}

	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)
	pub.GET("/memberships/pricing", c.Membership.Pricing)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		ContextKey:  jwtx.ClaimsKey,
		TokenLookup: "header:Authorization",
		ParseTokenFunc: func(_ echo.Context, auth string) (interface{}, error) {
			return jwtutil.ParseAuth(auth, c.JWTSecret)
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			log.Warn("auth rejected",
				"err", err,
				"req_id", ctx.Response().Header().Get(echo.HeaderXRequestID),
				"ip", ctx.RealIP(),
			)
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		},
	}))
	authed.Use(Authenticate())

	member := RequireMembership(c.Members, log)
	notMember := RequireNotMember(c.Members, log)

	// Memberships
	authed.POST("/memberships/orders", c.Membership.Create, notMember)
	authed.GET("/memberships/orders", c.Membership.List)
	authed.GET("/memberships/orders/:id", c.Membership.Detail)

	// Bookings
	authed.POST("/bookings/quote", c.Booking.Quote, member)
	authed.POST("/bookings/orders", c.Booking.Create, member)
	authed.GET("/bookings/orders", c.Booking.List)
	authed.GET("/bookings/orders/:id", c.Booking.Detail)
}
